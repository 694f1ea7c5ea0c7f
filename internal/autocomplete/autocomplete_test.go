package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	return s
}

func TestSuggestPythonPatterns(t *testing.T) {
	s := newService(t)

	cases := []struct {
		name string
		code string
		want string
	}{
		{"def", "def ", "def function_name(param1, param2):\n    pass"},
		{"class", "class My", "class ClassName:\n    def __init__(self):\n        pass"},
		{"for", "for i", "for item in iterable:\n    pass"},
		{"try", "try:", "try:\n    pass\nexcept Exception as e:\n    pass"},
		{"import", "import nu", "import numpy as np"},
		{"print", "print(", "print(\"Hello, World!\")"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Suggest(tc.code, len(tc.code), "python")
			assert.Equal(t, tc.want, got.Suggestion)
			assert.Equal(t, 0.85, got.Confidence)
			assert.Equal(t, "snippet", got.Type)
		})
	}
}

func TestSuggestJavascriptPatterns(t *testing.T) {
	s := newService(t)

	got := s.Suggest("function ", 9, "javascript")
	assert.Equal(t, "function functionName(params) {\n  return null;\n}", got.Suggestion)
	assert.Equal(t, "snippet", got.Type)

	got = s.Suggest("const ", 6, "javascript")
	assert.Equal(t, "const variableName = value;", got.Suggestion)
}

func TestSuggestOnlyLooksLeftOfCursor(t *testing.T) {
	s := newService(t)

	code := "def \nprint(1)"
	got := s.Suggest(code, 4, "python")
	assert.Equal(t, "def function_name(param1, param2):\n    pass", got.Suggestion)
}

func TestSuggestPythonHeuristics(t *testing.T) {
	s := newService(t)

	got := s.Suggest("items = [", 9, "python")
	assert.Equal(t, "[x for x in iterable if condition]", got.Suggestion)
	assert.Equal(t, 0.75, got.Confidence)
	assert.Equal(t, "snippet", got.Type)

	got = s.Suggest("    def helper(x)", 17, "python")
	assert.Equal(t, "def method_name(self, param):\n        pass", got.Suggestion)
	assert.Equal(t, 0.8, got.Confidence)
	assert.Equal(t, "method", got.Type)

	got = s.Suggest("import os, sys", 14, "python")
	assert.Equal(t, "from typing import List, Dict, Optional", got.Suggestion)
	assert.Equal(t, 0.7, got.Confidence)
	assert.Equal(t, "import", got.Type)
}

func TestSuggestFallbacks(t *testing.T) {
	s := newService(t)

	got := s.Suggest("x = 1", 5, "python")
	assert.Equal(t, "# TODO: Implement this function", got.Suggestion)
	assert.Equal(t, 0.5, got.Confidence)
	assert.Equal(t, "comment", got.Type)

	got = s.Suggest("x = 1", 5, "typescript")
	assert.Equal(t, "// TODO: Implement this function", got.Suggestion)

	got = s.Suggest("x = 1", 5, "ruby")
	assert.Equal(t, "# Add your code here", got.Suggestion)
}

func TestSuggestClampsCursor(t *testing.T) {
	s := newService(t)

	got := s.Suggest("def ", 999, "python")
	assert.Equal(t, "snippet", got.Type)

	got = s.Suggest("def ", -5, "python")
	assert.Equal(t, "comment", got.Type)
}
