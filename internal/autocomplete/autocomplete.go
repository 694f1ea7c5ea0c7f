package autocomplete

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"codepair/internal/models"
)

// embeds all .yaml files in the patterns folder into the binary at compile time
//
//go:embed patterns/*.yaml
var patternFS embed.FS

const (
	patternConfidence  = 0.85
	fallbackConfidence = 0.5
	defaultSuggestion  = "# Add your code here"
)

type patternFile struct {
	Language string `yaml:"language"`
	Fallback string `yaml:"fallback"`
	Patterns []struct {
		Match      string `yaml:"match"`
		Suggestion string `yaml:"suggestion"`
	} `yaml:"patterns"`
}

type pattern struct {
	re         *regexp.Regexp
	suggestion string
}

// Service produces static snippet suggestions by matching the current
// line against per-language pattern tables.
type Service struct {
	tables    map[string][]pattern
	fallbacks map[string]string
}

// New loads and compiles the embedded pattern tables.
func New() (*Service, error) {
	s := &Service{
		tables:    make(map[string][]pattern),
		fallbacks: make(map[string]string),
	}
	entries, err := patternFS.ReadDir("patterns")
	if err != nil {
		return nil, fmt.Errorf("failed to read patterns directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := patternFS.ReadFile("patterns/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read pattern file %s: %w", entry.Name(), err)
		}
		var file patternFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse pattern file %s: %w", entry.Name(), err)
		}
		table := make([]pattern, 0, len(file.Patterns))
		for _, p := range file.Patterns {
			re, err := regexp.Compile(p.Match)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q in %s: %w", p.Match, entry.Name(), err)
			}
			table = append(table, pattern{re: re, suggestion: p.Suggestion})
		}
		s.tables[file.Language] = table
		s.fallbacks[file.Language] = file.Fallback
	}
	return s, nil
}

// Suggest returns a snippet for the code to the left of the cursor.
func (s *Service) Suggest(code string, cursorPosition int, language string) models.AutocompleteResponse {
	if cursorPosition < 0 {
		cursorPosition = 0
	}
	if cursorPosition > len(code) {
		cursorPosition = len(code)
	}
	lines := strings.Split(code[:cursorPosition], "\n")
	currentLine := lines[len(lines)-1]

	table := s.tables[language]
	if language != models.DefaultLanguage && len(table) == 0 {
		table = s.tables["javascript"]
	}
	for _, p := range table {
		if p.re.MatchString(currentLine) {
			return models.AutocompleteResponse{
				Suggestion: p.suggestion,
				Confidence: patternConfidence,
				Type:       "snippet",
			}
		}
	}

	if language == models.DefaultLanguage {
		if resp, ok := pythonHeuristics(currentLine); ok {
			return resp
		}
	}

	if fallback, ok := s.fallbacks[language]; ok {
		return models.AutocompleteResponse{
			Suggestion: fallback,
			Confidence: fallbackConfidence,
			Type:       "comment",
		}
	}
	return models.AutocompleteResponse{
		Suggestion: defaultSuggestion,
		Confidence: fallbackConfidence,
		Type:       "comment",
	}
}

// pythonHeuristics covers python contexts the pattern table misses.
func pythonHeuristics(currentLine string) (models.AutocompleteResponse, bool) {
	if strings.Contains(currentLine, "[") && !strings.Contains(currentLine, "for") {
		return models.AutocompleteResponse{
			Suggestion: "[x for x in iterable if condition]",
			Confidence: 0.75,
			Type:       "snippet",
		}, true
	}
	if strings.Contains(currentLine, "    def ") || strings.Contains(currentLine, "\tdef ") {
		return models.AutocompleteResponse{
			Suggestion: "def method_name(self, param):\n        pass",
			Confidence: 0.8,
			Type:       "method",
		}, true
	}
	trimmed := strings.TrimSpace(currentLine)
	if strings.HasPrefix(trimmed, "import") || strings.HasPrefix(trimmed, "from") {
		return models.AutocompleteResponse{
			Suggestion: "from typing import List, Dict, Optional",
			Confidence: 0.7,
			Type:       "import",
		}, true
	}
	return models.AutocompleteResponse{}, false
}
