package session

import (
	"hash/fnv"
	"sync"

	"codepair/internal/metrics"
)

const shardCount = 16

// Registry is the source of truth for which clients are attached to
// which room. It is sharded by room id so concurrent join/leave traffic
// in unrelated rooms never contends on one lock.
type Registry struct {
	shards [shardCount]shard
}

type shard struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].rooms = make(map[string]map[*Client]struct{})
	}
	return r
}

func (r *Registry) shard(roomID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(roomID))
	return &r.shards[h.Sum32()%shardCount]
}

// Join registers the client under roomID, creating the room's set on
// first join. Each session joins exactly once.
func (r *Registry) Join(roomID string, c *Client) {
	s := r.shard(roomID)
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		s.rooms[roomID] = members
		metrics.RoomsActive.Inc()
	}
	members[c] = struct{}{}
}

// Leave removes the client from roomID's set. The room key itself is
// dropped when the last member leaves, so an abandoned room id holds no
// memory. Leaving a room never joined is a no-op.
func (r *Registry) Leave(roomID string, c *Client) {
	s := r.shard(roomID)
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.rooms[roomID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(s.rooms, roomID)
		metrics.RoomsActive.Dec()
	}
}

// MemberCount returns the number of live clients in the room, 0 if the
// room id is absent.
func (r *Registry) MemberCount(roomID string) int {
	s := r.shard(roomID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms[roomID])
}

// Snapshot returns a point-in-time copy of the room's member set for
// iteration outside the lock.
func (r *Registry) Snapshot(roomID string) []*Client {
	s := r.shard(roomID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := s.rooms[roomID]
	out := make([]*Client, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}
