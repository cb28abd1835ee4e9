package game

import (
	"strconv"
	"sync"

	"github.com/pilfergame/pilfer-backend/internal"
)

// =============================================================================
// ROOM REGISTRY
// =============================================================================

// Registry is the authoritative in-memory store of rooms. All match
// mutation goes through Update so a room only ever changes as a whole unit;
// no other component keeps a long-lived room reference.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*internal.Room
	seq   int
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*internal.Room)}
}

// NextId hands out monotonically increasing room ids, unique for the
// process lifetime, starting at "0".
func (r *Registry) NextId() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := strconv.Itoa(r.seq)
	r.seq++
	return id
}

// Get returns a deep copy of the room, so callers can read it without
// racing the write path. The second result is false for an unknown id.
func (r *Registry) Get(roomId string) (*internal.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomId]
	if !ok {
		return nil, false
	}
	return room.Clone(), true
}

// Put inserts or replaces a room under its id.
func (r *Registry) Put(room *internal.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.Id] = room
}

// Update runs fn against the stored room while holding the write lock, so
// the whole read-modify-write is atomic with respect to every other
// handler and timer firing. It reports whether the room existed and passes
// fn's error through.
func (r *Registry) Update(roomId string, fn func(room *internal.Room) error) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomId]
	if !ok {
		return false, nil
	}
	return true, fn(room)
}

// MarkFinished flips the finished flag; it reports whether the room was
// present. Finished rooms are retained.
func (r *Registry) MarkFinished(roomId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomId]
	if !ok {
		return false
	}
	room.Finished = true
	return true
}

// Delete evicts a room outright.
func (r *Registry) Delete(roomId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomId)
}

// Len returns the number of stored rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
