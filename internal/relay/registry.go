package relay

import (
	"errors"
	"sync"
)

var (
	// ErrAlreadyJoined reports a join for a connection that is still a
	// member of a room. The session loop joins exactly once, so hitting
	// this means a lifecycle defect upstream.
	ErrAlreadyJoined = errors.New("relay: connection already joined a room")

	// ErrNotMember reports a leave for a connection that is not a member
	// of the given room.
	ErrNotMember = errors.New("relay: connection is not a member of the room")
)

// Member is the subset of a connection the registry and broadcaster
// need: a way to deliver one text frame. Sessions own their concrete
// connections; the registry only references them.
type Member interface {
	WriteText(payload string) error
}

// Registry is the process-wide mapping from room identifier to the set
// of member connections. Rooms exist only while they have at least one
// member: the entry is created on first join and deleted on last leave.
// All methods are safe for concurrent use; the lock covers map
// manipulation only, never delivery I/O.
type Registry struct {
	assign func() string

	mu         sync.RWMutex
	rooms      map[string]map[Member]struct{}
	identities map[Member]string
}

// NewRegistry constructs an empty registry. Display identities for
// joining members are drawn from assign.
func NewRegistry(assign func() string) *Registry {
	return &Registry{
		assign:     assign,
		rooms:      make(map[string]map[Member]struct{}),
		identities: make(map[Member]string),
	}
}

// Join adds the connection to the room, creating the room entry if
// absent, and returns the display identity assigned to it. A connection
// may be a member of at most one room; joining again before leaving
// returns ErrAlreadyJoined.
func (r *Registry) Join(roomID string, m Member) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.identities[m]; ok {
		return "", ErrAlreadyJoined
	}

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[Member]struct{})
		r.rooms[roomID] = members
	}
	members[m] = struct{}{}

	name := r.assign()
	r.identities[m] = name
	return name, nil
}

// Leave removes the connection from the room and discards its identity.
// The room entry is deleted when its last member leaves. Leaving a room
// the connection is not a member of returns ErrNotMember and leaves the
// registry untouched.
func (r *Registry) Leave(roomID string, m Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return ErrNotMember
	}
	if _, ok := members[m]; !ok {
		return ErrNotMember
	}

	delete(members, m)
	delete(r.identities, m)
	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
	return nil
}

// Members returns a snapshot of the room's current members. The slice
// is independent of the registry's internal state, so callers may
// iterate it while joins and leaves proceed concurrently. An unknown
// room yields an empty snapshot.
func (r *Registry) Members(roomID string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Member, 0, len(r.rooms[roomID]))
	for m := range r.rooms[roomID] {
		members = append(members, m)
	}
	return members
}

// RoomCount reports how many rooms currently have members.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// MemberCount reports the number of members in the given room.
func (r *Registry) MemberCount(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}
