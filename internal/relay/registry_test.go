package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/identity"
)

type fakeMember struct {
	mu       sync.Mutex
	received []string
	fail     bool
}

func (f *fakeMember) WriteText(payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("write to dead peer")
	}
	f.received = append(f.received, payload)
	return nil
}

func (f *fakeMember) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

func sequentialAssigner() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("user-%03d", n)
	}
}

func TestRegistryJoinCreatesRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(sequentialAssigner())
	m := &fakeMember{}

	req.Zero(reg.RoomCount())

	name, err := reg.Join("lobby", m)
	req.NoError(err)
	req.Equal("user-001", name)
	req.Equal(1, reg.RoomCount())
	req.Equal(1, reg.MemberCount("lobby"))
}

func TestRegistryJoinTwiceFails(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(sequentialAssigner())
	m := &fakeMember{}

	_, err := reg.Join("lobby", m)
	req.NoError(err)

	// Rejoining the same room and joining a second room are both
	// invalid while the first membership is live.
	_, err = reg.Join("lobby", m)
	req.ErrorIs(err, ErrAlreadyJoined)
	_, err = reg.Join("other", m)
	req.ErrorIs(err, ErrAlreadyJoined)

	req.Equal(1, reg.MemberCount("lobby"))
	req.Zero(reg.MemberCount("other"))
}

func TestRegistryLastLeaveRemovesRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(sequentialAssigner())
	a := &fakeMember{}
	b := &fakeMember{}

	_, err := reg.Join("lobby", a)
	req.NoError(err)
	_, err = reg.Join("lobby", b)
	req.NoError(err)
	req.Equal(2, reg.MemberCount("lobby"))

	req.NoError(reg.Leave("lobby", a))
	req.Equal(1, reg.RoomCount())
	req.Equal(1, reg.MemberCount("lobby"))

	req.NoError(reg.Leave("lobby", b))
	req.Zero(reg.RoomCount())
	req.Zero(reg.MemberCount("lobby"))
}

func TestRegistryLeaveNonMemberFails(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(sequentialAssigner())
	a := &fakeMember{}
	b := &fakeMember{}

	req.ErrorIs(reg.Leave("lobby", a), ErrNotMember)

	_, err := reg.Join("lobby", a)
	req.NoError(err)
	req.ErrorIs(reg.Leave("lobby", b), ErrNotMember)
	req.ErrorIs(reg.Leave("other", a), ErrNotMember)
	req.Equal(1, reg.MemberCount("lobby"))

	req.NoError(reg.Leave("lobby", a))
	req.ErrorIs(reg.Leave("lobby", a), ErrNotMember)
}

func TestRegistryRejoinAfterLeave(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(sequentialAssigner())
	m := &fakeMember{}

	first, err := reg.Join("lobby", m)
	req.NoError(err)
	req.NoError(reg.Leave("lobby", m))

	second, err := reg.Join("lobby", m)
	req.NoError(err)
	req.NotEqual(first, second, "a rejoined connection gets a fresh identity")
}

func TestRegistryMembersIsSnapshot(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(sequentialAssigner())
	a := &fakeMember{}
	b := &fakeMember{}

	_, err := reg.Join("lobby", a)
	req.NoError(err)
	_, err = reg.Join("lobby", b)
	req.NoError(err)

	snapshot := reg.Members("lobby")
	req.Len(snapshot, 2)

	req.NoError(reg.Leave("lobby", a))
	req.Len(snapshot, 2, "snapshot is unaffected by later leaves")
	req.Len(reg.Members("lobby"), 1)

	req.Empty(reg.Members("missing"))
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(identity.New)

	const n = 64
	members := make([]*fakeMember, n)
	for i := range members {
		members[i] = &fakeMember{}
	}

	var wg sync.WaitGroup
	for _, m := range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Join("stress", m)
			req.NoError(err)
		}()
	}
	wg.Wait()
	req.Equal(n, reg.MemberCount("stress"))

	for _, m := range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req.NoError(reg.Leave("stress", m))
		}()
	}
	wg.Wait()

	req.Zero(reg.MemberCount("stress"))
	req.Zero(reg.RoomCount())
}

func TestRegistryIsolatesRooms(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(sequentialAssigner())
	a := &fakeMember{}
	b := &fakeMember{}

	_, err := reg.Join("red", a)
	req.NoError(err)
	_, err = reg.Join("blue", b)
	req.NoError(err)

	req.Equal(2, reg.RoomCount())
	req.Equal([]Member{a}, reg.Members("red"))
	req.Equal([]Member{b}, reg.Members("blue"))
}
