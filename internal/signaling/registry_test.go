package signaling

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopConn struct {
	id string
}

func (c *nopConn) ID() string { return c.id }

func (c *nopConn) Write(payload []byte) error { return nil }

func TestRegisterAssignsRolesInJoinOrder(t *testing.T) {
	r := NewRegistry()

	role, initiator, others, ok := r.Register("r1", &nopConn{id: "a"}, "user-a")
	assert.True(t, ok)
	assert.True(t, initiator)
	assert.Equal(t, RoleHost, role)
	assert.Empty(t, others)

	role, initiator, others, ok = r.Register("r1", &nopConn{id: "b"}, "user-b")
	assert.True(t, ok)
	assert.False(t, initiator)
	assert.Equal(t, RoleGuest, role)
	assert.Len(t, others, 1)
	assert.Equal(t, RoleHost, others[0].Role)

	role, _, others, ok = r.Register("r1", &nopConn{id: "c"}, "user-c")
	assert.True(t, ok)
	assert.Equal(t, RoleSpectator, role)
	assert.Len(t, others, 2)
}

func TestRegisterDuplicateConnectionIsNoop(t *testing.T) {
	r := NewRegistry()
	conn := &nopConn{id: "a"}

	_, _, _, ok := r.Register("r1", conn, "user-a")
	assert.True(t, ok)

	_, _, _, ok = r.Register("r1", conn, "user-a")
	assert.False(t, ok)
	assert.Equal(t, 1, r.RoomSize("r1"))
}

func TestConcurrentJoinsElectSingleHostAndGuest(t *testing.T) {
	const joiners = 50

	r := NewRegistry()
	roles := make(chan Role, joiners)

	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("conn-%d", i)
			role, _, _, ok := r.Register("contested", &nopConn{id: id}, id)
			assert.True(t, ok)
			roles <- role
		}(i)
	}
	wg.Wait()
	close(roles)

	var hosts, guests, spectators int
	for role := range roles {
		switch role {
		case RoleHost:
			hosts++
		case RoleGuest:
			guests++
		case RoleSpectator:
			spectators++
		}
	}

	assert.Equal(t, 1, hosts)
	assert.Equal(t, 1, guests)
	assert.Equal(t, joiners-2, spectators)
}

func TestUnregisterReturnsPriorAssociation(t *testing.T) {
	r := NewRegistry()
	r.Register("r1", &nopConn{id: "a"}, "user-a")
	r.Register("r1", &nopConn{id: "b"}, "user-b")

	roomID, userID, role, ok := r.Unregister("b")
	assert.True(t, ok)
	assert.Equal(t, "r1", roomID)
	assert.Equal(t, "user-b", userID)
	assert.Equal(t, RoleGuest, role)
	assert.Equal(t, 1, r.RoomSize("r1"))
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("r1", &nopConn{id: "a"}, "user-a")

	_, _, _, ok := r.Unregister("a")
	assert.True(t, ok)

	_, _, _, ok = r.Unregister("a")
	assert.False(t, ok)

	_, _, _, ok = r.Unregister("never-joined")
	assert.False(t, ok)
}

func TestEmptyRoomIsCollectedOnLastDeparture(t *testing.T) {
	r := NewRegistry()
	r.Register("r1", &nopConn{id: "a"}, "user-a")
	r.Register("r1", &nopConn{id: "b"}, "user-b")
	r.Unregister("a")
	r.Unregister("b")

	assert.Equal(t, 0, r.RoomSize("r1"))

	// a fresh join to the collected room starts a new host election
	role, initiator, _, ok := r.Register("r1", &nopConn{id: "c"}, "user-c")
	assert.True(t, ok)
	assert.True(t, initiator)
	assert.Equal(t, RoleHost, role)
}

func TestOccupantsExcludingSkipsTheSender(t *testing.T) {
	r := NewRegistry()
	r.Register("r1", &nopConn{id: "a"}, "user-a")
	r.Register("r1", &nopConn{id: "b"}, "user-b")
	r.Register("r2", &nopConn{id: "c"}, "user-c")

	others := r.OccupantsExcluding("r1", "a")
	assert.Len(t, others, 1)
	assert.Equal(t, "b", others[0].Conn.ID())
}

func TestOccupantRejectsCrossRoomTargets(t *testing.T) {
	r := NewRegistry()
	r.Register("r1", &nopConn{id: "a"}, "user-a")
	r.Register("r2", &nopConn{id: "b"}, "user-b")

	_, found := r.Occupant("r1", "b")
	assert.False(t, found)

	occupant, found := r.Occupant("r2", "b")
	assert.True(t, found)
	assert.Equal(t, "user-b", occupant.UserID)
}

func TestRoleForOccupancy(t *testing.T) {
	role, initiator := roleForOccupancy(0)
	assert.Equal(t, RoleHost, role)
	assert.True(t, initiator)

	role, initiator = roleForOccupancy(1)
	assert.Equal(t, RoleGuest, role)
	assert.False(t, initiator)

	for _, n := range []int{2, 3, 10} {
		role, initiator = roleForOccupancy(n)
		assert.Equal(t, RoleSpectator, role)
		assert.False(t, initiator)
	}
}
