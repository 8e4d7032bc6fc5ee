package signaling

import "sync"

// Occupant is a registry snapshot entry: one connection currently in a room.
type Occupant struct {
	Conn   Conn
	UserID string
	Role   Role
}

type member struct {
	conn   Conn
	userID string
	roomID string
	role   Role
}

// Registry tracks live room membership for the whole process: an ordered
// occupant list per room and a reverse lookup from connection to its room
// and role.
//
// A single mutex serializes every mutation, so the role decided by
// roleForOccupancy is committed atomically with the registration itself and
// two near-simultaneous joins to the same room can never both become host.
type Registry struct {
	mu    sync.Mutex
	rooms map[string][]*member
	conns map[string]*member
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string][]*member),
		conns: make(map[string]*member),
	}
}

// Register adds conn to roomID, assigning its role from the occupancy at
// the instant of registration. It returns the assigned role, whether the
// joiner initiates the offer, and a snapshot of the occupants that were
// already present so the caller can notify them without re-locking.
//
// Registering a connection that is already registered is a no-op and
// reports ok=false.
func (r *Registry) Register(roomID string, conn Conn, userID string) (role Role, initiator bool, others []Occupant, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[conn.ID()]; exists {
		return "", false, nil, false
	}

	occupants := r.rooms[roomID]
	role, initiator = roleForOccupancy(len(occupants))
	others = snapshot(occupants)

	m := &member{conn: conn, userID: userID, roomID: roomID, role: role}
	r.rooms[roomID] = append(occupants, m)
	r.conns[conn.ID()] = m

	return role, initiator, others, true
}

// Unregister removes connID from whichever room it occupies and returns the
// prior association so the caller can notify the room. It is idempotent:
// calling it for an unknown connection is a no-op with ok=false.
func (r *Registry) Unregister(connID string) (roomID, userID string, role Role, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.conns[connID]
	if !exists {
		return "", "", "", false
	}
	delete(r.conns, connID)

	occupants := r.rooms[m.roomID]
	for i, o := range occupants {
		if o == m {
			occupants = append(occupants[:i], occupants[i+1:]...)
			break
		}
	}

	if len(occupants) == 0 {
		// nothing depends on an empty room persisting
		delete(r.rooms, m.roomID)
	} else {
		r.rooms[m.roomID] = occupants
	}

	return m.roomID, m.userID, m.role, true
}

// Lookup returns the current room association of connID.
func (r *Registry) Lookup(connID string) (roomID, userID string, role Role, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.conns[connID]
	if !exists {
		return "", "", "", false
	}

	return m.roomID, m.userID, m.role, true
}

// OccupantsExcluding returns every occupant of roomID except connID; the
// broadcast target set.
func (r *Registry) OccupantsExcluding(roomID, connID string) []Occupant {
	r.mu.Lock()
	defer r.mu.Unlock()

	var others []Occupant
	for _, m := range r.rooms[roomID] {
		if m.conn.ID() == connID {
			continue
		}
		others = append(others, Occupant{Conn: m.conn, UserID: m.userID, Role: m.role})
	}

	return others
}

// Occupant returns targetID if it currently occupies roomID. A missing
// target is not an error: directed signaling to a departed peer is silently
// dropped by the caller.
func (r *Registry) Occupant(roomID, targetID string) (Occupant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.conns[targetID]
	if !exists || m.roomID != roomID {
		return Occupant{}, false
	}

	return Occupant{Conn: m.conn, UserID: m.userID, Role: m.role}, true
}

// RoomSize returns the number of occupants of roomID.
func (r *Registry) RoomSize(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rooms[roomID])
}

func snapshot(occupants []*member) []Occupant {
	if len(occupants) == 0 {
		return nil
	}

	others := make([]Occupant, 0, len(occupants))
	for _, m := range occupants {
		others = append(others, Occupant{Conn: m.conn, UserID: m.userID, Role: m.role})
	}

	return others
}
