package signaling

// Role is the part a connection plays in a room's peer negotiation.
type Role string

const (
	// RoleHost is the first participant; it originates the WebRTC offer.
	RoleHost Role = "host"
	// RoleGuest is the second participant; it answers the offer.
	RoleGuest Role = "guest"
	// RoleSpectator receives room broadcasts but takes no part in the
	// peer-to-peer negotiation.
	RoleSpectator Role = "spectator"
)

// roleForOccupancy picks the role for a joining connection from the number
// of occupants already in the room. Must be evaluated under the registry
// lock that commits the registration.
func roleForOccupancy(occupants int) (role Role, initiator bool) {
	switch occupants {
	case 0:
		return RoleHost, true
	case 1:
		return RoleGuest, false
	default:
		return RoleSpectator, false
	}
}
