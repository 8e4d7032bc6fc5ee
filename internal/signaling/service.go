package signaling

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vivekkatkar/PrepSync/internal/telemetry"
)

// RoomChecker reports whether a room token was actually issued. Backed by
// the interviews store; the relay itself keeps no room records.
type RoomChecker interface {
	RoomExists(ctx context.Context, roomID string) (bool, error)
}

// Service is the connection lifecycle manager. It orchestrates join, leave
// and disconnect over the registry and relays signaling payloads and room
// events between occupants.
type Service struct {
	registry *Registry
	rooms    RoomChecker
}

func NewService(registry *Registry, rooms RoomChecker) *Service {
	return &Service{
		registry: registry,
		rooms:    rooms,
	}
}

// HandleMessage parses one raw client message and dispatches it. Malformed
// and unknown messages are logged and dropped without a reply: signaling is
// best-effort and the endpoints' own renegotiation is the recovery path.
func (s *Service) HandleMessage(ctx context.Context, conn Conn, raw []byte) {
	msg, err := MessageFromReader(bytes.NewReader(raw))
	if err != nil {
		log.Warn().Err(err).Str("service", "signaling").Str("connID", conn.ID()).Msg("drop client message")
		return
	}

	telemetry.SignalingMessageReceived(string(msg.GetEvent()))

	switch m := msg.(type) {
	case *JoinRoom:
		s.Join(ctx, conn, m.RoomID, m.UserID)
	case *Signal:
		payload, err := newSignalDelivery(EventSignal, "signalData", m.SignalData, conn.ID())
		s.relay(conn, m.TargetSocketID, payload, err)
	case *Offer:
		payload, err := newSignalDelivery(EventOffer, "offer", m.Offer, conn.ID())
		s.relay(conn, m.TargetSocketID, payload, err)
	case *Answer:
		payload, err := newSignalDelivery(EventAnswer, "answer", m.Answer, conn.ID())
		s.relay(conn, m.TargetSocketID, payload, err)
	case *ICECandidate:
		payload, err := newSignalDelivery(EventICECandidate, "candidate", m.Candidate, conn.ID())
		s.relay(conn, m.TargetSocketID, payload, err)
	case *ChatMessage:
		payload, err := NewChatDelivery(m.Message, m.UserName, conn.ID(), time.Now())
		s.broadcast(conn, payload, err)
	case *RecordingStarted:
		_, userID, _, ok := s.registry.Lookup(conn.ID())
		if !ok {
			return
		}
		payload, err := NewRecordingStarted(userID)
		s.broadcast(conn, payload, err)
	case *RecordingStopped:
		_, userID, _, ok := s.registry.Lookup(conn.ID())
		if !ok {
			return
		}
		payload, err := NewRecordingStopped(userID)
		s.broadcast(conn, payload, err)
	case *LeaveRoom:
		s.Leave(conn)
	}
}

// Join validates the room against the external store, registers the
// connection with an atomically assigned role and notifies the joiner and
// the existing occupants. A join against an unknown room reports a
// server-error to the joiner only.
func (s *Service) Join(ctx context.Context, conn Conn, roomID, userID string) {
	if ic, ok := conn.(identityConn); ok && ic.UserID() != "" {
		// trust the transport's authenticated identity over the payload
		userID = ic.UserID()
	}

	// collaborator call stays outside the registry lock
	exists, err := s.rooms.RoomExists(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Str("service", "signaling").Str("roomID", roomID).Msg("room lookup failed")
		payload, perr := NewServerError("Failed to join room")
		s.send(conn, payload, perr)
		return
	}
	if !exists {
		payload, perr := NewServerError("Room not found")
		s.send(conn, payload, perr)
		return
	}

	role, initiator, others, ok := s.registry.Register(roomID, conn, userID)
	if !ok {
		log.Warn().Str("service", "signaling").Str("connID", conn.ID()).Msg("connection already joined, ignore join")
		return
	}

	log.Info().
		Str("service", "signaling").
		Str("roomID", roomID).
		Str("userID", userID).
		Str("role", string(role)).
		Bool("initiator", initiator).
		Msg("user joined room")

	telemetry.ParticipantJoined()
	if len(others) == 0 {
		telemetry.RoomOpened()
	}

	confirmation, err := NewJoinConfirmation(roomID, role)
	s.send(conn, confirmation, err)

	if role == RoleGuest {
		for _, o := range others {
			if o.Role == RoleHost {
				ready, rerr := NewPeerReadyToConnect(conn.ID(), userID)
				s.send(o.Conn, ready, rerr)
				break
			}
		}
	}

	joined, err := NewPeerJoined(conn.ID(), userID, role)
	for _, o := range others {
		s.send(o.Conn, joined, err)
	}
}

// Leave removes the connection from its room and broadcasts peer-left with
// its last-known role. Safe to call more than once: only the first cleanup
// notifies the room.
func (s *Service) Leave(conn Conn) {
	roomID, userID, role, ok := s.registry.Unregister(conn.ID())
	if !ok {
		return
	}

	log.Info().
		Str("service", "signaling").
		Str("roomID", roomID).
		Str("userID", userID).
		Str("role", string(role)).
		Msg("user left room")

	telemetry.ParticipantLeft()
	if s.registry.RoomSize(roomID) == 0 {
		telemetry.RoomClosed()
	}

	left, err := NewPeerLeft(conn.ID(), userID, role)
	for _, o := range s.registry.OccupantsExcluding(roomID, conn.ID()) {
		s.send(o.Conn, left, err)
	}
}

// Disconnect is the transport-level close path; cleanup is identical to an
// explicit leave.
func (s *Service) Disconnect(conn Conn) {
	s.Leave(conn)
}

// relay delivers a signaling payload either to one named occupant of the
// sender's room or to every other occupant. A stale target or an unjoined
// sender drops the message silently.
func (s *Service) relay(conn Conn, targetSocketID string, payload []byte, err error) {
	roomID, _, _, ok := s.registry.Lookup(conn.ID())
	if !ok {
		log.Debug().Str("service", "signaling").Str("connID", conn.ID()).Msg("drop signal from unjoined connection")
		return
	}

	if targetSocketID != "" {
		target, found := s.registry.Occupant(roomID, targetSocketID)
		if !found {
			// the target likely just disconnected
			return
		}
		s.send(target.Conn, payload, err)
		return
	}

	for _, o := range s.registry.OccupantsExcluding(roomID, conn.ID()) {
		s.send(o.Conn, payload, err)
	}
}

// broadcast fans a room event out to every occupant except the sender.
func (s *Service) broadcast(conn Conn, payload []byte, err error) {
	roomID, _, _, ok := s.registry.Lookup(conn.ID())
	if !ok {
		return
	}

	for _, o := range s.registry.OccupantsExcluding(roomID, conn.ID()) {
		s.send(o.Conn, payload, err)
	}
}

func (s *Service) send(conn Conn, payload []byte, err error) {
	if err != nil {
		log.Error().Err(err).Str("service", "signaling").Msg("encode outbound message")
		return
	}
	if err := conn.Write(payload); err != nil {
		// a dead peer must not affect the sender or the rest of the room
		log.Debug().Err(err).Str("service", "signaling").Str("connID", conn.ID()).Msg("dropped write to closed connection")
	}
}
