package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/isqad/melody"
	"github.com/rs/zerolog/log"

	"github.com/vivekkatkar/PrepSync/internal/presence"
	"github.com/vivekkatkar/PrepSync/internal/signaling"
)

const (
	wsConnIDSessionKey = "connId"
	wsUserIDSessionKey = "userId"
)

// wsConn adapts a melody session to the signaling transport. Writes go to
// melody's buffered per-session queue, so a slow peer never blocks the
// relay.
type wsConn struct {
	session *melody.Session
	id      string
	userID  string
}

func (c *wsConn) ID() string { return c.id }

// UserID is the JWT-verified identity; it overrides the client-supplied
// userId of a join request.
func (c *wsConn) UserID() string { return c.userID }

func (c *wsConn) Write(payload []byte) error {
	return c.session.Write(payload)
}

// WebsocketsHandler upgrades the peer-interview signaling channel. The
// connection id is minted here; the user identity comes from the auth
// middleware.
func WebsocketsHandler(websocket *melody.Melody) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromRequest(r)
		if err != nil {
			log.Error().Err(err).Str("service", "websockets").Msg("can't get the user from request context")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		sessKeys := make(map[string]interface{})
		sessKeys[wsConnIDSessionKey] = uuid.NewString()
		sessKeys[wsUserIDSessionKey] = user.ID

		if err := websocket.HandleRequestWithKeys(w, r, sessKeys); err != nil {
			log.Error().Err(err).Str("service", "websockets").Msg("can't handle request")
		}
	}
}

func ConnectHandler(tracker *presence.Tracker) func(session *melody.Session) {
	return func(session *melody.Session) {
		conn, err := connFromSession(session)
		if err != nil {
			log.Error().Err(err).Str("service", "websockets").Msg("extract connection")
			session.Close()
			return
		}

		if err := tracker.SetOnline(context.Background(), conn.userID); err != nil {
			log.Error().Err(err).Str("service", "websockets").Str("userID", conn.userID).Msg("mark user online")
		}

		log.Debug().Str("service", "websockets").Str("connID", conn.id).Msg("connected")
	}
}

// PongHandler keeps the user's presence TTL alive while the websocket
// answers keepalive pings.
func PongHandler(tracker *presence.Tracker) func(session *melody.Session) {
	return func(session *melody.Session) {
		conn, err := connFromSession(session)
		if err != nil {
			return
		}

		if err := tracker.Refresh(context.Background(), conn.userID); err != nil {
			log.Error().Err(err).Str("service", "websockets").Str("userID", conn.userID).Msg("refresh presence")
		}
	}
}

// DisconnectHandler runs the signaling cleanup before the session object is
// discarded, so the room always gets its peer-left.
func DisconnectHandler(sig *signaling.Service, tracker *presence.Tracker) func(session *melody.Session) {
	return func(session *melody.Session) {
		conn, err := connFromSession(session)
		if err != nil {
			log.Error().Err(err).Str("service", "websockets").Msg("extract connection")
			return
		}

		sig.Disconnect(conn)

		if err := tracker.SetOffline(context.Background(), conn.userID); err != nil {
			log.Error().Err(err).Str("service", "websockets").Str("userID", conn.userID).Msg("mark user offline")
		}

		log.Debug().Str("service", "websockets").Str("connID", conn.id).Msg("disconnected")
	}
}

func HandleMessage(sig *signaling.Service) func(s *melody.Session, msg []byte) {
	return func(s *melody.Session, msg []byte) {
		conn, err := connFromSession(s)
		if err != nil {
			log.Error().Err(err).Str("service", "websockets").Msg("extract connection")
			return
		}

		sig.HandleMessage(context.Background(), conn, msg)
	}
}

func connFromSession(s *melody.Session) (*wsConn, error) {
	rawID, ok := s.Keys[wsConnIDSessionKey]
	if !ok {
		return nil, fmt.Errorf("no connection id for given session: %+v", s)
	}
	id, ok := rawID.(string)
	if !ok {
		return nil, fmt.Errorf("can't convert connection id: %+v", rawID)
	}

	rawUserID, ok := s.Keys[wsUserIDSessionKey]
	if !ok {
		return nil, fmt.Errorf("no user id for given session: %+v", s)
	}
	userID, ok := rawUserID.(string)
	if !ok {
		return nil, fmt.Errorf("can't convert user id: %+v", rawUserID)
	}

	return &wsConn{session: s, id: id, userID: userID}, nil
}
