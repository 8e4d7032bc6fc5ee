package signaling

// Conn is one live participant connection attached to the relay.
//
// Write is fire-and-forget: implementations must queue the payload without
// blocking on a slow peer and report a closed session as an error.
type Conn interface {
	ID() string
	Write(payload []byte) error
}

// identityConn is implemented by transports that carry a server-verified
// user identity. When present it overrides the client-supplied userId of a
// join request.
type identityConn interface {
	UserID() string
}
