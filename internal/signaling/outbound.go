package signaling

import (
	"encoding/json"
	"time"
)

// Join confirmations, matching what the web client expects for each role.
const (
	initiatorGreeting = "You are the first to join. Waiting for peer..."
	receiverGreeting  = "Joining as receiver. Connecting to peer..."
	spectatorGreeting = "Joined as spectator"

	recordingStartedNotice = "Recording has started"
	recordingStoppedNotice = "Recording has stopped"
)

type outbound struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data"`
}

func marshalOutbound(event Event, data interface{}) ([]byte, error) {
	return json.Marshal(outbound{Event: event, Data: data})
}

type joinConfirmation struct {
	RoomID  string `json:"roomId"`
	Role    Role   `json:"role"`
	Message string `json:"message"`
}

// NewJoinConfirmation builds the role-specific reply sent to a joiner.
func NewJoinConfirmation(roomID string, role Role) ([]byte, error) {
	switch role {
	case RoleHost:
		return marshalOutbound(EventYouAreInitiator, joinConfirmation{
			RoomID:  roomID,
			Role:    role,
			Message: initiatorGreeting,
		})
	case RoleGuest:
		return marshalOutbound(EventYouAreReceiver, joinConfirmation{
			RoomID:  roomID,
			Role:    role,
			Message: receiverGreeting,
		})
	default:
		return marshalOutbound(EventJoinedAsSpectator, joinConfirmation{
			RoomID:  roomID,
			Role:    role,
			Message: spectatorGreeting,
		})
	}
}

type serverError struct {
	Message string `json:"message"`
}

func NewServerError(message string) ([]byte, error) {
	return marshalOutbound(EventServerError, serverError{Message: message})
}

type peerNotification struct {
	SocketID string `json:"socketId"`
	UserID   string `json:"userId"`
	Role     Role   `json:"role"`
}

func NewPeerJoined(socketID, userID string, role Role) ([]byte, error) {
	return marshalOutbound(EventPeerJoined, peerNotification{
		SocketID: socketID,
		UserID:   userID,
		Role:     role,
	})
}

func NewPeerLeft(socketID, userID string, role Role) ([]byte, error) {
	return marshalOutbound(EventPeerLeft, peerNotification{
		SocketID: socketID,
		UserID:   userID,
		Role:     role,
	})
}

type peerReadyToConnect struct {
	PeerSocketID string `json:"peerSocketId"`
	PeerUserID   string `json:"peerUserId"`
}

// NewPeerReadyToConnect is delivered only to the waiting host when a guest
// joins.
func NewPeerReadyToConnect(peerSocketID, peerUserID string) ([]byte, error) {
	return marshalOutbound(EventPeerReadyToConnect, peerReadyToConnect{
		PeerSocketID: peerSocketID,
		PeerUserID:   peerUserID,
	})
}

// newSignalDelivery rewraps a relayed signaling payload with the sender's
// connection id. key preserves the per-shape field name of the original
// protocol (signalData, offer, answer, candidate).
func newSignalDelivery(event Event, key string, payload interface{}, fromSocketID string) ([]byte, error) {
	return marshalOutbound(event, map[string]interface{}{
		key:            payload,
		"fromSocketId": fromSocketID,
	})
}

type chatDelivery struct {
	Message      string `json:"message"`
	UserName     string `json:"userName"`
	Timestamp    string `json:"timestamp"`
	FromSocketID string `json:"fromSocketId"`
}

func NewChatDelivery(message, userName, fromSocketID string, at time.Time) ([]byte, error) {
	return marshalOutbound(EventChatMessage, chatDelivery{
		Message:      message,
		UserName:     userName,
		Timestamp:    at.UTC().Format(time.RFC3339),
		FromSocketID: fromSocketID,
	})
}

type recordingNotice struct {
	Message   string `json:"message"`
	StartedBy string `json:"startedBy,omitempty"`
	StoppedBy string `json:"stoppedBy,omitempty"`
}

func NewRecordingStarted(startedBy string) ([]byte, error) {
	return marshalOutbound(EventRecordingStarted, recordingNotice{
		Message:   recordingStartedNotice,
		StartedBy: startedBy,
	})
}

func NewRecordingStopped(stoppedBy string) ([]byte, error) {
	return marshalOutbound(EventRecordingStopped, recordingNotice{
		Message:   recordingStoppedNotice,
		StoppedBy: stoppedBy,
	})
}
