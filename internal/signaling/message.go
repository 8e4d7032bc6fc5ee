package signaling

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/pion/webrtc/v3"
)

// Event tags every message crossing the signaling channel.
type Event string

// Client events.
const (
	EventJoinRoom         Event = "join-room"
	EventSignal           Event = "signal"
	EventOffer            Event = "offer"
	EventAnswer           Event = "answer"
	EventICECandidate     Event = "ice-candidate"
	EventChatMessage      Event = "chat-message"
	EventRecordingStarted Event = "recording-started"
	EventRecordingStopped Event = "recording-stopped"
	EventLeaveRoom        Event = "leave-room"
)

// Server events.
const (
	EventYouAreInitiator    Event = "you-are-initiator"
	EventYouAreReceiver     Event = "you-are-receiver"
	EventJoinedAsSpectator  Event = "joined-as-spectator"
	EventServerError        Event = "server-error"
	EventPeerJoined         Event = "peer-joined"
	EventPeerReadyToConnect Event = "peer-ready-to-connect"
	EventPeerLeft           Event = "peer-left"
)

var (
	ErrUnknownEvent     = errors.New("unknown signaling event")
	ErrMalformedMessage = errors.New("malformed signaling message")
)

type envelope struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Message is the closed set of client messages. The four signaling shapes
// (signal, offer, answer, ice-candidate) are routed by identical logic but
// stay separate on the wire for client compatibility.
type Message interface {
	GetEvent() Event
}

type JoinRoom struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

func (JoinRoom) GetEvent() Event { return EventJoinRoom }

// Signal is the generic signaling envelope; its body is opaque to the relay.
type Signal struct {
	RoomID         string          `json:"roomId"`
	SignalData     json.RawMessage `json:"signalData"`
	TargetSocketID string          `json:"targetSocketId,omitempty"`
}

func (Signal) GetEvent() Event { return EventSignal }

type Offer struct {
	RoomID         string                    `json:"roomId"`
	Offer          webrtc.SessionDescription `json:"offer"`
	TargetSocketID string                    `json:"targetSocketId,omitempty"`
}

func (Offer) GetEvent() Event { return EventOffer }

type Answer struct {
	RoomID         string                    `json:"roomId"`
	Answer         webrtc.SessionDescription `json:"answer"`
	TargetSocketID string                    `json:"targetSocketId,omitempty"`
}

func (Answer) GetEvent() Event { return EventAnswer }

type ICECandidate struct {
	RoomID         string                  `json:"roomId"`
	Candidate      webrtc.ICECandidateInit `json:"candidate"`
	TargetSocketID string                  `json:"targetSocketId,omitempty"`
}

func (ICECandidate) GetEvent() Event { return EventICECandidate }

type ChatMessage struct {
	RoomID   string `json:"roomId"`
	Message  string `json:"message"`
	UserName string `json:"userName"`
}

func (ChatMessage) GetEvent() Event { return EventChatMessage }

type RecordingStarted struct {
	RoomID string `json:"roomId"`
}

func (RecordingStarted) GetEvent() Event { return EventRecordingStarted }

type RecordingStopped struct {
	RoomID string `json:"roomId"`
}

func (RecordingStopped) GetEvent() Event { return EventRecordingStopped }

type LeaveRoom struct {
	RoomID string `json:"roomId"`
}

func (LeaveRoom) GetEvent() Event { return EventLeaveRoom }

// MessageFromReader decodes one client envelope into its typed message.
func MessageFromReader(reader io.Reader) (Message, error) {
	env := &envelope{}

	if err := json.NewDecoder(reader).Decode(env); err != nil {
		return nil, ErrMalformedMessage
	}

	var msg Message
	switch env.Event {
	case EventJoinRoom:
		msg = &JoinRoom{}
	case EventSignal:
		msg = &Signal{}
	case EventOffer:
		msg = &Offer{}
	case EventAnswer:
		msg = &Answer{}
	case EventICECandidate:
		msg = &ICECandidate{}
	case EventChatMessage:
		msg = &ChatMessage{}
	case EventRecordingStarted:
		msg = &RecordingStarted{}
	case EventRecordingStopped:
		msg = &RecordingStopped{}
	case EventLeaveRoom:
		msg = &LeaveRoom{}
	default:
		return nil, ErrUnknownEvent
	}

	if err := json.Unmarshal(env.Data, msg); err != nil {
		return nil, ErrMalformedMessage
	}

	return msg, nil
}
