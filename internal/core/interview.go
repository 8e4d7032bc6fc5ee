package core

import (
	"fmt"
	"math/rand"
	"time"
)

// InterviewType distinguishes AI-driven sessions from peer-to-peer ones.
type InterviewType string

const (
	AIInterview       InterviewType = "ai"
	OneToOneInterview InterviewType = "one-to-one"
)

type Interview struct {
	ID              int64         `json:"id,omitempty" db:"id"`
	UserID          string        `json:"user_id" db:"user_id"`
	ScheduledWithID *string       `json:"scheduled_with_id,omitempty" db:"scheduled_with_id"`
	Type            InterviewType `json:"type" db:"type"`
	AIBased         bool          `json:"ai_based" db:"ai_based"`
	RoomID          string        `json:"room_id" db:"room_id"`
	MeetLink        string        `json:"meet_link" db:"meet_link"`
	RecordingURL    *string       `json:"recording_url,omitempty" db:"recording_url"`
	CreatedAt       time.Time     `json:"created_at,omitempty" db:"created_at"`
}

// NewInterview builds an unsaved interview with a fresh opaque room token
// and a meeting link into the frontend.
func NewInterview(userID string, kind InterviewType, frontendURL string) *Interview {
	roomID := newRoomID()

	return &Interview{
		UserID:    userID,
		Type:      kind,
		AIBased:   kind == AIInterview,
		RoomID:    roomID,
		MeetLink:  fmt.Sprintf("%s/interview/%s", frontendURL, roomID),
		CreatedAt: time.Now(),
	}
}

const roomTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newRoomID keeps the room-<timestamp>-<random> token shape the web client
// already parses.
func newRoomID() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = roomTokenAlphabet[rand.Intn(len(roomTokenAlphabet))]
	}

	return fmt.Sprintf("room-%d-%s", time.Now().UnixMilli(), suffix)
}
