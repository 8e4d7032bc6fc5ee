package core

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type InterviewsStorer interface {
	Save(interview *Interview) (*Interview, error)
	FindByRoomID(roomID string) (*Interview, error)
	RoomExists(ctx context.Context, roomID string) (bool, error)
	ListForUser(userID string) ([]*Interview, error)
	UpdateRecordingURL(roomID, recordingURL string) (*Interview, error)
}

type InterviewsRepository struct {
	db *sqlx.DB
}

func NewInterviewsRepository(db *sqlx.DB) InterviewsStorer {
	return &InterviewsRepository{
		db: db,
	}
}

func (r *InterviewsRepository) Save(interview *Interview) (*Interview, error) {
	var id int64

	err := r.db.Get(&id,
		`INSERT INTO interviews
			(user_id, scheduled_with_id, type, ai_based, room_id, meet_link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		interview.UserID,
		interview.ScheduledWithID,
		string(interview.Type),
		interview.AIBased,
		interview.RoomID,
		interview.MeetLink,
		interview.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	interview.ID = id

	return interview, nil
}

func (r *InterviewsRepository) FindByRoomID(roomID string) (*Interview, error) {
	interview := &Interview{}

	err := r.db.Get(interview, `SELECT * FROM interviews WHERE room_id = $1 LIMIT 1`, roomID)
	if err != nil {
		return nil, err
	}

	return interview, nil
}

// RoomExists backs the signaling relay's room-existence check.
func (r *InterviewsRepository) RoomExists(ctx context.Context, roomID string) (bool, error) {
	var exists bool

	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM interviews WHERE room_id = $1)`, roomID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ListForUser returns peer interviews the user is on either side of, newest
// first. AI sessions are excluded.
func (r *InterviewsRepository) ListForUser(userID string) ([]*Interview, error) {
	interviews := []*Interview{}

	err := r.db.Select(&interviews,
		`SELECT * FROM interviews
		WHERE (user_id = $1 OR scheduled_with_id = $1) AND NOT ai_based
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	return interviews, nil
}

func (r *InterviewsRepository) UpdateRecordingURL(roomID, recordingURL string) (*Interview, error) {
	interview := &Interview{}

	err := r.db.Get(interview,
		`UPDATE interviews SET recording_url = $1 WHERE room_id = $2 RETURNING *`,
		recordingURL,
		roomID,
	)
	if err != nil {
		return nil, err
	}

	return interview, nil
}
