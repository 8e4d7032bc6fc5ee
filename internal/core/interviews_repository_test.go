package core

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestInterviewsRepositorySave(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewsRepository(db)

	interview := NewInterview("user-1", OneToOneInterview, "https://prepsync.example")

	mock.ExpectQuery("INSERT INTO interviews").
		WithArgs(
			interview.UserID,
			interview.ScheduledWithID,
			string(interview.Type),
			interview.AIBased,
			interview.RoomID,
			interview.MeetLink,
			interview.CreatedAt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	saved, err := repo.Save(interview)
	assert.Nil(t, err)
	assert.Equal(t, int64(7), saved.ID)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestInterviewsRepositoryRoomExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewsRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("room-1-abc").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("room-2-def").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.RoomExists(context.Background(), "room-1-abc")
	assert.Nil(t, err)
	assert.True(t, exists)

	exists, err = repo.RoomExists(context.Background(), "room-2-def")
	assert.Nil(t, err)
	assert.False(t, exists)

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestInterviewsRepositoryListForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewsRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "scheduled_with_id", "type", "ai_based",
		"room_id", "meet_link", "recording_url", "created_at",
	}).
		AddRow(int64(2), "user-1", "user-2", "one-to-one", false, "room-2", "https://x/interview/room-2", nil, now).
		AddRow(int64(1), "user-2", "user-1", "one-to-one", false, "room-1", "https://x/interview/room-1", nil, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT \\* FROM interviews").
		WithArgs("user-1").
		WillReturnRows(rows)

	interviews, err := repo.ListForUser("user-1")
	assert.Nil(t, err)
	assert.Len(t, interviews, 2)
	assert.Equal(t, "room-2", interviews[0].RoomID)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestInterviewsRepositoryUpdateRecordingURL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewsRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "scheduled_with_id", "type", "ai_based",
		"room_id", "meet_link", "recording_url", "created_at",
	}).
		AddRow(int64(1), "user-1", nil, "one-to-one", false, "room-1", "https://x/interview/room-1", "/uploads/recordings/rec.webm", time.Now())

	mock.ExpectQuery("UPDATE interviews SET recording_url").
		WithArgs("/uploads/recordings/rec.webm", "room-1").
		WillReturnRows(rows)

	interview, err := repo.UpdateRecordingURL("room-1", "/uploads/recordings/rec.webm")
	assert.Nil(t, err)
	assert.NotNil(t, interview.RecordingURL)
	assert.Equal(t, "/uploads/recordings/rec.webm", *interview.RecordingURL)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestNewInterviewRoomToken(t *testing.T) {
	interview := NewInterview("user-1", OneToOneInterview, "https://prepsync.example")

	assert.Regexp(t, `^room-\d+-[a-z0-9]{6}$`, interview.RoomID)
	assert.Equal(t, "https://prepsync.example/interview/"+interview.RoomID, interview.MeetLink)
	assert.False(t, interview.AIBased)

	ai := NewInterview("user-1", AIInterview, "https://prepsync.example")
	assert.True(t, ai.AIBased)
}
