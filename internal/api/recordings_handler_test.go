package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vivekkatkar/PrepSync/internal/recordings"
)

type fakePublisher struct {
	published []recordings.UploadedMessage
}

func (f *fakePublisher) Uploaded(msg recordings.UploadedMessage) error {
	f.published = append(f.published, msg)

	return nil
}

func multipartRecording(t *testing.T, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="recording"; filename="interview.webm"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	assert.Nil(t, err)
	_, err = part.Write(content)
	assert.Nil(t, err)

	assert.Nil(t, writer.WriteField("roomId", "room-1-abcdef"))
	assert.Nil(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestRecordingUploadHandler(t *testing.T) {
	t.Run("stores a video file and publishes the event", func(t *testing.T) {
		publisher := &fakePublisher{}
		uploadRoot := t.TempDir()
		handler := RecordingUploadHandler(publisher, uploadRoot, 1024*1024)

		content := []byte("webm bytes")
		body, contentType := multipartRecording(t, "video/webm", content)

		req := httptest.NewRequest("POST", "/upload-recording", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		resp := map[string]interface{}{}
		assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Recording uploaded successfully", resp["message"])
		assert.Regexp(t, `^recording-\d+-[0-9a-f-]{8}\.webm$`, resp["filename"])
		assert.Equal(t, "/uploads/recordings/"+resp["filename"].(string), resp["path"])
		assert.EqualValues(t, len(content), resp["size"])

		stored, err := os.ReadFile(filepath.Join(uploadRoot, "recordings", resp["filename"].(string)))
		assert.Nil(t, err)
		assert.Equal(t, content, stored)

		assert.Len(t, publisher.published, 1)
		published := publisher.published[0]
		assert.Equal(t, "room-1-abcdef", published.RoomID)
		assert.Equal(t, resp["filename"], published.Filename)
		assert.EqualValues(t, len(content), published.Size)
	})

	t.Run("rejects non-video content", func(t *testing.T) {
		publisher := &fakePublisher{}
		uploadRoot := t.TempDir()
		handler := RecordingUploadHandler(publisher, uploadRoot, 1024*1024)

		body, contentType := multipartRecording(t, "application/pdf", []byte("%PDF-"))

		req := httptest.NewRequest("POST", "/upload-recording", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := map[string]interface{}{}
		assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Only video files are allowed", resp["error"])
		assert.Empty(t, publisher.published)

		entries, err := os.ReadDir(uploadRoot)
		assert.Nil(t, err)
		assert.Empty(t, entries)
	})

	t.Run("rejects a request without a recording file", func(t *testing.T) {
		publisher := &fakePublisher{}
		handler := RecordingUploadHandler(publisher, t.TempDir(), 1024*1024)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		assert.Nil(t, writer.WriteField("roomId", "room-1-abcdef"))
		assert.Nil(t, writer.Close())

		req := httptest.NewRequest("POST", "/upload-recording", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()

		handler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, publisher.published)
	})
}
