package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vivekkatkar/PrepSync/internal/recordings"
)

// UploadedPublisher announces a stored recording to the worker queue.
type UploadedPublisher interface {
	Uploaded(msg recordings.UploadedMessage) error
}

// RecordingUploadHandler stores one multipart video recording under the
// upload root and announces it to the worker queue. Only video content is
// accepted.
func RecordingUploadHandler(publisher UploadedPublisher, uploadRoot string, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile("recording")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No recording file provided")
			return
		}
		defer file.Close()

		if !strings.HasPrefix(header.Header.Get("Content-Type"), "video/") {
			writeError(w, http.StatusBadRequest, "Only video files are allowed")
			return
		}

		extension := filepath.Ext(header.Filename)
		if extension == "" {
			extension = ".webm"
		}
		filename := fmt.Sprintf("recording-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], extension)

		recordingsDir := filepath.Join(uploadRoot, "recordings")
		if err := os.MkdirAll(recordingsDir, 0o755); err != nil {
			log.Error().Err(err).Str("service", "api").Msg("create recordings dir")
			writeError(w, http.StatusInternalServerError, "Failed to upload recording")
			return
		}

		path := filepath.Join(recordingsDir, filename)
		dst, err := os.Create(path)
		if err != nil {
			log.Error().Err(err).Str("service", "api").Msg("create recording file")
			writeError(w, http.StatusInternalServerError, "Failed to upload recording")
			return
		}
		defer dst.Close()

		size, err := io.Copy(dst, file)
		if err != nil {
			log.Error().Err(err).Str("service", "api").Msg("write recording file")
			writeError(w, http.StatusInternalServerError, "Failed to upload recording")
			return
		}

		if err := publisher.Uploaded(recordings.UploadedMessage{
			RoomID:   r.FormValue("roomId"),
			Filename: filename,
			Path:     path,
			Size:     size,
		}); err != nil {
			// the file is stored; the worker just won't hear about it
			log.Error().Err(err).Str("service", "api").Str("filename", filename).Msg("publish recording event")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":  "Recording uploaded successfully",
			"filename": filename,
			"path":     "/uploads/recordings/" + filename,
			"size":     size,
		})
	}
}
