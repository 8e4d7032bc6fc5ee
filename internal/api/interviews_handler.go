package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/vivekkatkar/PrepSync/internal/core"
	"github.com/vivekkatkar/PrepSync/internal/service"
)

type InterviewRequest struct {
	Type core.InterviewType `json:"type"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// InterviewCreateHandler creates an interview for the authenticated user,
// enforcing the plan quota and matching a peer for one-to-one sessions.
func InterviewCreateHandler(manager *service.InterviewsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromRequest(r)
		if err != nil {
			log.Error().Err(err).Str("service", "api").Msg("can't get user from request context")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		req := &InterviewRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Type == "" {
			writeError(w, http.StatusBadRequest, "Interview type is required")
			return
		}

		created, err := manager.Create(r.Context(), user.ID, req.Type)
		switch err {
		case nil:
		case service.ErrFeatureNotAllowed:
			writeError(w, http.StatusForbidden, "Your plan does not allow this interview type")
			return
		case service.ErrQuotaExceeded:
			writeError(w, http.StatusForbidden, "Quota exceeded. Upgrade plan to access more interviews.")
			return
		case service.ErrNoPeerAvailable:
			writeError(w, http.StatusBadRequest, "No one is currently available for an interview. Please try again later.")
			return
		default:
			log.Error().Err(err).Str("service", "api").Msg("interview creation error")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(created); err != nil {
			log.Error().Err(err).Str("service", "api").Msg("encode interview")
		}
	}
}

// InterviewsListHandler returns the user's peer interviews, newest first.
func InterviewsListHandler(interviews core.InterviewsStorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		list, err := interviews.ListForUser(user.ID)
		if err != nil {
			log.Error().Err(err).Str("service", "api").Msg("fetch interviews")
			writeError(w, http.StatusInternalServerError, "Failed to fetch interviews")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(list); err != nil {
			log.Error().Err(err).Str("service", "api").Msg("encode interviews")
		}
	}
}

// InterviewJoinHandler resolves a room token before the client opens its
// signaling channel.
func InterviewJoinHandler(interviews core.InterviewsStorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")

		interview, err := interviews.FindByRoomID(roomID)
		if err != nil {
			if err == sql.ErrNoRows {
				writeError(w, http.StatusNotFound, "Room not found")
			} else {
				log.Error().Err(err).Str("service", "api").Str("roomID", roomID).Msg("find interview")
				writeError(w, http.StatusInternalServerError, "Internal Server Error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   true,
			"interview": interview,
		})
	}
}

type recordingURLRequest struct {
	RecordingURL string `json:"recordingUrl"`
}

// InterviewRecordingHandler stores the recording URL on the interview after
// the upload completes.
func InterviewRecordingHandler(interviews core.InterviewsStorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")

		req := &recordingURLRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		interview, err := interviews.UpdateRecordingURL(roomID, req.RecordingURL)
		if err != nil {
			log.Error().Err(err).Str("service", "api").Str("roomID", roomID).Msg("update recording URL")
			writeError(w, http.StatusInternalServerError, "Failed to update recording URL")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   true,
			"interview": interview,
		})
	}
}
