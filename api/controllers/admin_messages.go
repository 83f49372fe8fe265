package controllers

import (
	"net/http"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	messagesvc "github.com/gryadkadev/gryadka-backend/internal/messages"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

// AdminListThreads returns the latest message of every support thread,
// newest first.
func AdminListThreads(svc messagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threads, err := svc.ListThreads(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"threads": threads})
	}
}

// AdminGetThread returns one customer's full thread, oldest first.
func AdminGetThread(svc messagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		messages, err := svc.ListThread(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"messages": messages})
	}
}

// AdminReplyToThread appends an admin reply to a customer's thread.
func AdminReplyToThread(svc messagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sendMessageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Reply(r.Context(), userID, payload.Text)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}
