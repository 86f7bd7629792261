package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mariana/devlink-assistant/internal/server/middleware"
)

// middlewareUserID reads the authenticated user ID from the request context,
// writing a 401 when it is missing. Callers return immediately on error.
func middlewareUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return userID, err
}
