package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
)

// getUserIDFromContext extracts the authenticated user's ID from the request
// context, where the auth middleware placed it.
func getUserIDFromContext(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(int64)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}

// getPathID extracts a numeric ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%s is required", paramName)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s has invalid format", paramName)
	}

	return id, nil
}

// requireActorAndPathID extracts both the authenticated user ID and a
// numeric path parameter, writing the error response itself when either is
// missing. Returns false if a response has already been written.
func requireActorAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (actorID, pathID int64, ok bool) {
	actorID, found := getUserIDFromContext(r)
	if !found {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return 0, 0, false
	}

	pathID, err := getPathID(r, paramName)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid "+paramName)
		return 0, 0, false
	}

	return actorID, pathID, true
}
