package httpserver

import (
	"net/http"

	"github.com/go-chi/render"
)

// Client-facing messages.
const (
	msgWelcome         = "Welcome to Brainly"
	msgMissingDetails  = "Please provide all details"
	msgUserExists      = "User already exists"
	msgBadCredentials  = "Incorrect credentials"
	msgRateLimited     = "Too many attempts, try again later"
	msgNotLoggedIn     = "You are not logged in"
	msgMissingContent  = "Please provide link, type and title"
	msgContentAdded    = "Content added"
	msgContentIDNeeded = "Content ID is required"
	msgContentDeleted  = "Content deleted"
	msgBadBody         = "Invalid request body"
	msgShareRemoved    = "Share link removed"
	msgInvalidShare    = "Invalid share link"
	msgUserNotFound    = "User not found"
	msgInternal        = "Internal server error"
	msgNotFound        = "Not found"
	msgBadMethod       = "Method not allowed"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, messageResponse{Message: msg})
}
