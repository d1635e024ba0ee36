// Package apierr maps domain errors onto JSON API error responses.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidCell        = "INVALID_CELL"
	CodeInvalidMark        = "INVALID_MARK"
	CodeInvalidDifficulty  = "INVALID_DIFFICULTY"
	CodeInvalidStrategy    = "INVALID_STRATEGY"
	CodeInvalidUsername    = "INVALID_USERNAME"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotGameOwner       = "NOT_GAME_OWNER"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeCellOccupied       = "CELL_OCCUPIED"
	CodeRoundComplete      = "ROUND_COMPLETE"
	CodeRoundInProgress    = "ROUND_IN_PROGRESS"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// errorMapping pairs a sentinel with the response it produces
type errorMapping struct {
	target error
	status int
	code   string
	msg    string
}

// mappings is checked in order with errors.Is
var mappings = []errorMapping{
	{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound, "Player not found"},
	{model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound, "Game not found"},
	{model.ErrNotGameOwner, http.StatusForbidden, CodeNotGameOwner, "This game belongs to another player"},
	{model.ErrNotPlayerTurn, http.StatusConflict, CodeNotYourTurn, "Not your turn"},
	{model.ErrInvalidCell, http.StatusBadRequest, CodeInvalidCell, "Cell must be between 0 and 8"},
	{model.ErrCellOccupied, http.StatusConflict, CodeCellOccupied, "Cell is already occupied"},
	{model.ErrRoundComplete, http.StatusConflict, CodeRoundComplete, "Round is already complete"},
	{model.ErrNoLegalMoves, http.StatusConflict, CodeRoundComplete, "No legal moves remain"},
	{model.ErrRoundInProgress, http.StatusConflict, CodeRoundInProgress, "Marks can only change between rounds"},
	{model.ErrInvalidMark, http.StatusBadRequest, CodeInvalidMark, "Mark must be X or O"},
	{model.ErrInvalidMarks, http.StatusBadRequest, CodeInvalidMark, "Marks must be distinct X and O"},
	{model.ErrInvalidDifficulty, http.StatusBadRequest, CodeInvalidDifficulty, "Difficulty must be easy, medium or hard"},
	{model.ErrInvalidStrategy, http.StatusBadRequest, CodeInvalidStrategy, "Unknown strategy"},

	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password"},
	{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session"},
	{auth.ErrUsernameExists, http.StatusConflict, CodeUsernameExists, "Username already exists"},
	{auth.ErrInvalidUsername, http.StatusBadRequest, CodeInvalidUsername, "Username must be 3-32 letters, digits or underscores"},
	{auth.ErrPasswordTooShort, http.StatusBadRequest, CodePasswordTooShort, "Password is too short"},
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return &httpError{m.status, APIError{m.code, m.msg}}
		}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
