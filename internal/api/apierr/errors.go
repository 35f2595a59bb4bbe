package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rbt-academy/trainer/internal/model"
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
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeMissingCredentials   = "MISSING_CREDENTIALS"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeUnknownExercise      = "UNKNOWN_EXERCISE"
	CodeNotMounted           = "NOT_MOUNTED"
	CodeBusy                 = "BUSY"
	CodeSessionFinished      = "SESSION_FINISHED"
	CodeEmptyAnswer          = "EMPTY_ANSWER"
	CodeNotAnswered          = "NOT_ANSWERED"
	CodeAlreadyAnswered      = "ALREADY_ANSWERED"
	CodeConversationOver     = "CONVERSATION_OVER"
	CodeInvalidOption        = "INVALID_OPTION"
	CodeInvalidMood          = "INVALID_MOOD"
	CodeUnsupportedAction    = "UNSUPPORTED_ACTION"
	CodeInternalError        = "INTERNAL_ERROR"
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

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Accounts
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid name or password"}}
	case errors.Is(err, model.ErrMissingCredentials):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingCredentials, "Name and password are required"}}
	case errors.Is(err, model.ErrNotAuthenticated):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Sign in first"}}
	case errors.Is(err, model.ErrNotAdmin):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Administrator access required"}}
	case errors.Is(err, model.ErrConfirmationRequired):
		return &httpError{http.StatusPreconditionRequired, APIError{CodeConfirmationRequired, "This action must be confirmed"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}

	// Exercises
	case errors.Is(err, model.ErrUnknownExercise):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownExercise, "Unknown exercise"}}
	case errors.Is(err, model.ErrNotMounted):
		return &httpError{http.StatusConflict, APIError{CodeNotMounted, "Exercise is not open"}}
	case errors.Is(err, model.ErrBusy):
		return &httpError{http.StatusConflict, APIError{CodeBusy, "A submission is already in progress"}}
	case errors.Is(err, model.ErrSessionFinished):
		return &httpError{http.StatusConflict, APIError{CodeSessionFinished, "Session is finished"}}
	case errors.Is(err, model.ErrEmptyAnswer):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyAnswer, "Answer is empty"}}
	case errors.Is(err, model.ErrNotAnswered):
		return &httpError{http.StatusConflict, APIError{CodeNotAnswered, "Answer the current task first"}}
	case errors.Is(err, model.ErrAlreadyAnswered):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAnswered, "Current task is already answered"}}
	case errors.Is(err, model.ErrConversationOver):
		return &httpError{http.StatusConflict, APIError{CodeConversationOver, "Conversation is over"}}
	case errors.Is(err, model.ErrInvalidOption):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidOption, "Invalid option"}}
	case errors.Is(err, model.ErrInvalidMood):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMood, "Mood must be Neutral, Irritated or Doubtful"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnsupportedActionError reports an action the exercise does not offer
func NewUnsupportedActionError(action string) error {
	return &httpError{http.StatusNotFound, APIError{CodeUnsupportedAction, "Exercise does not support " + action}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
