package model

import "errors"

// Common errors used across the application
var (
	// Storage errors
	ErrNotFound = errors.New("not found")

	// Account errors
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrMissingCredentials   = errors.New("name and password are required")
	ErrNotAuthenticated     = errors.New("not signed in")
	ErrNotAdmin             = errors.New("administrator access required")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrUserNotFound         = errors.New("user not found")

	// Exercise errors
	ErrUnknownExercise  = errors.New("unknown exercise")
	ErrNotMounted       = errors.New("exercise is not mounted")
	ErrBusy             = errors.New("a submission is already in progress")
	ErrSessionFinished  = errors.New("session is finished")
	ErrEmptyAnswer      = errors.New("answer is empty")
	ErrNotAnswered      = errors.New("current task has not been answered")
	ErrAlreadyAnswered  = errors.New("current task has already been answered")
	ErrConversationOver = errors.New("conversation is over")
	ErrInvalidOption    = errors.New("invalid option")
	ErrInvalidMood      = errors.New("invalid mood")

	// Judgement errors
	ErrJudgeUnavailable = errors.New("judgement service unavailable")
)
