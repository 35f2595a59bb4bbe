package storage

import "github.com/rbt-academy/trainer/internal/model"

// Logical keys
const (
	KeyCurrentUser     = "academy_user"
	KeyAvatar          = "academy_avatar"
	KeyRegistry        = "academy_registry"
	KeyLedger          = "learning_history"
	KeyCustomResponses = "custom_responses"
)

// SessionKey returns the key holding the active session for an exercise
func SessionKey(kind model.ExerciseKind) string {
	return "active_session:" + string(kind)
}
