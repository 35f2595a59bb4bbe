package response

import (
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/account"
	"github.com/rbt-academy/trainer/internal/services/exercise"
)

// Identity represents the signed-in user in API responses
type Identity struct {
	Profile    model.UserProfile `json:"profile"`
	LevelLabel string            `json:"levelLabel"`
	Avatar     string            `json:"avatar"`
	IsAdmin    bool              `json:"isAdmin"`
}

// IdentityFromAccount converts an account.Identity
func IdentityFromAccount(id *account.Identity) Identity {
	return Identity{
		Profile:    id.Profile,
		LevelLabel: id.Profile.Level.Label(),
		Avatar:     id.Avatar,
		IsAdmin:    id.IsAdmin,
	}
}

// Options lists the choices offered on the login screen
type Options struct {
	Stores  []string `json:"stores"`
	Avatars []string `json:"avatars"`
	Moods   []string `json:"moods"`
}

// LoginOptions returns the static login choices
func LoginOptions() Options {
	moods := make([]string, len(model.Moods))
	for i, m := range model.Moods {
		moods[i] = string(m)
	}
	return Options{
		Stores:  model.Stores,
		Avatars: model.AvatarSeeds,
		Moods:   moods,
	}
}

// Exercises is the exercise catalogue listing
type Exercises struct {
	Exercises      []exercise.Info `json:"exercises"`
	JudgeAvailable bool            `json:"judgeAvailable"`
}

// Exercise wraps an exercise's current view
type Exercise struct {
	Kind model.ExerciseKind `json:"kind"`
	View any                `json:"view"`
}

// SpellCheck is the advisory spelling check result
type SpellCheck struct {
	model.SpellCheck
	Degraded bool `json:"degraded"`
}

// Health is the health check body
type Health struct {
	Status         string `json:"status"`
	JudgeAvailable bool   `json:"judgeAvailable"`
}
