package request

// LoginRequest is the request body for signing in
type LoginRequest struct {
	Name     string `json:"name"`
	Store    string `json:"store,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Password string `json:"password"`
}

// ConfirmRequest is the request body for destructive actions
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// AvatarRequest is the request body for changing the avatar
type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

// TextRequest carries a free-text answer, chat message or draft
type TextRequest struct {
	Text string `json:"text"`
}

// ChooseRequest selects an option by index
type ChooseRequest struct {
	Option *int `json:"option"`
}

// MoodRequest sets the simulated client's mood
type MoodRequest struct {
	Mood string `json:"mood"`
}
