package model

import "time"

// ChatRole is the speaker of a chat message
type ChatRole string

const (
	RoleUser   ChatRole = "user"
	RoleClient ChatRole = "model"
)

// ChatMessage is one line of a simulator dialogue
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Mood is the simulated client's temperament
type Mood string

const (
	MoodNeutral   Mood = "Neutral"
	MoodIrritated Mood = "Irritated"
	MoodDoubtful  Mood = "Doubtful"
)

// Moods lists the selectable moods
var Moods = []Mood{MoodNeutral, MoodIrritated, MoodDoubtful}

// ParseMood validates a mood name
func ParseMood(s string) (Mood, error) {
	for _, m := range Moods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", ErrInvalidMood
}

// InitialStress returns the stress a conversation starts at for the mood
func (m Mood) InitialStress() int {
	if m == MoodIrritated {
		return 80
	}
	return 30
}

// Product is a catalogue item the simulated client asks about
type Product struct {
	Name      string `json:"name"`
	BasePrice int    `json:"basePrice"`
}

// QuizOption is a scored answer choice
type QuizOption struct {
	Text     string `json:"text"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// QuizQuestion is one quick-reply question
type QuizQuestion struct {
	Question string       `json:"question"`
	Options  []QuizOption `json:"options"`
}

// SellStep is one client turn in the sell-the-product game
type SellStep struct {
	Client  string       `json:"client"`
	Options []QuizOption `json:"options"`
}

// SellScenario is a generated sell-the-product script
type SellScenario struct {
	Product string     `json:"product"`
	Steps   []SellStep `json:"steps"`
}

// FixTask is a flawed reply the trainee must rewrite
type FixTask struct {
	Bad     string `json:"bad"`
	Context string `json:"context"`
}

// CustomResponse is a logged free-text quiz answer
type CustomResponse struct {
	Date     time.Time `json:"date"`
	Name     string    `json:"name"`
	Question string    `json:"question"`
	Response string    `json:"response"`
	Score    int       `json:"score"`
	Feedback string    `json:"feedback"`
}
