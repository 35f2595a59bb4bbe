package model

import "time"

// HistoryCap bounds each per-user history array in the registry
const HistoryCap = 50

// RegistryEntry is the shared per-name record visible to admins and the leaderboard
type RegistryEntry struct {
	Name                 string            `json:"name"`
	XP                   int               `json:"xp"`
	Level                string            `json:"level"`
	Store                string            `json:"store"`
	Avatar               string            `json:"avatar"`
	LastActive           time.Time         `json:"lastActive"`
	LastSimulatorSession []SimulatorRecord `json:"lastSimulatorSession,omitempty"`
	LastObjectionSession []ObjectionRecord `json:"lastObjectionSession,omitempty"`
}

// Registry maps user name to entry
type Registry map[string]RegistryEntry

// RegistryPatch carries the fields an upsert should change. Nil fields are
// left as they are on the existing entry. Records are prepended newest first.
type RegistryPatch struct {
	XP         *int
	Level      *string
	Store      *string
	Avatar     *string
	LastActive *time.Time

	Simulator *SimulatorRecord
	Objection *ObjectionRecord
}

// Apply merges the patch onto an entry and returns the result
func (p RegistryPatch) Apply(e RegistryEntry) RegistryEntry {
	if p.XP != nil {
		e.XP = *p.XP
	}
	if p.Level != nil {
		e.Level = *p.Level
	}
	if p.Store != nil {
		e.Store = *p.Store
	}
	if p.Avatar != nil {
		e.Avatar = *p.Avatar
	}
	if p.LastActive != nil {
		e.LastActive = *p.LastActive
	}
	if p.Simulator != nil {
		e.LastSimulatorSession = prependCapped(e.LastSimulatorSession, *p.Simulator, HistoryCap)
	}
	if p.Objection != nil {
		e.LastObjectionSession = prependCapped(e.LastObjectionSession, *p.Objection, HistoryCap)
	}
	return e
}

func prependCapped[T any](list []T, item T, limit int) []T {
	out := make([]T, 0, min(len(list)+1, limit))
	out = append(out, item)
	for _, v := range list {
		if len(out) == limit {
			break
		}
		out = append(out, v)
	}
	return out
}

// ObjectionRecord is one answered objection
type ObjectionRecord struct {
	Date     time.Time  `json:"date"`
	Question string     `json:"question"`
	Answer   string     `json:"answer"`
	Score    int        `json:"score"`
	Metrics  *Judgement `json:"metrics,omitempty"`
	Degraded bool       `json:"degraded,omitempty"`
}

// ChatOutcome records how a simulator conversation ended
type ChatOutcome string

const (
	ChatEvaluated  ChatOutcome = "evaluated"
	ChatClientLeft ChatOutcome = "client_left"
	ChatProfanity  ChatOutcome = "profanity"
)

// SimulatorRecord is one finished simulator conversation
type SimulatorRecord struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Date     time.Time     `json:"date"`
	Product  string        `json:"product"`
	Mood     Mood          `json:"mood"`
	Messages []ChatMessage `json:"messages"`
	Score    int           `json:"score"`
	Outcome  ChatOutcome   `json:"outcome"`
	Metrics  *Judgement    `json:"metrics,omitempty"`
	Degraded bool          `json:"degraded,omitempty"`
}
