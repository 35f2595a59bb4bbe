package model

import (
	"fmt"
	"slices"
	"strings"
)

// Level is a competence tier, ordered Junior < Middle < Senior < Expert.
type Level int

const (
	LevelJunior Level = iota
	LevelMiddle
	LevelSenior
	LevelExpert
)

// XP thresholds for each level above Junior
const (
	MiddleXP = 1000
	SeniorXP = 2000
	ExpertXP = 3000
)

var levelNames = [...]string{"Junior", "Middle", "Senior", "Expert"}

// Human-readable labels written into the registry
var levelLabels = [...]string{
	"Trainee (Junior)",
	"Specialist (Middle)",
	"Master (Senior)",
	"Expert (Expert)",
}

// LevelForXP returns the level a profile with the given XP holds.
// Level is always derived from XP, never stored independently of it.
func LevelForXP(xp int) Level {
	switch {
	case xp >= ExpertXP:
		return LevelExpert
	case xp >= SeniorXP:
		return LevelSenior
	case xp >= MiddleXP:
		return LevelMiddle
	default:
		return LevelJunior
	}
}

func (l Level) valid() bool {
	return l >= LevelJunior && l <= LevelExpert
}

// String returns the short level name
func (l Level) String() string {
	if !l.valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Label returns the canonical registry label for the level
func (l Level) Label() string {
	if !l.valid() {
		return levelLabels[LevelJunior]
	}
	return levelLabels[l]
}

// ParseLevel accepts either a short name ("Senior") or a registry label.
func ParseLevel(s string) (Level, bool) {
	s = strings.TrimSpace(s)
	for i := range levelNames {
		if strings.EqualFold(s, levelNames[i]) || s == levelLabels[i] {
			return Level(i), true
		}
	}
	return LevelJunior, false
}

// MarshalText encodes the level by short name
func (l Level) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("invalid level %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText decodes a short name or label
func (l *Level) UnmarshalText(text []byte) error {
	lvl, ok := ParseLevel(string(text))
	if !ok {
		return fmt.Errorf("unknown level %q", string(text))
	}
	*l = lvl
	return nil
}

// Identity constants
const (
	AdminName       = "ADMIN"
	PlaceholderName = "New Employee"
	TemplateID      = "RBT-TEMP"

	DefaultAvatar = "Pulse"
	AdminAvatar   = "admin-core"

	DefaultPosition = "Sales Consultant"
	DefaultStore    = "Chelyabinsk"
	HeadOffice      = "Head Office"
)

// Stores lists the shop locations a user may pick at login
var Stores = []string{"Chelyabinsk", "Shumikha", "Mishkino", "Yurgamysh", "Kurtamysh"}

// AvatarSeeds lists the selectable avatar seeds
var AvatarSeeds = []string{"Pulse", "Core", "Logic", "Flow", "Grid", "Orbit", "Vortex", "Nexus"}

// UserProfile is the signed-in user's progression state
type UserProfile struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Position         string   `json:"position"`
	Store            string   `json:"store"`
	Level            Level    `json:"level"`
	XP               int      `json:"xp"`
	ModulesCompleted int      `json:"modulesCompleted"`
	AvgRating        float64  `json:"avgRating"`
	Achievements     []string `json:"achievements"`
}

// NewProfile returns a fresh copy of the profile template
func NewProfile() UserProfile {
	return UserProfile{
		ID:           TemplateID,
		Name:         PlaceholderName,
		Position:     DefaultPosition,
		Store:        DefaultStore,
		Level:        LevelJunior,
		Achievements: []string{},
	}
}

// NewAdminProfile returns the administrative identity, built fresh each time
func NewAdminProfile() UserProfile {
	p := NewProfile()
	p.Name = AdminName
	p.Store = HeadOffice
	p.Level = LevelExpert
	return p
}

// Clone returns a deep copy of the profile
func (p UserProfile) Clone() UserProfile {
	p.Achievements = slices.Clone(p.Achievements)
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	return p
}

// HasAchievement reports whether the named achievement is unlocked
func (p UserProfile) HasAchievement(name string) bool {
	return slices.Contains(p.Achievements, name)
}

// IsAdminName reports whether a login name selects the administrative path
func IsAdminName(name string) bool {
	return strings.ToUpper(strings.TrimSpace(name)) == AdminName
}

// IsGuardedName reports whether a name must never be written to the registry
func IsGuardedName(name string) bool {
	return name == "" || name == AdminName || name == PlaceholderName
}
