package stats

import (
	"context"
	"log/slog"
	"math"

	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/ledger"
	"github.com/rbt-academy/trainer/internal/services/registry"
)

const (
	// RecentAchievements is how many achievements the dashboard shows
	RecentAchievements = 4
	// NoData names the top performer of an empty shop
	NoData = "No data"
)

// ProfileReader returns the signed-in user's profile
type ProfileReader interface {
	CurrentProfile(ctx context.Context) (model.UserProfile, error)
}

// Dashboard summarises the signed-in user's progress
type Dashboard struct {
	Profile            model.UserProfile   `json:"profile"`
	LevelLabel         string              `json:"levelLabel"`
	SkillIndex         float64             `json:"skillIndex"`
	AchievementCount   int                 `json:"achievementCount"`
	RecentAchievements []string            `json:"recentAchievements"`
	ActiveUsers        int                 `json:"activeUsers"`
	Rank               int                 `json:"rank"`
	Weekly             []model.DayActivity `json:"weekly"`
}

// LeaderboardRow is one ranked registry entry
type LeaderboardRow struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Store   string `json:"store"`
	Level   string `json:"level"`
	XP      int    `json:"xp"`
	Avatar  string `json:"avatar"`
	Current bool   `json:"current"`
}

// Leaderboard is the ranked registry with the caller's position
type Leaderboard struct {
	Rows        []LeaderboardRow `json:"rows"`
	CurrentRank int              `json:"currentRank"`
}

// ShopStats aggregates the whole registry
type ShopStats struct {
	Users        int    `json:"users"`
	TotalXP      int    `json:"totalXp"`
	AvgXP        int    `json:"avgXp"`
	TopPerformer string `json:"topPerformer"`
}

// AchievementStatus is a catalogue entry with the user's unlock state
type AchievementStatus struct {
	model.AchievementInfo
	Unlocked bool `json:"unlocked"`
}

// Service computes read-only views over progress data
type Service struct {
	profiles ProfileReader
	ledger   *ledger.Ledger
	registry *registry.Store
	logger   *slog.Logger
}

// New creates a new stats Service
func New(profiles ProfileReader, ledger *ledger.Ledger, registry *registry.Store, logger *slog.Logger) *Service {
	return &Service{
		profiles: profiles,
		ledger:   ledger,
		registry: registry,
		logger:   logger.With(slog.String("component", "stats")),
	}
}

// Dashboard builds the signed-in user's dashboard
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	p, err := s.profiles.CurrentProfile(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	board := s.registry.Leaderboard(ctx)
	return Dashboard{
		Profile:            p,
		LevelLabel:         p.Level.Label(),
		SkillIndex:         SkillIndex(p.XP, p.ModulesCompleted),
		AchievementCount:   len(p.Achievements),
		RecentAchievements: Recent(p.Achievements, RecentAchievements),
		ActiveUsers:        ActiveUsers(len(board)),
		Rank:               registry.Rank(board, p.Name),
		Weekly:             s.ledger.Weekly(ctx),
	}, nil
}

// Leaderboard ranks the registry by XP. The signed-in user, if any, is
// flagged.
func (s *Service) Leaderboard(ctx context.Context) Leaderboard {
	current := ""
	if p, err := s.profiles.CurrentProfile(ctx); err == nil {
		current = p.Name
	}

	board := s.registry.Leaderboard(ctx)
	out := Leaderboard{Rows: make([]LeaderboardRow, len(board))}
	for i, e := range board {
		out.Rows[i] = LeaderboardRow{
			Rank:    i + 1,
			Name:    e.Name,
			Store:   e.Store,
			Level:   e.Level,
			XP:      e.XP,
			Avatar:  e.Avatar,
			Current: e.Name == current,
		}
		if e.Name == current {
			out.CurrentRank = i + 1
		}
	}
	return out
}

// Achievements lists the catalogue with the signed-in user's unlocks
func (s *Service) Achievements(ctx context.Context) ([]AchievementStatus, error) {
	p, err := s.profiles.CurrentProfile(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AchievementStatus, len(model.Achievements))
	for i, a := range model.Achievements {
		out[i] = AchievementStatus{AchievementInfo: a, Unlocked: p.HasAchievement(a.Name)}
	}
	return out, nil
}

// Shop aggregates XP across the registry
func (s *Service) Shop(ctx context.Context) ShopStats {
	return Shop(s.registry.Leaderboard(ctx))
}

// Shop aggregates entries sorted by XP descending
func Shop(sorted []model.RegistryEntry) ShopStats {
	if len(sorted) == 0 {
		return ShopStats{TopPerformer: NoData}
	}
	total := 0
	for _, e := range sorted {
		total += e.XP
	}
	return ShopStats{
		Users:        len(sorted),
		TotalXP:      total,
		AvgXP:        int(math.Floor(float64(total)/float64(len(sorted)) + 0.5)),
		TopPerformer: sorted[0].Name,
	}
}

// SkillIndex is XP per fifty-XP module scaled to ten, to one decimal place
func SkillIndex(xp, modules int) float64 {
	if modules <= 0 {
		return 0
	}
	v := float64(xp) / float64(modules*50) * 10
	return math.Round(v*10) / 10
}

// ActiveUsers estimates how many colleagues are online from the registry size
func ActiveUsers(registered int) int {
	return max(1, registered*4/10+1)
}

// Recent returns up to n of the latest achievements, newest first
func Recent(achievements []string, n int) []string {
	start := max(0, len(achievements)-n)
	out := make([]string, 0, len(achievements)-start)
	for i := len(achievements) - 1; i >= start; i-- {
		out = append(out, achievements[i])
	}
	return out
}
