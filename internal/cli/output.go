package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Identity:
		o.printIdentity(v)
	case Options:
		o.printOptions(v)
	case Dashboard:
		o.printDashboard(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case []Achievement:
		o.printAchievements(v)
	case ExerciseList:
		o.printExerciseList(v)
	case ExerciseView:
		o.printExerciseView(v)
	case SpellCheck:
		o.printSpellCheck(v)
	case []UserSummary:
		o.printUsers(v)
	case ShopStats:
		o.printShopStats(v)
	case []CustomResponse:
		o.printResponses(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Profile response type (matches API)
type Profile struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Position         string   `json:"position"`
	Store            string   `json:"store"`
	Level            string   `json:"level"`
	XP               int      `json:"xp"`
	ModulesCompleted int      `json:"modulesCompleted"`
	AvgRating        float64  `json:"avgRating"`
	Achievements     []string `json:"achievements"`
}

// Identity is the signed-in user
type Identity struct {
	Profile    Profile `json:"profile"`
	LevelLabel string  `json:"levelLabel"`
	Avatar     string  `json:"avatar"`
	IsAdmin    bool    `json:"isAdmin"`
}

// Options lists the login choices
type Options struct {
	Stores  []string `json:"stores"`
	Avatars []string `json:"avatars"`
	Moods   []string `json:"moods"`
}

// DayActivity is one weekday's XP
type DayActivity struct {
	Day string `json:"day"`
	XP  int    `json:"xp"`
}

// Dashboard response type
type Dashboard struct {
	Profile            Profile       `json:"profile"`
	LevelLabel         string        `json:"levelLabel"`
	SkillIndex         float64       `json:"skillIndex"`
	AchievementCount   int           `json:"achievementCount"`
	RecentAchievements []string      `json:"recentAchievements"`
	ActiveUsers        int           `json:"activeUsers"`
	Rank               int           `json:"rank"`
	Weekly             []DayActivity `json:"weekly"`
}

// LeaderboardRow response type
type LeaderboardRow struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Store   string `json:"store"`
	Level   string `json:"level"`
	XP      int    `json:"xp"`
	Avatar  string `json:"avatar"`
	Current bool   `json:"current"`
}

// Leaderboard response type
type Leaderboard struct {
	Rows        []LeaderboardRow `json:"rows"`
	CurrentRank int              `json:"currentRank"`
}

// Achievement is a catalogue entry with its unlock state
type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// ExerciseInfo describes one exercise
type ExerciseInfo struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Persisted   bool   `json:"persisted"`
	Mounted     bool   `json:"mounted"`
}

// ExerciseList response type
type ExerciseList struct {
	Exercises      []ExerciseInfo `json:"exercises"`
	JudgeAvailable bool           `json:"judgeAvailable"`
}

// ExerciseView carries an exercise's state; the view shape depends on kind
type ExerciseView struct {
	Kind string          `json:"kind"`
	View json.RawMessage `json:"view"`
}

// SpellCheck response type
type SpellCheck struct {
	CorrectedText string `json:"correctedText"`
	ErrorsFound   bool   `json:"errorsFound"`
	Explanation   string `json:"explanation"`
	Degraded      bool   `json:"degraded"`
}

// UserSummary response type
type UserSummary struct {
	Name               string    `json:"name"`
	Store              string    `json:"store"`
	Level              string    `json:"level"`
	XP                 int       `json:"xp"`
	Avatar             string    `json:"avatar"`
	LastActive         time.Time `json:"lastActive"`
	SimulatorSessions  int       `json:"simulatorSessions"`
	ObjectionResponses int       `json:"objectionResponses"`
}

// ShopStats response type
type ShopStats struct {
	Users        int    `json:"users"`
	TotalXP      int    `json:"totalXp"`
	AvgXP        int    `json:"avgXp"`
	TopPerformer string `json:"topPerformer"`
}

// CustomResponse is a logged free-text answer
type CustomResponse struct {
	Date     time.Time `json:"date"`
	Name     string    `json:"name"`
	Question string    `json:"question"`
	Response string    `json:"response"`
	Score    int       `json:"score"`
	Feedback string    `json:"feedback"`
}

// HealthResult response type
type HealthResult struct {
	Status         string `json:"status"`
	JudgeAvailable bool   `json:"judgeAvailable"`
}

func (o *Output) printIdentity(id Identity) {
	role := ""
	if id.IsAdmin {
		role = " [admin]"
	}
	fmt.Fprintf(o.w, "User: %s%s\n", id.Profile.Name, role)
	fmt.Fprintf(o.w, "Store: %s\n", id.Profile.Store)
	fmt.Fprintf(o.w, "Level: %s (%d XP)\n", id.LevelLabel, id.Profile.XP)
	fmt.Fprintf(o.w, "Avatar: %s\n", id.Avatar)
}

func (o *Output) printOptions(opts Options) {
	fmt.Fprintf(o.w, "Stores: %s\n", strings.Join(opts.Stores, ", "))
	fmt.Fprintf(o.w, "Avatars: %s\n", strings.Join(opts.Avatars, ", "))
	fmt.Fprintf(o.w, "Moods: %s\n", strings.Join(opts.Moods, ", "))
}

func (o *Output) printDashboard(d Dashboard) {
	fmt.Fprintf(o.w, "%s, %s\n", d.Profile.Name, d.LevelLabel)
	fmt.Fprintf(o.w, "XP: %d\n", d.Profile.XP)
	fmt.Fprintf(o.w, "Modules completed: %d\n", d.Profile.ModulesCompleted)
	fmt.Fprintf(o.w, "Skill index: %.1f\n", d.SkillIndex)
	fmt.Fprintf(o.w, "Rank: %d of ~%d active\n", d.Rank, d.ActiveUsers)
	fmt.Fprintf(o.w, "Achievements (%d): %s\n", d.AchievementCount, strings.Join(d.RecentAchievements, ", "))
	fmt.Fprintln(o.w, "This week:")
	for _, day := range d.Weekly {
		fmt.Fprintf(o.w, "  %s %5d\n", day.Day, day.XP)
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	for _, r := range l.Rows {
		marker := " "
		if r.Current {
			marker = "*"
		}
		fmt.Fprintf(o.w, "%s%3d. %-20s %-12s %-14s %6d XP\n", marker, r.Rank, r.Name, r.Store, r.Level, r.XP)
	}
	if l.CurrentRank == 0 {
		fmt.Fprintln(o.w, "You are not ranked yet")
	}
}

func (o *Output) printAchievements(list []Achievement) {
	for _, a := range list {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Fprintf(o.w, "%s %s: %s\n", mark, a.Name, a.Description)
	}
}

func (o *Output) printExerciseList(l ExerciseList) {
	for _, e := range l.Exercises {
		state := ""
		if e.Mounted {
			state = " (open)"
		}
		fmt.Fprintf(o.w, "%-13s %s%s\n", e.Kind, e.Title, state)
		fmt.Fprintf(o.w, "              %s\n", e.Description)
	}
	if !l.JudgeAvailable {
		fmt.Fprintln(o.w, "Judgement service offline: answers get fallback scores")
	}
}

func (o *Output) printExerciseView(v ExerciseView) {
	fmt.Fprintf(o.w, "Exercise: %s\n", v.Kind)
	var pretty any
	if err := json.Unmarshal(v.View, &pretty); err != nil {
		fmt.Fprintln(o.w, string(v.View))
		return
	}
	o.printJSON(pretty)
}

func (o *Output) printSpellCheck(s SpellCheck) {
	if s.Degraded {
		fmt.Fprintln(o.w, "Spelling check unavailable")
		return
	}
	if !s.ErrorsFound {
		fmt.Fprintln(o.w, "No errors found")
		return
	}
	fmt.Fprintf(o.w, "Suggested: %s\n", s.CorrectedText)
	if s.Explanation != "" {
		fmt.Fprintf(o.w, "Why: %s\n", s.Explanation)
	}
}

func (o *Output) printUsers(users []UserSummary) {
	for _, u := range users {
		fmt.Fprintf(o.w, "%-20s %-12s %-14s %6d XP  chats:%d objections:%d\n",
			u.Name, u.Store, u.Level, u.XP, u.SimulatorSessions, u.ObjectionResponses)
	}
}

func (o *Output) printShopStats(s ShopStats) {
	fmt.Fprintf(o.w, "Users: %d\n", s.Users)
	fmt.Fprintf(o.w, "Total XP: %d\n", s.TotalXP)
	fmt.Fprintf(o.w, "Average XP: %d\n", s.AvgXP)
	fmt.Fprintf(o.w, "Top performer: %s\n", s.TopPerformer)
}

func (o *Output) printResponses(list []CustomResponse) {
	for _, r := range list {
		fmt.Fprintf(o.w, "[%s] %s (%+d)\n", r.Date.Format("2006-01-02 15:04"), r.Name, r.Score)
		fmt.Fprintf(o.w, "  Q: %s\n", r.Question)
		fmt.Fprintf(o.w, "  A: %s\n", r.Response)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	judge := "offline"
	if h.JudgeAvailable {
		judge = "available"
	}
	fmt.Fprintf(o.w, "Judgement service: %s\n", judge)
}
