package model

// Achievement names
const (
	AchievementFirstStep       = "First Step"
	AchievementMarathoner      = "Marathoner"
	AchievementObjectionMaster = "Objection Master"
	AchievementServiceGuru     = "Service Guru"
)

// MarathonerXP is the XP at which Marathoner unlocks
const MarathonerXP = 1000

// AchievementInfo describes an entry in the achievement catalogue
type AchievementInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Achievements is the full catalogue. Objection Master and Service Guru
// have no unlock rule yet.
var Achievements = []AchievementInfo{
	{Name: AchievementFirstStep, Description: "Complete your first training module"},
	{Name: AchievementMarathoner, Description: "Earn 1000 XP"},
	{Name: AchievementObjectionMaster, Description: "Handle every objection in the drill"},
	{Name: AchievementServiceGuru, Description: "Earn top satisfaction marks from a simulated client"},
}
