package progression

import "github.com/rbt-academy/trainer/internal/model"

// Apply returns the profile after a score report of delta XP. XP never
// drops below zero, level follows XP, and every report counts as one
// completed module. Achievements are only ever added.
func Apply(p model.UserProfile, delta int) model.UserProfile {
	next := p.Clone()
	next.XP = max(0, p.XP+delta)
	next.Level = model.LevelForXP(next.XP)
	next.ModulesCompleted = p.ModulesCompleted + 1

	if next.ModulesCompleted == 1 {
		next = unlock(next, model.AchievementFirstStep)
	}
	if next.XP >= model.MarathonerXP {
		next = unlock(next, model.AchievementMarathoner)
	}
	return next
}

func unlock(p model.UserProfile, name string) model.UserProfile {
	if !p.HasAchievement(name) {
		p.Achievements = append(p.Achievements, name)
	}
	return p
}
