package service

import (
	"time"

	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/model"
)

// levelTiers is the fixed ascending threshold table. A user's level is the
// 1-based index of the highest tier whose threshold their points reach.
var levelTiers = []struct {
	Points int
	Title  string
}{
	{0, "Novice"},
	{100, "Student"},
	{300, "Connoisseur"},
	{600, "Master"},
	{1000, "Expert"},
	{1500, "Professional"},
	{2500, "Guru"},
	{4000, "Legend"},
}

func LevelForPoints(points int) int {
	for i := len(levelTiers) - 1; i >= 0; i-- {
		if points >= levelTiers[i].Points {
			return i + 1
		}
	}
	return 1
}

func LevelTitle(level int) string {
	if level < 1 || level > len(levelTiers) {
		return levelTiers[len(levelTiers)-1].Title
	}
	return levelTiers[level-1].Title
}

// PointsToNextLevel returns 0 once the top tier is reached.
func PointsToNextLevel(points int) int {
	level := LevelForPoints(points)
	if level >= len(levelTiers) {
		return 0
	}
	remaining := levelTiers[level].Points - points
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ApplyStreak advances the daily-activity streak in place. Day gaps are whole
// 24h durations of wall-clock time, not calendar-day boundaries: two
// submissions either side of midnight can land in the same "day". This model
// is kept on purpose; see DESIGN.md.
func ApplyStreak(user *model.User, now time.Time) {
	if user.LastActivityDate == nil {
		user.CurrentStreak = 1
	} else {
		switch days := int(now.Sub(*user.LastActivityDate).Hours() / 24); {
		case days == 0:
			// same day, streak unchanged
		case days == 1:
			user.CurrentStreak++
		default:
			user.CurrentStreak = 1
		}
	}
	activity := now
	user.LastActivityDate = &activity
}

// ApplyPoints adds delta to the user's total and recomputes the level.
// The stored level only ever moves up. Returns a level-up descriptor when a
// tier boundary was crossed, nil otherwise.
func ApplyPoints(user *model.User, delta int) *dto.LevelUpDTO {
	oldLevel := LevelForPoints(user.TotalPoints)
	user.TotalPoints += delta
	newLevel := LevelForPoints(user.TotalPoints)

	if newLevel <= oldLevel {
		return nil
	}
	if newLevel > user.Level {
		user.Level = newLevel
	}
	return &dto.LevelUpDTO{
		PreviousLevel: oldLevel,
		NewLevel:      newLevel,
		NewTitle:      LevelTitle(newLevel),
	}
}
