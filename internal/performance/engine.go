package performance

import (
	"time"

	"tableside/internal/domain"
)

// Point formula constants. The speed bonus is a linear ramp: full
// bonus at or under fastThresholdSeconds, zero at or over
// slowThresholdSeconds.
const (
	BasePoints           = 10
	MaxSpeedBonus        = 20
	fastThresholdSeconds = 120
	slowThresholdSeconds = 600
	streakBonusPerDay    = 5
	maxStreakBonus       = 25
)

// Result is the outcome of applying one completion event.
type Result struct {
	Record          domain.ChefPerformance
	PointsEarned    int
	NewAchievements []string
}

// ApplyCompletion recomputes a chef's performance record for one
// completed order. It is pure: the caller owns loading the record and
// persisting the result atomically.
func ApplyCompletion(rec domain.ChefPerformance, completionSeconds int, now time.Time) Result {
	today := dateUTC(now)

	oldCount := rec.OrdersCompleted
	rec.OrdersCompleted++
	rec.AvgCompletionSeconds = (rec.AvgCompletionSeconds*float64(oldCount) + float64(completionSeconds)) /
		float64(rec.OrdersCompleted)

	if rec.FastestCompletionSeconds == nil || completionSeconds < *rec.FastestCompletionSeconds {
		fastest := completionSeconds
		rec.FastestCompletionSeconds = &fastest
	}

	rec.StreakDays = nextStreak(rec.StreakDays, rec.LastActiveDate, today)
	rec.LastActiveDate = &today

	earned := BasePoints + SpeedBonus(completionSeconds) + StreakBonus(rec.StreakDays)
	rec.Points += earned
	rec.Level = domain.LevelForPoints(rec.Points)

	var unlocked []string
	for _, a := range Catalog {
		if rec.HasAchievement(string(a.ID)) {
			continue
		}
		if a.Unlocked(rec, completionSeconds) {
			rec.Achievements = append(rec.Achievements, string(a.ID))
			unlocked = append(unlocked, string(a.ID))
		}
	}

	return Result{Record: rec, PointsEarned: earned, NewAchievements: unlocked}
}

// SpeedBonus maps a completion time onto 0..MaxSpeedBonus, decreasing
// linearly between the fast and slow thresholds.
func SpeedBonus(completionSeconds int) int {
	switch {
	case completionSeconds <= fastThresholdSeconds:
		return MaxSpeedBonus
	case completionSeconds >= slowThresholdSeconds:
		return 0
	default:
		return MaxSpeedBonus * (slowThresholdSeconds - completionSeconds) /
			(slowThresholdSeconds - fastThresholdSeconds)
	}
}

// StreakBonus is streak*5 capped at 25.
func StreakBonus(streakDays int) int {
	b := streakDays * streakBonusPerDay
	if b > maxStreakBonus {
		return maxStreakBonus
	}
	return b
}

// nextStreak applies the daily-streak rule: +1 if the last active day
// was exactly yesterday, unchanged if it was today, reset to 1 for a
// gap of two or more days or a first-ever session.
func nextStreak(current int, lastActive *time.Time, today time.Time) int {
	if lastActive == nil {
		return 1
	}
	last := dateUTC(*lastActive)
	switch today.Sub(last) {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 24 * time.Hour:
		return current + 1
	default:
		return 1
	}
}

func dateUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
