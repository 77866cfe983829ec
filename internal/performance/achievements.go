package performance

import "tableside/internal/domain"

// AchievementID enumerates the static achievement catalog.
type AchievementID string

const (
	AchievementFirstOrder     AchievementID = "first_order"
	AchievementTenOrders      AchievementID = "ten_orders"
	AchievementFiftyOrders    AchievementID = "fifty_orders"
	AchievementThreeDayStreak AchievementID = "three_day_streak"
	AchievementSevenDayStreak AchievementID = "seven_day_streak"
	AchievementSpeedDemon     AchievementID = "speed_demon"
)

// SpeedDemonSeconds is the completion time below which speed_demon
// unlocks.
const SpeedDemonSeconds = 120

// Achievement couples an identifier with its unlock criteria. Criteria
// are evaluated against the already-updated record; completionSeconds
// is this event's completion time.
type Achievement struct {
	ID       AchievementID
	Title    string
	Unlocked func(rec domain.ChefPerformance, completionSeconds int) bool
}

// Catalog is the shipped achievement set. Changing criteria requires a
// data migration note; unlocked achievements are never revoked.
var Catalog = []Achievement{
	{
		ID:    AchievementFirstOrder,
		Title: "First Order",
		Unlocked: func(rec domain.ChefPerformance, _ int) bool {
			return rec.OrdersCompleted >= 1
		},
	},
	{
		ID:    AchievementTenOrders,
		Title: "Ten Orders",
		Unlocked: func(rec domain.ChefPerformance, _ int) bool {
			return rec.OrdersCompleted >= 10
		},
	},
	{
		ID:    AchievementFiftyOrders,
		Title: "Fifty Orders",
		Unlocked: func(rec domain.ChefPerformance, _ int) bool {
			return rec.OrdersCompleted >= 50
		},
	},
	{
		ID:    AchievementThreeDayStreak,
		Title: "Three-Day Streak",
		Unlocked: func(rec domain.ChefPerformance, _ int) bool {
			return rec.StreakDays >= 3
		},
	},
	{
		ID:    AchievementSevenDayStreak,
		Title: "Seven-Day Streak",
		Unlocked: func(rec domain.ChefPerformance, _ int) bool {
			return rec.StreakDays >= 7
		},
	},
	{
		ID:    AchievementSpeedDemon,
		Title: "Speed Demon",
		Unlocked: func(_ domain.ChefPerformance, completionSeconds int) bool {
			return completionSeconds < SpeedDemonSeconds
		},
	},
}
