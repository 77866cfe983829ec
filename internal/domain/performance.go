package domain

import "time"

// PointsPerLevel is the point span of a single chef level.
const PointsPerLevel = 100

// ChefPerformance is a chef's aggregate score within one restaurant.
// It is created lazily on the first completed order and recomputed as
// a whole on every completion.
type ChefPerformance struct {
	ChefID                   string     `json:"chefId"`
	RestaurantID             string     `json:"restaurantId"`
	OrdersCompleted          int        `json:"ordersCompleted"`
	AvgCompletionSeconds     float64    `json:"avgCompletionTime"`
	FastestCompletionSeconds *int       `json:"fastestCompletionTime,omitempty"`
	StreakDays               int        `json:"streak"`
	Points                   int        `json:"points"`
	Level                    int        `json:"level"`
	Achievements             []string   `json:"achievements"`
	LastActiveDate           *time.Time `json:"lastActiveDate,omitempty"`
}

// HasAchievement reports whether id is already in the unlocked set.
func (p *ChefPerformance) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// LevelForPoints derives the level from accumulated points.
func LevelForPoints(points int) int {
	return points/PointsPerLevel + 1
}

// LevelProgress is the point count toward the next level.
func (p *ChefPerformance) LevelProgress() int {
	return p.Points % PointsPerLevel
}
