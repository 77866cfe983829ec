package kitchen

import (
	"context"
	"encoding/json"
	"time"

	"tableside/internal/common/logger"
	"tableside/internal/common/mq"
	"tableside/internal/domain"
	"tableside/internal/performance"
)

const defaultLeaderboardLimit = 10

type Publisher interface {
	PublishPersistent(ctx context.Context, exchange, key string, priority uint8, correlationID string, body []byte) error
}

type Service struct {
	repo Repository
	pub  Publisher
	lg   *logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, pub Publisher, lg *logger.Logger) *Service {
	return &Service{repo: repo, pub: pub, lg: lg, now: time.Now}
}

// Start moves an order into preparation on behalf of a chef.
func (s *Service) Start(ctx context.Context, orderID, chefID string) (*domain.Order, error) {
	o, err := s.repo.StartPreparing(ctx, orderID, chefID)
	if err != nil {
		return nil, err
	}
	eta := s.now().UTC().Add(time.Duration(o.Status.EstimatedWaitMinutes()) * time.Minute)
	s.publishStatus(ctx, o, domain.StatusPending, chefID, eta)
	s.lg.Debug("order_preparation_started", map[string]any{"order_id": o.ID, "chef_id": chefID})
	return o, nil
}

// Complete marks an order ready and credits the chef, returning the
// recomputed performance record and any newly unlocked achievements.
func (s *Service) Complete(ctx context.Context, orderID string, req domain.CompleteOrderRequest) (*domain.CompleteOrderResponse, error) {
	if req.CompletionTime <= 0 {
		return nil, domain.NewValidationError("completionTime", "must be a positive number of seconds")
	}

	res, o, err := s.repo.CompleteOrder(ctx, orderID, req.UserID, req.CompletionTime, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.publishStatus(ctx, o, domain.StatusPreparing, req.UserID, s.now().UTC())

	s.lg.Info("order_completed", map[string]any{
		"order_id":         o.ID,
		"chef_id":          req.UserID,
		"completion_time":  req.CompletionTime,
		"points_earned":    res.PointsEarned,
		"new_achievements": res.NewAchievements,
	})
	return &domain.CompleteOrderResponse{
		Performance:     res.Record,
		PointsEarned:    res.PointsEarned,
		NewAchievements: stringsOrEmpty(res.NewAchievements),
	}, nil
}

// Leaderboard returns the restaurant's ranked chef standings.
func (s *Service) Leaderboard(ctx context.Context, restaurantID string, limit int) ([]domain.LeaderboardEntry, error) {
	if restaurantID == "" {
		return nil, domain.NewValidationError("restaurantId", "is required")
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	records, err := s.repo.ListPerformance(ctx, restaurantID, limit)
	if err != nil {
		return nil, err
	}
	return performance.Rank(records), nil
}

func (s *Service) publishStatus(ctx context.Context, o *domain.Order, oldStatus domain.Status, chefID string, eta time.Time) {
	msg := domain.StatusChangedMessage{
		OrderID:        o.ID,
		OrderNumber:    o.Number,
		RestaurantID:   o.RestaurantID,
		OldStatus:      oldStatus,
		NewStatus:      o.Status,
		ChangedBy:      chefID,
		Timestamp:      s.now().UTC(),
		EstimatedReady: eta,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		s.lg.Error("status_event_marshal_failed", err, map[string]any{"order_id": o.ID})
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.pub.PublishPersistent(pctx, mq.NotificationsExchange, "", 0, o.Number, body); err != nil {
		s.lg.Error("status_event_publish_failed", err, map[string]any{"order_id": o.ID})
	}
}

// stringsOrEmpty keeps newAchievements as [] rather than null in JSON.
func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
