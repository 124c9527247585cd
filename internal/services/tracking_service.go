package services

import (
	"strings"
	"time"

	"syndicate_armory/internal/models"
	"syndicate_armory/internal/repository"

	"go.uber.org/zap"
)

// TrackingService resolves public tracking codes. It is the only part of
// the core exposed over the network.
type TrackingService interface {
	Lookup(code string) (*models.Order, error)
	QueuePosition(code string) (int, error)
}

type trackingService struct {
	repo   repository.OrderRepository
	query  QueryService
	cache  OrderCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewTrackingService(repo repository.OrderRepository, query QueryService, cache OrderCache, ttl time.Duration, logger *zap.Logger) TrackingService {
	return &trackingService{
		repo:   repo,
		query:  query,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// NormalizeTrackingID trims and uppercases a code; ok is false when the
// result is not exactly six characters.
func NormalizeTrackingID(code string) (string, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(code))
	return cleaned, len(cleaned) == TrackingIDLength
}

// Lookup normalizes before checking existence, so a malformed code and an
// unknown code produce the same not-found outcome.
func (s *trackingService) Lookup(code string) (*models.Order, error) {
	cleaned, ok := NormalizeTrackingID(code)
	if !ok {
		return nil, ErrOrderNotFound
	}

	if s.cache != nil {
		if cached, err := s.cache.GetOrder(cleaned); err == nil {
			return cached, nil
		}
	}

	order, err := s.repo.GetByTrackingID(cleaned)
	if err != nil {
		return nil, translateRepoError(err)
	}

	if s.cache != nil {
		if err := s.cache.SetOrder(cleaned, order, s.ttl); err != nil {
			s.logger.Warn("failed to cache order",
				zap.String("tracking_id", cleaned),
				zap.Error(err))
		}
	}
	return order, nil
}

func (s *trackingService) QueuePosition(code string) (int, error) {
	cleaned, ok := NormalizeTrackingID(code)
	if !ok {
		return 0, ErrOrderNotFound
	}
	return s.query.OrdersAhead(cleaned)
}
