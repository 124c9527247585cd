package services

import (
	"errors"
	"math/rand"
	"time"

	"syndicate_armory/internal/models"
	"syndicate_armory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// TrackingIDLength is the size of the public tracking code.
	TrackingIDLength = 6

	// trackingIDCharset omits 0, O, 1 and I to keep codes readable over
	// the phone.
	trackingIDCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// trackingIDAttempts bounds the collision-retry loop on create.
	trackingIDAttempts = 10
)

type ItemInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type CreateOrderInput struct {
	Items           []ItemInput `json:"items"`
	BuyerName       string      `json:"buyerName"`
	Phone           string      `json:"phone"`
	GangName        string      `json:"gangName"`
	ImportTotal     *int64      `json:"importTotal"`
	EstimatedPickup *time.Time  `json:"estimatedPickup"`
}

// OrderCache is the invalidation hook for the tracking-lookup cache. A nil
// cache disables it.
type OrderCache interface {
	SetOrder(trackingID string, order *models.Order, ttl time.Duration) error
	GetOrder(trackingID string) (*models.Order, error)
	InvalidateOrder(trackingID string) error
}

type OrderService interface {
	CreateOrder(input CreateOrderInput) (*models.Order, error)
	GetOrderByID(id string) (*models.Order, error)
	GetOrderByTrackingID(trackingID string) (*models.Order, error)
	ChangeStatus(id string, next models.OrderStatus, actor string) (*models.Order, error)
	TogglePayment(id string, actor string) (*models.Order, error)
	ToggleTreasury(id string, actor string) (*models.Order, error)
}

type orderService struct {
	repo   repository.OrderRepository
	cache  OrderCache
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderService(repo repository.OrderRepository, cache OrderCache, logger *zap.Logger) OrderService {
	return &orderService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

func (s *orderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyItems
	}

	var total int64
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, ErrQuantityInvalid
		}
		if it.Price < 0 {
			return nil, ErrPriceInvalid
		}
		total += int64(it.Quantity) * it.Price
		items = append(items, models.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	order := &models.Order{
		ID:              "ord_" + uuid.NewString(),
		Status:          models.StatusPendingReview,
		Items:           items,
		TotalPrice:      total,
		ImportTotal:     input.ImportTotal,
		CreatedAt:       s.now().UTC(),
		EstimatedPickup: input.EstimatedPickup,
		BuyerName:       input.BuyerName,
		Phone:           input.Phone,
		GangName:        input.GangName,
		History:         []models.HistoryEntry{},
	}

	// The tracking code is only unique by the repository's say-so; retry
	// until an unclaimed one lands.
	var err error
	for attempt := 0; attempt < trackingIDAttempts; attempt++ {
		order.TrackingID = generateTrackingID()
		err = s.repo.Create(order)
		if err == nil {
			s.logger.Info("order created",
				zap.String("order_id", order.ID),
				zap.String("tracking_id", order.TrackingID))
			return order.Clone(), nil
		}
		if !errors.Is(err, repository.ErrTrackingIDTaken) {
			return nil, err
		}
	}
	return nil, err
}

func (s *orderService) GetOrderByID(id string) (*models.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return order, nil
}

func (s *orderService) GetOrderByTrackingID(trackingID string) (*models.Order, error) {
	order, err := s.repo.GetByTrackingID(trackingID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return order, nil
}

// ChangeStatus validates the transition against the canonical flow, appends
// the audit entry, and commits status plus the refund flag in one atomic
// mutation.
func (s *orderService) ChangeStatus(id string, next models.OrderStatus, actor string) (*models.Order, error) {
	if !next.IsValid() {
		return nil, ErrUnknownStatus
	}

	updated, err := s.repo.Mutate(id, func(o *models.Order) error {
		if err := ValidateTransition(o.Status, next); err != nil {
			return err
		}
		o.History = append(o.History, models.HistoryEntry{
			OrderID: o.ID,
			Action:  models.ActionStatus,
			From:    string(o.Status),
			To:      string(next),
			By:      actor,
			At:      s.now().UTC(),
		})
		o.Status = next
		if next == models.StatusRefunded {
			o.IsRefunded = true
		}
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	s.logger.Info("order status changed",
		zap.String("order_id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.String("actor", actor))
	s.invalidateCache(updated.TrackingID)
	return updated, nil
}

func (s *orderService) TogglePayment(id string, actor string) (*models.Order, error) {
	updated, err := s.repo.Mutate(id, func(o *models.Order) error {
		from, to := models.PaymentUnpaid, models.PaymentPaid
		if o.IsPaid {
			from, to = to, from
		}
		o.History = append(o.History, models.HistoryEntry{
			OrderID: o.ID,
			Action:  models.ActionPayment,
			From:    from,
			To:      to,
			By:      actor,
			At:      s.now().UTC(),
		})
		o.IsPaid = !o.IsPaid
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	s.invalidateCache(updated.TrackingID)
	return updated, nil
}

func (s *orderService) ToggleTreasury(id string, actor string) (*models.Order, error) {
	updated, err := s.repo.Mutate(id, func(o *models.Order) error {
		from, to := models.TreasuryOut, models.TreasuryIn
		if o.InTreasury {
			from, to = to, from
		}
		o.History = append(o.History, models.HistoryEntry{
			OrderID: o.ID,
			Action:  models.ActionTreasury,
			From:    from,
			To:      to,
			By:      actor,
			At:      s.now().UTC(),
		})
		o.InTreasury = !o.InTreasury
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	s.invalidateCache(updated.TrackingID)
	return updated, nil
}

func (s *orderService) invalidateCache(trackingID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrder(trackingID); err != nil {
		s.logger.Warn("failed to invalidate order cache",
			zap.String("tracking_id", trackingID),
			zap.Error(err))
	}
}

// ValidateTransition enforces the status state machine: forward jumps along
// the canonical flow are legal, cancelled and refunded are reachable from
// any non-terminal status, and terminal statuses block every outgoing move.
func ValidateTransition(from, to models.OrderStatus) error {
	if from.IsTerminal() {
		return &InvalidTransitionError{From: from, To: to}
	}
	if to == models.StatusCancelled || to == models.StatusRefunded {
		return nil
	}
	if to.FlowIndex() > from.FlowIndex() {
		return nil
	}
	return &InvalidTransitionError{From: from, To: to}
}

func generateTrackingID() string {
	code := make([]byte, TrackingIDLength)
	for i := range code {
		code[i] = trackingIDCharset[rand.Intn(len(trackingIDCharset))]
	}
	return string(code)
}

func translateRepoError(err error) error {
	if errors.Is(err, repository.ErrOrderNotFound) {
		return ErrOrderNotFound
	}
	return err
}
