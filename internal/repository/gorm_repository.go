package repository

import (
	"errors"
	"time"

	"syndicate_armory/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository is the swappable persistent store. The in-memory
// repository stays the default; this one is selected when DATABASE_URL is
// configured.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(order *models.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("tracking_id = ?", order.TrackingID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrTrackingIDTaken
		}
		return tx.Create(order).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrTrackingIDTaken
	}
	return err
}

func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.preloaded(r.db).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) GetByTrackingID(trackingID string) (*models.Order, error) {
	var order models.Order
	err := r.preloaded(r.db).First(&order, "tracking_id = ?", trackingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.preloaded(r.db).Order("seq").Find(&orders).Error
	return orders, err
}

// Mutate runs fn inside a transaction with the order row locked FOR UPDATE,
// then persists the status, the flags, and any history entries fn appended.
// Items are immutable after creation and are never written back.
func (r *GormOrderRepository) Mutate(id string, fn func(*models.Order) error) (*models.Order, error) {
	var out *models.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Order("id").Find(&order.Items, "order_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Order("id").Find(&order.History, "order_id = ?", id).Error; err != nil {
			return err
		}

		priorEntries := len(order.History)
		if err := fn(&order); err != nil {
			return err
		}

		appended := order.History[priorEntries:]
		for i := range appended {
			appended[i].ID = 0
			appended[i].OrderID = id
		}
		if len(appended) > 0 {
			if err := tx.Create(&appended).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"status":      order.Status,
			"is_paid":     order.IsPaid,
			"in_treasury": order.InTreasury,
			"is_refunded": order.IsRefunded,
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		out = order.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormOrderRepository) preloaded(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("order_history.id") })
}
