package repository

import (
	"errors"

	"syndicate_armory/internal/models"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrTrackingIDTaken = errors.New("tracking id already in use")
)

// OrderRepository is the single source of truth for order state. Mutate is
// the only write path after creation: the read-modify-write it performs must
// be atomic per order, and a non-nil error from fn must leave the stored
// order untouched.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByTrackingID(trackingID string) (*models.Order, error)
	GetAll() ([]models.Order, error)
	Mutate(id string, fn func(*models.Order) error) (*models.Order, error)
}
