package repository

import (
	"sync"
	"time"

	"syndicate_armory/internal/models"
)

// memoryOrder pairs a stored order with its own lock so mutations on
// different orders never contend.
type memoryOrder struct {
	mu    sync.Mutex
	order *models.Order
}

// MemoryOrderRepository keeps all orders in process memory. It is the
// default store; everything resets on restart.
type MemoryOrderRepository struct {
	mu      sync.RWMutex
	byID    map[string]*memoryOrder
	byTrack map[string]string // tracking id -> order id
	ids     []string          // insertion order
	seq     int64
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		byID:    make(map[string]*memoryOrder),
		byTrack: make(map[string]string),
	}
}

func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTrack[order.TrackingID]; exists {
		return ErrTrackingIDTaken
	}
	if _, exists := r.byID[order.ID]; exists {
		return ErrTrackingIDTaken
	}

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	r.seq++
	order.Seq = r.seq

	r.byID[order.ID] = &memoryOrder{order: order.Clone()}
	r.byTrack[order.TrackingID] = order.ID
	r.ids = append(r.ids, order.ID)
	return nil
}

func (r *MemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.order.Clone(), nil
}

func (r *MemoryOrderRepository) GetByTrackingID(trackingID string) (*models.Order, error) {
	r.mu.RLock()
	id, ok := r.byTrack[trackingID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrOrderNotFound
	}
	return r.GetByID(id)
}

func (r *MemoryOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	entries := make([]*memoryOrder, 0, len(r.ids))
	for _, id := range r.ids {
		entries = append(entries, r.byID[id])
	}
	r.mu.RUnlock()

	out := make([]models.Order, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		out = append(out, *entry.order.Clone())
		entry.mu.Unlock()
	}
	return out, nil
}

// Mutate applies fn to a working copy under the order's lock and swaps the
// copy in only when fn succeeds, so a failed mutation leaves no trace.
func (r *MemoryOrderRepository) Mutate(id string, fn func(*models.Order) error) (*models.Order, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.order.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	entry.order = working
	return working.Clone(), nil
}

func (r *MemoryOrderRepository) entry(id string) (*memoryOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return entry, nil
}
