package models

import (
	"time"
)

type Order struct {
	ID              string         `json:"id" gorm:"primaryKey;size:40"`
	TrackingID      string         `json:"trackingId" gorm:"uniqueIndex;size:6;not null"`
	Status          OrderStatus    `json:"status" gorm:"type:text;not null;index"`
	Items           []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPrice      int64          `json:"totalPrice" gorm:"not null"`
	ImportTotal     *int64         `json:"importTotal,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"not null;index"`
	EstimatedPickup *time.Time     `json:"estimatedPickup,omitempty"`
	BuyerName       string         `json:"buyerName" gorm:"not null"`
	Phone           string         `json:"phone"`
	GangName        string         `json:"gangName"`
	IsPaid          bool           `json:"isPaid" gorm:"not null;default:false"`
	InTreasury      bool           `json:"inTreasury" gorm:"not null;default:false"`
	IsRefunded      bool           `json:"isRefunded" gorm:"not null;default:false"`
	History         []HistoryEntry `json:"history" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	// Seq preserves insertion order across repository implementations; it is
	// the tie-breaker when two orders share a createdAt.
	Seq int64 `json:"-" gorm:"autoIncrement;uniqueIndex"`
}

func (Order) TableName() string { return "orders" }

// Clone returns a deep copy so callers never reach the stored slices.
func (o *Order) Clone() *Order {
	cp := *o
	if o.Items != nil {
		cp.Items = make([]OrderItem, len(o.Items))
		copy(cp.Items, o.Items)
	}
	if o.History != nil {
		cp.History = make([]HistoryEntry, len(o.History))
		copy(cp.History, o.History)
	}
	if o.ImportTotal != nil {
		v := *o.ImportTotal
		cp.ImportTotal = &v
	}
	if o.EstimatedPickup != nil {
		v := *o.EstimatedPickup
		cp.EstimatedPickup = &v
	}
	return &cp
}

type OrderStatus string

const (
	StatusPendingReview  OrderStatus = "pending_review"
	StatusAccepted       OrderStatus = "accepted"
	StatusInProgress     OrderStatus = "in_progress"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRefunded       OrderStatus = "refunded"
)

// StatusFlow is the canonical forward sequence an order progresses through.
// cancelled and refunded are side exits and never appear in the flow.
var StatusFlow = []OrderStatus{
	StatusPendingReview,
	StatusAccepted,
	StatusInProgress,
	StatusReadyForPickup,
	StatusCompleted,
}

// FlowIndex returns the position of s in StatusFlow, or -1 for side exits
// and unknown values.
func (s OrderStatus) FlowIndex() int {
	for i, v := range StatusFlow {
		if v == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) IsValid() bool {
	return s.FlowIndex() >= 0 || s == StatusCancelled || s == StatusRefunded
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}
