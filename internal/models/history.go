package models

import "time"

type HistoryAction string

const (
	ActionStatus   HistoryAction = "status"
	ActionPayment  HistoryAction = "payment"
	ActionTreasury HistoryAction = "treasury"
)

// Wire values recorded for the flag-toggle actions.
const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
	TreasuryIn    = "in_treasury"
	TreasuryOut   = "not_in_treasury"
)

// HistoryEntry is one append-only audit record on an order. From always
// holds the field's value immediately before the mutation was applied.
type HistoryEntry struct {
	ID      uint          `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID string        `json:"-" gorm:"size:40;index;not null"`
	Action  HistoryAction `json:"action" gorm:"type:text;not null"`
	From    string        `json:"from" gorm:"column:from_value;not null"`
	To      string        `json:"to" gorm:"column:to_value;not null"`
	By      string        `json:"by" gorm:"column:actor;not null"`
	At      time.Time     `json:"at" gorm:"not null"`
}

func (HistoryEntry) TableName() string { return "order_history" }
