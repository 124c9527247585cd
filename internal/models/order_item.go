package models

type OrderItem struct {
	ID       uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID  string `json:"-" gorm:"size:40;index;not null"`
	Name     string `json:"name" gorm:"not null"`
	Quantity int    `json:"quantity" gorm:"not null"`
	Price    int64  `json:"price" gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }
