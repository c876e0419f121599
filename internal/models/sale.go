package models

import "time"

// Sale: değişmez satış kaydı. ItemName/Category satış anındaki kopyadır, menü ürününe canlı referans değildir.
type Sale struct {
	ID          uint   `gorm:"primaryKey"`
	ReceiptID   string `gorm:"size:36;uniqueIndex;not null"`
	MenuItemID  uint   `gorm:"index"` // bilgi amaçlı, foreign key değil
	ItemName    string `gorm:"size:100;index"`
	Category    string `gorm:"size:50;index"`
	Quantity    int    `gorm:"not null"`
	UnitPrice   float64
	TotalAmount float64
	OrderedAt   time.Time `gorm:"not null"`
	OrderDate   string    `gorm:"size:10;index"` // 2006-01-02
	OrderTime   string    `gorm:"size:8"`        // 15:04:05
	DayOfWeek   string    `gorm:"size:10"`
	Month       string    `gorm:"size:10"`
	Year        int
	CreatedAt   time.Time
}

func (Sale) TableName() string {
	return "sales"
}
