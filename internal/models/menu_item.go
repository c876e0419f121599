package models

import "time"

// MenuItem: satılabilir ürün. Available alanı sadece availability motoru tarafından yazılır.
type MenuItem struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:100;not null"`
	Category    string  `gorm:"size:50;index"`
	Description string  `gorm:"size:500"`
	Price       float64 `gorm:"not null"`
	Cost        float64
	PrepTime    int  `gorm:"column:preparation_time"` // dakika
	Available   bool `gorm:"column:is_available;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// Margin is price minus cost per unit.
func (m MenuItem) Margin() float64 {
	return m.Price - m.Cost
}
