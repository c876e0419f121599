package models

import "time"

type Unit string

const (
	UnitKg     Unit = "kg"
	UnitLbs    Unit = "lbs"
	UnitLiters Unit = "liters"
	UnitPieces Unit = "pieces"
	UnitBoxes  Unit = "boxes"
	UnitBags   Unit = "bags"
)

var Units = []Unit{UnitKg, UnitLbs, UnitLiters, UnitPieces, UnitBoxes, UnitBags}

func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// Ingredient: envanterdeki hammadde. Düşük stok durumu saklanmaz, IsLowStock ile hesaplanır.
type Ingredient struct {
	ID               uint    `gorm:"primaryKey"`
	Name             string  `gorm:"column:ingredient_name;size:100;not null"`
	CurrentStock     float64 `gorm:"not null"`
	Unit             Unit    `gorm:"size:20;not null"`
	MinimumThreshold float64 `gorm:"not null"`
	CostPerUnit      float64
	Supplier         string     `gorm:"size:100"`
	LastRestocked    *time.Time // stok arttığında otomatik ilerler
	ExpiryDate       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Ingredient) TableName() string {
	return "inventory"
}

func (i Ingredient) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumThreshold
}

// StockValue is the cost of everything currently on hand.
func (i Ingredient) StockValue() float64 {
	return i.CurrentStock * i.CostPerUnit
}
