package models

// RecipeLine: bir menü ürününün bir biriminin tükettiği malzeme miktarı.
// IngredientID için foreign key yok; malzeme silinse de satır kalır ve ürün satılamaz hale gelir.
type RecipeLine struct {
	ID           uint    `gorm:"primaryKey"`
	MenuItemID   uint    `gorm:"index;not null"`
	IngredientID uint    `gorm:"index;not null"`
	QuantityUsed float64 `gorm:"not null"`
}

func (RecipeLine) TableName() string {
	return "recipes"
}
