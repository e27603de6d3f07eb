package models

// Variety is a cultivated mushroom variety. Abbr is an optional short
// code used when deriving batch labels.
type Variety struct {
	ID   string `gorm:"primary_key" json:"id"`
	Name string `gorm:"unique_index" json:"name"`
	Abbr string `json:"abbr"`
}

// Substrate is a substrate recipe name.
type Substrate struct {
	ID   string `gorm:"primary_key" json:"id"`
	Name string `gorm:"unique_index" json:"name"`
}

// Supplier is a spawn supplier name.
type Supplier struct {
	ID   string `gorm:"primary_key" json:"id"`
	Name string `gorm:"unique_index" json:"name"`
}

// UnitType is a user-managed unit of production (bags, jars, trays...).
type UnitType struct {
	ID   string `gorm:"primary_key" json:"id"`
	Name string `gorm:"unique_index" json:"name"`
}
