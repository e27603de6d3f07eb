package models

import "time"

// Batch represents one production batch moving through the cultivation
// pipeline. Dates beyond inoculation are nil until the batch reaches the
// corresponding stage.
type Batch struct {
	ID         string `gorm:"primary_key" json:"id"`
	BatchLabel string `json:"batch_label"`

	Variety         string `json:"variety"`
	SubstrateRecipe string `json:"substrate_recipe"`
	SpawnSupplier   string `json:"spawn_supplier"`

	NumUnits   int     `json:"num_units"`
	UnitType   string  `json:"unit_type"`
	UnitWeight float64 `json:"unit_weight"` // kg of substrate per unit

	Stage             Stage `json:"stage"`
	ContaminatedUnits int   `json:"contaminated_units"`

	InoculationDate          LocalDate  `gorm:"type:date" json:"inoculation_date"`
	ColonisationCompleteDate *LocalDate `gorm:"type:date" json:"colonisation_complete_date"`
	GrowRoomEntryDate        *LocalDate `gorm:"type:date" json:"grow_room_entry_date"`
	RetirementDate           *LocalDate `gorm:"type:date" json:"retirement_date"`

	Harvests []Harvest `gorm:"foreignkey:BatchID" json:"harvests"`

	// Lineage is descriptive only: a dangling reference after the parent
	// is deleted is acceptable.
	ParentBatchID *string `json:"parent_batch_id"`

	ColumnID string `json:"column_id"`
	Notes    string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

// Harvest is a single weigh-in for a batch.
type Harvest struct {
	ID      uint      `gorm:"primary_key" json:"-"`
	BatchID string    `gorm:"index" json:"-"`
	Date    LocalDate `gorm:"type:date" json:"date"`
	Weight  float64   `json:"weight"` // kg
}

// Stage represents the position of a batch in the cultivation pipeline.
type Stage string

const (
	StageLab        Stage = "lab"
	StageIncubation Stage = "incubation"
	StageGrow       Stage = "grow"
	StageRetired    Stage = "retired"
)

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	switch s {
	case StageLab, StageIncubation, StageGrow, StageRetired:
		return true
	}
	return false
}

// DisplayName returns the user-facing name for a stage. Storage always
// uses the lowercase canonical value.
func (s Stage) DisplayName() string {
	switch s {
	case StageLab:
		return "Lab"
	case StageIncubation:
		return "Incubation"
	case StageGrow:
		return "Grow Room"
	case StageRetired:
		return "Retired"
	}
	return string(s)
}
