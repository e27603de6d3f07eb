// Package lifecycle enforces the legal stage transitions and
// date/quantity invariants for batches. Every operation either mutates
// the batch it is given and returns nil, or returns an error leaving
// the batch untouched.
package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"mushtrack/internal/models"
)

// CreateInput carries the operator-supplied fields for a new batch.
type CreateInput struct {
	Variety         string
	VarietyAbbr     string // short code from the variety list, may be empty
	InoculationDate string // YYYY-MM-DD, empty means today
	NumUnits        int
	UnitType        string
	UnitWeight      float64
	SubstrateRecipe string
	SpawnSupplier   string
	ColumnID        string
	Notes           string
}

// NewBatch validates the input and builds a new batch. Batches are
// created straight into the incubation pipeline; lab is only the
// transient point of origin.
func NewBatch(in CreateInput, today models.LocalDate) (*models.Batch, error) {
	if in.NumUnits <= 0 {
		return nil, validationf("number of units must be greater than 0, got %d", in.NumUnits)
	}
	if in.UnitWeight <= 0 {
		return nil, validationf("unit weight must be greater than 0, got %g", in.UnitWeight)
	}
	if in.Variety == "" {
		return nil, validationf("variety is required")
	}
	if in.UnitType == "" {
		return nil, validationf("unit type is required")
	}
	if in.SubstrateRecipe == "" {
		return nil, validationf("substrate recipe is required")
	}
	if in.SpawnSupplier == "" {
		return nil, validationf("spawn supplier is required")
	}

	inoculated := today
	if in.InoculationDate != "" {
		parsed, err := models.ParseLocalDate(in.InoculationDate)
		if err != nil {
			return nil, validationf("inoculation date: %v", err)
		}
		inoculated = parsed
	}

	abbr := Abbreviation(in.Variety, in.VarietyAbbr)
	return &models.Batch{
		ID:                uuid.NewString(),
		BatchLabel:        Label(abbr, inoculated),
		Variety:           in.Variety,
		SubstrateRecipe:   in.SubstrateRecipe,
		SpawnSupplier:     in.SpawnSupplier,
		NumUnits:          in.NumUnits,
		UnitType:          in.UnitType,
		UnitWeight:        in.UnitWeight,
		Stage:             models.StageIncubation,
		ContaminatedUnits: 0,
		InoculationDate:   inoculated,
		Harvests:          []models.Harvest{},
		ColumnID:          in.ColumnID,
		Notes:             in.Notes,
		CreatedAt:         time.Now(),
	}, nil
}

// SetColonisationComplete records the date incubation finished.
func SetColonisationComplete(b *models.Batch, date models.LocalDate) error {
	if b.Stage != models.StageIncubation {
		return validationf("colonisation can only be recorded while in incubation, batch is in %q", b.Stage)
	}
	if date.Before(b.InoculationDate) {
		return validationf("colonisation date %s is before inoculation date %s", date, b.InoculationDate)
	}
	b.ColonisationCompleteDate = &date
	return nil
}

// UpdateContamination sets the contaminated-unit count, clamping it into
// [0, NumUnits]. Out-of-range input is the operator mashing +/- past the
// end, not an error.
func UpdateContamination(b *models.Batch, count int) {
	if count < 0 {
		count = 0
	}
	if count > b.NumUnits {
		count = b.NumUnits
	}
	b.ContaminatedUnits = count
}

// IncrementContamination moves the count up by one, capped at NumUnits.
func IncrementContamination(b *models.Batch) {
	UpdateContamination(b, b.ContaminatedUnits+1)
}

// DecrementContamination moves the count down by one, floored at zero.
func DecrementContamination(b *models.Batch) {
	UpdateContamination(b, b.ContaminatedUnits-1)
}

// legalEdges is the full set of permitted stage transitions.
// grow -> incubation is the correction path for a batch moved forward
// too early.
var legalEdges = map[models.Stage]map[models.Stage]bool{
	models.StageIncubation: {models.StageGrow: true},
	models.StageGrow:       {models.StageRetired: true, models.StageIncubation: true},
	models.StageRetired:    {models.StageGrow: true},
}

// MoveStage applies a stage transition and its date side effects.
func MoveStage(b *models.Batch, target models.Stage, today models.LocalDate) error {
	if !target.Valid() {
		return validationf("unknown stage %q", target)
	}
	if !legalEdges[b.Stage][target] {
		return &InvalidTransitionError{From: b.Stage, To: target}
	}

	switch {
	case b.Stage == models.StageIncubation && target == models.StageGrow:
		if b.ColonisationCompleteDate == nil {
			return validationf("batch %s cannot enter the grow room before colonisation is complete", b.BatchLabel)
		}
		entry := today
		b.GrowRoomEntryDate = &entry
	case target == models.StageRetired:
		retired := today
		b.RetirementDate = &retired
	case b.Stage == models.StageRetired && target == models.StageGrow:
		b.RetirementDate = nil
	case b.Stage == models.StageGrow && target == models.StageIncubation:
		b.GrowRoomEntryDate = nil
		b.RetirementDate = nil
	}

	b.Stage = target
	return nil
}

// Split moves quantity units off parent into a new child batch that goes
// straight to the grow room. The parent keeps its stage and loses the
// units; parent plus child unit counts always equal the pre-split total.
func Split(parent *models.Batch, quantity int, colonisationDate models.LocalDate, notes string, today models.LocalDate) (*models.Batch, error) {
	if quantity <= 0 {
		return nil, validationf("split quantity must be greater than 0, got %d", quantity)
	}
	if quantity > parent.NumUnits {
		return nil, validationf("split quantity %d exceeds available units (%d)", quantity, parent.NumUnits)
	}

	if notes == "" {
		notes = "Split from " + parent.BatchLabel
	}

	colonised := colonisationDate
	entry := today
	parentID := parent.ID
	child := &models.Batch{
		ID:                       uuid.NewString(),
		BatchLabel:               SplitLabel(parent.BatchLabel),
		Variety:                  parent.Variety,
		SubstrateRecipe:          parent.SubstrateRecipe,
		SpawnSupplier:            parent.SpawnSupplier,
		NumUnits:                 quantity,
		UnitType:                 parent.UnitType,
		UnitWeight:               parent.UnitWeight,
		Stage:                    models.StageGrow,
		ContaminatedUnits:        0,
		InoculationDate:          parent.InoculationDate,
		ColonisationCompleteDate: &colonised,
		GrowRoomEntryDate:        &entry,
		Harvests:                 []models.Harvest{},
		ParentBatchID:            &parentID,
		ColumnID:                 parent.ColumnID,
		Notes:                    notes,
		CreatedAt:                time.Now(),
	}

	parent.NumUnits -= quantity
	if parent.ContaminatedUnits > parent.NumUnits {
		parent.ContaminatedUnits = parent.NumUnits
	}
	return child, nil
}

// LogHarvest appends one entry per weight, dated today, in input order.
// Any non-positive weight rejects the whole call.
func LogHarvest(b *models.Batch, weights []float64, today models.LocalDate) error {
	for _, w := range weights {
		if w <= 0 {
			return validationf("harvest weight must be greater than 0, got %g", w)
		}
	}
	for _, w := range weights {
		b.Harvests = append(b.Harvests, models.Harvest{
			BatchID: b.ID,
			Date:    today,
			Weight:  w,
		})
	}
	return nil
}

// RemoveHarvestEntry deletes the harvest entry at index.
func RemoveHarvestEntry(b *models.Batch, index int) error {
	if index < 0 || index >= len(b.Harvests) {
		return &IndexError{Index: index, Len: len(b.Harvests)}
	}
	b.Harvests = append(b.Harvests[:index], b.Harvests[index+1:]...)
	return nil
}
