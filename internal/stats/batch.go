// Package stats computes derived values for single batches and
// aggregate summaries over batch sets. Everything here is a pure
// function of the batches and the supplied "now": no I/O, and the input
// batches are never mutated.
package stats

import "mushtrack/internal/models"

// ColonisationDays returns the days from inoculation to colonisation
// complete. ok is false when the completion date is missing or the
// difference is negative; such batches are excluded from averages.
func ColonisationDays(b *models.Batch) (int, bool) {
	if b.ColonisationCompleteDate == nil || b.InoculationDate.IsZero() {
		return 0, false
	}
	days := models.DaysBetween(b.InoculationDate, *b.ColonisationCompleteDate)
	if days < 0 {
		return 0, false
	}
	return days, true
}

// FirstHarvestDate returns the earliest date among the batch's harvest
// entries.
func FirstHarvestDate(b *models.Batch) (models.LocalDate, bool) {
	var first models.LocalDate
	found := false
	for _, h := range b.Harvests {
		if h.Date.IsZero() {
			continue
		}
		if !found || h.Date.Before(first) {
			first = h.Date
			found = true
		}
	}
	return first, found
}

// GrowDays returns the days from grow-room entry to the first harvest.
// ok is false when either endpoint is missing or the difference is
// negative.
func GrowDays(b *models.Batch) (int, bool) {
	if b.GrowRoomEntryDate == nil {
		return 0, false
	}
	first, ok := FirstHarvestDate(b)
	if !ok {
		return 0, false
	}
	days := models.DaysBetween(*b.GrowRoomEntryDate, first)
	if days < 0 {
		return 0, false
	}
	return days, true
}

// TotalHarvestWeight sums all harvest entries for a batch, in kg.
func TotalHarvestWeight(b *models.Batch) float64 {
	var total float64
	for _, h := range b.Harvests {
		total += h.Weight
	}
	return total
}

// SuccessfulUnits counts the uncontaminated units of a batch that has
// reached grow or retired. Batches still incubating contribute zero:
// their eventual success is not yet known.
func SuccessfulUnits(b *models.Batch) int {
	if b.Stage != models.StageGrow && b.Stage != models.StageRetired {
		return 0
	}
	return b.NumUnits - b.ContaminatedUnits
}

// InitialSubstrateWeight is the substrate that went into the batch, in kg.
func InitialSubstrateWeight(b *models.Batch) float64 {
	return float64(b.NumUnits) * b.UnitWeight
}
