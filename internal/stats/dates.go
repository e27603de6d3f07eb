package stats

import (
	"fmt"
	"time"

	"mushtrack/internal/models"
)

// DefaultFYStartMonth is the zero-indexed month the financial year
// starts on: 6 is July.
const DefaultFYStartMonth = 6

// FinancialYear maps a date onto its financial year label, e.g. any
// date from July 2024 through June 2025 becomes "FY24/25" with the
// default start month.
func FinancialYear(d models.LocalDate, startMonth int) string {
	year := d.Year()
	month := int(d.Month()) - 1 // zero-indexed to match startMonth

	startYear := year
	if month < startMonth {
		startYear = year - 1
	}
	return fmt.Sprintf("FY%02d/%02d", startYear%100, (startYear+1)%100)
}

// MonthKey buckets a date by calendar month, e.g. "2024-05".
func MonthKey(d models.LocalDate) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

// FilterWindow returns the batches inoculated within the trailing
// window of days, inclusive of the cutoff date.
func FilterWindow(batches []models.Batch, now time.Time, days int) []models.Batch {
	cutoff := models.DateOf(now).AddDays(-days)
	var out []models.Batch
	for _, b := range batches {
		if b.InoculationDate.IsZero() {
			continue
		}
		if !b.InoculationDate.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out
}

// GroupByMonth buckets batches by the calendar month of inoculation.
func GroupByMonth(batches []models.Batch) map[string][]models.Batch {
	groups := make(map[string][]models.Batch)
	for _, b := range batches {
		if b.InoculationDate.IsZero() {
			continue
		}
		key := MonthKey(b.InoculationDate)
		groups[key] = append(groups[key], b)
	}
	return groups
}

// GroupByFinancialYear buckets batches by the financial year of
// inoculation.
func GroupByFinancialYear(batches []models.Batch, startMonth int) map[string][]models.Batch {
	groups := make(map[string][]models.Batch)
	for _, b := range batches {
		if b.InoculationDate.IsZero() {
			continue
		}
		key := FinancialYear(b.InoculationDate, startMonth)
		groups[key] = append(groups[key], b)
	}
	return groups
}

// WeeklyHarvestByVariety sums harvest weight per variety over the
// harvest entries dated within the trailing 7 days. The restriction is
// on the harvest dates themselves, not on when batches were inoculated.
func WeeklyHarvestByVariety(batches []models.Batch, now time.Time) map[string]float64 {
	cutoff := models.DateOf(now).AddDays(-7)
	totals := make(map[string]float64)
	for _, b := range batches {
		variety := b.Variety
		if variety == "" {
			variety = "Unknown"
		}
		for _, h := range b.Harvests {
			if h.Date.IsZero() || h.Date.Before(cutoff) {
				continue
			}
			totals[variety] += h.Weight
		}
	}
	return totals
}
