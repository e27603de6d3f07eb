package stats

import (
	"sort"
	"time"

	"mushtrack/internal/models"
)

// Totals is the aggregate figures for one batch set.
type Totals struct {
	Count              int     `json:"count"`
	TotalUnits         int     `json:"total_units"`
	ContaminatedUnits  int     `json:"contaminated_units"`
	SuccessfulUnits    int     `json:"successful_units"`
	TotalInitialWeight float64 `json:"total_initial_weight"`
	TotalHarvestWeight float64 `json:"total_harvest_weight"`

	ContaminationRate      float64 `json:"contamination_rate"`
	SuccessRate            float64 `json:"success_rate"`
	AvgColonisationDays    float64 `json:"avg_colonisation_days"`
	AvgGrowDays            float64 `json:"avg_grow_days"`
	YieldPerKgSubstrate    float64 `json:"yield_per_kg_substrate"`
	YieldPerSuccessfulUnit float64 `json:"yield_per_successful_unit"`
}

// Summary is the totals for a batch set plus the same figures broken
// down by variety, substrate recipe and spawn supplier.
type Summary struct {
	Totals
	ByVariety   map[string]Totals `json:"by_variety"`
	BySubstrate map[string]Totals `json:"by_substrate"`
	BySupplier  map[string]Totals `json:"by_supplier"`
}

// accumulator gathers the raw sums a Totals is derived from.
type accumulator struct {
	count              int
	totalUnits         int
	contaminatedUnits  int
	successfulUnits    int
	totalInitialWeight float64
	totalHarvestWeight float64

	colonisedBatches    int
	colonisationDaysSum int
	growBatches         int
	growDaysSum         int
	unitsGrowOrRetired  int
	contamGrowOrRetired int
}

func (a *accumulator) add(b *models.Batch) {
	a.count++
	a.totalUnits += b.NumUnits
	a.contaminatedUnits += b.ContaminatedUnits
	a.successfulUnits += SuccessfulUnits(b)
	a.totalInitialWeight += InitialSubstrateWeight(b)
	a.totalHarvestWeight += TotalHarvestWeight(b)

	if days, ok := ColonisationDays(b); ok {
		a.colonisedBatches++
		a.colonisationDaysSum += days
	}
	if days, ok := GrowDays(b); ok {
		a.growBatches++
		a.growDaysSum += days
	}
	if b.Stage == models.StageGrow || b.Stage == models.StageRetired {
		a.unitsGrowOrRetired += b.NumUnits
		a.contamGrowOrRetired += b.ContaminatedUnits
	}
}

func (a *accumulator) totals() Totals {
	t := Totals{
		Count:              a.count,
		TotalUnits:         a.totalUnits,
		ContaminatedUnits:  a.contaminatedUnits,
		SuccessfulUnits:    a.successfulUnits,
		TotalInitialWeight: a.totalInitialWeight,
		TotalHarvestWeight: a.totalHarvestWeight,
	}
	if a.totalUnits > 0 {
		t.ContaminationRate = float64(a.contaminatedUnits) / float64(a.totalUnits) * 100
	}
	if a.unitsGrowOrRetired > 0 {
		t.SuccessRate = float64(a.unitsGrowOrRetired-a.contamGrowOrRetired) / float64(a.unitsGrowOrRetired) * 100
	}
	if a.colonisedBatches > 0 {
		t.AvgColonisationDays = float64(a.colonisationDaysSum) / float64(a.colonisedBatches)
	}
	if a.growBatches > 0 {
		t.AvgGrowDays = float64(a.growDaysSum) / float64(a.growBatches)
	}
	if a.totalInitialWeight > 0 {
		t.YieldPerKgSubstrate = a.totalHarvestWeight / a.totalInitialWeight
	}
	if a.successfulUnits > 0 {
		t.YieldPerSuccessfulUnit = a.totalHarvestWeight / float64(a.successfulUnits)
	}
	return t
}

func summarizeTotals(batches []models.Batch) Totals {
	var acc accumulator
	for i := range batches {
		acc.add(&batches[i])
	}
	return acc.totals()
}

// Summarize computes the aggregate summary for a batch set, including
// the per-variety / per-substrate / per-supplier breakdowns. Empty
// classification fields group under "Unknown".
func Summarize(batches []models.Batch) Summary {
	s := Summary{
		Totals:      summarizeTotals(batches),
		ByVariety:   groupTotals(batches, func(b *models.Batch) string { return b.Variety }),
		BySubstrate: groupTotals(batches, func(b *models.Batch) string { return b.SubstrateRecipe }),
		BySupplier:  groupTotals(batches, func(b *models.Batch) string { return b.SpawnSupplier }),
	}
	return s
}

func groupTotals(batches []models.Batch, key func(*models.Batch) string) map[string]Totals {
	accs := make(map[string]*accumulator)
	for i := range batches {
		k := key(&batches[i])
		if k == "" {
			k = "Unknown"
		}
		acc, ok := accs[k]
		if !ok {
			acc = &accumulator{}
			accs[k] = acc
		}
		acc.add(&batches[i])
	}
	out := make(map[string]Totals, len(accs))
	for k, acc := range accs {
		out[k] = acc.totals()
	}
	return out
}

// Overview is the dashboard payload: all-time plus the standard trailing
// windows and the weekly harvest rollup.
type Overview struct {
	AllTime        Summary            `json:"all_time"`
	Last7Days      Summary            `json:"last_7_days"`
	Last30Days     Summary            `json:"last_30_days"`
	Last90Days     Summary            `json:"last_90_days"`
	Last365Days    Summary            `json:"last_365_days"`
	WeeklyHarvests map[string]float64 `json:"weekly_harvests"`
}

// BuildOverview computes the full dashboard overview for one snapshot of
// batches at one instant.
func BuildOverview(batches []models.Batch, now time.Time) Overview {
	return Overview{
		AllTime:        Summarize(batches),
		Last7Days:      Summarize(FilterWindow(batches, now, 7)),
		Last30Days:     Summarize(FilterWindow(batches, now, 30)),
		Last90Days:     Summarize(FilterWindow(batches, now, 90)),
		Last365Days:    Summarize(FilterWindow(batches, now, 365)),
		WeeklyHarvests: WeeklyHarvestByVariety(batches, now),
	}
}

// PeriodSummary pairs a bucket key (month or financial year) with its
// summary.
type PeriodSummary struct {
	Key     string  `json:"key"`
	Summary Summary `json:"summary"`
}

// MonthlySummaries summarizes each inoculation month of the given
// calendar year, most recent month first. The year is matched against
// the month-key prefix, e.g. "2024".
func MonthlySummaries(batches []models.Batch, year string) []PeriodSummary {
	groups := GroupByMonth(batches)
	keys := make([]string, 0, len(groups))
	for k := range groups {
		if year == "" || k[:4] == year {
			keys = append(keys, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]PeriodSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, PeriodSummary{Key: k, Summary: Summarize(groups[k])})
	}
	return out
}

// FinancialYearSummaries summarizes each financial year present in the
// batch set, most recent first.
func FinancialYearSummaries(batches []models.Batch, startMonth int) []PeriodSummary {
	groups := GroupByFinancialYear(batches, startMonth)
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]PeriodSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, PeriodSummary{Key: k, Summary: Summarize(groups[k])})
	}
	return out
}
