package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mushtrack/internal/models"
)

func datePtr(s string) *models.LocalDate {
	d := models.MustLocalDate(s)
	return &d
}

func growBatch() models.Batch {
	return models.Batch{
		ID:                       "b1",
		Variety:                  "Blue Oyster",
		SubstrateRecipe:          "Masters Mix",
		SpawnSupplier:            "MycoSymbiotics",
		NumUnits:                 10,
		UnitWeight:               2.5,
		Stage:                    models.StageGrow,
		InoculationDate:          models.MustLocalDate("2024-01-01"),
		ColonisationCompleteDate: datePtr("2024-01-15"),
		GrowRoomEntryDate:        datePtr("2024-01-20"),
		Harvests: []models.Harvest{
			{Date: models.MustLocalDate("2024-02-01"), Weight: 1.0},
			{Date: models.MustLocalDate("2024-02-05"), Weight: 1.5},
			{Date: models.MustLocalDate("2024-02-10"), Weight: 2.0},
		},
	}
}

func TestColonisationDays(t *testing.T) {
	b := growBatch()
	days, ok := ColonisationDays(&b)
	require.True(t, ok)
	assert.Equal(t, 14, days)

	b.ColonisationCompleteDate = nil
	_, ok = ColonisationDays(&b)
	assert.False(t, ok)

	// Negative spans are undefined, not zero.
	b.ColonisationCompleteDate = datePtr("2023-12-25")
	_, ok = ColonisationDays(&b)
	assert.False(t, ok)
}

func TestGrowDays(t *testing.T) {
	b := growBatch()
	days, ok := GrowDays(&b)
	require.True(t, ok)
	assert.Equal(t, 12, days) // entry 01-20 to first harvest 02-01

	b.GrowRoomEntryDate = nil
	_, ok = GrowDays(&b)
	assert.False(t, ok)

	b = growBatch()
	b.Harvests = nil
	_, ok = GrowDays(&b)
	assert.False(t, ok)
}

func TestFirstHarvestDateUsesMinimum(t *testing.T) {
	b := growBatch()
	// Entries out of order must not matter.
	b.Harvests = []models.Harvest{
		{Date: models.MustLocalDate("2024-02-10"), Weight: 2.0},
		{Date: models.MustLocalDate("2024-02-01"), Weight: 1.0},
	}
	first, ok := FirstHarvestDate(&b)
	require.True(t, ok)
	assert.Equal(t, "2024-02-01", first.String())
}

func TestPerBatchDerivedValues(t *testing.T) {
	b := growBatch()
	assert.Equal(t, 4.5, TotalHarvestWeight(&b))
	assert.Equal(t, 25.0, InitialSubstrateWeight(&b))
	assert.Equal(t, 10, SuccessfulUnits(&b))

	b.ContaminatedUnits = 3
	assert.Equal(t, 7, SuccessfulUnits(&b))

	// Incubating batches contribute no successful units yet.
	b.Stage = models.StageIncubation
	assert.Equal(t, 0, SuccessfulUnits(&b))
}

func TestSummarizeScenario(t *testing.T) {
	b := growBatch()
	s := Summarize([]models.Batch{b})

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 10, s.TotalUnits)
	assert.Equal(t, 4.5, s.TotalHarvestWeight)
	assert.Equal(t, 25.0, s.TotalInitialWeight)
	assert.InDelta(t, 0.18, s.YieldPerKgSubstrate, 1e-9)
	assert.InDelta(t, 0.45, s.YieldPerSuccessfulUnit, 1e-9)
	assert.Equal(t, 14.0, s.AvgColonisationDays)
	assert.Equal(t, 12.0, s.AvgGrowDays)
	assert.Equal(t, 0.0, s.ContaminationRate)
	assert.Equal(t, 100.0, s.SuccessRate)
}

func TestSummarizeEmptySet(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0.0, s.ContaminationRate)
	assert.Equal(t, 0.0, s.SuccessRate)
	assert.Equal(t, 0.0, s.YieldPerKgSubstrate)
	assert.Equal(t, 0.0, s.YieldPerSuccessfulUnit)
	assert.Equal(t, 0.0, s.AvgColonisationDays)
	assert.Equal(t, 0.0, s.AvgGrowDays)
}

func TestAveragesExcludeUndefinedBatches(t *testing.T) {
	colonised := growBatch()

	// Still incubating, no colonisation date: must not drag the average
	// down as a zero.
	pending := models.Batch{
		ID:              "b2",
		Variety:         "Blue Oyster",
		NumUnits:        5,
		UnitWeight:      2.5,
		Stage:           models.StageIncubation,
		InoculationDate: models.MustLocalDate("2024-02-01"),
	}

	s := Summarize([]models.Batch{colonised, pending})
	assert.Equal(t, 14.0, s.AvgColonisationDays)
	assert.Equal(t, 12.0, s.AvgGrowDays)
}

func TestSuccessRateOnlyCountsGrowOrRetired(t *testing.T) {
	reached := growBatch()
	reached.ContaminatedUnits = 2 // 8 of 10 successful

	incubating := models.Batch{
		ID:                "b2",
		Variety:           "Shiitake",
		NumUnits:          100,
		ContaminatedUnits: 100,
		Stage:             models.StageIncubation,
		InoculationDate:   models.MustLocalDate("2024-02-01"),
	}

	s := Summarize([]models.Batch{reached, incubating})
	// Only the batch that reached grow counts toward the success rate.
	assert.Equal(t, 80.0, s.SuccessRate)
	// Contamination rate still spans everything.
	assert.InDelta(t, 102.0/110.0*100, s.ContaminationRate, 1e-9)
}

func TestSummarizeGroups(t *testing.T) {
	b1 := growBatch()
	b2 := growBatch()
	b2.ID = "b2"
	b2.Variety = "Shiitake"
	b2.SubstrateRecipe = ""

	s := Summarize([]models.Batch{b1, b2})
	require.Len(t, s.ByVariety, 2)
	assert.Equal(t, 1, s.ByVariety["Blue Oyster"].Count)
	assert.Equal(t, 1, s.ByVariety["Shiitake"].Count)
	assert.Equal(t, 4.5, s.ByVariety["Shiitake"].TotalHarvestWeight)

	// Empty classification groups under Unknown.
	assert.Equal(t, 1, s.BySubstrate["Unknown"].Count)
	assert.Equal(t, 1, s.BySubstrate["Masters Mix"].Count)

	assert.Equal(t, 2, s.BySupplier["MycoSymbiotics"].Count)
}

func TestSummarizeIsPure(t *testing.T) {
	batches := []models.Batch{growBatch(), growBatch()}
	before := batches[0].NumUnits

	first := Summarize(batches)
	second := Summarize(batches)

	assert.Equal(t, first, second, "same snapshot must produce identical output")
	assert.Equal(t, before, batches[0].NumUnits, "input batches must not be mutated")
}

func TestFinancialYear(t *testing.T) {
	// Any date from July 2024 through June 2025 is FY24/25 with the
	// default start month.
	cases := map[string]string{
		"2024-07-01": "FY24/25",
		"2024-12-31": "FY24/25",
		"2025-01-01": "FY24/25",
		"2025-06-30": "FY24/25",
		"2025-07-01": "FY25/26",
		"2024-06-30": "FY23/24",
	}
	for date, want := range cases {
		assert.Equal(t, want, FinancialYear(models.MustLocalDate(date), DefaultFYStartMonth), date)
	}

	// January start collapses FY onto the calendar year.
	assert.Equal(t, "FY24/25", FinancialYear(models.MustLocalDate("2024-03-15"), 0))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-05", MonthKey(models.MustLocalDate("2024-05-07")))
	assert.Equal(t, "2024-12", MonthKey(models.MustLocalDate("2024-12-31")))
}

func TestFilterWindowInclusive(t *testing.T) {
	now := time.Date(2024, 6, 30, 15, 0, 0, 0, time.Local)

	inside := growBatch()
	inside.InoculationDate = models.MustLocalDate("2024-06-10")
	boundary := growBatch()
	boundary.ID = "b2"
	boundary.InoculationDate = models.MustLocalDate("2024-05-31") // exactly 30 days before
	outside := growBatch()
	outside.ID = "b3"
	outside.InoculationDate = models.MustLocalDate("2024-05-30")

	got := FilterWindow([]models.Batch{inside, boundary, outside}, now, 30)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-06-10", got[0].InoculationDate.String())
	assert.Equal(t, "2024-05-31", got[1].InoculationDate.String())
}

func TestGroupByMonthAndFinancialYear(t *testing.T) {
	b1 := growBatch()
	b1.InoculationDate = models.MustLocalDate("2024-05-07")
	b2 := growBatch()
	b2.ID = "b2"
	b2.InoculationDate = models.MustLocalDate("2024-05-21")
	b3 := growBatch()
	b3.ID = "b3"
	b3.InoculationDate = models.MustLocalDate("2024-08-01")

	byMonth := GroupByMonth([]models.Batch{b1, b2, b3})
	assert.Len(t, byMonth["2024-05"], 2)
	assert.Len(t, byMonth["2024-08"], 1)

	byFY := GroupByFinancialYear([]models.Batch{b1, b2, b3}, DefaultFYStartMonth)
	assert.Len(t, byFY["FY23/24"], 2)
	assert.Len(t, byFY["FY24/25"], 1)
}

func TestWeeklyHarvestByVariety(t *testing.T) {
	now := time.Date(2024, 2, 12, 10, 0, 0, 0, time.Local)

	// Inoculated long before the window: the rollup restricts harvest
	// entries, not batches.
	old := growBatch() // harvests 02-01, 02-05, 02-10; window cutoff is 02-05
	other := models.Batch{
		ID:              "b2",
		Variety:         "Shiitake",
		NumUnits:        5,
		Stage:           models.StageGrow,
		InoculationDate: models.MustLocalDate("2023-11-01"),
		Harvests: []models.Harvest{
			{Date: models.MustLocalDate("2024-02-11"), Weight: 0.7},
			{Date: models.MustLocalDate("2024-01-01"), Weight: 9.9},
		},
	}

	totals := WeeklyHarvestByVariety([]models.Batch{old, other}, now)
	assert.InDelta(t, 3.5, totals["Blue Oyster"], 1e-9) // 1.5 + 2.0
	assert.InDelta(t, 0.7, totals["Shiitake"], 1e-9)
}

func TestBuildOverview(t *testing.T) {
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, time.Local)
	batches := []models.Batch{growBatch()}

	o := BuildOverview(batches, now)
	assert.Equal(t, 1, o.AllTime.Count)
	assert.Equal(t, 0, o.Last7Days.Count) // inoculated 2024-01-01
	assert.Equal(t, 1, o.Last90Days.Count)
	assert.Equal(t, 1, o.Last365Days.Count)

	again := BuildOverview(batches, now)
	assert.Equal(t, o, again)
}

func TestMonthlySummaries(t *testing.T) {
	b1 := growBatch()
	b1.InoculationDate = models.MustLocalDate("2024-05-07")
	b2 := growBatch()
	b2.ID = "b2"
	b2.InoculationDate = models.MustLocalDate("2024-08-01")
	b3 := growBatch()
	b3.ID = "b3"
	b3.InoculationDate = models.MustLocalDate("2023-08-01")

	all := MonthlySummaries([]models.Batch{b1, b2, b3}, "2024")
	require.Len(t, all, 2)
	// Most recent month first.
	assert.Equal(t, "2024-08", all[0].Key)
	assert.Equal(t, "2024-05", all[1].Key)
	assert.Equal(t, 1, all[0].Summary.Count)

	everything := MonthlySummaries([]models.Batch{b1, b2, b3}, "")
	assert.Len(t, everything, 3)
}

func TestFinancialYearSummaries(t *testing.T) {
	b1 := growBatch()
	b1.InoculationDate = models.MustLocalDate("2024-05-07") // FY23/24
	b2 := growBatch()
	b2.ID = "b2"
	b2.InoculationDate = models.MustLocalDate("2024-08-01") // FY24/25

	got := FinancialYearSummaries([]models.Batch{b1, b2}, DefaultFYStartMonth)
	require.Len(t, got, 2)
	assert.Equal(t, "FY24/25", got[0].Key)
	assert.Equal(t, "FY23/24", got[1].Key)
}
