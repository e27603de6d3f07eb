package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mushtrack/internal/lifecycle"
	"mushtrack/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// A file-backed database: with ":memory:" every pooled connection
	// would see its own empty schema.
	db, err := Open("sqlite3", filepath.Join(t.TempDir(), "mushtrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func datePtr(s string) *models.LocalDate {
	d := models.MustLocalDate(s)
	return &d
}

func testBatch() *models.Batch {
	return &models.Batch{
		ID:              uuid.NewString(),
		BatchLabel:      "BO07/05/24",
		Variety:         "Blue Oyster",
		SubstrateRecipe: "Masters Mix",
		SpawnSupplier:   "MycoSymbiotics",
		NumUnits:        10,
		UnitType:        "bag",
		UnitWeight:      2.5,
		Stage:           models.StageIncubation,
		InoculationDate: models.MustLocalDate("2024-05-07"),
	}
}

func TestBatchRoundTrip(t *testing.T) {
	store := openTestStore(t)
	b := testBatch()

	require.NoError(t, store.CreateBatch(b))

	got, err := store.GetBatch(b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.BatchLabel, got.BatchLabel)
	assert.Equal(t, models.StageIncubation, got.Stage)
	assert.Equal(t, "2024-05-07", got.InoculationDate.String())
	assert.Nil(t, got.ColonisationCompleteDate)
	assert.Empty(t, got.Harvests)
}

func TestGetBatchNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetBatch("missing")
	var nf *lifecycle.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "batch", nf.Kind)
}

func TestSaveBatchPersistsLifecycleFields(t *testing.T) {
	store := openTestStore(t)
	b := testBatch()
	require.NoError(t, store.CreateBatch(b))

	b.Stage = models.StageGrow
	b.ColonisationCompleteDate = datePtr("2024-05-21")
	b.GrowRoomEntryDate = datePtr("2024-05-25")
	b.ContaminatedUnits = 2
	require.NoError(t, store.SaveBatch(b))

	got, err := store.GetBatch(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageGrow, got.Stage)
	require.NotNil(t, got.ColonisationCompleteDate)
	assert.Equal(t, "2024-05-21", got.ColonisationCompleteDate.String())
	require.NotNil(t, got.GrowRoomEntryDate)
	assert.Equal(t, "2024-05-25", got.GrowRoomEntryDate.String())
	assert.Equal(t, 2, got.ContaminatedUnits)
}

func TestSaveBatchReplacesHarvests(t *testing.T) {
	store := openTestStore(t)
	b := testBatch()
	require.NoError(t, store.CreateBatch(b))

	b.Harvests = []models.Harvest{
		{Date: models.MustLocalDate("2024-06-01"), Weight: 1.0},
		{Date: models.MustLocalDate("2024-06-05"), Weight: 1.5},
		{Date: models.MustLocalDate("2024-06-10"), Weight: 2.0},
	}
	require.NoError(t, store.SaveBatch(b))

	got, err := store.GetBatch(b.ID)
	require.NoError(t, err)
	require.Len(t, got.Harvests, 3)
	assert.Equal(t, 1.0, got.Harvests[0].Weight)
	assert.Equal(t, "2024-06-01", got.Harvests[0].Date.String())

	// Removing the middle entry must survive a round trip in order.
	b.Harvests = append(b.Harvests[:1], b.Harvests[2:]...)
	require.NoError(t, store.SaveBatch(b))

	got, err = store.GetBatch(b.ID)
	require.NoError(t, err)
	require.Len(t, got.Harvests, 2)
	assert.Equal(t, 1.0, got.Harvests[0].Weight)
	assert.Equal(t, 2.0, got.Harvests[1].Weight)
}

func TestDeleteBatchRemovesHarvests(t *testing.T) {
	store := openTestStore(t)
	b := testBatch()
	b.Harvests = []models.Harvest{{Date: models.MustLocalDate("2024-06-01"), Weight: 1.0}}
	require.NoError(t, store.CreateBatch(b))
	require.NoError(t, store.SaveBatch(b))

	require.NoError(t, store.DeleteBatch(b.ID))

	_, err := store.GetBatch(b.ID)
	var nf *lifecycle.NotFoundError
	assert.True(t, errors.As(err, &nf))

	err = store.DeleteBatch(b.ID)
	assert.True(t, errors.As(err, &nf))
}

func TestDeleteBatchKeepsChildLineage(t *testing.T) {
	store := openTestStore(t)
	parent := testBatch()
	require.NoError(t, store.CreateBatch(parent))

	child := testBatch()
	child.ID = uuid.NewString()
	child.BatchLabel = parent.BatchLabel + "-S"
	child.ParentBatchID = &parent.ID
	require.NoError(t, store.CreateBatch(child))

	require.NoError(t, store.DeleteBatch(parent.ID))

	got, err := store.GetBatch(child.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentBatchID)
	assert.Equal(t, parent.ID, *got.ParentBatchID)
}

func TestListBatchesNewestFirst(t *testing.T) {
	store := openTestStore(t)

	first := testBatch()
	require.NoError(t, store.CreateBatch(first))
	second := testBatch()
	second.ID = uuid.NewString()
	second.BatchLabel = "SH01/06/24"
	require.NoError(t, store.CreateBatch(second))

	batches, err := store.ListBatches()
	require.NoError(t, err)
	require.Len(t, batches, 2)
}

func TestReferenceListsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	_, err := store.CreateVariety("Blue Oyster", "BO")
	require.NoError(t, err)
	_, err = store.CreateVariety("Shiitake", "SH")
	require.NoError(t, err)

	varieties, err := store.ListVarieties()
	require.NoError(t, err)
	require.Len(t, varieties, 2)
	// Sorted by name.
	assert.Equal(t, "Blue Oyster", varieties[0].Name)
	assert.Equal(t, "BO", varieties[0].Abbr)

	require.NoError(t, store.DeleteVariety("Shiitake"))
	varieties, err = store.ListVarieties()
	require.NoError(t, err)
	assert.Len(t, varieties, 1)

	_, err = store.CreateSubstrate("Masters Mix")
	require.NoError(t, err)
	_, err = store.CreateSupplier("MycoSymbiotics")
	require.NoError(t, err)
	_, err = store.CreateUnitType("bag")
	require.NoError(t, err)

	substrates, err := store.ListSubstrates()
	require.NoError(t, err)
	assert.Len(t, substrates, 1)
}

func TestDeleteReferenceNotFound(t *testing.T) {
	store := openTestStore(t)

	var nf *lifecycle.NotFoundError
	assert.True(t, errors.As(store.DeleteVariety("missing"), &nf))
	assert.True(t, errors.As(store.DeleteUnitType("missing"), &nf))
}

func TestDeleteReferenceStillInUse(t *testing.T) {
	store := openTestStore(t)

	_, err := store.CreateVariety("Blue Oyster", "BO")
	require.NoError(t, err)
	_, err = store.CreateSubstrate("Masters Mix")
	require.NoError(t, err)

	b := testBatch()
	require.NoError(t, store.CreateBatch(b))

	var ve *lifecycle.ValidationError
	require.True(t, errors.As(store.DeleteVariety("Blue Oyster"), &ve))
	assert.Contains(t, ve.Msg, "still used")
	require.True(t, errors.As(store.DeleteSubstrate("Masters Mix"), &ve))

	// Retired batches release their references.
	b.Stage = models.StageRetired
	require.NoError(t, store.SaveBatch(b))

	assert.NoError(t, store.DeleteVariety("Blue Oyster"))
	assert.NoError(t, store.DeleteSubstrate("Masters Mix"))
}
