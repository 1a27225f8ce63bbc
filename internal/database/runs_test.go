package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// seedRun inserts a completed run and returns its ID.
func seedRun(t *testing.T, testDB *TestDB) int {
	t.Helper()
	run := &models.Run{
		Strategy:    "first_limitup_next_close",
		FeeBps:      10,
		SlippageBps: 10,
		Epsilon:     "0.01",
		Status:      models.RunStatusCompleted,
	}
	require.NoError(t, testDB.CreateRun(run))
	return run.ID
}

func TestRunRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateRun fills in ID and timestamp", func(t *testing.T) {
		testDB.TruncateAll(t)

		run := &models.Run{
			Strategy:    "first_limitup_next_close",
			FeeBps:      5,
			SlippageBps: 10,
			Epsilon:     "0.01",
			Status:      models.RunStatusCompleted,
			Diagnostics: []string{`unknown board "NEEQ" for 430047.BJ: fell back to MAIN rule; fill-rate statistics may be skewed`},
		}
		require.NoError(t, testDB.CreateRun(run))
		assert.NotZero(t, run.ID)
		assert.False(t, run.CreatedAt.IsZero())
	})

	t.Run("GetRun round trips diagnostics", func(t *testing.T) {
		testDB.TruncateAll(t)

		run := &models.Run{
			Strategy:    "non_one_word_limitup_next_open",
			Epsilon:     "0.005",
			Status:      models.RunStatusCompleted,
			Diagnostics: []string{"first", "second"},
		}
		require.NoError(t, testDB.CreateRun(run))

		retrieved, err := testDB.GetRun(run.ID)
		require.NoError(t, err)
		assert.Equal(t, "non_one_word_limitup_next_open", retrieved.Strategy)
		assert.Equal(t, "0.005", retrieved.Epsilon)
		assert.Equal(t, []string{"first", "second"}, retrieved.Diagnostics)
	})

	t.Run("GetRun errors on missing ID", func(t *testing.T) {
		testDB.TruncateAll(t)

		_, err := testDB.GetRun(12345)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run not found")
	})

	t.Run("SaveScenarioMetrics upserts per fill model", func(t *testing.T) {
		testDB.TruncateAll(t)
		runID := seedRun(t, testDB)

		ideal := &models.ScenarioMetrics{FillModel: models.FillModelIdeal, TradeCount: 10, TotalReturn: 0.25, MaxDrawdown: 0.05, WinRate: 0.7}
		conservative := &models.ScenarioMetrics{FillModel: models.FillModelConservative, TradeCount: 4, TotalReturn: 0.08, MaxDrawdown: 0.03, WinRate: 0.5}
		require.NoError(t, testDB.SaveScenarioMetrics(runID, ideal))
		require.NoError(t, testDB.SaveScenarioMetrics(runID, conservative))

		// Saving again replaces, not duplicates.
		ideal.TradeCount = 12
		require.NoError(t, testDB.SaveScenarioMetrics(runID, ideal))

		metrics, err := testDB.GetScenarioMetrics(runID)
		require.NoError(t, err)
		require.Len(t, metrics, 2)

		// Ordered by fill_model: CONSERVATIVE before IDEAL.
		assert.Equal(t, models.FillModelConservative, metrics[0].FillModel)
		assert.Equal(t, models.FillModelIdeal, metrics[1].FillModel)
		assert.Equal(t, 12, metrics[1].TradeCount)
	})
}
