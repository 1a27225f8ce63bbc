package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/limitup-lab/internal/models"
)

func TestGroupStatsRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("group keys round trip through JSONB", func(t *testing.T) {
		testDB.TruncateAll(t)
		runID := seedRun(t, testDB)

		groupStats := []models.GroupStat{
			{
				Groups:    map[string]string{"board": models.BoardMain, "is_st": "false", "streak_up": "1"},
				Count:     10,
				NextOpen:  models.ReturnSummary{Count: 10, Mean: 0.012, P10: -0.02, P50: 0.01, P90: 0.05},
				NextClose: models.ReturnSummary{Count: 9, Mean: 0.008, P10: -0.03, P50: 0.005, P90: 0.04},
			},
			{
				Groups:   map[string]string{"board": models.BoardStar, "is_st": "false", "streak_up": "2"},
				Count:    3,
				NextOpen: models.ReturnSummary{Count: 3, Mean: -0.01, P10: -0.04, P50: -0.01, P90: 0.02},
			},
		}
		require.NoError(t, testDB.CreateGroupStatsBatch(runID, groupStats))

		retrieved, err := testDB.GetGroupStats(runID)
		require.NoError(t, err)
		require.Len(t, retrieved, 2)

		// Insertion order is preserved.
		first := retrieved[0]
		assert.Equal(t, models.BoardMain, first.Groups["board"])
		assert.Equal(t, "1", first.Groups["streak_up"])
		assert.Equal(t, 10, first.Count)
		assert.InDelta(t, 0.012, first.NextOpen.Mean, 1e-12)
		assert.InDelta(t, 0.04, first.NextClose.P90, 1e-12)

		second := retrieved[1]
		assert.Equal(t, models.BoardStar, second.Groups["board"])
		assert.Equal(t, 0, second.NextClose.Count)
	})

	t.Run("stats are scoped to their run", func(t *testing.T) {
		testDB.TruncateAll(t)
		firstRun := seedRun(t, testDB)
		secondRun := seedRun(t, testDB)

		require.NoError(t, testDB.CreateGroupStatsBatch(firstRun, []models.GroupStat{
			{Groups: map[string]string{"board": models.BoardMain}, Count: 1},
		}))

		retrieved, err := testDB.GetGroupStats(secondRun)
		require.NoError(t, err)
		assert.Empty(t, retrieved)
	})
}
