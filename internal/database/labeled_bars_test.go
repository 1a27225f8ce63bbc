package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/limitup-lab/internal/models"
)

func TestLabeledBarRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("batch insert and retrieval preserve labels and returns", func(t *testing.T) {
		testDB.TruncateAll(t)
		runID := seedRun(t, testDB)

		nextOpen := 0.05
		rows := []models.LabeledBar{
			{
				DailyBar:             testBar("000001.SZ", "20240102", 11.00),
				LimitUpPrice:         decimal.NewFromFloat(11.00),
				PriceLimitApplicable: true,
				LabelLimitUp:         true,
				LabelOneWord:         true,
				LabelSealed:          true,
				StreakUp:             1,
				NextOpenRet:          &nextOpen,
				// NextCloseRet left nil: last observed close.
			},
			{
				DailyBar:             testBar("000001.SZ", "20240103", 11.50),
				LimitUpPrice:         decimal.NewFromFloat(12.10),
				PriceLimitApplicable: true,
			},
		}
		require.NoError(t, testDB.CreateLabeledBarsBatch(runID, rows))

		retrieved, err := testDB.GetLabeledBars(runID)
		require.NoError(t, err)
		require.Len(t, retrieved, 2)

		first := retrieved[0]
		assert.Equal(t, "20240102", first.TradeDate)
		assert.True(t, decimal.NewFromFloat(11.00).Equal(first.LimitUpPrice))
		assert.True(t, first.LabelLimitUp)
		assert.True(t, first.LabelSealed)
		assert.Equal(t, 1, first.StreakUp)
		require.NotNil(t, first.NextOpenRet)
		assert.InDelta(t, 0.05, *first.NextOpenRet, 1e-12)
		assert.Nil(t, first.NextCloseRet)

		second := retrieved[1]
		assert.False(t, second.LabelLimitUp)
		assert.Nil(t, second.NextOpenRet)
	})

	t.Run("rows are scoped to their run", func(t *testing.T) {
		testDB.TruncateAll(t)
		firstRun := seedRun(t, testDB)
		secondRun := seedRun(t, testDB)

		rows := []models.LabeledBar{{
			DailyBar:     testBar("000001.SZ", "20240102", 11.00),
			LimitUpPrice: decimal.NewFromFloat(11.00),
		}}
		require.NoError(t, testDB.CreateLabeledBarsBatch(firstRun, rows))

		retrieved, err := testDB.GetLabeledBars(secondRun)
		require.NoError(t, err)
		assert.Empty(t, retrieved)
	})
}
