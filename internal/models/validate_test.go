package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBar(tsCode, tradeDate string) DailyBar {
	price := decimal.NewFromFloat(10.00)
	return DailyBar{
		TsCode:    tsCode,
		TradeDate: tradeDate,
		Open:      price,
		High:      price,
		Low:       price,
		Close:     price,
		PreClose:  price,
		Vol:       decimal.NewFromInt(1000),
		Amount:    decimal.NewFromInt(10000),
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("20240102"))
	assert.True(t, ValidDate("19910403"))
	assert.False(t, ValidDate("2024-01-02"))
	assert.False(t, ValidDate("20241301"))
	assert.False(t, ValidDate("20240230"))
	assert.False(t, ValidDate(""))
}

func TestValidateBars(t *testing.T) {
	t.Run("accepts a clean table", func(t *testing.T) {
		bars := []DailyBar{
			validBar("000001.SZ", "20240102"),
			validBar("000001.SZ", "20240103"),
			validBar("000002.SZ", "20240102"),
		}
		assert.NoError(t, ValidateBars(bars))
	})

	t.Run("rejects empty ts_code", func(t *testing.T) {
		err := ValidateBars([]DailyBar{validBar("", "20240102")})
		require.Error(t, err)
		schemaErr := err.(*SchemaError)
		assert.Equal(t, "ts_code", schemaErr.Field)
		assert.Equal(t, 0, schemaErr.Row)
	})

	t.Run("rejects malformed trade_date", func(t *testing.T) {
		err := ValidateBars([]DailyBar{validBar("000001.SZ", "2024-01-02")})
		require.Error(t, err)
		assert.Equal(t, "trade_date", err.(*SchemaError).Field)
	})

	t.Run("rejects non positive prices", func(t *testing.T) {
		bad := validBar("000001.SZ", "20240102")
		bad.Low = decimal.Zero
		err := ValidateBars([]DailyBar{bad})
		require.Error(t, err)
		assert.Equal(t, "low", err.(*SchemaError).Field)
	})

	t.Run("rejects duplicate key and reports the second row", func(t *testing.T) {
		bars := []DailyBar{
			validBar("000001.SZ", "20240102"),
			validBar("000001.SZ", "20240102"),
		}
		err := ValidateBars(bars)
		require.Error(t, err)
		assert.Equal(t, 1, err.(*SchemaError).Row)
	})

	t.Run("zero volume is not a schema error", func(t *testing.T) {
		suspended := validBar("000001.SZ", "20240102")
		suspended.Vol = decimal.Zero
		assert.NoError(t, ValidateBars([]DailyBar{suspended}))
	})
}

func TestValidateInstruments(t *testing.T) {
	t.Run("accepts a clean table", func(t *testing.T) {
		instruments := []Instrument{
			{TsCode: "000001.SZ", Board: BoardMain, ListDate: "19910403"},
			{TsCode: "688001.SH", Board: BoardStar},
		}
		assert.NoError(t, ValidateInstruments(instruments))
	})

	t.Run("missing list_date is allowed", func(t *testing.T) {
		assert.NoError(t, ValidateInstruments([]Instrument{{TsCode: "000001.SZ"}}))
	})

	t.Run("rejects malformed list_date", func(t *testing.T) {
		err := ValidateInstruments([]Instrument{{TsCode: "000001.SZ", ListDate: "1991"}})
		require.Error(t, err)
		assert.Equal(t, "list_date", err.(*SchemaError).Field)
	})

	t.Run("rejects duplicate ts_code", func(t *testing.T) {
		instruments := []Instrument{
			{TsCode: "000001.SZ"},
			{TsCode: "000001.SZ"},
		}
		err := ValidateInstruments(instruments)
		require.Error(t, err)
		assert.Equal(t, "ts_code", err.(*SchemaError).Field)
	})

	t.Run("unknown board is not a schema error", func(t *testing.T) {
		assert.NoError(t, ValidateInstruments([]Instrument{{TsCode: "430047.BJ", Board: "NEEQ"}}))
	})
}
