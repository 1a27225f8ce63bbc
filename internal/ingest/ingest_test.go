package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/limitup-lab/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadBarsCSV(t *testing.T) {
	t.Run("loads a well formed file", func(t *testing.T) {
		path := writeFile(t, "bars.csv",
			"ts_code,trade_date,open,high,low,close,pre_close,vol,amount\n"+
				"000001.SZ,20240102,10.50,11.00,10.20,11.00,10.00,120000,1300000.50\n"+
				"000001.SZ,20240103,11.50,12.10,11.40,12.10,11.00,90000,1080000\n")
		bars, err := ReadBarsCSV(path)
		require.NoError(t, err)
		require.Len(t, bars, 2)

		assert.Equal(t, "000001.SZ", bars[0].TsCode)
		assert.Equal(t, "20240102", bars[0].TradeDate)
		assert.Equal(t, "11", bars[0].Close.String())
		assert.Equal(t, "1300000.5", bars[0].Amount.String())
	})

	t.Run("column order does not matter", func(t *testing.T) {
		path := writeFile(t, "bars.csv",
			"close,ts_code,pre_close,trade_date,open,high,low,vol,amount\n"+
				"11.00,000001.SZ,10.00,20240102,10.50,11.00,10.20,120000,1300000\n")
		bars, err := ReadBarsCSV(path)
		require.NoError(t, err)
		require.Len(t, bars, 1)
		assert.Equal(t, "11", bars[0].Close.String())
	})

	t.Run("missing column is a schema error", func(t *testing.T) {
		path := writeFile(t, "bars.csv",
			"ts_code,trade_date,open,high,low,close,vol,amount\n"+
				"000001.SZ,20240102,10.50,11.00,10.20,11.00,120000,1300000\n")
		_, err := ReadBarsCSV(path)
		require.Error(t, err)
		var schemaErr *models.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "pre_close", schemaErr.Field)
	})

	t.Run("non numeric price is a schema error", func(t *testing.T) {
		path := writeFile(t, "bars.csv",
			"ts_code,trade_date,open,high,low,close,pre_close,vol,amount\n"+
				"000001.SZ,20240102,10.50,n/a,10.20,11.00,10.00,120000,1300000\n")
		_, err := ReadBarsCSV(path)
		require.Error(t, err)
		var schemaErr *models.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "high", schemaErr.Field)
	})

	t.Run("duplicate rows are rejected by validation", func(t *testing.T) {
		path := writeFile(t, "bars.csv",
			"ts_code,trade_date,open,high,low,close,pre_close,vol,amount\n"+
				"000001.SZ,20240102,10.50,11.00,10.20,11.00,10.00,120000,1300000\n"+
				"000001.SZ,20240102,10.50,11.00,10.20,11.00,10.00,120000,1300000\n")
		_, err := ReadBarsCSV(path)
		var schemaErr *models.SchemaError
		require.True(t, errors.As(err, &schemaErr))
	})

	t.Run("missing file surfaces the open error", func(t *testing.T) {
		_, err := ReadBarsCSV(filepath.Join(t.TempDir(), "absent.csv"))
		assert.Error(t, err)
	})
}

func TestReadInstrumentsCSV(t *testing.T) {
	t.Run("optional columns fall back to defaults", func(t *testing.T) {
		path := writeFile(t, "instruments.csv", "ts_code\n000001.SZ\n")
		instruments, err := ReadInstrumentsCSV(path)
		require.NoError(t, err)
		require.Len(t, instruments, 1)
		assert.Equal(t, models.BoardUnknown, instruments[0].Board)
		assert.False(t, instruments[0].IsST)
		assert.Empty(t, instruments[0].ListDate)
	})

	t.Run("full row round trips", func(t *testing.T) {
		path := writeFile(t, "instruments.csv",
			"ts_code,name,board,is_st,list_date\n"+
				"688001.SH,Example Co,star,true,20190722\n")
		instruments, err := ReadInstrumentsCSV(path)
		require.NoError(t, err)
		require.Len(t, instruments, 1)

		inst := instruments[0]
		assert.Equal(t, "688001.SH", inst.TsCode)
		assert.Equal(t, models.BoardStar, inst.Board)
		assert.True(t, inst.IsST)
		assert.Equal(t, "20190722", inst.ListDate)
	})

	t.Run("is_st accepts common truthy spellings", func(t *testing.T) {
		path := writeFile(t, "instruments.csv",
			"ts_code,is_st\n000001.SZ,1\n000002.SZ,YES\n000003.SZ,0\n")
		instruments, err := ReadInstrumentsCSV(path)
		require.NoError(t, err)
		require.Len(t, instruments, 3)
		assert.True(t, instruments[0].IsST)
		assert.True(t, instruments[1].IsST)
		assert.False(t, instruments[2].IsST)
	})
}

func TestReadParquet(t *testing.T) {
	t.Run("bars round trip through a parquet file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bars.parquet")
		records := []barRecord{
			{TsCode: "000001.SZ", TradeDate: "20240102", Open: 10.5, High: 11, Low: 10.2, Close: 11, PreClose: 10, Vol: 120000, Amount: 1300000},
			{TsCode: "000001.SZ", TradeDate: "20240103", Open: 11.5, High: 12.1, Low: 11.4, Close: 12.1, PreClose: 11, Vol: 90000, Amount: 1080000},
		}
		require.NoError(t, parquet.WriteFile(path, records))

		bars, err := ReadBarsParquet(path)
		require.NoError(t, err)
		require.Len(t, bars, 2)
		assert.Equal(t, "000001.SZ", bars[0].TsCode)
		assert.Equal(t, "11", bars[0].Close.String())
	})

	t.Run("instruments round trip through a parquet file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "instruments.parquet")
		records := []instrumentRecord{
			{TsCode: "688001.SH", Name: "Example Co", Board: "STAR", IsST: false, ListDate: "20190722"},
			{TsCode: "000001.SZ"},
		}
		require.NoError(t, parquet.WriteFile(path, records))

		instruments, err := ReadInstrumentsParquet(path)
		require.NoError(t, err)
		require.Len(t, instruments, 2)
		assert.Equal(t, models.BoardStar, instruments[0].Board)
		assert.Equal(t, models.BoardUnknown, instruments[1].Board)
	})
}

func TestReadDispatch(t *testing.T) {
	csvPath := writeFile(t, "bars.csv",
		"ts_code,trade_date,open,high,low,close,pre_close,vol,amount\n"+
			"000001.SZ,20240102,10.50,11.00,10.20,11.00,10.00,120000,1300000\n")
	bars, err := ReadBars(csvPath)
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	parquetPath := filepath.Join(t.TempDir(), "bars.parquet")
	require.NoError(t, parquet.WriteFile(parquetPath, []barRecord{
		{TsCode: "000001.SZ", TradeDate: "20240102", Open: 10.5, High: 11, Low: 10.2, Close: 11, PreClose: 10, Vol: 120000, Amount: 1300000},
	}))
	bars, err = ReadBars(parquetPath)
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}
