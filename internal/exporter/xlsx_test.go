package exporter

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"surveycli/internal/config"
)

func TestXLSXWriter_WriteTable(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewXLSXWriter(&config.Paths{
		ReportsDir: filepath.Join(tempDir, "reports"),
	})

	df := dataframe.New(
		series.New([]string{"N", "Age, mean (sd)", "Female, n (%)"}, series.String, "Characteristic"),
		series.New([]string{"120", "34.2 (8.1)", "64 (53.3%)"}, series.String, "All subjects"),
	)
	require.NoError(t, df.Err)

	err := writer.WriteTable("demo_table.xlsx", "Demographics", df)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(tempDir, "reports", "demo_table.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Demographics"}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue("Demographics", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Characteristic", get("A1"))
	assert.Equal(t, "All subjects", get("B1"))
	assert.Equal(t, "N", get("A2"))
	assert.Equal(t, "120", get("B2"))
	assert.Equal(t, "34.2 (8.1)", get("B3"))
	assert.Equal(t, "64 (53.3%)", get("B4"))
}

func TestXLSXWriter_WriteTable_NumericCells(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewXLSXWriter(nil)

	df := dataframe.New(
		series.New([]string{"S001", "S002"}, series.String, "sub_id"),
		series.New([]int{5, 2}, series.Int, "n_obs"),
		series.New([]float64{6.5, math.NaN()}, series.Float, "stress"),
	)
	require.NoError(t, df.Err)

	path := filepath.Join(tempDir, "merged.xlsx")
	require.NoError(t, writer.WriteTable(path, "", df))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue("Sheet1", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "5", get("B2"))
	assert.Equal(t, "6.5", get("C2"))
	assert.Equal(t, "", get("C3")) // missing value leaves the cell empty
}

func TestXLSXWriter_WriteTable_FrameError(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewXLSXWriter(nil)

	bad := dataframe.New(
		series.New([]string{"a"}, series.String, "x"),
	).Select("missing")
	require.Error(t, bad.Err)

	path := filepath.Join(tempDir, "bad.xlsx")
	err := writer.WriteTable(path, "Sheet1", bad)
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
