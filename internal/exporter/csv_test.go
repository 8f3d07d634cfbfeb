package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/config"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "reports"), 0755))

	writer := NewCSVWriter(&config.Paths{
		ReportsDir: filepath.Join(tempDir, "reports"),
	})

	return writer, tempDir
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"sub_id", "day", "stress"},
				Records: [][]string{
					{"S001", "1", "6"},
					{"S002", "2", "3"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3) // header + 2 records
				assert.Equal(t, "sub_id,day,stress", lines[0])
				assert.Equal(t, "S001,1,6", lines[1])
				assert.Equal(t, "S002,2,3", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"Characteristic", "Value"},
				Records:   [][]string{{"N", "120"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				// Check for UTF-8 BOM
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

				contentWithoutBOM := content[3:]
				lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")
				assert.Equal(t, "Characteristic,Value", lines[0])
				assert.Equal(t, "N,120", lines[1])
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Records: [][]string{
					{"S001", "1"},
					{"S002", "2"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 2) // only records, no headers
				assert.Equal(t, "S001,1", lines[0])
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 1) // only headers
				assert.Equal(t, "Col1,Col2", lines[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)

			tt.validate(t, filepath.Join(tempDir, "reports", tt.filePath))
		})
	}
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	headers := []string{"table", "column", "check"}
	records := [][]string{
		{"daily", "stress", "range"},
		{"demographics", "age1", "range"},
	}

	err := writer.WriteSimpleCSV("simple_test.csv", headers, records)
	assert.NoError(t, err)

	filePath := filepath.Join(tempDir, "reports", "simple_test.csv")
	content, err := os.ReadFile(filePath)
	require.NoError(t, err)

	// WriteSimpleCSV uses BOMPrefix: true
	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	contentWithoutBOM := content[3:]
	lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "table,column,check", lines[0])
	assert.Equal(t, "daily,stress,range", lines[1])
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	filePath := "append_test.csv"
	fullPath := filepath.Join(tempDir, "reports", filePath)

	err := writer.WriteSimpleCSV(filePath, []string{"Col1", "Col2"}, [][]string{
		{"Initial1", "Initial2"},
	})
	require.NoError(t, err)

	err = writer.AppendToCSV(filePath, [][]string{
		{"Appended1", "Appended2"},
	})
	assert.NoError(t, err)

	content, err := os.ReadFile(fullPath)
	require.NoError(t, err)

	contentWithoutBOM := content[3:]
	lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")
	assert.Len(t, lines, 3) // header + initial + appended
	assert.Equal(t, "Appended1,Appended2", lines[2])
}

func TestCSVWriter_WriteDataFrame(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	df := dataframe.New(
		series.New([]string{"S001", "S002", "S003"}, series.String, "sub_id"),
		series.New([]int{1, 2, 3}, series.Int, "day"),
		series.New([]float64{6, math.NaN(), 13.4}, series.Float, "stress"),
		series.New([]string{"fine", "NaN", "ok"}, series.String, "notes"),
	)
	require.NoError(t, df.Err)

	err := writer.WriteDataFrame("frame_test.csv", df)
	require.NoError(t, err)

	fullPath := filepath.Join(tempDir, "reports", "frame_test.csv")
	content, err := os.ReadFile(fullPath)
	require.NoError(t, err)

	// Analysis CSVs carry no BOM
	assert.False(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "sub_id,day,stress,notes", lines[0])
	assert.Equal(t, "S001,1,6,fine", lines[1])
	assert.Equal(t, "S002,2,,", lines[2]) // missing values become empty cells
	assert.Equal(t, "S003,3,13.4,ok", lines[3])

	// The file must read back into an equivalent frame
	back := dataframe.ReadCSV(bytes.NewReader(content),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{""}),
	)
	require.NoError(t, back.Err)
	assert.Equal(t, df.Nrow(), back.Nrow())
	assert.Equal(t, df.Names(), back.Names())
	assert.True(t, back.Col("stress").Elem(1).IsNA())
	assert.InDelta(t, 13.4, back.Col("stress").Elem(2).Float(), 1e-9)
}

func TestCSVWriter_WriteDataFrame_FrameError(t *testing.T) {
	writer, _ := setupTestEnv(t)

	bad := dataframe.New(
		series.New([]string{"a"}, series.String, "x"),
	).Select("missing")
	require.Error(t, bad.Err)

	err := writer.WriteDataFrame("should_not_exist.csv", bad)
	assert.Error(t, err)
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	t.Run("absolute path unchanged", func(t *testing.T) {
		abs := filepath.Join(tempDir, "elsewhere", "file.csv")
		assert.Equal(t, abs, writer.resolvePath(abs))
	})

	t.Run("relative path lands in reports", func(t *testing.T) {
		result := writer.resolvePath("merged.csv")
		assert.Equal(t, filepath.Join(tempDir, "reports", "merged.csv"), result)
	})

	t.Run("nil paths keeps relative path", func(t *testing.T) {
		plain := NewCSVWriter(nil)
		assert.Equal(t, "merged.csv", plain.resolvePath("merged.csv"))
	})
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	headers := []string{"Name", "Description", "Notes"}
	records := [][]string{
		{"Boston, MA", "Description with \"quotes\"", "Notes with\nnewlines"},
		{"São Paulo", "Accents: ñáéíóú", "Tabs\there"},
	}

	err := writer.WriteSimpleCSV("special_chars.csv", headers, records)
	assert.NoError(t, err)

	filePath := filepath.Join(tempDir, "reports", "special_chars.csv")
	file, err := os.Open(filePath)
	require.NoError(t, err)
	defer file.Close()

	// Skip BOM
	bom := make([]byte, 3)
	_, err = file.Read(bom)
	require.NoError(t, err)

	reader := csv.NewReader(file)
	allRecords, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, allRecords, 3)
	assert.Equal(t, headers, allRecords[0])
	assert.Equal(t, "Boston, MA", allRecords[1][0])
	assert.Equal(t, "Description with \"quotes\"", allRecords[1][1])
	assert.Equal(t, "Notes with\nnewlines", allRecords[1][2])
	assert.Equal(t, "São Paulo", allRecords[2][0])
}
