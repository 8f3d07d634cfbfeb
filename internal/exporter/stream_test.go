package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter_CreateStreamWriter(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		headers  []string
		validate func(t *testing.T, stream *StreamWriter, filePath string)
	}{
		{
			name:     "create stream with headers",
			filePath: "stream_test.csv",
			headers:  []string{"sub_id", "day", "stress"},
			validate: func(t *testing.T, stream *StreamWriter, filePath string) {
				assert.NotNil(t, stream)
				assert.NotNil(t, stream.file)
				assert.NotNil(t, stream.writer)

				// Flush the writer to ensure headers are written
				stream.writer.Flush()

				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				// Streamed files carry no BOM
				assert.False(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 1) // only headers at this point
				assert.Equal(t, "sub_id,day,stress", lines[0])
			},
		},
		{
			name:     "create stream without headers",
			filePath: "stream_no_headers.csv",
			headers:  nil,
			validate: func(t *testing.T, stream *StreamWriter, filePath string) {
				assert.NotNil(t, stream)

				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.Empty(t, content)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullPath := filepath.Join(tempDir, "reports", tt.filePath)

			stream, err := writer.CreateStreamWriter(tt.filePath, tt.headers)
			require.NoError(t, err)
			require.NotNil(t, stream)
			defer stream.Close()

			tt.validate(t, stream, fullPath)
		})
	}
}

func TestStreamWriter_WriteRecord(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	headers := []string{"sub_id", "value", "note"}
	stream, err := writer.CreateStreamWriter("stream_records.csv", headers)
	require.NoError(t, err)

	records := [][]string{
		{"S001", "150.25", "plain"},
		{"S002", "3", "comma, inside"},
		{"S003", "", ""},
		{"S004", "1", "multi\nline"},
	}
	for _, record := range records {
		require.NoError(t, stream.WriteRecord(record))
	}
	require.NoError(t, stream.Close())

	filePath := filepath.Join(tempDir, "reports", "stream_records.csv")
	file, err := os.Open(filePath)
	require.NoError(t, err)
	defer file.Close()

	reader := csv.NewReader(file)
	allRecords, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, allRecords, 5) // header + 4 records
	assert.Equal(t, headers, allRecords[0])
	assert.Equal(t, records[0], allRecords[1])
	assert.Equal(t, records[1], allRecords[2])
	assert.Equal(t, records[3], allRecords[4])
}

func TestStreamWriter_Close(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	t.Run("close after writing", func(t *testing.T) {
		stream, err := writer.CreateStreamWriter("close_test1.csv", []string{"A", "B"})
		require.NoError(t, err)

		require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
		assert.NoError(t, stream.Close())

		content, err := os.ReadFile(filepath.Join(tempDir, "reports", "close_test1.csv"))
		require.NoError(t, err)
		assert.Equal(t, "A,B\n1,2\n", string(content))
	})

	t.Run("close without records", func(t *testing.T) {
		stream, err := writer.CreateStreamWriter("close_test2.csv", []string{"X", "Y"})
		require.NoError(t, err)
		assert.NoError(t, stream.Close())

		content, err := os.ReadFile(filepath.Join(tempDir, "reports", "close_test2.csv"))
		require.NoError(t, err)
		assert.Equal(t, "X,Y\n", string(content))
	})
}
