package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "info", level: "info", want: slog.LevelInfo},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "warning alias", level: "warning", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
		{name: "mixed case", level: "DEBUG", want: slog.LevelDebug},
		{name: "unknown defaults to info", level: "trace", want: slog.LevelInfo},
		{name: "empty defaults to info", level: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.level))
		})
	}
}

func TestRunID_ContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = WithRunID(ctx, "run-123")
	assert.Equal(t, "run-123", GetRunID(ctx))
}

func TestEnsureRunID(t *testing.T) {
	t.Run("generates when missing", func(t *testing.T) {
		ctx := EnsureRunID(context.Background())
		assert.NotEmpty(t, GetRunID(ctx))
	})

	t.Run("keeps existing", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "existing")
		ctx = EnsureRunID(ctx)
		assert.Equal(t, "existing", GetRunID(ctx))
	})

	t.Run("generated IDs are unique", func(t *testing.T) {
		a := GetRunID(EnsureRunID(context.Background()))
		b := GetRunID(EnsureRunID(context.Background()))
		assert.NotEqual(t, a, b)
	})
}

func TestInitializeLogger_FileOutput(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logPath := filepath.Join(t.TempDir(), "logs", "run.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logPath,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)

	ctx := WithRunID(context.Background(), "abc-run")
	logger.InfoContext(ctx, "merged table written", slog.Int("rows", 42))

	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"msg":"merged table written"`)
	assert.Contains(t, content, `"rows":42`)
	assert.Contains(t, content, `"run_id":"abc-run"`)
}

func TestInitializeLogger_Once(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	cfg := config.LoggingConfig{Level: "info", Format: "json", Output: "console"}

	first, err := InitializeLogger(cfg)
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestLoggerWithContext(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	// Uninitialized: falls back to the default logger without panicking
	logger := LoggerWithContext(WithRunID(context.Background(), "x"))
	assert.NotNil(t, logger)
}

func TestWithError(t *testing.T) {
	base := slog.Default()

	assert.Same(t, base, WithError(base, nil))
	assert.NotNil(t, WithError(base, assert.AnError))
}

func TestWithComponent(t *testing.T) {
	base := slog.Default()

	logger := WithComponent(base, "loader")
	assert.NotNil(t, logger)
	assert.NotSame(t, base, logger)
}
