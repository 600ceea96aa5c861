package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("parsed towns", slog.Int("towns", 517))
		logger.Error("load failed", slog.String("path", "gdplev.xlsx"))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.HasMessage("parsed"))
		assert.True(t, handler.HasAttr("towns", int64(517)))
		assert.True(t, handler.HasAttr("path", "gdplev.xlsx"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelDebug), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 1)
		assert.Empty(t, handler.GetRecordsByLevel(slog.LevelError))
		AssertLogContains(t, handler, slog.LevelWarn, "warn")
		AssertNoErrors(t, handler)
	})

	t.Run("derived loggers share records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		stepLogger := logger.With(slog.String("step", "gdp")).WithGroup("window")
		stepLogger.Info("recession located", slog.String("start", "2008q3"))

		records := handler.GetRecords()
		if assert.Len(t, records, 1) {
			assert.Equal(t, "gdp", records[0].Attrs["step"])
			assert.Equal(t, "2008q3", records[0].Attrs["window.start"])
		}

		handler.Clear()
		assert.Zero(t, handler.Count())
	})
}
