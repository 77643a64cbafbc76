package common

import "testing"

func TestNewSilentLogger(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("NewSilentLogger returned nil")
	}
	// Must not panic or write anywhere visible
	logger.Info().Str("key", "value").Msg("discarded")
	logger.Error().Msg("also discarded")
}

func TestNewLoggerFromConfig_ConsoleOnly(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{
		Level:   "error",
		Outputs: []string{"console"},
	})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
}

func TestNewLoggerFromConfig_DefaultsLevel(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{Outputs: []string{"console"}})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil with empty level")
	}
}

func TestWithCorrelationId(t *testing.T) {
	base := NewSilentLogger()
	tagged := base.WithCorrelationId("abc-123")
	if tagged == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	tagged.Debug().Msg("traced")
}
