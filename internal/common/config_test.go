package common

import (
	"testing"
	"time"
)

func TestAlphaVantageConfig_GetTimeout(t *testing.T) {
	cfg := AlphaVantageConfig{Timeout: "45s"}
	if got := cfg.GetTimeout(); got != 45*time.Second {
		t.Errorf("GetTimeout() = %v, want 45s", got)
	}
}

func TestAlphaVantageConfig_GetTimeoutDefaultsOnInvalid(t *testing.T) {
	cfg := AlphaVantageConfig{Timeout: "not-a-duration"}
	if got := cfg.GetTimeout(); got != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want 30s default", got)
	}
}

func TestResolveAPIKey_EnvTakesPriority(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	cfg := AlphaVantageConfig{APIKey: "from-file"}
	if got := cfg.ResolveAPIKey(); got != "from-env" {
		t.Errorf("ResolveAPIKey() = %q, want env value", got)
	}
}

func TestResolveAPIKey_SecondaryEnvName(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "")
	t.Setenv("MARKET_ALPHAVANTAGE_API_KEY", "from-alt-env")
	cfg := AlphaVantageConfig{APIKey: "from-file"}
	if got := cfg.ResolveAPIKey(); got != "from-alt-env" {
		t.Errorf("ResolveAPIKey() = %q, want alternate env value", got)
	}
}

func TestResolveAPIKey_ConfigFallback(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "")
	t.Setenv("MARKET_ALPHAVANTAGE_API_KEY", "")
	cfg := AlphaVantageConfig{APIKey: "from-file"}
	if got := cfg.ResolveAPIKey(); got != "from-file" {
		t.Errorf("ResolveAPIKey() = %q, want config value", got)
	}
}

func TestResolveAPIKey_EmptyEverywhere(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "")
	t.Setenv("MARKET_ALPHAVANTAGE_API_KEY", "")
	cfg := AlphaVantageConfig{}
	if got := cfg.ResolveAPIKey(); got != "" {
		t.Errorf("ResolveAPIKey() = %q, want empty (missing key is not fatal at load)", got)
	}
}
