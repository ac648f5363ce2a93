package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{URL: "postgres://localhost:5432/buscador"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 0},
		Database: DatabaseConfig{URL: "postgres://localhost:5432/buscador"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database url")
	}
}

func TestValidate_ThresholdAboveOne(t *testing.T) {
	cfg := validConfig()
	cfg.Search.SemanticRescue.Threshold = 1.2

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for threshold above 1")
	}
}

func TestValidate_NoiseFloorAboveProfileBar(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Scoring.NoiseFloor = 95

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for noise floor above business profile bar")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected default embedding model, got %q", cfg.Embedding.Model)
	}
	if cfg.Search.LexicalLimit != 20 {
		t.Errorf("expected LexicalLimit=20, got %d", cfg.Search.LexicalLimit)
	}
	if cfg.Search.SemanticRescue.Threshold != 0.30 || cfg.Search.SemanticRescue.Limit != 10 {
		t.Errorf("unexpected rescue params: %+v", cfg.Search.SemanticRescue)
	}
	if cfg.Search.SemanticPrecision.Threshold != 0.38 || cfg.Search.SemanticPrecision.Limit != 5 {
		t.Errorf("unexpected precision params: %+v", cfg.Search.SemanticPrecision)
	}
	if cfg.Search.Scoring.CoherenceBoost != 50 {
		t.Errorf("expected CoherenceBoost=50, got %v", cfg.Search.Scoring.CoherenceBoost)
	}
	if cfg.Search.Scoring.NoiseFloor != 40 {
		t.Errorf("expected NoiseFloor=40, got %v", cfg.Search.Scoring.NoiseFloor)
	}
	if cfg.Search.SourceTimeoutMS != 1500 {
		t.Errorf("expected SourceTimeoutMS=1500, got %d", cfg.Search.SourceTimeoutMS)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Search.Scoring.CoherenceBoost = 35
	cfg.Search.SemanticRescue = SemanticParams{Threshold: 0.2, Limit: 15}
	cfg.ApplyDefaults()

	if cfg.Search.Scoring.CoherenceBoost != 35 {
		t.Errorf("explicit CoherenceBoost overwritten: %v", cfg.Search.Scoring.CoherenceBoost)
	}
	if cfg.Search.SemanticRescue.Threshold != 0.2 || cfg.Search.SemanticRescue.Limit != 15 {
		t.Errorf("explicit rescue params overwritten: %+v", cfg.Search.SemanticRescue)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("BUSCADOR_TEST_VAR", "hola")

	out := expandEnvVars([]byte("a: ${BUSCADOR_TEST_VAR}\nb: ${BUSCADOR_UNSET:-fallback}\n"))
	want := "a: hola\nb: fallback\n"
	if string(out) != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
