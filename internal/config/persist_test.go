package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFileMissingReturnsZeroValue(t *testing.T) {
	o, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if o.Curve != "" || o.Evals != 0 {
		t.Fatalf("expected zero-value Options, got %+v", o)
	}
}

func TestLoadConfigFileEmptyPathReturnsZeroValue(t *testing.T) {
	o, err := LoadConfigFile("")
	if err != nil {
		t.Fatal(err)
	}
	if o.Curve != "" {
		t.Fatalf("expected zero-value Options, got %+v", o)
	}
}

func TestSaveThenLoadConfigFileRoundTrips(t *testing.T) {
	o, err := Parse([]string{"-curve=p256", "-method=mul", "-evals=5000"}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "config.json")
	if err := o.SaveConfigFile(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Curve != o.Curve || loaded.Method != o.Method || loaded.Evals != o.Evals || loaded.Seed != o.Seed {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", loaded, o)
	}
}

func TestLoadConfigFileRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
