package buildinfo

import (
	"testing"

	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

func TestCheckStateSchemaAcceptsEmptyVersion(t *testing.T) {
	if err := CheckStateSchema(""); err != nil {
		t.Fatal(err)
	}
}

func TestCheckStateSchemaAcceptsCompatibleMinorBump(t *testing.T) {
	if err := CheckStateSchema("1.3.0"); err != nil {
		t.Fatal(err)
	}
}

func TestCheckStateSchemaRejectsMajorBump(t *testing.T) {
	err := CheckStateSchema("2.0.0")
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestCheckStateSchemaRejectsGarbage(t *testing.T) {
	err := CheckStateSchema("not-a-version")
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}
