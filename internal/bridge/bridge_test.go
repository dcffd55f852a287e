package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

func TestParseKindAcceptsAllFourEnumValues(t *testing.T) {
	for _, s := range []string{"fiat", "manual", "bitcoin-core", "jasmin"} {
		if _, ok := ParseKind(s); !ok {
			t.Fatalf("ParseKind(%q) = false, want true", s)
		}
	}
	if _, ok := ParseKind("nope"); ok {
		t.Fatal("ParseKind(\"nope\") = true, want false")
	}
}

func TestFiatBridgeBuildsBaselineForKnownCurveAndMethod(t *testing.T) {
	b := FiatBridge{}
	m, err := b.Build(Request{Curve: "curve25519", Method: "square"})
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("expected a non-nil Model")
	}
}

func TestFiatBridgeRejectsUnknownCurve(t *testing.T) {
	b := FiatBridge{}
	_, err := b.Build(Request{Curve: "bn254", Method: "mul"})
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestFiatBridgeRejectsUnknownMethod(t *testing.T) {
	b := FiatBridge{}
	_, err := b.Build(Request{Curve: "curve25519", Method: "invert"})
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestBitcoinCoreBridgeBuildsBaselineForAllMethods(t *testing.T) {
	b := BitcoinCoreBridge{}
	for _, method := range BitcoinCoreMethods {
		if _, err := b.Build(Request{Method: method}); err != nil {
			t.Fatalf("method %q: %v", method, err)
		}
	}
}

func TestJasminBridgeAcceptedAtLookupFailsAtBuild(t *testing.T) {
	br, err := Lookup(Jasmin)
	if err != nil {
		t.Fatalf("Lookup(Jasmin) should resolve a Bridge value, got error: %v", err)
	}
	_, err = br.Build(Request{})
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig from jasmin Build, got %v", err)
	}
}

func TestManualBridgeRequiresBothFiles(t *testing.T) {
	b := ManualBridge{}
	_, err := b.Build(Request{})
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestManualBridgeRoundTripsAnExportedModel(t *testing.T) {
	dir := t.TempDir()

	nodes := []*ir.Node{
		ir.NewNode("x0", ir.OpLoad, nil),
		ir.NewNode("out", ir.OpStore, []string{"x0"}),
	}
	src, err := ir.NewModel(nodes, []string{"x0", "out"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := src.Export()
	if err != nil {
		t.Fatal(err)
	}

	jsonPath := filepath.Join(dir, "witness.json")
	cPath := filepath.Join(dir, "ref.c")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cPath, []byte("// reference\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := ManualBridge{}
	m, err := b.Build(Request{JSONFile: jsonPath, CFile: cPath})
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.Export()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Fatal("manual bridge did not round-trip the exported model byte-for-byte")
	}
}

func TestManualBridgeRejectsUnreadableCFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "witness.json")
	if err := os.WriteFile(jsonPath, []byte(`{"order":[],"nodes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	b := ManualBridge{}
	_, err := b.Build(Request{JSONFile: jsonPath, CFile: filepath.Join(dir, "missing.c")})
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}
