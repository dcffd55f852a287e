package measure

import (
	"testing"

	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

func TestFakeMeasurerConstantMedianTies(t *testing.T) {
	f := &FakeMeasurer{ConstantMedian: 1000}
	candidates := []asm.Candidate{
		{Assembly: "a", InstructionCount: 5},
		{Assembly: "b", InstructionCount: 50},
	}

	res, err := f.Measure(candidates, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Samples) != 3 {
		t.Fatalf("expected 3 sample rows (2 candidates + check), got %d", len(res.Samples))
	}
	for k, row := range res.Samples {
		for b, v := range row {
			want := int64(1000 * 10)
			if v != want {
				t.Fatalf("row %d batch %d = %d, want %d", k, b, v, want)
			}
		}
	}
}

func TestFakeMeasurerInstructionCountDrivesCost(t *testing.T) {
	f := &FakeMeasurer{Rng: rng.New(1)}
	candidates := []asm.Candidate{
		{Assembly: "short", InstructionCount: 5},
		{Assembly: "long", InstructionCount: 500},
	}

	res, err := f.Measure(candidates, 100, 20)
	if err != nil {
		t.Fatal(err)
	}
	if res.Samples[0][0] >= res.Samples[1][0] {
		t.Fatalf("expected candidate with fewer instructions to cost less: got %d vs %d", res.Samples[0][0], res.Samples[1][0])
	}
}

func TestFakeMeasurerIncorrectOnCall(t *testing.T) {
	f := &FakeMeasurer{IncorrectOnCall: 2}
	candidates := []asm.Candidate{{Assembly: "x", InstructionCount: 1}}

	if _, err := f.Measure(candidates, 1, 1); err != nil {
		t.Fatalf("call 1: unexpected error: %v", err)
	}

	_, err := f.Measure(candidates, 1, 1)
	if err == nil {
		t.Fatal("call 2: expected MeasureIncorrect error")
	}
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.MeasureIncorrect {
		t.Fatalf("expected MeasureIncorrect, got %v (ok=%v)", kind, ok)
	}
}

func TestFakeMeasurerInvalidMarker(t *testing.T) {
	f := &FakeMeasurer{InvalidMarker: "undefined"}
	candidates := []asm.Candidate{{Assembly: "mov rax, undefined", InstructionCount: 1}}

	_, err := f.Measure(candidates, 1, 1)
	if err == nil {
		t.Fatal("expected MeasureInvalid error")
	}
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.MeasureInvalid {
		t.Fatalf("expected MeasureInvalid, got %v (ok=%v)", kind, ok)
	}
}

func TestFakeMeasurerGenericOnCall(t *testing.T) {
	f := &FakeMeasurer{GenericOnCall: 1}
	candidates := []asm.Candidate{{Assembly: "x", InstructionCount: 1}}

	_, err := f.Measure(candidates, 1, 1)
	if err == nil {
		t.Fatal("expected MeasureGeneric error")
	}
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.MeasureGeneric {
		t.Fatalf("expected MeasureGeneric, got %v (ok=%v)", kind, ok)
	}
}

func TestFakeMeasurerDestroy(t *testing.T) {
	f := &FakeMeasurer{}
	if f.Destroyed() {
		t.Fatal("expected not destroyed before Destroy()")
	}
	if err := f.Destroy(); err != nil {
		t.Fatal(err)
	}
	if !f.Destroyed() {
		t.Fatal("expected destroyed after Destroy()")
	}
}
