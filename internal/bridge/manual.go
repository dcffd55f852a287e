package bridge

import (
	"os"

	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// ManualBridge builds a baseline Model from a hand-authored JSON witness
// plus its paired reference C source (spec.md §6: "jsonFile, cFile ...
// Required iff bridge=manual"). The C file is not parsed here — it exists
// for the external equivalence prover to check the optimized assembly
// against, never for seeding the Model — so Build only reads jsonFile
// through the same schema ir.Import already uses for prior-run state.
type ManualBridge struct{}

func (ManualBridge) Build(req Request) (*ir.Model, error) {
	if req.JSONFile == "" || req.CFile == "" {
		return nil, kerr.New(kerr.BadConfig, "bridge: manual: jsonFile and cFile are both required")
	}

	if _, err := os.Stat(req.CFile); err != nil {
		return nil, kerr.Wrap(kerr.BadConfig, err, "bridge: manual: cFile %q is not readable", req.CFile)
	}

	data, err := os.ReadFile(req.JSONFile)
	if err != nil {
		return nil, kerr.Wrap(kerr.BadConfig, err, "bridge: manual: jsonFile %q is not readable", req.JSONFile)
	}

	return ir.Import(data)
}
