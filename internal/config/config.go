// Package config owns the CLI surface of spec.md §6: flag declarations,
// the `evals` multiplier-suffix grammar, and the validation rules that
// decide a parameterParseFail exit before any search work begins.
package config

import (
	"flag"
	"io"
	"strconv"
	"time"

	"github.com/cryptopt-go/cryptopt/internal/bridge"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/optimize"
)

// Options is the fully-parsed, fully-validated set of CLI flags from
// spec.md §6's table, in declaration order. JSON tags let it round-trip
// through LoadConfigFile/SaveConfigFile using the same names as the flags.
type Options struct {
	Curve  string `json:"curve"`
	Method string `json:"method"`

	Bridge   bridge.Kind `json:"bridge"`
	JSONFile string      `json:"jsonFile"`
	CFile    string      `json:"cFile"`

	Optimizer string `json:"optimizer"`
	Seed      uint64 `json:"seed"`
	Evals     int64  `json:"evals"`

	Bets     int     `json:"bets"`
	BetRatio float64 `json:"betRatio"`
	Single   bool    `json:"single"`

	CycleGoal int `json:"cyclegoal"`

	Xmm               bool   `json:"xmm"`
	PreferXmm         bool   `json:"preferXmm"`
	Redzone           bool   `json:"redzone"`
	FramePointer      string `json:"framePointer"`
	MemoryConstraints string `json:"memoryConstraints"`

	Proof     bool   `json:"proof"`
	ResultDir string `json:"resultDir"`

	ReadState         string `json:"readState"`
	StartFromBestJSON bool   `json:"startFromBestJson"`

	LogFile    string `json:"logFile"`
	LogComment string `json:"logComment"`
	Verbose    bool   `json:"verbose"`

	SAInitialTemperature float64 `json:"saInitialTemperature"`
	SAVisitParam         float64 `json:"saVisitParam"`
	SAAcceptParam        float64 `json:"saAcceptParam"`
	SANeighborStrategy   string  `json:"saNeighborStrategy"`
	SANumNeighbors       int     `json:"saNumNeighbors"`
	SAStepSizeParam      float64 `json:"saStepSizeParam"`
	SAMaxMutStepSize     int     `json:"saMaxMutStepSize"`
	SACoolingSchedule    string  `json:"saCoolingSchedule"`
}

// Default framePointer/memoryConstraints enum choices (spec.md §6).
var (
	framePointerChoices      = []string{"omit", "save", "constant"}
	memoryConstraintsChoices = []string{"none", "all", "out1-arg1"}
	optimizerChoices         = []string{"rls", "sa"}
)

// Parse parses argv (excluding the program name) into Options, applying
// spec.md §6's defaults and §6's validation rules. It never calls os.Exit
// or reads global flag state, so it is safe to call repeatedly (tests) and
// to drive from any entrypoint.
func Parse(argv []string, nowMillis func() uint64) (*Options, error) {
	fs := flag.NewFlagSet("cryptopt", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	o := &Options{}
	var evalsStr, bridgeStr string

	fs.StringVar(&o.Curve, "curve", "curve25519", "curve id")
	fs.StringVar(&o.Method, "method", "square", "primitive within curve")
	fs.StringVar(&bridgeStr, "bridge", string(bridge.Fiat), "source of baseline")
	fs.StringVar(&o.JSONFile, "jsonFile", "", "manual bridge JSON witness path")
	fs.StringVar(&o.CFile, "cFile", "", "manual bridge reference C source path")
	fs.StringVar(&o.Optimizer, "optimizer", "rls", "search strategy")
	fs.Uint64Var(&o.Seed, "seed", 0, "master seed (0 means use current time)")
	fs.StringVar(&evalsStr, "evals", "10k", "total evaluations, accepts k/M/T suffixes")
	fs.IntVar(&o.Bets, "bets", 10, "number of bet children")
	fs.Float64Var(&o.BetRatio, "betRatio", 0.2, "fraction of budget spent on bets")
	fs.BoolVar(&o.Single, "single", false, "shortcut for bets=1, betRatio=1")
	fs.IntVar(&o.CycleGoal, "cyclegoal", 10000, "target cycles per batch measurement")
	fs.BoolVar(&o.Xmm, "xmm", false, "vector-register spill policy")
	fs.BoolVar(&o.PreferXmm, "preferXmm", false, "vector-register spill policy")
	fs.BoolVar(&o.Redzone, "redzone", true, "use System V red zone")
	fs.StringVar(&o.FramePointer, "framePointer", "omit", "use of RBP")
	fs.StringVar(&o.MemoryConstraints, "memoryConstraints", "none", "read/write aliasing policy")
	fs.BoolVar(&o.Proof, "proof", true, "invoke external prover after optimization")
	fs.StringVar(&o.ResultDir, "resultDir", "", "output directory")
	fs.StringVar(&o.ReadState, "readState", "", "resume Model from exported JSON")
	fs.BoolVar(&o.StartFromBestJSON, "startFromBestJson", false, "resume from best prior result in resultDir")
	fs.StringVar(&o.LogFile, "logFile", "", "diagnostics log path")
	fs.StringVar(&o.LogComment, "logComment", "", "free-text comment written to the log header")
	fs.BoolVar(&o.Verbose, "verbose", false, "diagnostics verbosity")
	fs.Float64Var(&o.SAInitialTemperature, "saInitialTemperature", 18351, "SA T0")
	fs.Float64Var(&o.SAVisitParam, "saVisitParam", 1.62, "SA visit (cooling shape)")
	fs.Float64Var(&o.SAAcceptParam, "saAcceptParam", 1.0/5.515, "SA acceptance scale")
	fs.StringVar(&o.SANeighborStrategy, "saNeighborStrategy", "greedy", "SA neighbour picking")
	fs.IntVar(&o.SANumNeighbors, "saNumNeighbors", 1, "SA neighbours per epoch")
	fs.Float64Var(&o.SAStepSizeParam, "saStepSizeParam", 0.005, "Cauchy-scale divisor")
	fs.IntVar(&o.SAMaxMutStepSize, "saMaxMutStepSize", -1, "upper clamp on step count (-1 = unlimited)")
	fs.StringVar(&o.SACoolingSchedule, "saCoolingSchedule", "exp", "cooling curve")

	if err := fs.Parse(argv); err != nil {
		return nil, kerr.Wrap(kerr.BadConfig, err, "config: failed to parse arguments")
	}

	kind, ok := bridge.ParseKind(bridgeStr)
	if !ok {
		return nil, kerr.New(kerr.BadConfig, "config: unknown bridge %q", bridgeStr)
	}
	o.Bridge = kind

	evals, err := parseEvals(evalsStr)
	if err != nil {
		return nil, err
	}
	o.Evals = evals

	if o.Seed == 0 {
		if nowMillis == nil {
			nowMillis = func() uint64 { return uint64(time.Now().UnixMilli()) }
		}
		o.Seed = nowMillis()
	}

	if o.Single {
		o.Bets = 1
		o.BetRatio = 1
	}

	if o.ResultDir == "" {
		o.ResultDir = "./results-" + o.Method
	}

	if err := validate(o); err != nil {
		return nil, err
	}

	return o, nil
}

// Render emits argv for every flag Parse declares, in the same declaration
// order, so that Parse(Render(o)) reproduces an equivalent Options (spec.md
// §8's round-trip property, restated for internal/config rather than
// internal/ir's JSON export/import). Seed and evals are rendered as exact
// values rather than the "0 means use current time"/k-suffix shorthand, so
// the round-trip is byte-exact, not merely behavior-equivalent.
func Render(o *Options) []string {
	return []string{
		"-curve", o.Curve,
		"-method", o.Method,
		"-bridge", string(o.Bridge),
		"-jsonFile", o.JSONFile,
		"-cFile", o.CFile,
		"-optimizer", o.Optimizer,
		"-seed", strconv.FormatUint(o.Seed, 10),
		"-evals", strconv.FormatInt(o.Evals, 10),
		"-bets", strconv.Itoa(o.Bets),
		"-betRatio", strconv.FormatFloat(o.BetRatio, 'g', -1, 64),
		"-single=" + strconv.FormatBool(o.Single),
		"-cyclegoal", strconv.Itoa(o.CycleGoal),
		"-xmm=" + strconv.FormatBool(o.Xmm),
		"-preferXmm=" + strconv.FormatBool(o.PreferXmm),
		"-redzone=" + strconv.FormatBool(o.Redzone),
		"-framePointer", o.FramePointer,
		"-memoryConstraints", o.MemoryConstraints,
		"-proof=" + strconv.FormatBool(o.Proof),
		"-resultDir", o.ResultDir,
		"-readState", o.ReadState,
		"-startFromBestJson=" + strconv.FormatBool(o.StartFromBestJSON),
		"-logFile", o.LogFile,
		"-logComment", o.LogComment,
		"-verbose=" + strconv.FormatBool(o.Verbose),
		"-saInitialTemperature", strconv.FormatFloat(o.SAInitialTemperature, 'g', -1, 64),
		"-saVisitParam", strconv.FormatFloat(o.SAVisitParam, 'g', -1, 64),
		"-saAcceptParam", strconv.FormatFloat(o.SAAcceptParam, 'g', -1, 64),
		"-saNeighborStrategy", o.SANeighborStrategy,
		"-saNumNeighbors", strconv.Itoa(o.SANumNeighbors),
		"-saStepSizeParam", strconv.FormatFloat(o.SAStepSizeParam, 'g', -1, 64),
		"-saMaxMutStepSize", strconv.Itoa(o.SAMaxMutStepSize),
		"-saCoolingSchedule", o.SACoolingSchedule,
	}
}

// CoolingSchedule resolves the parsed SACoolingSchedule name, per
// internal/optimize's named-function dispatch table.
func (o *Options) CoolingSchedule() (optimize.CoolingSchedule, error) {
	cs, ok := optimize.LookupCoolingSchedule(o.SACoolingSchedule)
	if !ok {
		return nil, kerr.New(kerr.BadConfig, "config: unknown saCoolingSchedule %q", o.SACoolingSchedule)
	}
	return cs, nil
}

// NeighbourStrategy resolves the parsed SANeighborStrategy name.
func (o *Options) NeighbourStrategy() (optimize.NeighbourStrategy, error) {
	ns, ok := optimize.LookupNeighbourStrategy(o.SANeighborStrategy)
	if !ok {
		return nil, kerr.New(kerr.BadConfig, "config: unknown saNeighborStrategy %q", o.SANeighborStrategy)
	}
	return ns, nil
}
