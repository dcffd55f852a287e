// Package buildinfo carries this tool's own version and the compatibility
// rule for the on-disk Model/state JSON schema, grounded on the teacher's
// internal/cli.Version/BuildDate/CommitSHA constants and its packagemanager
// resolver's use of Masterminds/semver/v3 for constraint checking.
package buildinfo

import (
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

const (
	Version   = "0.1.0"
	BuildDate = "unknown"
	CommitSHA = "unknown"
)

// StateSchemaVersion is the semver tag embedded in every exported Model
// JSON document (internal/ir.Export); bumped whenever the schema changes
// in a way readState/startFromBestJson callers must care about.
const StateSchemaVersion = "1.0.0"

// stateSchemaConstraint is the range of StateSchemaVersion values this
// build can Import: same major, any minor/patch, matching ordinary semver
// compatibility expectations.
var stateSchemaConstraint = mustConstraint("^1.0.0")

func mustConstraint(expr string) *semver.Constraints {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// Info mirrors the teacher's VersionInfo struct.
type Info struct {
	Version   string
	BuildDate string
	CommitSHA string
	GoVersion string
	Platform  string
	Arch      string
}

func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// CheckStateSchema validates a state document's embedded schema version
// string against stateSchemaConstraint, so a readState/startFromBestJson
// document from an incompatible build fails fast with a named reason
// rather than an obscure JSON-shape mismatch deeper in internal/ir.
func CheckStateSchema(docVersion string) error {
	if docVersion == "" {
		return nil // pre-versioning documents are assumed compatible
	}
	v, err := semver.NewVersion(docVersion)
	if err != nil {
		return kerr.Wrap(kerr.BadConfig, err, "buildinfo: state document has an invalid schema version %q", docVersion)
	}
	if !stateSchemaConstraint.Check(v) {
		return kerr.New(kerr.BadConfig, "buildinfo: state document schema version %s does not satisfy %s", docVersion, stateSchemaConstraint.String())
	}
	return nil
}
