// Package features models per-host capability flags. Not every
// GitHub-compatible instance supports every feature; commands consult
// a detected Features value before using an optional API surface.
package features

import "context"

// Features is the set of optional capabilities a host may support.
// The zero value claims nothing, which is the safe answer for an
// unknown instance.
type Features struct {
	MergeQueue bool
	ProjectsV2 bool
	Autolinks  bool
}

// All returns the capability set of a fully featured instance.
func All() Features {
	return Features{MergeQueue: true, ProjectsV2: true, Autolinks: true}
}

// Detector probes a host for its capabilities. Production detection
// talks to the instance and is supplied by the caller; this package
// ships a stub for commands and tests.
type Detector interface {
	Detect(ctx context.Context, hostname string) (Features, error)
}

// StubDetector returns a fixed answer for every host.
type StubDetector struct {
	Features Features
	Err      error
}

func (d StubDetector) Detect(context.Context, string) (Features, error) {
	return d.Features, d.Err
}

// FuncDetector adapts a function to the Detector interface.
type FuncDetector func(ctx context.Context, hostname string) (Features, error)

func (f FuncDetector) Detect(ctx context.Context, hostname string) (Features, error) {
	return f(ctx, hostname)
}
