// Package axiom is a unidirectional state container for Go.
//
// A Store holds one immutable value of a state type S. Actions (pure
// func(S) S) are the only way to change it, and every observer sees the
// same totally ordered sequence of values. Commands produce lazy,
// cancellable sequences of actions, and a Scheduler runs them against a
// Store under one of three modes: one shot, sequential, or latest wins.
//
// Example usage:
//
//	store := state.NewStore(Counter{})
//	sch := axiom.New(ctx, store)
//	defer sch.Close()
//
//	scheduler.RunLatestOn(sch, selector, loadCommand)
//
// The packages under pkg/ can be used on their own: pkg/state for the Store,
// pkg/command for Commands, pkg/scope for bounded job lifetimes.
package axiom

import (
	"context"
	"fmt"

	"github.com/bft-labs/axiom/pkg/command"
	"github.com/bft-labs/axiom/pkg/log"
	"github.com/bft-labs/axiom/pkg/scheduler"
	"github.com/bft-labs/axiom/pkg/scope"
	"github.com/bft-labs/axiom/pkg/state"
)

// New validates module versions and returns a Scheduler driving store.
// It panics if the linked modules are incompatible.
func New[S any](ctx context.Context, store *state.Store[S], opts ...scheduler.Option) *scheduler.Scheduler[S] {
	if err := ValidateModuleVersions(); err != nil {
		panic(err)
	}
	return scheduler.New(ctx, store, opts...)
}

// ValidateModuleVersions checks that all module versions are compatible.
func ValidateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"state":     {state.Version, state.MinCompatibleVersion},
		"command":   {command.Version, command.MinCompatibleVersion},
		"scope":     {scope.Version, scope.MinCompatibleVersion},
		"scheduler": {scheduler.Version, scheduler.MinCompatibleVersion},
		"log":       {log.Version, log.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}
	return nil
}

// isVersionCompatible reports whether version >= minVersion.
// Versions are "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
