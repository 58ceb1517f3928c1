package rank

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/pathrank/pkg/errors"
)

// Default parameter values.
const (
	DefaultBeta          = 0.85
	DefaultIterations    = 10
	DefaultK             = 5
	DefaultTolerance     = 1e-12
	DefaultMaxIterations = 1000
)

// RandomStart selects a uniformly random start index for the power iteration.
const RandomStart = -1

// Mode selects how many power-iteration steps are applied.
type Mode int

const (
	// ModeFixed applies exactly Options.Iterations steps.
	ModeFixed Mode = iota
	// ModeConverge iterates until the L1 change between steps drops below
	// Options.Tolerance, or Options.MaxIterations steps have run.
	ModeConverge
)

// Teleport selects the teleportation term added to every entry of beta*P.
type Teleport int

const (
	// TeleportDoubleDiscount adds (1-beta)*Q/n where every entry of Q is 1/n,
	// i.e. (1-beta)/n² per entry.
	TeleportDoubleDiscount Teleport = iota
	// TeleportUniform adds (1-beta)*Q, i.e. (1-beta)/n per entry, the
	// textbook Google matrix.
	TeleportUniform
)

// TeleportationScaleBug is the default teleportation term. It divides the
// already 1/n-scaled teleportation matrix by n a second time, so teleport
// mass is (1-beta)/n² instead of (1-beta)/n and scores do not sum to 1.
// Reference outputs depend on it; use [TeleportUniform] for the corrected
// formula.
const TeleportationScaleBug = TeleportDoubleDiscount

// TiePolicy selects how equal scores are mapped back to nodes by [TopK].
type TiePolicy int

const (
	// TiesFirstIndex resolves every selected score to the lowest node index
	// holding that score. Tied scores in the top slice therefore repeat the
	// same node.
	TiesFirstIndex TiePolicy = iota
	// TiesDistinct lists each node at most once; tied nodes appear in
	// ascending index order.
	TiesDistinct
)

var modeNames = map[Mode]string{ModeFixed: "fixed", ModeConverge: "converge"}

var teleportNames = map[Teleport]string{TeleportDoubleDiscount: "compat", TeleportUniform: "uniform"}

var tieNames = map[TiePolicy]string{TiesFirstIndex: "first-index", TiesDistinct: "distinct"}

func (m Mode) String() string      { return modeNames[m] }
func (t Teleport) String() string  { return teleportNames[t] }
func (p TiePolicy) String() string { return tieNames[p] }

// ParseMode parses "fixed" or "converge".
func ParseMode(s string) (Mode, error) { return parseName(modeNames, "mode", s) }

// ParseTeleport parses "compat" or "uniform".
func ParseTeleport(s string) (Teleport, error) { return parseName(teleportNames, "teleport", s) }

// ParseTiePolicy parses "first-index" or "distinct".
func ParseTiePolicy(s string) (TiePolicy, error) { return parseName(tieNames, "ties", s) }

func parseName[T comparable](names map[T]string, what, s string) (T, error) {
	for v, name := range names {
		if name == s {
			return v, nil
		}
	}
	var zero T
	return zero, errors.New(errors.ErrCodeInvalidOption, "unknown %s %q", what, s)
}

// Options are the explicit parameters of a ranking run.
// Start from [DefaultOptions]; the zero value does not validate.
type Options struct {
	// Beta is the damping factor in [0, 1].
	Beta float64
	// Iterations is the step count for ModeFixed.
	Iterations int
	// K is the number of top entries to return.
	K int

	Mode          Mode
	Tolerance     float64 // ModeConverge only
	MaxIterations int     // ModeConverge only

	Teleport Teleport
	Ties     TiePolicy

	// Start is the index of the one-hot start vector, or RandomStart.
	Start int
	// Rand draws the random start index. Nil uses the global source.
	Rand *rand.Rand
}

// DefaultOptions returns the compatible defaults: beta 0.85, 10 fixed
// iterations, K 5, random start.
func DefaultOptions() Options {
	return Options{
		Beta:          DefaultBeta,
		Iterations:    DefaultIterations,
		K:             DefaultK,
		Mode:          ModeFixed,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Teleport:      TeleportationScaleBug,
		Ties:          TiesFirstIndex,
		Start:         RandomStart,
	}
}

// Validate checks the options for a graph of n nodes.
// An invalid beta is reported as DEGENERATE_BETA; other problems as
// INVALID_OPTION.
func (o Options) Validate(n int) error {
	if math.IsNaN(o.Beta) || o.Beta < 0 || o.Beta > 1 {
		return errors.New(errors.ErrCodeDegenerateBeta, "beta %g outside [0,1]", o.Beta)
	}
	if o.K < 1 {
		return errors.New(errors.ErrCodeInvalidOption, "k must be >= 1, got %d", o.K)
	}
	switch o.Mode {
	case ModeFixed:
		if o.Iterations < 1 {
			return errors.New(errors.ErrCodeInvalidOption, "iterations must be >= 1, got %d", o.Iterations)
		}
	case ModeConverge:
		if !(o.Tolerance > 0) {
			return errors.New(errors.ErrCodeInvalidOption, "tolerance must be > 0, got %g", o.Tolerance)
		}
		if o.MaxIterations < 1 {
			return errors.New(errors.ErrCodeInvalidOption, "max iterations must be >= 1, got %d", o.MaxIterations)
		}
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown mode %d", int(o.Mode))
	}
	if _, ok := teleportNames[o.Teleport]; !ok {
		return errors.New(errors.ErrCodeInvalidOption, "unknown teleport %d", int(o.Teleport))
	}
	if _, ok := tieNames[o.Ties]; !ok {
		return errors.New(errors.ErrCodeInvalidOption, "unknown tie policy %d", int(o.Ties))
	}
	if o.Start != RandomStart && (o.Start < 0 || o.Start >= n) {
		return errors.New(errors.ErrCodeInvalidOption, "start index %d outside [0,%d)", o.Start, n)
	}
	return nil
}

// String summarizes the options for logs.
func (o Options) String() string {
	return fmt.Sprintf("beta=%g mode=%s iterations=%d k=%d teleport=%s ties=%s",
		o.Beta, o.Mode, o.steps(), o.K, o.Teleport, o.Ties)
}

func (o Options) steps() int {
	if o.Mode == ModeConverge {
		return o.MaxIterations
	}
	return o.Iterations
}
