// Package impulse implements an iterative impulse-based constraint solver
// for 3-D rigid-body contact dynamics. Contact manifolds produced by an
// upstream collision module are turned into a mixed linear complementarity
// problem and solved with Projected Gauss–Seidel under a fixed iteration
// budget, warm-started from per-contact impulse caches.
//
// The solver owns no bodies and mutates none: it reads pre-step velocities
// and external wrenches through the constraint.Body capability set, and
// exposes the corrective velocities for the external integrator to apply.
package impulse

import (
	"fmt"

	"github.com/akmonengine/impulse/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// Default solver settings.
const (
	DefaultNbIterations         = 10
	DefaultSlop                 = 0.005
	DefaultPositionBias         = 0.2
	DefaultRestitutionThreshold = 1.0
)

// Settings configures a Solver. Zero fields are replaced by the defaults.
type Settings struct {
	// NbIterations is the fixed Gauss–Seidel iteration count. There is no
	// convergence test: bounded worst-case latency wins over variable
	// solution quality.
	NbIterations int
	// Slop is the penetration depth below which no positional correction
	// is applied.
	Slop float64
	// PositionBias is the Baumgarte stabilization factor β mixing
	// penetration error into the velocity right-hand side.
	PositionBias float64
	// RestitutionThreshold is the approach speed below which contacts do
	// not bounce.
	RestitutionThreshold float64
}

// DefaultSettings returns the default solver settings.
func DefaultSettings() Settings {
	return Settings{
		NbIterations:         DefaultNbIterations,
		Slop:                 DefaultSlop,
		PositionBias:         DefaultPositionBias,
		RestitutionThreshold: DefaultRestitutionThreshold,
	}
}

// Solver computes the contact impulses for one simulation step at a time.
// All per-step structures are rebuilt on every Solve call; only the impulse
// caches on the contacts survive between steps. A Solver must not be used
// from multiple goroutines.
type Solver struct {
	settings Settings

	bodies  []constraint.Body        // dense index -> body, in insertion order
	indices map[constraint.Body]int  // body -> dense index
	states  []constraint.BodyState   // pre-step V1/W1/Fext per body

	vConstraint []mgl64.Vec3 // accumulated corrective linear velocities
	wConstraint []mgl64.Vec3 // accumulated corrective angular velocities

	constraints []*constraint.ContactConstraint

	saturations uint64
}

// NewSolver creates a solver with the given settings, filling zero fields
// with the defaults.
func NewSolver(settings Settings) *Solver {
	if settings.NbIterations <= 0 {
		settings.NbIterations = DefaultNbIterations
	}
	if settings.Slop <= 0 {
		settings.Slop = DefaultSlop
	}
	if settings.PositionBias <= 0 {
		settings.PositionBias = DefaultPositionBias
	}
	if settings.RestitutionThreshold <= 0 {
		settings.RestitutionThreshold = DefaultRestitutionThreshold
	}
	return &Solver{
		settings: settings,
		indices:  make(map[constraint.Body]int),
	}
}

// Solve computes corrective velocity impulses for one step of size dt so
// that the bodies of the given manifolds satisfy non-penetration and
// Coulomb-friction conditions. It runs synchronously on the caller's
// goroutine for a bounded number of operations.
//
// The manifold list and the bodies reachable from it are borrowed for the
// duration of the call. On error no warm-start cache is written and every
// body reports as unconstrained.
func (s *Solver) Solve(dt float64, manifolds []*constraint.Manifold) error {
	s.reset()
	if dt <= 0 {
		return fmt.Errorf("%w: non-positive time step %v", ErrPrecondition, dt)
	}

	if err := s.buildTables(manifolds); err != nil {
		s.reset()
		return err
	}
	if err := s.buildConstraints(dt, manifolds); err != nil {
		s.reset()
		return err
	}

	s.warmStart()
	s.iterate()
	s.writeCache()
	return nil
}

// IsConstrained reports whether the body took part in at least one contact
// constraint in the last solve.
func (s *Solver) IsConstrained(body constraint.Body) bool {
	_, ok := s.indices[body]
	return ok
}

// ConstrainedLinearVelocity returns the corrective linear velocity of the
// body computed by the last solve. The external integrator applies it as
// Vpost = V1 + M⁻¹·Fext·dt + Vconstraint. Returns ErrBodyNotConstrained
// for a body absent from the last solve.
func (s *Solver) ConstrainedLinearVelocity(body constraint.Body) (mgl64.Vec3, error) {
	idx, ok := s.indices[body]
	if !ok {
		return mgl64.Vec3{}, ErrBodyNotConstrained
	}
	return s.vConstraint[idx], nil
}

// ConstrainedAngularVelocity returns the corrective angular velocity of the
// body computed by the last solve. Returns ErrBodyNotConstrained for a body
// absent from the last solve.
func (s *Solver) ConstrainedAngularVelocity(body constraint.Body) (mgl64.Vec3, error) {
	idx, ok := s.indices[body]
	if !ok {
		return mgl64.Vec3{}, ErrBodyNotConstrained
	}
	return s.wConstraint[idx], nil
}

// NbBodies returns the number of bodies indexed by the last solve.
func (s *Solver) NbBodies() int {
	return len(s.bodies)
}

// SaturationCount returns the number of impulse saturation events recorded
// since the solver was created.
func (s *Solver) SaturationCount() uint64 {
	return s.saturations
}

func (s *Solver) reset() {
	s.bodies = s.bodies[:0]
	s.indices = make(map[constraint.Body]int)
	s.states = nil
	s.vConstraint = nil
	s.wConstraint = nil
	s.constraints = nil
}
