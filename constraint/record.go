package constraint

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrPrecondition reports solver input that violates the contract with the
// collision module: an empty or oversized manifold, non-finite contact
// geometry, or a degenerate constraint row between two moving bodies.
var ErrPrecondition = errors.New("precondition violation")

// epsEffectiveMass is the threshold under which a row's effective mass is
// considered degenerate. Such a row is dead when neither body moves and a
// precondition violation when either body moves.
const epsEffectiveMass = 1e-10

// Params are the solver settings needed while precomputing constraint rows.
type Params struct {
	DT                   float64
	Slop                 float64
	PositionBias         float64
	RestitutionThreshold float64
}

// BodyState is the borrowed pre-step state of one solver body slot: the
// velocities read before solving and the external wrench applied upstream.
type BodyState struct {
	V mgl64.Vec3 // linear velocity
	W mgl64.Vec3 // angular velocity
	F mgl64.Vec3 // external force
	T mgl64.Vec3 // external torque
}

// Row is a single scalar constraint row. The Jacobian and B = M⁻¹·Jᵀ are
// stored inline as four 3-vectors each so the iteration touches contiguous
// memory instead of chasing matrix pointers.
type Row struct {
	JV1, JW1, JV2, JW2 mgl64.Vec3 // Jacobian split per body
	BV1, BW1, BV2, BW2 mgl64.Vec3 // M⁻¹·Jᵀ split per body

	InvD   float64 // 1 / (J·M⁻¹·Jᵀ)
	B      float64 // right-hand side
	Lambda float64 // accumulated impulse

	Lower, Upper float64

	// Dead marks a row whose effective mass is degenerate; both bodies are
	// motionless and the row is skipped by the iteration.
	Dead bool
}

// RelativeVelocity returns J·v over both bodies' velocity parts.
func (r *Row) RelativeVelocity(v1, w1, v2, w2 mgl64.Vec3) float64 {
	return r.JV1.Dot(v1) + r.JW1.Dot(w1) + r.JV2.Dot(v2) + r.JW2.Dot(w2)
}

// ContactPointConstraint holds the three rows of one contact point.
type ContactPointConstraint struct {
	Rows     [NbRows]Row
	Friction float64

	// Contact is the originating contact, kept to write the impulses back
	// into its cache. Only valid for the duration of the solve call.
	Contact Contact
}

// ContactConstraint is the per-manifold record. Body metadata shared by all
// contact points of the manifold is hoisted here once.
type ContactConstraint struct {
	IndexBody1 int
	IndexBody2 int

	InvMass1, InvMass2       float64
	InvInertia1, InvInertia2 mgl64.Mat3
	IsMoving1, IsMoving2     bool

	NbPoints int
	Points   [MaxManifoldPoints]ContactPointConstraint
}

// Check verifies the manifold respects the upstream contract.
func (m *Manifold) Check() error {
	if m == nil || len(m.Contacts) == 0 {
		return fmt.Errorf("%w: manifold has no contact points", ErrPrecondition)
	}
	if len(m.Contacts) > MaxManifoldPoints {
		return fmt.Errorf("%w: manifold has %d contact points (max %d)",
			ErrPrecondition, len(m.Contacts), MaxManifoldPoints)
	}
	return nil
}

// NewContactConstraint builds the record for one manifold. indexBody1 and
// indexBody2 are the dense solver indices of the manifold's bodies. A
// motion-disabled body gets zero inverse mass and inertia so its rows can
// never produce a velocity update on it.
func NewContactConstraint(m *Manifold, indexBody1, indexBody2 int) (*ContactConstraint, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}

	body1 := m.Contacts[0].Body1()
	body2 := m.Contacts[0].Body2()

	cc := &ContactConstraint{
		IndexBody1: indexBody1,
		IndexBody2: indexBody2,
		IsMoving1:  body1.IsMotionEnabled(),
		IsMoving2:  body2.IsMotionEnabled(),
		NbPoints:   len(m.Contacts),
	}
	if cc.IsMoving1 {
		cc.InvMass1 = body1.InverseMass()
		cc.InvInertia1 = body1.InverseInertiaWorld()
	}
	if cc.IsMoving2 {
		cc.InvMass2 = body2.InverseMass()
		cc.InvInertia2 = body2.InverseInertiaWorld()
	}

	for i, c := range m.Contacts {
		cc.Points[i].Contact = c
		cc.Points[i].Friction = c.FrictionCoefficient()
	}
	return cc, nil
}

// Precompute fills every row of the record: Jacobians, B = M⁻¹·Jᵀ, effective
// mass, right-hand side and warm-start impulses. s1 and s2 are the pre-step
// states of the two bodies.
//
// The right-hand side follows the convention that the iteration drives
// J·(V1 + M⁻¹·Fext·dt + Vconstraint) to the bias target:
//
//	b = −(J·V1 + J·M⁻¹·Fext·dt)
//	  + (β/dt)·max(depth − slop, 0)   penetration row
//	  + −e·(J·V1)                     penetration row, if approaching fast
func (cc *ContactConstraint) Precompute(p Params, s1, s2 *BodyState) error {
	for i := 0; i < cc.NbPoints; i++ {
		pc := &cc.Points[i]
		c := pc.Contact

		n := c.Normal()
		t1 := c.Tangent1()
		t2 := c.Tangent2()
		r1 := c.PointOnBody1()
		r2 := c.PointOnBody2()
		depth := c.PenetrationDepth()

		if !finiteVec(n) || !finiteVec(t1) || !finiteVec(t2) ||
			!finiteVec(r1) || !finiteVec(r2) || !finite(depth) {
			return fmt.Errorf("%w: non-finite contact geometry", ErrPrecondition)
		}

		axes := [NbRows]mgl64.Vec3{RowPenetration: n, RowFriction1: t1, RowFriction2: t2}
		for rowIdx := range axes {
			r := &pc.Rows[rowIdx]
			d := cc.initRow(r, axes[rowIdx], r1, r2)
			if !finite(d) {
				return fmt.Errorf("%w: non-finite effective mass", ErrPrecondition)
			}
			if d <= epsEffectiveMass {
				if cc.IsMoving1 || cc.IsMoving2 {
					return fmt.Errorf("%w: degenerate contact row between moving bodies", ErrPrecondition)
				}
				*r = Row{Dead: true}
				continue
			}
			r.InvD = 1.0 / d

			biasV := r.RelativeVelocity(s1.V, s1.W, s2.V, s2.W)
			biasExt := (r.BV1.Dot(s1.F) + r.BW1.Dot(s1.T) +
				r.BV2.Dot(s2.F) + r.BW2.Dot(s2.T)) * p.DT
			r.B = -(biasV + biasExt)

			if rowIdx == RowPenetration {
				r.B += p.PositionBias / p.DT * math.Max(depth-p.Slop, 0)
				if biasV < -p.RestitutionThreshold {
					r.B += -c.Restitution() * biasV
				}
				r.Lower = 0
				r.Upper = math.Inf(1)
			}
		}

		pc.loadCache()
	}
	return nil
}

// initRow builds the Jacobian quadruple (−a, −r₁×a, +a, +r₂×a) and B for
// the given axis and returns the effective mass d = J·B.
func (cc *ContactConstraint) initRow(r *Row, axis, r1, r2 mgl64.Vec3) float64 {
	r.JV1 = axis.Mul(-1)
	r.JW1 = r1.Cross(axis).Mul(-1)
	r.JV2 = axis
	r.JW2 = r2.Cross(axis)

	r.BV1 = r.JV1.Mul(cc.InvMass1)
	r.BW1 = cc.InvInertia1.Mul3x1(r.JW1)
	r.BV2 = r.JV2.Mul(cc.InvMass2)
	r.BW2 = cc.InvInertia2.Mul3x1(r.JW2)

	return r.JV1.Dot(r.BV1) + r.JW1.Dot(r.BW1) + r.JV2.Dot(r.BV2) + r.JW2.Dot(r.BW2)
}

// loadCache seeds the point's impulses from the contact cache. The cached
// values are clamped into the current bounds: the penetration impulse may
// not be attractive and the friction impulses may not exceed the Coulomb
// limit implied by the cached penetration impulse.
func (pc *ContactPointConstraint) loadCache() {
	pen := &pc.Rows[RowPenetration]
	if !pen.Dead {
		pen.Lambda = math.Max(pc.Contact.CachedLambda(RowPenetration), 0)
	}

	limit := pc.Friction * pen.Lambda
	for _, rowIdx := range [...]int{RowFriction1, RowFriction2} {
		r := &pc.Rows[rowIdx]
		if r.Dead {
			continue
		}
		r.Lower = -limit
		r.Upper = limit
		r.Lambda = clamp(pc.Contact.CachedLambda(rowIdx), r.Lower, r.Upper)
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func finiteVec(v mgl64.Vec3) bool {
	return finite(v.X()) && finite(v.Y()) && finite(v.Z())
}
