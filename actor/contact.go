package actor

import (
	"math"

	"github.com/akmonengine/impulse/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// tangentBasisThreshold determines which axis to use for building the
// tangent basis. If |normal.X()| > tangentBasisThreshold, use Y instead of
// X as the first tangent.
const tangentBasisThreshold = 0.9

// ContactPoint is a world-facing contact produced by the collision module.
// It carries the orthonormal contact frame, per-body offsets, the mixed
// material coefficients and the three cached impulses the solver warm
// starts from. The cache survives exactly as long as the collision module
// keeps re-discovering the point.
type ContactPoint struct {
	body1 *RigidBody
	body2 *RigidBody

	normal   mgl64.Vec3
	tangent1 mgl64.Vec3
	tangent2 mgl64.Vec3

	r1 mgl64.Vec3 // contact position relative to body1's center of mass
	r2 mgl64.Vec3

	penetration float64
	friction    float64
	restitution float64

	cachedLambda [constraint.NbRows]float64
}

// NewContactPoint builds a contact between two bodies. worldPoint is the
// contact position in world space and normal the unit vector from body1
// toward body2. The tangent basis and the mixed material coefficients are
// derived here.
func NewContactPoint(body1, body2 *RigidBody, worldPoint, normal mgl64.Vec3, penetration float64) *ContactPoint {
	tangent1, tangent2 := TangentBasis(normal)

	return &ContactPoint{
		body1:       body1,
		body2:       body2,
		normal:      normal,
		tangent1:    tangent1,
		tangent2:    tangent2,
		r1:          worldPoint.Sub(body1.Transform.Position),
		r2:          worldPoint.Sub(body2.Transform.Position),
		penetration: penetration,
		friction:    MixFriction(body1.Material, body2.Material),
		restitution: MixRestitution(body1.Material, body2.Material),
	}
}

func (c *ContactPoint) Body1() constraint.Body { return c.body1 }
func (c *ContactPoint) Body2() constraint.Body { return c.body2 }

func (c *ContactPoint) Normal() mgl64.Vec3   { return c.normal }
func (c *ContactPoint) Tangent1() mgl64.Vec3 { return c.tangent1 }
func (c *ContactPoint) Tangent2() mgl64.Vec3 { return c.tangent2 }

func (c *ContactPoint) PointOnBody1() mgl64.Vec3 { return c.r1 }
func (c *ContactPoint) PointOnBody2() mgl64.Vec3 { return c.r2 }

func (c *ContactPoint) PenetrationDepth() float64    { return c.penetration }
func (c *ContactPoint) FrictionCoefficient() float64 { return c.friction }
func (c *ContactPoint) Restitution() float64         { return c.restitution }

// CachedLambda returns the impulse stored for the row by the previous step.
func (c *ContactPoint) CachedLambda(row int) float64 {
	return c.cachedLambda[row]
}

// SetCachedLambda stores the impulse of the row for the next step.
func (c *ContactPoint) SetCachedLambda(row int, lambda float64) {
	c.cachedLambda[row] = lambda
}

// TangentBasis generates two tangent vectors forming an orthonormal basis
// with the given unit normal.
func TangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > tangentBasisThreshold {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}
