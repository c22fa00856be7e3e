package constraint

import "github.com/go-gl/mathgl/mgl64"

// Row indices of a contact point constraint. Each contact point carries one
// non-penetration row and two friction rows spanning the tangent plane.
const (
	RowPenetration = 0
	RowFriction1   = 1
	RowFriction2   = 2

	NbRows = 3
)

// MaxManifoldPoints is the maximum number of contact points in a manifold.
// Limited to 4 for constraint solver stability (see Erin Catto, GDC 2007).
const MaxManifoldPoints = 4

// Body is the capability set the solver requires from a rigid body. The
// solver never owns the body and never mutates it; corrected velocities are
// exposed through the solver's post-solve queries instead.
type Body interface {
	// InverseMass returns 1/m, or 0 for a body of infinite mass.
	InverseMass() float64
	// InverseInertiaWorld returns the inverse inertia tensor in world frame.
	InverseInertiaWorld() mgl64.Mat3
	LinearVelocity() mgl64.Vec3
	AngularVelocity() mgl64.Vec3
	ExternalForce() mgl64.Vec3
	ExternalTorque() mgl64.Vec3
	// IsMotionEnabled reports whether the body may move. A motion-disabled
	// body contributes nothing to velocity updates, whatever its mass.
	IsMotionEnabled() bool
}

// Contact is the capability set expected from the collision module for a
// single contact point.
//
// Normal is the unit vector from Body1 toward Body2. Tangent1 and Tangent2
// form an orthonormal basis with the normal; the collision module is
// responsible for providing it. PointOnBody1 and PointOnBody2 are the
// contact position relative to each body's center of mass.
//
// CachedLambda and SetCachedLambda store the impulse of a row between steps
// for warm starting. The cache lives on the contact: if the collision module
// does not re-discover the point next step the cache is dropped with it.
type Contact interface {
	Body1() Body
	Body2() Body
	Normal() mgl64.Vec3
	Tangent1() mgl64.Vec3
	Tangent2() mgl64.Vec3
	PointOnBody1() mgl64.Vec3
	PointOnBody2() mgl64.Vec3
	PenetrationDepth() float64
	FrictionCoefficient() float64
	Restitution() float64
	CachedLambda(row int) float64
	SetCachedLambda(row int, lambda float64)
}

// Manifold is an ordered group of 1 to MaxManifoldPoints contact points
// sharing the same pair of bodies.
type Manifold struct {
	Contacts []Contact
}
