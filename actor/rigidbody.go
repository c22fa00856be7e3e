package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces (e.g., ground, walls)
	BodyTypeStatic
)

// RigidBody represents a rigid body at the solver boundary. It satisfies the
// capability set the solver reads through (inverse mass, world inverse
// inertia, velocities, external wrench, motion flag); the solver never
// writes it back. Velocities are set by the integrator between steps.
type RigidBody struct {
	Transform Transform

	InertiaLocal        mgl64.Mat3 // inertia tensor in local space
	InverseInertiaLocal mgl64.Mat3

	Material Material
	BodyType BodyType

	Shape Shape

	velocity        mgl64.Vec3 // linear velocity (m/s)
	angularVelocity mgl64.Vec3 // rotation speed (rad/s)

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	mass          float64
	invMass       float64
	motionEnabled bool
}

// NewRigidBody creates a new rigid body with the given properties.
// density is used to calculate mass for dynamic bodies (ignored for static).
func NewRigidBody(transform Transform, shape Shape, bodyType BodyType, density float64) *RigidBody {
	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
	}

	if bodyType == BodyTypeStatic {
		// Static bodies have infinite mass: zero inverse mass and inertia
		rb.Material = Material{}
		return rb
	}

	rb.Material = Material{Density: density}
	rb.mass = shape.ComputeMass(density)
	rb.invMass = 1.0 / rb.mass
	rb.InertiaLocal = shape.ComputeInertia(rb.mass)
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
	rb.motionEnabled = true

	return rb
}

// Mass returns the body mass, 0 for a static body.
func (rb *RigidBody) Mass() float64 {
	return rb.mass
}

// InverseMass returns 1/m, or 0 for a static body.
func (rb *RigidBody) InverseMass() float64 {
	return rb.invMass
}

// LinearVelocity returns the current linear velocity.
func (rb *RigidBody) LinearVelocity() mgl64.Vec3 {
	return rb.velocity
}

// AngularVelocity returns the current angular velocity.
func (rb *RigidBody) AngularVelocity() mgl64.Vec3 {
	return rb.angularVelocity
}

// SetLinearVelocity sets the linear velocity. Static bodies ignore it.
func (rb *RigidBody) SetLinearVelocity(v mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.velocity = v
	}
}

// SetAngularVelocity sets the angular velocity. Static bodies ignore it.
func (rb *RigidBody) SetAngularVelocity(w mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.angularVelocity = w
	}
}

// ExternalForce returns the accumulated external force.
func (rb *RigidBody) ExternalForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

// ExternalTorque returns the accumulated external torque.
func (rb *RigidBody) ExternalTorque() mgl64.Vec3 {
	return rb.accumulatedTorque
}

// IsMotionEnabled reports whether the body may move. Static bodies and
// explicitly frozen bodies report false.
func (rb *RigidBody) IsMotionEnabled() bool {
	return rb.motionEnabled
}

// EnableMotion freezes or unfreezes a dynamic body. Static bodies stay
// frozen whatever the argument.
func (rb *RigidBody) EnableMotion(enabled bool) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.motionEnabled = enabled
}

// ApplyForce accumulates an external force (N) for the next step.
func (rb *RigidBody) ApplyForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// ApplyTorque accumulates an external torque (N⋅m) for the next step.
func (rb *RigidBody) ApplyTorque(torque mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
	}
}

// ClearForces resets the accumulated external wrench.
func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// InertiaWorld returns the inertia tensor in world space.
func (rb *RigidBody) InertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// InverseInertiaWorld returns the inverse inertia tensor in world space,
// zero for a static body.
func (rb *RigidBody) InverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
