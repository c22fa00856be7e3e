package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTangentBasisOrthonormal(t *testing.T) {
	tests := []struct {
		name   string
		normal mgl64.Vec3
	}{
		{"up", mgl64.Vec3{0, 1, 0}},
		{"down", mgl64.Vec3{0, -1, 0}},
		{"x axis", mgl64.Vec3{1, 0, 0}}, // exercises the dominant-X branch
		{"diagonal", mgl64.Vec3{1, 1, 1}.Normalize()},
		{"nearly x", mgl64.Vec3{0.95, 0.1, 0}.Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tangent1, tangent2 := TangentBasis(tt.normal)

			if !floatEqual(tangent1.Len(), 1.0, 1e-12) {
				t.Errorf("tangent1 not unit: |t1| = %v", tangent1.Len())
			}
			if !floatEqual(tangent2.Len(), 1.0, 1e-12) {
				t.Errorf("tangent2 not unit: |t2| = %v", tangent2.Len())
			}
			if !floatEqual(tangent1.Dot(tt.normal), 0, 1e-12) {
				t.Errorf("tangent1 not orthogonal to normal: %v", tangent1.Dot(tt.normal))
			}
			if !floatEqual(tangent2.Dot(tt.normal), 0, 1e-12) {
				t.Errorf("tangent2 not orthogonal to normal: %v", tangent2.Dot(tt.normal))
			}
			if !floatEqual(tangent1.Dot(tangent2), 0, 1e-12) {
				t.Errorf("tangents not orthogonal: %v", tangent1.Dot(tangent2))
			}
		})
	}
}

func TestNewContactPointOffsets(t *testing.T) {
	body1 := NewRigidBody(
		Transform{Position: mgl64.Vec3{0, -1, 0}, Rotation: mgl64.QuatIdent()},
		&Box{HalfExtents: mgl64.Vec3{1, 1, 1}},
		BodyTypeStatic, 0,
	)
	body2 := NewRigidBody(
		Transform{Position: mgl64.Vec3{0, 1, 0}, Rotation: mgl64.QuatIdent()},
		&Box{HalfExtents: mgl64.Vec3{1, 1, 1}},
		BodyTypeDynamic, 1,
	)

	worldPoint := mgl64.Vec3{0.25, 0, -0.5}
	c := NewContactPoint(body1, body2, worldPoint, mgl64.Vec3{0, 1, 0}, 0.02)

	if c.PointOnBody1() != (mgl64.Vec3{0.25, 1, -0.5}) {
		t.Errorf("r1 = %v, want (0.25 1 -0.5)", c.PointOnBody1())
	}
	if c.PointOnBody2() != (mgl64.Vec3{0.25, -1, -0.5}) {
		t.Errorf("r2 = %v, want (0.25 -1 -0.5)", c.PointOnBody2())
	}
	if c.PenetrationDepth() != 0.02 {
		t.Errorf("depth = %v, want 0.02", c.PenetrationDepth())
	}
	if c.Body1() != body1 || c.Body2() != body2 {
		t.Error("body references not preserved")
	}
}

func TestContactPointMixing(t *testing.T) {
	body1 := newTestBox(BodyTypeDynamic)
	body2 := newTestBox(BodyTypeDynamic)
	body1.Material.Friction = 0.9
	body2.Material.Friction = 0.4
	body1.Material.Restitution = 1.0
	body2.Material.Restitution = 0.5

	c := NewContactPoint(body1, body2, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 0)

	if !floatEqual(c.FrictionCoefficient(), math.Sqrt(0.9*0.4), 1e-12) {
		t.Errorf("mixed friction = %v, want %v", c.FrictionCoefficient(), math.Sqrt(0.9*0.4))
	}
	if !floatEqual(c.Restitution(), 0.75, 1e-12) {
		t.Errorf("mixed restitution = %v, want 0.75", c.Restitution())
	}
}

func TestContactPointCacheRoundTrip(t *testing.T) {
	body1 := newTestBox(BodyTypeStatic)
	body2 := newTestBox(BodyTypeDynamic)
	c := NewContactPoint(body1, body2, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 0)

	for row, want := range []float64{0.25, -0.1, 0.05} {
		if c.CachedLambda(row) != 0 {
			t.Errorf("row %d: fresh cache should be zero", row)
		}
		c.SetCachedLambda(row, want)
		if c.CachedLambda(row) != want {
			t.Errorf("row %d: cached %v, read back %v", row, want, c.CachedLambda(row))
		}
	}
}
