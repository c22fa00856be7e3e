package impulse

import (
	"github.com/akmonengine/impulse/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// buildTables walks the manifolds once and assigns a dense index to every
// body appearing in at least one constraint. Insertion order of first
// appearance determines the index; inserting a body twice is a no-op. It
// then reads the pre-step state of each body into the solver arrays.
func (s *Solver) buildTables(manifolds []*constraint.Manifold) error {
	for _, m := range manifolds {
		if err := m.Check(); err != nil {
			return err
		}
		first := m.Contacts[0]
		s.addBody(first.Body1())
		s.addBody(first.Body2())
	}

	nbBodies := len(s.bodies)
	s.states = make([]constraint.BodyState, nbBodies)
	s.vConstraint = make([]mgl64.Vec3, nbBodies)
	s.wConstraint = make([]mgl64.Vec3, nbBodies)

	for i, body := range s.bodies {
		s.states[i] = constraint.BodyState{
			V: body.LinearVelocity(),
			W: body.AngularVelocity(),
			F: body.ExternalForce(),
			T: body.ExternalTorque(),
		}
	}
	return nil
}

func (s *Solver) addBody(body constraint.Body) int {
	if idx, ok := s.indices[body]; ok {
		return idx
	}
	idx := len(s.bodies)
	s.indices[body] = idx
	s.bodies = append(s.bodies, body)
	return idx
}

// buildConstraints allocates one record per manifold and precomputes every
// row against the pre-step body states.
func (s *Solver) buildConstraints(dt float64, manifolds []*constraint.Manifold) error {
	params := constraint.Params{
		DT:                   dt,
		Slop:                 s.settings.Slop,
		PositionBias:         s.settings.PositionBias,
		RestitutionThreshold: s.settings.RestitutionThreshold,
	}

	s.constraints = make([]*constraint.ContactConstraint, 0, len(manifolds))
	for _, m := range manifolds {
		first := m.Contacts[0]
		index1 := s.indices[first.Body1()]
		index2 := s.indices[first.Body2()]

		cc, err := constraint.NewContactConstraint(m, index1, index2)
		if err != nil {
			return err
		}
		if err := cc.Precompute(params, &s.states[index1], &s.states[index2]); err != nil {
			return err
		}
		s.constraints = append(s.constraints, cc)
	}
	return nil
}
