package impulse

import (
	"github.com/akmonengine/impulse/constraint"
)

// lambdaSaturation bounds the magnitude of any accumulated impulse. Hitting
// it is not an error: the impulse is clamped and a diagnostic counter is
// incremented.
const lambdaSaturation = 1e18

// warmStart seeds the constraint velocities with the impulses cached from
// the previous step, before the first iteration runs.
func (s *Solver) warmStart() {
	for _, cc := range s.constraints {
		for i := 0; i < cc.NbPoints; i++ {
			pc := &cc.Points[i]
			for rowIdx := range pc.Rows {
				r := &pc.Rows[rowIdx]
				if r.Dead || r.Lambda == 0 {
					continue
				}
				s.applyImpulse(cc, r, r.Lambda)
			}
		}
	}
}

// iterate runs the fixed number of Projected Gauss–Seidel sweeps. Within a
// contact point the rows are processed penetration first, so the friction
// bounds always reflect the freshly updated normal impulse. A row's update
// is visible to every later row in the same sweep.
func (s *Solver) iterate() {
	for iter := 0; iter < s.settings.NbIterations; iter++ {
		for _, cc := range s.constraints {
			index1 := cc.IndexBody1
			index2 := cc.IndexBody2
			for i := 0; i < cc.NbPoints; i++ {
				pc := &cc.Points[i]
				for rowIdx := range pc.Rows {
					r := &pc.Rows[rowIdx]
					if r.Dead {
						continue
					}

					jv := r.RelativeVelocity(
						s.vConstraint[index1], s.wConstraint[index1],
						s.vConstraint[index2], s.wConstraint[index2])
					deltaLambda := (r.B - jv) * r.InvD

					// Accumulate, then clamp the total into the bounds.
					if r.Lambda+deltaLambda < r.Lower {
						deltaLambda = r.Lower - r.Lambda
					} else if r.Lambda+deltaLambda > r.Upper {
						deltaLambda = r.Upper - r.Lambda
					}
					r.Lambda += deltaLambda

					if r.Lambda > lambdaSaturation {
						deltaLambda -= r.Lambda - lambdaSaturation
						r.Lambda = lambdaSaturation
						s.saturations++
					} else if r.Lambda < -lambdaSaturation {
						deltaLambda -= r.Lambda + lambdaSaturation
						r.Lambda = -lambdaSaturation
						s.saturations++
					}

					s.applyImpulse(cc, r, deltaLambda)

					if rowIdx == constraint.RowPenetration {
						limit := pc.Friction * r.Lambda
						pc.Rows[constraint.RowFriction1].Lower = -limit
						pc.Rows[constraint.RowFriction1].Upper = limit
						pc.Rows[constraint.RowFriction2].Lower = -limit
						pc.Rows[constraint.RowFriction2].Upper = limit
					}
				}
			}
		}
	}
}

// applyImpulse adds B·Δλ to both bodies' constraint velocities. A
// motion-disabled body has zero B vectors, so it never accumulates anything.
func (s *Solver) applyImpulse(cc *constraint.ContactConstraint, r *constraint.Row, deltaLambda float64) {
	index1 := cc.IndexBody1
	index2 := cc.IndexBody2
	s.vConstraint[index1] = s.vConstraint[index1].Add(r.BV1.Mul(deltaLambda))
	s.wConstraint[index1] = s.wConstraint[index1].Add(r.BW1.Mul(deltaLambda))
	s.vConstraint[index2] = s.vConstraint[index2].Add(r.BV2.Mul(deltaLambda))
	s.wConstraint[index2] = s.wConstraint[index2].Add(r.BW2.Mul(deltaLambda))
}

// writeCache stores the final impulses back into each contact for the next
// step's warm start. This is the solver's only side effect on external
// state, and it is skipped entirely when the solve fails.
func (s *Solver) writeCache() {
	for _, cc := range s.constraints {
		for i := 0; i < cc.NbPoints; i++ {
			pc := &cc.Points[i]
			for rowIdx := range pc.Rows {
				pc.Contact.SetCachedLambda(rowIdx, pc.Rows[rowIdx].Lambda)
			}
		}
	}
}
