package strategy

// HoldStrategy never trades. It backs positions configured with a
// strategy name the factory does not recognize: an unknown strategy is an
// explicit no-op, not an error.
type HoldStrategy struct {
	name string
}

// Name returns the configured (unrecognized) strategy name.
func (s *HoldStrategy) Name() string {
	return s.name
}

// Decide always holds.
func (s *HoldStrategy) Decide(Input) Decision {
	return Hold
}

var _ Strategy = (*HoldStrategy)(nil)
