package stats

// Smoother applies exponential smoothing to a stream of rate samples:
//
//	smoothed' = alpha*input + (1-alpha)*smoothed
//
// with one exception: while the current smoothed value is zero, Update
// returns the input unchanged. Without that rule a display starting from
// zero crawls up toward the real rate over many ticks, which reads as
// lag rather than smoothing.
type Smoother struct {
	alpha    float64
	smoothed float64
}

// NewSmoother creates a smoother with the given factor. Alpha is clamped
// into (0, 1]; values outside that range fall back to 0.3.
func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}
	return &Smoother{alpha: alpha}
}

// Update feeds one sample and returns the new smoothed value.
func (s *Smoother) Update(input float64) float64 {
	if s.smoothed == 0 {
		s.smoothed = input
		return s.smoothed
	}
	s.smoothed = s.alpha*input + (1-s.alpha)*s.smoothed
	return s.smoothed
}

// Value returns the current smoothed value without feeding a sample.
func (s *Smoother) Value() float64 {
	return s.smoothed
}

// Reset clears the smoothed value, re-arming the bootstrap rule.
func (s *Smoother) Reset() {
	s.smoothed = 0
}
