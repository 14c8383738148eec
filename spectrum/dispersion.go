package spectrum

import (
	"fmt"
	"math"
)

// DefaultKernelSize is the number of samples in the smoothing kernel
const DefaultKernelSize = 50

// Kernel returns the unnormalized Gaussian weights for a dispersion width dw
// on a grid of the given step.  Weight k sits at sample offset k - nkern/2.
func Kernel(dw, step float64, nkern int) []float64 {
	kern := make([]float64, nkern)
	half := nkern / 2
	for k := range kern {
		x := float64(k-half) * step / dw
		kern[k] = math.Exp(-x * x)
	}
	return kern
}

// SetDispersion returns the flux smoothed by a Gaussian of width dw
// (Angstrom) discretized into nkern samples.  The result is aligned with
// s.Wavelength.  Near the ends only the in-range part of the kernel is used
// and renormalized, so a flat spectrum stays flat.
func (s *Spectrum) SetDispersion(dw float64, nkern int) ([]float64, error) {
	if !(dw > 0) || math.IsInf(dw, 0) {
		return nil, fmt.Errorf("dispersion width %g must be positive and finite", dw)
	}
	if nkern < 1 {
		return nil, fmt.Errorf("kernel size %d must be at least 1", nkern)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	kern := Kernel(dw, s.Step(), nkern)
	half := nkern / 2
	n := len(s.Flux)
	out := make([]float64, n)
	for i := range out {
		var acc, norm float64
		for k, wk := range kern {
			j := i + k - half
			if j < 0 || j >= n {
				continue
			}
			acc += wk * s.Flux[j]
			norm += wk
		}
		// the center weight is exp(0) = 1 and always in range
		out[i] = acc / norm
	}
	return out, nil
}
