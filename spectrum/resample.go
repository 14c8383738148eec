package spectrum

import (
	"gonum.org/v1/gonum/interp"
)

// Resampler evaluates a smoothed spectrum at arbitrary wavelengths.  It is
// read-only after construction and may be shared between goroutines.
type Resampler struct {
	lo, hi float64
	pl     interp.PiecewiseLinear
}

// NewResampler smooths s with SetDispersion(dw, nkern) and prepares it for
// linear interpolation on the original wavelength grid
func NewResampler(s *Spectrum, dw float64, nkern int) (*Resampler, error) {
	smooth, err := s.SetDispersion(dw, nkern)
	if err != nil {
		return nil, err
	}
	r := &Resampler{lo: s.Wavelength[0], hi: s.Wavelength[len(s.Wavelength)-1]}
	if err := r.pl.Fit(s.Wavelength, smooth); err != nil {
		return nil, err
	}
	return r, nil
}

// Domain returns the wavelength range of the underlying samples
func (r *Resampler) Domain() (float64, float64) {
	return r.lo, r.hi
}

// At returns the smoothed flux at wavelength w.  Wavelengths outside the
// domain are clamped to the boundary flux.
func (r *Resampler) At(w float64) float64 {
	return r.pl.Predict(w)
}

// FluxAt fills dst with the smoothed flux at each of ws.  dst is allocated
// if it is shorter than ws.
func (r *Resampler) FluxAt(ws, dst []float64) []float64 {
	if len(dst) < len(ws) {
		dst = make([]float64, len(ws))
	}
	dst = dst[:len(ws)]
	for i, w := range ws {
		dst[i] = r.pl.Predict(w)
	}
	return dst
}
