package optics

import (
	"fmt"
	"math"
)

// Spectrograph is an immutable snapshot of one optical configuration
type Spectrograph struct {
	Detector Detector
	Camera   Camera

	// GratAng is the grating angle, deg.  It is the angle of incidence
	GratAng float64

	// CamAng is the camera angle relative to the incident beam, deg
	CamAng float64

	Disperser Disperser
}

// Validate checks the whole configuration.  It is called by the model
// functions that would otherwise divide by zero.
func (s *Spectrograph) Validate() error {
	if s.Disperser == nil {
		return fmt.Errorf("%w: no disperser", ErrConfig)
	}
	if !(s.Camera.FocalLength > 0) {
		return fmt.Errorf("%w: camera focal length %g must be positive", ErrConfig, s.Camera.FocalLength)
	}
	if err := s.Detector.Validate(); err != nil {
		return err
	}
	return s.Disperser.Validate()
}

// Alpha is the angle of incidence on the grating
func (s *Spectrograph) Alpha() float64 {
	return s.GratAng
}

// Beta is the nominal angle of diffraction at the detector center
func (s *Spectrograph) Beta() float64 {
	return s.GratAng - s.CamAng
}

// CalcWavelength evaluates the disperser, mm
func (s *Spectrograph) CalcWavelength(alpha, beta, gamma float64) float64 {
	return s.Disperser.Wavelength(alpha, beta, gamma)
}

// CalcResolElement returns the size of a resolution element, mm
func (s *Spectrograph) CalcResolElement(alpha, beta float64) float64 {
	return s.Disperser.ResolutionElement(alpha, beta)
}

// DispersionWidth is the smoothing width, in Angstrom, applied to a spectrum
// before it is sampled onto the detector
func (s *Spectrograph) DispersionWidth() (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	dw := ResolutionScale * MillimetersToAngstroms * s.CalcResolElement(s.Alpha(), s.Beta())
	if !(dw > 0) || math.IsInf(dw, 0) {
		return 0, fmt.Errorf("%w: dispersion width %g at alpha=%g beta=%g", ErrConfig, dw, s.Alpha(), s.Beta())
	}
	return dw, nil
}

// DeltaBeta returns the angular offset of each of xlen columns from the
// detector center, deg
func (s *Spectrograph) DeltaBeta(xlen int) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if xlen <= 0 {
		return nil, fmt.Errorf("%w: xlen %d must be positive", ErrConfig, xlen)
	}
	d := s.Detector
	dx, _ := d.Offsets()
	xmax := float64(xlen - 1)
	out := make([]float64, xlen)
	for i := range out {
		x := float64(i) - 0.5*xmax + dx
		out[i] = deg(math.Atan(float64(d.XBin) * d.PixSize * x / s.Camera.FocalLength))
	}
	return out, nil
}

// Gamma returns the out of plane diffraction angle for row j of ylen, deg
func (s *Spectrograph) Gamma(j, ylen int) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if j < 0 || j >= ylen {
		return 0, fmt.Errorf("%w: row %d outside [0,%d)", ErrConfig, j, ylen)
	}
	return s.gamma(j, ylen), nil
}

// Gammas returns Gamma for every row of ylen
func (s *Spectrograph) Gammas(ylen int) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if ylen <= 0 {
		return nil, fmt.Errorf("%w: ylen %d must be positive", ErrConfig, ylen)
	}
	out := make([]float64, ylen)
	for j := range out {
		out[j] = s.gamma(j, ylen)
	}
	return out, nil
}

func (s *Spectrograph) gamma(j, ylen int) float64 {
	d := s.Detector
	_, dy := d.Offsets()
	y := float64(j) - 0.5*float64(ylen-1) + dy
	return deg(math.Atan(float64(d.YBin) * d.PixSize * y / s.Camera.FocalLength))
}

// RowWavelengths fills dst with the wavelength, Angstrom, that lands on each
// column of a row with out of plane angle gamma.  dst is allocated if it is
// shorter than dbeta.  dbeta and gamma come from DeltaBeta and Gamma, so the
// configuration has already passed Validate; the disperser is not checked
// again here.
func (s *Spectrograph) RowWavelengths(dbeta []float64, gamma float64, dst []float64) []float64 {
	if len(dst) < len(dbeta) {
		dst = make([]float64, len(dbeta))
	}
	dst = dst[:len(dbeta)]
	alpha, beta := s.Alpha(), s.Beta()
	for i, db := range dbeta {
		dst[i] = MillimetersToAngstroms * s.CalcWavelength(alpha, beta-db, gamma)
	}
	return dst
}
