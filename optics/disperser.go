package optics

import (
	"fmt"
	"math"
)

// Disperser evaluates the dispersion relation of a spectrograph.  Angles are
// in degrees, returned lengths in millimetres.
type Disperser interface {
	// Wavelength returns the wavelength diffracted to (beta, gamma) when
	// light is incident at alpha
	Wavelength(alpha, beta, gamma float64) float64

	// ResolutionElement returns the wavelength interval subtended by one
	// resolution element
	ResolutionElement(alpha, beta float64) float64

	// Validate checks the disperser parameters
	Validate() error

	// Kind is the configuration name of the variant, e.g. "grating"
	Kind() string
}

// Grating holds the ruling of a diffraction grating
type Grating struct {
	// Density is the groove density, lines/mm
	Density float64 `json:"density"`

	// Order is the diffraction order used
	Order int `json:"order"`
}

// Spacing returns the groove spacing in mm
func (g Grating) Spacing() float64 {
	return 1 / g.Density
}

// Slit is the entrance slit of the spectrograph
type Slit struct {
	// Width is the angular width of the slit on the sky, arcsec
	Width float64 `json:"width"`
}

// Telescope feeds the slit
type Telescope struct {
	FocalLength float64 `json:"focalLength"`
}

// Collimator collimates the beam from the slit onto the grating
type Collimator struct {
	FocalLength float64 `json:"focalLength"`
}

// Camera images the diffracted beam onto the detector
type Camera struct {
	FocalLength float64 `json:"focalLength"`
}

// PlaneGrating is a plane reflection grating obeying the full grating
// equation
//
//	lambda = sigma * cos(gamma) * (sin(alpha) + sin(beta)) / m
type PlaneGrating struct {
	Grating    Grating    `json:"grating"`
	Slit       Slit       `json:"slit"`
	Telescope  Telescope  `json:"telescope"`
	Collimator Collimator `json:"collimator"`
}

// Kind satisfies Disperser
func (p PlaneGrating) Kind() string {
	return "grating"
}

// Wavelength satisfies Disperser
func (p PlaneGrating) Wavelength(alpha, beta, gamma float64) float64 {
	a, b, g := rad(alpha), rad(beta), rad(gamma)
	return p.Grating.Spacing() * math.Cos(g) * (math.Sin(a) + math.Sin(b)) / float64(p.Grating.Order)
}

// ResolutionElement returns the width in wavelength of the image of a filled
// slit.  It does not depend on beta for a plane grating.
func (p PlaneGrating) ResolutionElement(alpha, beta float64) float64 {
	s := p.SlitWidth()
	return s * math.Cos(rad(alpha)) * p.Grating.Spacing() / (float64(p.Grating.Order) * p.Collimator.FocalLength)
}

// SlitWidth is the physical width of the slit in mm
func (p PlaneGrating) SlitWidth() float64 {
	return p.Slit.Width / ArcsecPerRadian * p.Telescope.FocalLength
}

// Validate satisfies Disperser
func (p PlaneGrating) Validate() error {
	switch {
	case !(p.Grating.Density > 0):
		return fmt.Errorf("%w: grating density %g must be positive", ErrConfig, p.Grating.Density)
	case p.Grating.Order == 0:
		return fmt.Errorf("%w: grating order must be nonzero", ErrConfig)
	case !(p.Collimator.FocalLength > 0):
		return fmt.Errorf("%w: collimator focal length %g must be positive", ErrConfig, p.Collimator.FocalLength)
	case !(p.Telescope.FocalLength > 0):
		return fmt.Errorf("%w: telescope focal length %g must be positive", ErrConfig, p.Telescope.FocalLength)
	case !(p.Slit.Width > 0):
		return fmt.Errorf("%w: slit width %g must be positive", ErrConfig, p.Slit.Width)
	}
	return nil
}

// LinearGrating is the small angle linearization of PlaneGrating,
//
//	lambda = sigma * (alpha + beta) / m
//
// with the angles in radians.  gamma is ignored.
type LinearGrating struct {
	PlaneGrating
}

// Kind satisfies Disperser
func (l LinearGrating) Kind() string {
	return "linear"
}

// Wavelength satisfies Disperser
func (l LinearGrating) Wavelength(alpha, beta, gamma float64) float64 {
	return l.Grating.Spacing() * (rad(alpha) + rad(beta)) / float64(l.Grating.Order)
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
