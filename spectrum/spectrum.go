// Package spectrum holds sampled source spectra and resamples them, after
// smoothing to an instrumental resolution, onto arbitrary wavelengths.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/nasa-jpl/specsim/util"
)

var (
	// ErrNotIncreasing is returned when wavelength samples are not strictly increasing
	ErrNotIncreasing = errors.New("spectrum wavelengths must be strictly increasing")

	// ErrLength is returned when wavelength and flux have different lengths
	ErrLength = errors.New("spectrum wavelength and flux lengths differ")

	// ErrTooShort is returned for spectra with fewer than two samples
	ErrTooShort = errors.New("spectrum must have at least two samples")

	// ErrNotFinite is returned when a wavelength sample is NaN or infinite
	ErrNotFinite = errors.New("spectrum wavelengths must be finite")
)

// Spectrum is an ordered sequence of (wavelength, flux) samples.  Wavelength
// is in Angstrom.  A Spectrum is not modified by anything in this module.
type Spectrum struct {
	Wavelength []float64 `json:"wavelength"`
	Flux       []float64 `json:"flux"`
}

// New returns a validated spectrum.  The slices are not copied.
func New(wavelength, flux []float64) (*Spectrum, error) {
	s := &Spectrum{Wavelength: wavelength, Flux: flux}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Flat returns a spectrum of n evenly spaced samples from w0 to w1 with
// constant flux f
func Flat(w0, w1 float64, n int, f float64) (*Spectrum, error) {
	if n < 2 {
		return nil, ErrTooShort
	}
	flux := make([]float64, n)
	for i := range flux {
		flux[i] = f
	}
	return New(util.Linspace(w0, w1, n), flux)
}

// Validate checks the interpolation preconditions
func (s *Spectrum) Validate() error {
	if len(s.Wavelength) != len(s.Flux) {
		return fmt.Errorf("%w: %d wavelengths, %d fluxes", ErrLength, len(s.Wavelength), len(s.Flux))
	}
	if len(s.Wavelength) < 2 {
		return ErrTooShort
	}
	for i, w := range s.Wavelength {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: sample %d is %g", ErrNotFinite, i, w)
		}
	}
	for i := 1; i < len(s.Wavelength); i++ {
		if !(s.Wavelength[i] > s.Wavelength[i-1]) {
			return fmt.Errorf("%w: sample %d (%g) follows %g", ErrNotIncreasing, i, s.Wavelength[i], s.Wavelength[i-1])
		}
	}
	return nil
}

// Len is the number of samples
func (s *Spectrum) Len() int {
	return len(s.Wavelength)
}

// Step is the mean wavelength spacing of the samples
func (s *Spectrum) Step() float64 {
	n := len(s.Wavelength)
	return (s.Wavelength[n-1] - s.Wavelength[0]) / float64(n-1)
}
