package optics

import (
	"fmt"
	"math"
)

// Detector describes the physical layout of a focal plane array
type Detector struct {
	// Width is the physical width of the array, mm
	Width float64 `json:"width"`

	// Height is the physical height of the array, mm
	Height float64 `json:"height"`

	// XBin is the binning factor along the dispersion axis
	XBin int `json:"xbin"`

	// YBin is the binning factor along the spatial axis
	YBin int `json:"ybin"`

	// PixSize is the physical size of one unbinned pixel, mm
	PixSize float64 `json:"pixSize"`

	// PixScale is the angular scale of one pixel
	PixScale float64 `json:"pixScale"`

	// XPos is the x offset of the detector center from the optical axis
	XPos float64 `json:"xpos"`

	// YPos is the y offset of the detector center from the optical axis
	YPos float64 `json:"ypos"`
}

// Validate checks that the detector geometry is usable
func (d Detector) Validate() error {
	switch {
	case !(d.Width > 0) || !(d.Height > 0):
		return fmt.Errorf("%w: detector size %gx%g must be positive", ErrConfig, d.Width, d.Height)
	case d.XBin < 1 || d.YBin < 1:
		return fmt.Errorf("%w: binning %dx%d must be at least 1", ErrConfig, d.XBin, d.YBin)
	case !(d.PixSize > 0):
		return fmt.Errorf("%w: pixel size %g must be positive", ErrConfig, d.PixSize)
	case !(d.PixScale > 0):
		return fmt.Errorf("%w: pixel scale %g must be positive", ErrConfig, d.PixScale)
	}
	return nil
}

// Dims returns the number of binned pixels (xlen, ylen) on the detector
func (d Detector) Dims() (int, int) {
	xlen := int(math.Floor(d.Width / float64(d.XBin) / d.PixSize))
	ylen := int(math.Floor(d.Height / float64(d.YBin) / d.PixSize))
	return xlen, ylen
}

// Offsets returns the position of the optical axis relative to the
// detector center, in binned pixels
func (d Detector) Offsets() (dx, dy float64) {
	dx = d.XPos / (float64(d.XBin) * d.PixScale)
	dy = d.YPos / (float64(d.YBin) * d.PixScale)
	return
}
