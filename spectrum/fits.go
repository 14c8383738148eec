package spectrum

import (
	"errors"
	"fmt"
	"io"

	"github.com/astrogo/fitsio"
)

// ReadFits reads a one dimensional spectrum from the primary HDU of a FITS
// file.  The wavelength grid comes from the linear WCS keywords CRVAL1,
// CDELT1 (or CD1_1) and CRPIX1, which default to 1 when absent.
func ReadFits(r io.Reader) (*Spectrum, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, errors.New("primary HDU is not an image")
	}
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 1 {
		return nil, fmt.Errorf("expected a 1D spectrum, got %d axes", len(axes))
	}
	n := axes[0]

	var flux []float64
	switch hdr.Bitpix() {
	case -64:
		flux = make([]float64, n)
		if err := img.Read(&flux); err != nil {
			return nil, err
		}
	case -32:
		buf := make([]float32, n)
		if err := img.Read(&buf); err != nil {
			return nil, err
		}
		flux = make([]float64, n)
		for i, v := range buf {
			flux[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d for a spectrum", hdr.Bitpix())
	}

	crval, ok := cardFloat(hdr, "CRVAL1")
	if !ok {
		return nil, errors.New("spectrum header has no CRVAL1")
	}
	cdelt, ok := cardFloat(hdr, "CDELT1")
	if !ok {
		if cdelt, ok = cardFloat(hdr, "CD1_1"); !ok {
			cdelt = 1
		}
	}
	crpix, ok := cardFloat(hdr, "CRPIX1")
	if !ok {
		crpix = 1
	}
	wvl := make([]float64, n)
	for i := range wvl {
		// FITS pixels are 1-based
		wvl[i] = crval + (float64(i+1)-crpix)*cdelt
	}
	return New(wvl, flux)
}

func cardFloat(hdr *fitsio.Header, name string) (float64, bool) {
	c := hdr.Get(name)
	if c == nil {
		return 0, false
	}
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
