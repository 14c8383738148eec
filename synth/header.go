package synth

import (
	"github.com/astrogo/fitsio"
	"github.com/nasa-jpl/specsim/optics"
	"github.com/nasa-jpl/specsim/spectrum"
)

// HeaderVersion is written as the first card of every image header
const HeaderVersion = "specsim-1"

// HeaderCards collects the FITS header for an image of s through sg.  s may
// be nil for a wavelength map.
func HeaderCards(sg *optics.Spectrograph, s *spectrum.Spectrum, o Options) []fitsio.Card {
	cards := []fitsio.Card{{Name: "HDRVER", Value: HeaderVersion, Comment: "header version"}}
	cards = append(cards, sg.CollectHeaderMetadata()...)
	if s == nil {
		return append(cards, fitsio.Card{Name: "BUNIT", Value: "Angstrom", Comment: "pixel values are wavelengths"})
	}
	return append(cards,
		fitsio.Card{Name: "NKERN", Value: o.kernel(), Comment: "smoothing kernel samples"},
		fitsio.Card{Name: "SPECWMIN", Value: s.Wavelength[0], Comment: "first spectrum wavelength, Angstrom"},
		fitsio.Card{Name: "SPECWMAX", Value: s.Wavelength[len(s.Wavelength)-1], Comment: "last spectrum wavelength, Angstrom"},
		fitsio.Card{Name: "SPECNPTS", Value: s.Len(), Comment: "spectrum samples"},
	)
}
