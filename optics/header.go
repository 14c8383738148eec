package optics

import "github.com/astrogo/fitsio"

// CollectHeaderMetadata produces FITS cards describing the configuration
func (s *Spectrograph) CollectHeaderMetadata() []fitsio.Card {
	d := s.Detector
	cards := []fitsio.Card{
		{Name: "GRATANG", Value: s.GratAng, Comment: "grating angle, deg"},
		{Name: "CAMANG", Value: s.CamAng, Comment: "camera angle, deg"},
		{Name: "CAMFOC", Value: s.Camera.FocalLength, Comment: "camera focal length, mm"},
		{Name: "CCDXBIN", Value: d.XBin, Comment: "x binning"},
		{Name: "CCDYBIN", Value: d.YBin, Comment: "y binning"},
		{Name: "PIXSIZE", Value: d.PixSize, Comment: "pixel size, mm"},
		{Name: "PIXSCALE", Value: d.PixScale, Comment: "pixel scale"},
		{Name: "DETXPOS", Value: d.XPos, Comment: "detector x offset"},
		{Name: "DETYPOS", Value: d.YPos, Comment: "detector y offset"},
	}
	if s.Disperser == nil {
		return cards
	}
	cards = append(cards, fitsio.Card{Name: "DISPERSR", Value: s.Disperser.Kind(), Comment: "disperser model"})
	var pg *PlaneGrating
	switch v := s.Disperser.(type) {
	case PlaneGrating:
		pg = &v
	case LinearGrating:
		pg = &v.PlaneGrating
	}
	if pg != nil {
		cards = append(cards,
			fitsio.Card{Name: "GRATING", Value: pg.Grating.Density, Comment: "groove density, lines/mm"},
			fitsio.Card{Name: "GRORDER", Value: pg.Grating.Order, Comment: "diffraction order"},
			fitsio.Card{Name: "SLITWID", Value: pg.Slit.Width, Comment: "slit width, arcsec"},
			fitsio.Card{Name: "COLFOC", Value: pg.Collimator.FocalLength, Comment: "collimator focal length, mm"},
			fitsio.Card{Name: "TELFOC", Value: pg.Telescope.FocalLength, Comment: "telescope focal length, mm"},
		)
	}
	if dw, err := s.DispersionWidth(); err == nil {
		cards = append(cards, fitsio.Card{Name: "DISPWID", Value: dw, Comment: "dispersion width, Angstrom"})
	}
	return cards
}
