/*Package optics describes the geometry of a dispersive spectrograph and maps
detector pixels to the wavelength that lands on them.

The Spectrograph type bundles a Detector, a Camera, the grating and camera
angles, and a Disperser.  The Disperser evaluates the grating equation and
the size of a resolution element; concrete variants are chosen when the
instrument configuration is loaded.

All lengths are in millimetres and all angles in degrees.  Wavelengths
returned by a Disperser are in millimetres; the model functions in this
package convert them to Angstrom with MillimetersToAngstroms.
*/
package optics

import "errors"

// ErrConfig is returned (wrapped) for any invalid instrument geometry
var ErrConfig = errors.New("invalid spectrograph configuration")

const (
	// MillimetersToAngstroms converts the output of a Disperser (mm) to the
	// unit of spectrum wavelength samples (Angstrom)
	MillimetersToAngstroms = 1e7

	// ResolutionScale is the fraction of a resolution element used as the
	// dispersion width when smoothing a spectrum
	ResolutionScale = 0.5

	// ArcsecPerRadian is the number of arcseconds in one radian
	ArcsecPerRadian = 206264.80624709636
)
