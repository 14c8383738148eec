package synth

import (
	"errors"
	"math"
	"testing"

	"github.com/nasa-jpl/specsim/optics"
	"github.com/nasa-jpl/specsim/spectrum"
	"github.com/nasa-jpl/specsim/util"

	"gonum.org/v1/gonum/mat"
)

func testSpectrograph() *optics.Spectrograph {
	return &optics.Spectrograph{
		Detector: optics.Detector{
			Width: 4, Height: 2,
			XBin: 1, YBin: 1,
			PixSize: 0.015625, PixScale: 1,
		},
		Camera:  optics.Camera{FocalLength: 330},
		GratAng: 30,
		CamAng:  10,
		Disperser: optics.PlaneGrating{
			Grating:    optics.Grating{Density: 1200, Order: 1},
			Slit:       optics.Slit{Width: 1.5},
			Telescope:  optics.Telescope{FocalLength: 46200},
			Collimator: optics.Collimator{FocalLength: 630},
		},
	}
}

func flat(t *testing.T, f float64) *spectrum.Spectrum {
	t.Helper()
	s, err := spectrum.Flat(3000, 9000, 6001, f)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCreateImageShape(t *testing.T) {
	arr, err := CreateImage(testSpectrograph(), flat(t, 1), Options{})
	if err != nil {
		t.Fatal(err)
	}
	r, c := arr.Dims()
	if r != 128 || c != 256 {
		t.Errorf("expected a 128x256 image, got %dx%d", r, c)
	}
}

func TestCreateImageFlatSpectrumIsUniform(t *testing.T) {
	const F = 3.25
	arr, err := CreateImage(testSpectrograph(), flat(t, F), Options{})
	if err != nil {
		t.Fatal(err)
	}
	r, c := arr.Dims()
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			if v := arr.At(j, i); math.Abs(v-F) > 1e-12 {
				t.Fatalf("pixel (%d, %d) = %g, expected %g", j, i, v, F)
			}
		}
	}
}

func TestCreateImageTracesWavelengthMap(t *testing.T) {
	// flux equal to wavelength survives a symmetric kernel unchanged away
	// from the ends, so the image must equal the wavelength map
	wvl := util.Linspace(3000, 9000, 6001)
	s, err := spectrum.New(wvl, wvl)
	if err != nil {
		t.Fatal(err)
	}
	sg := testSpectrograph()
	o := Options{Kernel: 51}
	img, err := CreateImage(sg, s, o)
	if err != nil {
		t.Fatal(err)
	}
	wmap, err := WavelengthMap(sg, o)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := mat.Min(wmap), mat.Max(wmap)
	if lo < 3100 || hi > 8900 {
		t.Fatalf("test geometry maps outside the spectrum interior: %g .. %g", lo, hi)
	}
	if !mat.EqualApprox(img, wmap, 1e-6) {
		t.Error("expected the image of a linear spectrum to match the wavelength map")
	}
}

func TestWavelengthMapRowsMatchOpticalModel(t *testing.T) {
	sg := testSpectrograph()
	wmap, err := WavelengthMap(sg, Options{Workers: 3})
	if err != nil {
		t.Fatal(err)
	}
	r, c := wmap.Dims()
	dbeta, err := sg.DeltaBeta(c)
	if err != nil {
		t.Fatal(err)
	}
	for _, j := range []int{0, r / 2, r - 1} {
		gamma, err := sg.Gamma(j, r)
		if err != nil {
			t.Fatal(err)
		}
		want := sg.RowWavelengths(dbeta, gamma, nil)
		got := wmap.RawRowView(j)
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("row %d column %d: expected %g, got %g", j, i, want[i], got[i])
			}
		}
		for i := 1; i < len(got); i++ {
			if got[i] >= got[i-1] {
				t.Fatalf("row %d not monotonic at column %d", j, i)
			}
		}
	}
}

func TestCreateImageDeterministicAcrossWorkers(t *testing.T) {
	wvl := util.Linspace(6000, 8000, 2001)
	flux := make([]float64, len(wvl))
	for i, w := range wvl {
		flux[i] = 1 + math.Sin(w/7)
	}
	s, _ := spectrum.New(wvl, flux)
	sg := testSpectrograph()
	a, err := CreateImage(sg, s, Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := CreateImage(sg, s, Options{Workers: 7})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := CreateImage(sg, s, Options{Workers: 7})
	if !mat.Equal(a, b) || !mat.Equal(b, c) {
		t.Error("expected identical images regardless of worker count")
	}
}

func TestBinningShrinksImage(t *testing.T) {
	sg := testSpectrograph()
	x1, y1, err := Options{}.Dims(sg)
	if err != nil {
		t.Fatal(err)
	}
	sg.Detector.XBin, sg.Detector.YBin = 2, 4
	x2, y2, err := Options{}.Dims(sg)
	if err != nil {
		t.Fatal(err)
	}
	if x2 != x1/2 || y2 != y1/4 {
		t.Errorf("expected binning to give %dx%d, got %dx%d", x1/2, y1/4, x2, y2)
	}
}

func TestOverridesTakePrecedence(t *testing.T) {
	x, y, err := Options{XLen: 10, YLen: 3}.Dims(testSpectrograph())
	if err != nil || x != 10 || y != 3 {
		t.Errorf("expected 10x3, got %dx%d (%v)", x, y, err)
	}
}

func TestDegenerateGridRejected(t *testing.T) {
	sg := testSpectrograph()
	sg.Detector.Width = 0.001
	_, err := CreateImage(sg, flat(t, 1), Options{})
	if !errors.Is(err, optics.ErrConfig) {
		t.Errorf("expected ErrConfig for a zero width grid, got %v", err)
	}
	_, err = CreateImage(testSpectrograph(), flat(t, 1), Options{XLen: -4})
	if !errors.Is(err, optics.ErrConfig) {
		t.Errorf("expected ErrConfig for a negative override, got %v", err)
	}
}

func TestBadInputsRejected(t *testing.T) {
	sg := testSpectrograph()
	sg.Camera.FocalLength = 0
	if _, err := CreateImage(sg, flat(t, 1), Options{}); !errors.Is(err, optics.ErrConfig) {
		t.Errorf("expected ErrConfig for zero focal length, got %v", err)
	}
	bad := &spectrum.Spectrum{Wavelength: []float64{2, 1}, Flux: []float64{1, 1}}
	if _, err := CreateImage(testSpectrograph(), bad, Options{}); !errors.Is(err, spectrum.ErrNotIncreasing) {
		t.Errorf("expected ErrNotIncreasing, got %v", err)
	}
}

func TestEndToEndFlatSpectrum(t *testing.T) {
	// At zero grating and camera angle every pixel sees |lambda| < 100 A, far
	// below the 3000-9000 A spectrum, so the image is the clamped boundary
	// flux.  A 21 deg grating angle puts the whole detector near 6000 A and
	// exercises smoothing and interpolation inside the domain.
	cases := []struct {
		name     string
		gratang  float64
		inDomain bool
	}{
		{"zero angles", 0, false},
		{"21 deg grating", 21, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sg := &optics.Spectrograph{
				Detector: optics.Detector{
					Width: 1024, Height: 1024,
					XBin: 1, YBin: 1,
					PixSize: 0.015, PixScale: 1,
				},
				Camera:  optics.Camera{FocalLength: 750},
				GratAng: c.gratang,
				Disperser: optics.PlaneGrating{
					Grating:    optics.Grating{Density: 1200, Order: 1},
					Slit:       optics.Slit{Width: 1.5},
					Telescope:  optics.Telescope{FocalLength: 46200},
					Collimator: optics.Collimator{FocalLength: 630},
				},
			}
			o := Options{XLen: 1024, YLen: 1024}
			wmap, err := WavelengthMap(sg, o)
			if err != nil {
				t.Fatal(err)
			}
			lo, hi := mat.Min(wmap), mat.Max(wmap)
			inside := lo > 3000 && hi < 9000
			if inside != c.inDomain {
				t.Fatalf("wavelengths span %g .. %g, expected inside the spectrum: %v", lo, hi, c.inDomain)
			}

			arr, err := CreateImage(sg, flat(t, 1), o)
			if err != nil {
				t.Fatal(err)
			}
			r, cols := arr.Dims()
			if r != 1024 || cols != 1024 {
				t.Fatalf("expected a 1024x1024 image, got %dx%d", r, cols)
			}
			for _, px := range [][2]int{{0, 0}, {1, 1}, {512, 512}, {100, 900}, {1022, 3}, {1023, 1023}} {
				if v := arr.At(px[0], px[1]); math.Abs(v-1) > 1e-9 {
					t.Errorf("pixel %v = %g, expected 1", px, v)
				}
			}
		})
	}
}

func BenchmarkCreateImage(b *testing.B) {
	sg := testSpectrograph()
	s, _ := spectrum.Flat(3000, 9000, 6001, 1)
	for i := 0; i < b.N; i++ {
		CreateImage(sg, s, Options{})
	}
}
