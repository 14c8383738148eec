/*Package synth builds the image a spectrograph records of a source spectrum.

CreateImage drives the optical model in package optics and the resampler in
package spectrum one detector row at a time.  Rows are independent, so they
are split between worker goroutines; each worker owns a contiguous band of
rows of the output matrix and nothing else is written concurrently.
*/
package synth

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/nasa-jpl/specsim/optics"
	"github.com/nasa-jpl/specsim/spectrum"
	"github.com/nasa-jpl/specsim/util"

	"gonum.org/v1/gonum/mat"
)

// Options tune a synthesis.  Zero values select the defaults.
type Options struct {
	// XLen overrides the number of detector columns
	XLen int `json:"xlen" yaml:"xlen" koanf:"xlen"`

	// YLen overrides the number of detector rows
	YLen int `json:"ylen" yaml:"ylen" koanf:"ylen"`

	// Kernel is the number of samples in the smoothing kernel, default spectrum.DefaultKernelSize
	Kernel int `json:"nkern" yaml:"nkern" koanf:"nkern"`

	// Workers is the number of goroutines to use, default runtime.NumCPU()
	Workers int `json:"workers" yaml:"workers" koanf:"workers"`
}

// Dims resolves the image shape from the overrides or the detector
func (o Options) Dims(sg *optics.Spectrograph) (xlen, ylen int, err error) {
	if o.XLen < 0 || o.YLen < 0 {
		return 0, 0, fmt.Errorf("%w: image size overrides %dx%d must be positive", optics.ErrConfig, o.XLen, o.YLen)
	}
	xlen, ylen = sg.Detector.Dims()
	if o.XLen > 0 {
		xlen = o.XLen
	}
	if o.YLen > 0 {
		ylen = o.YLen
	}
	if xlen <= 0 || ylen <= 0 {
		return 0, 0, fmt.Errorf("%w: degenerate detector grid %dx%d", optics.ErrConfig, xlen, ylen)
	}
	return xlen, ylen, nil
}

func (o Options) kernel() int {
	if o.Kernel > 0 {
		return o.Kernel
	}
	return spectrum.DefaultKernelSize
}

func (o Options) workers(rows int) int {
	n := o.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return int(util.Clamp(float64(n), 1, float64(rows)))
}

// CreateImage returns the (ylen, xlen) image of s seen through sg.  Element
// (j, i) is the smoothed flux at the wavelength falling on column i of row j.
func CreateImage(sg *optics.Spectrograph, s *spectrum.Spectrum, o Options) (*mat.Dense, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	xlen, ylen, err := o.Dims(sg)
	if err != nil {
		return nil, err
	}
	dw, err := sg.DispersionWidth()
	if err != nil {
		return nil, err
	}
	rs, err := spectrum.NewResampler(s, dw, o.kernel())
	if err != nil {
		return nil, err
	}

	dbeta, err := sg.DeltaBeta(xlen)
	if err != nil {
		return nil, err
	}
	gammas, err := sg.Gammas(ylen)
	if err != nil {
		return nil, err
	}

	arr := mat.NewDense(ylen, xlen, nil)
	eachRow(ylen, o.workers(ylen), func(j int, buf []float64) []float64 {
		buf = sg.RowWavelengths(dbeta, gammas[j], buf)
		rs.FluxAt(buf, arr.RawRowView(j))
		return buf
	})
	return arr, nil
}

// WavelengthMap returns the (ylen, xlen) map of the wavelength, Angstrom,
// falling on each pixel
func WavelengthMap(sg *optics.Spectrograph, o Options) (*mat.Dense, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	xlen, ylen, err := o.Dims(sg)
	if err != nil {
		return nil, err
	}
	dbeta, err := sg.DeltaBeta(xlen)
	if err != nil {
		return nil, err
	}
	gammas, err := sg.Gammas(ylen)
	if err != nil {
		return nil, err
	}
	arr := mat.NewDense(ylen, xlen, nil)
	eachRow(ylen, o.workers(ylen), func(j int, buf []float64) []float64 {
		sg.RowWavelengths(dbeta, gammas[j], arr.RawRowView(j))
		return buf
	})
	return arr, nil
}

// eachRow calls fcn for every row in [0, rows), splitting the rows into
// contiguous bands, one per worker.  buf is a per-worker scratch slice that
// fcn may grow and return.
func eachRow(rows, workers int, fcn func(j int, buf []float64) []float64) {
	band := (rows + workers - 1) / workers
	wg := sync.WaitGroup{}
	for start := 0; start < rows; start += band {
		end := start + band
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			var buf []float64
			for j := start; j < end; j++ {
				buf = fcn(j, buf)
			}
		}(start, end)
	}
	wg.Wait()
}
