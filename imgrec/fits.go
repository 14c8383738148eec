package imgrec

import (
	"io"
	"os"

	"github.com/astrogo/fitsio"
	"gonum.org/v1/gonum/mat"
)

// WriteFits streams img to w as a single HDU, BITPIX -64 FITS file.  Row j
// of img is image line j+1; column i is NAXIS1 pixel i+1.
func WriteFits(w io.Writer, metadata []fitsio.Card, img mat.Matrix) error {
	rows, cols := img.Dims()
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()
	im := fitsio.NewImage(-64, []int{cols, rows})
	defer im.Close()
	err = im.Header().Append(metadata...)
	if err != nil {
		return err
	}
	err = im.Write(rowMajor(img))
	if err != nil {
		return err
	}
	return fits.Write(im)
}

// WriteFitsFile writes img to path.  An existing file is only replaced when
// clobber is true.
func WriteFitsFile(path string, metadata []fitsio.Card, img mat.Matrix, clobber bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !clobber {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0666)
	if err != nil {
		return err
	}
	err = WriteFits(f, metadata, img)
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}

// rowMajor returns the elements of m in row major order, without a copy
// when m is a contiguous *mat.Dense
func rowMajor(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	if d, ok := m.(*mat.Dense); ok {
		raw := d.RawMatrix()
		if raw.Stride == cols {
			return raw.Data[:rows*cols]
		}
	}
	out := make([]float64, 0, rows*cols)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			out = append(out, m.At(j, i))
		}
	}
	return out
}
