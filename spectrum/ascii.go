package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadASCII reads a two column (wavelength, flux) text spectrum.  Columns may
// be separated by whitespace or commas; blank lines and lines starting with #
// are skipped.  Extra columns are ignored.
func ReadASCII(r io.Reader) (*Spectrum, error) {
	var wvl, flux []float64
	scn := bufio.NewScanner(r)
	line := 0
	for scn.Scan() {
		line++
		txt := strings.TrimSpace(scn.Text())
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		fields := strings.FieldsFunc(txt, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected two columns, got %q", line, txt)
		}
		w, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		f, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		wvl = append(wvl, w)
		flux = append(flux, f)
	}
	if err := scn.Err(); err != nil {
		return nil, err
	}
	return New(wvl, flux)
}

// Load reads a spectrum from disk, choosing the format from the extension.
// .fits and .fit are read with ReadFits, anything else with ReadASCII.
func Load(path string) (*Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit":
		return ReadFits(f)
	default:
		return ReadASCII(f)
	}
}
