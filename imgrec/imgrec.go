// Package imgrec contains an image recorder used to automatically save images to disk.
package imgrec

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/astrogo/fitsio"
	"gonum.org/v1/gonum/mat"
)

// Recorder records images as FITS files with incrementing filenames in
// yyyy-mm-dd subfolders.  It is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	// counter is the number of the next file
	counter int

	// Root is the root path
	Root string

	// Prefix is the prefix for the filenames
	Prefix string

	// timeFldr is the subfolder with yyyy-mm-dd format.
	timeFldr string

	// Enabled is a flag unused by this struct that allows consumers to disable its use in their code
	Enabled bool

	// now is swapped in tests
	now func() time.Time
}

// NewRecorder returns a recorder writing below root
func NewRecorder(root, prefix string, enabled bool) *Recorder {
	return &Recorder{Root: root, Prefix: prefix, Enabled: enabled}
}

// updateFolder checks the current time and updates the folder as needed
func (r *Recorder) updateFolder() {
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	y, m, d := now().Date()
	r.timeFldr = fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// mkDir makes the folder and returns it
func (r *Recorder) mkDir() (string, error) {
	fldr := path.Join(r.Root, r.timeFldr)
	err := os.MkdirAll(fldr, 0777)
	return fldr, err
}

// Record writes img with the given header to the next file in sequence and
// returns its path
func (r *Recorder) Record(metadata []fitsio.Card, img mat.Matrix) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateFolder()
	if err := r.incr(); err != nil {
		return "", err
	}
	fldr, err := r.mkDir()
	if err != nil {
		return "", err
	}
	fn := path.Join(fldr, fmt.Sprintf("%s%06d.fits", r.Prefix, r.counter))
	return fn, WriteFitsFile(fn, metadata, img, false)
}

// SetRoot changes the root folder, creating it if needed
func (r *Recorder) SetRoot(root string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Root = root
	r.updateFolder()
	_, err := r.mkDir()
	return err
}

// SetPrefix changes the filename prefix and restarts the count
func (r *Recorder) SetPrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Prefix = prefix
	r.counter = 0
}

// Settings returns the root, prefix, and enabled flag
func (r *Recorder) Settings() (string, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Root, r.Prefix, r.Enabled
}

// SetEnabled sets the Enabled flag
func (r *Recorder) SetEnabled(b bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Enabled = b
}

// incr updates the filename counter to one past the highest number already
// on disk for this prefix
func (r *Recorder) incr() error {
	dn, err := r.mkDir()
	if err != nil {
		return err
	}
	files, err := os.ReadDir(dn)
	if err != nil {
		return err
	}
	count := 0
	for _, file := range files {
		// skip directories, non-fits, and wrong prefix
		if file.IsDir() {
			continue
		}
		fn := file.Name()
		if !strings.HasSuffix(fn, ".fits") || !strings.HasPrefix(fn, r.Prefix) {
			continue
		}
		bit := strings.TrimSuffix(strings.TrimPrefix(fn, r.Prefix), ".fits")
		n, err := strconv.Atoi(bit)
		if err != nil {
			continue
		}
		if count < n {
			count = n
		}
	}
	r.counter = count + 1
	return nil
}
