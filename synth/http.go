package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/nasa-jpl/specsim/generichttp"
	"github.com/nasa-jpl/specsim/imgrec"
	"github.com/nasa-jpl/specsim/optics"
	"github.com/nasa-jpl/specsim/spectrum"
)

// MaxSpectrumBytes is the default limit on the size of a spectrum posted to
// the image route
const MaxSpectrumBytes = 64 << 20

// HTTPWrapper provides HTTP bindings on top of a spectrograph.
// The spectrograph is never modified.
type HTTPWrapper struct {
	// Spectrograph is the instrument images are made with
	Spectrograph *optics.Spectrograph

	// Options are applied to every synthesis
	Options Options

	// Recorder, if not nil and enabled, keeps a copy of every image served
	Recorder *imgrec.Recorder

	// MaxBodyBytes caps the size of an image request body
	MaxBodyBytes int64

	// RouteTable maps patterns to http handlers
	RouteTable generichttp.RouteTable
}

// NewHTTPWrapper returns a new HTTP wrapper with the route table pre-configured.
// Image requests pass through limit.
func NewHTTPWrapper(sg *optics.Spectrograph, o Options, rec *imgrec.Recorder, limit generichttp.RateLimit) HTTPWrapper {
	w := HTTPWrapper{Spectrograph: sg, Options: o, Recorder: rec, MaxBodyBytes: MaxSpectrumBytes}
	rt := generichttp.RouteTable{
		generichttp.MethodPath{Method: http.MethodGet, Path: "/config"}:           w.Config,
		generichttp.MethodPath{Method: http.MethodGet, Path: "/dims"}:             w.Dims,
		generichttp.MethodPath{Method: http.MethodGet, Path: "/dispersion-width"}: generichttp.GetFloat(sg.DispersionWidth),
		generichttp.MethodPath{Method: http.MethodGet, Path: "/wavelengths"}:      w.Wavelengths,
		generichttp.MethodPath{Method: http.MethodPost, Path: "/image"}:           limit.Check(http.HandlerFunc(w.Image)).ServeHTTP,
	}
	w.RouteTable = rt
	if rec != nil {
		imgrec.NewHTTPWrapper(rec).Inject(w)
	}
	return w
}

// RT satisfies generichttp.HTTPer
func (h HTTPWrapper) RT() generichttp.RouteTable {
	return h.RouteTable
}

// ConfigSummary is the JSON view of a spectrograph
type ConfigSummary struct {
	Type      string           `json:"type"`
	GratAng   float64          `json:"gratang"`
	CamAng    float64          `json:"camang"`
	Detector  optics.Detector  `json:"detector"`
	Camera    optics.Camera    `json:"camera"`
	Disperser optics.Disperser `json:"disperser"`
	Options   Options          `json:"options"`
}

// Config sends the spectrograph configuration back as JSON
func (h HTTPWrapper) Config(w http.ResponseWriter, r *http.Request) {
	sg := h.Spectrograph
	summary := ConfigSummary{
		GratAng:   sg.GratAng,
		CamAng:    sg.CamAng,
		Detector:  sg.Detector,
		Camera:    sg.Camera,
		Disperser: sg.Disperser,
		Options:   h.Options,
	}
	if sg.Disperser != nil {
		summary.Type = sg.Disperser.Kind()
	}
	generichttp.ReplyJSON(w, summary)
}

// Dims sends the image shape back as JSON {"xlen": x, "ylen": y}
func (h HTTPWrapper) Dims(w http.ResponseWriter, r *http.Request) {
	xlen, ylen, err := h.Options.Dims(h.Spectrograph)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	generichttp.ReplyJSON(w, struct {
		XLen int `json:"xlen"`
		YLen int `json:"ylen"`
	}{xlen, ylen})
}

// Wavelengths sends the wavelength of each column of one row, given by the
// row query parameter (default 0), as a JSON array
func (h HTTPWrapper) Wavelengths(w http.ResponseWriter, r *http.Request) {
	sg := h.Spectrograph
	if err := sg.Validate(); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	xlen, ylen, err := h.Options.Dims(sg)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	row := 0
	if str := r.URL.Query().Get("row"); str != "" {
		row, err = strconv.Atoi(str)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if row < 0 || row >= ylen {
		http.Error(w, fmt.Sprintf("row %d outside [0, %d)", row, ylen), http.StatusBadRequest)
		return
	}
	dbeta, err := sg.DeltaBeta(xlen)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	gamma, err := sg.Gamma(row, ylen)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	wvl := sg.RowWavelengths(dbeta, gamma, nil)
	generichttp.ReplyJSON(w, wvl)
}

// Image synthesizes the image of the spectrum in the request body, a JSON
// object {"wavelength": [...], "flux": [...]}.  The fmt query parameter
// selects "fits" (default) or "json".  Bodies larger than MaxBodyBytes are
// refused with 413.
func (h HTTPWrapper) Image(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("fmt")
	if format != "" && format != "fits" && format != "json" {
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = MaxSpectrumBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	defer r.Body.Close()
	s := spectrum.Spectrum{}
	err := json.NewDecoder(r.Body).Decode(&s)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img, err := CreateImage(h.Spectrograph, &s, h.Options)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	cards := HeaderCards(h.Spectrograph, &s, h.Options)
	if h.Recorder != nil {
		if _, _, enabled := h.Recorder.Settings(); enabled {
			fn, err := h.Recorder.Record(cards, img)
			if err != nil {
				log.Printf("error recording image: %v", err)
			} else {
				log.Println("recorded image to", fn)
			}
		}
	}

	if format == "json" {
		ylen, xlen := img.Dims()
		generichttp.ReplyJSON(w, struct {
			XLen int       `json:"xlen"`
			YLen int       `json:"ylen"`
			Data []float64 `json:"data"`
		}{xlen, ylen, img.RawMatrix().Data})
		return
	}
	hdr := w.Header()
	hdr.Set("Content-Type", "image/fits")
	hdr.Set("Content-Disposition", "attachment; filename=image.fits")
	err = imgrec.WriteFits(w, cards, img)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// statusFor maps configuration and domain errors to 400
func statusFor(err error) int {
	switch {
	case errors.Is(err, optics.ErrConfig),
		errors.Is(err, spectrum.ErrNotIncreasing),
		errors.Is(err, spectrum.ErrLength),
		errors.Is(err, spectrum.ErrTooShort),
		errors.Is(err, spectrum.ErrNotFinite):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
