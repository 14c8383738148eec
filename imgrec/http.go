package imgrec

import (
	"net/http"

	"github.com/nasa-jpl/specsim/generichttp"
)

// HTTPWrapper is an HTTP wrapper around an image recorder that allows the folder and prefix to be changed on the fly
//
// it does not implement generichttp.HTTPer, offering an Inject method allowing it to be injected
// into another HTTPer
type HTTPWrapper struct {
	*Recorder
}

// NewHTTPWrapper returns an HTTP wrapper around a recorder
func NewHTTPWrapper(r *Recorder) HTTPWrapper {
	return HTTPWrapper{r}
}

// Inject adds GET and POST routes for /autowrite/root, /autowrite/prefix and
// /autowrite/enabled to the HTTPer which manipulate this wrapper's recorder
func (h HTTPWrapper) Inject(other generichttp.HTTPer) {
	rt := other.RT()
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/autowrite/root"}] = generichttp.SetString(h.Recorder.SetRoot)
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/autowrite/root"}] = generichttp.GetString(func() (string, error) {
		root, _, _ := h.Recorder.Settings()
		return root, nil
	})
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/autowrite/prefix"}] = generichttp.SetString(func(s string) error {
		h.Recorder.SetPrefix(s)
		return nil
	})
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/autowrite/prefix"}] = generichttp.GetString(func() (string, error) {
		_, prefix, _ := h.Recorder.Settings()
		return prefix, nil
	})
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/autowrite/enabled"}] = generichttp.SetBool(func(b bool) error {
		h.Recorder.SetEnabled(b)
		return nil
	})
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/autowrite/enabled"}] = generichttp.GetBool(func() (bool, error) {
		_, _, en := h.Recorder.Settings()
		return en, nil
	})
}
