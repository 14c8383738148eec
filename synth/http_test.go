package synth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/go-chi/chi"
	"github.com/nasa-jpl/specsim/generichttp"
	"github.com/nasa-jpl/specsim/imgrec"
	"github.com/nasa-jpl/specsim/util"
)

func testServer(t *testing.T, rec *imgrec.Recorder) http.Handler {
	t.Helper()
	h := NewHTTPWrapper(testSpectrograph(), Options{XLen: 16, YLen: 4}, rec, generichttp.NewRateLimit(0, 0))
	r := chi.NewRouter()
	h.RT().Bind(r)
	return r
}

func spectrumBody(t *testing.T) *bytes.Reader {
	t.Helper()
	wvl := util.Linspace(3000, 9000, 601)
	flux := make([]float64, len(wvl))
	for i := range flux {
		flux[i] = 2
	}
	b, err := json.Marshal(map[string][]float64{"wavelength": wvl, "flux": flux})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(b)
}

func TestHTTPDims(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dims", nil))
	if strings.TrimSpace(rec.Body.String()) != `{"xlen":16,"ylen":4}` {
		t.Errorf("unexpected dims %q", rec.Body.String())
	}
}

func TestHTTPConfig(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	cs := struct {
		Type    string  `json:"type"`
		GratAng float64 `json:"gratang"`
	}{}
	if err := json.NewDecoder(rec.Body).Decode(&cs); err != nil {
		t.Fatal(err)
	}
	if cs.Type != "grating" || cs.GratAng != 30 {
		t.Errorf("unexpected config summary %+v", cs)
	}
}

func TestHTTPWavelengths(t *testing.T) {
	srv := testServer(t, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wavelengths?row=3", nil))
	var wvl []float64
	if err := json.NewDecoder(rec.Body).Decode(&wvl); err != nil {
		t.Fatal(err)
	}
	sg := testSpectrograph()
	dbeta, err := sg.DeltaBeta(16)
	if err != nil {
		t.Fatal(err)
	}
	gamma, err := sg.Gamma(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := sg.RowWavelengths(dbeta, gamma, nil)
	if len(wvl) != 16 || wvl[5] != want[5] {
		t.Errorf("unexpected wavelengths %v", wvl)
	}

	for _, q := range []string{"row=4", "row=-1", "row=x"} {
		rec = httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wavelengths?"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestHTTPImageFits(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/image", spectrumBody(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/fits" {
		t.Errorf("expected image/fits, got %s", ct)
	}
	f, err := fitsio.Open(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img := f.HDU(0).(fitsio.Image)
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 2 || axes[0] != 16 || axes[1] != 4 {
		t.Errorf("expected a 16x4 image, got %v", axes)
	}
	if c := hdr.Get("HDRVER"); c == nil || c.Value != HeaderVersion {
		t.Errorf("expected header version %s, got %v", HeaderVersion, c)
	}
	data := make([]float64, 64)
	if err := img.Read(&data); err != nil {
		t.Fatal(err)
	}
	for i, v := range data {
		if v < 2-1e-12 || v > 2+1e-12 {
			t.Fatalf("pixel %d = %g, expected 2", i, v)
		}
	}
}

func TestHTTPImageJSONAndRecording(t *testing.T) {
	root := t.TempDir()
	recorder := imgrec.NewRecorder(root, "img_", true)
	rec := httptest.NewRecorder()
	testServer(t, recorder).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/image?fmt=json", spectrumBody(t)))
	out := struct {
		XLen int       `json:"xlen"`
		YLen int       `json:"ylen"`
		Data []float64 `json:"data"`
	}{}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.XLen != 16 || out.YLen != 4 || len(out.Data) != 64 {
		t.Errorf("unexpected json image %dx%d with %d values", out.XLen, out.YLen, len(out.Data))
	}
	matches, _ := filepath.Glob(filepath.Join(root, "*", "img_*.fits"))
	if len(matches) != 1 {
		t.Errorf("expected one recorded image, found %v", matches)
	}
	if len(matches) == 1 {
		if st, err := os.Stat(matches[0]); err != nil || st.Size() == 0 {
			t.Errorf("recorded image is empty or missing: %v", err)
		}
	}
}

func TestHTTPImageRejectsBadInput(t *testing.T) {
	srv := testServer(t, nil)
	cases := map[string]string{
		"/image":          `{"wavelength": [2, 1], "flux": [1, 1]}`,
		"/image?fmt=png":  `{"wavelength": [1, 2], "flux": [1, 1]}`,
		"/image?fmt=fits": `not json`,
	}
	for target, body := range cases {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", target, body, rec.Code)
		}
	}
}

func TestHTTPImageBodyLimit(t *testing.T) {
	h := NewHTTPWrapper(testSpectrograph(), Options{XLen: 16, YLen: 4}, nil, generichttp.NewRateLimit(0, 0))
	if h.MaxBodyBytes != MaxSpectrumBytes {
		t.Errorf("expected the default limit %d, got %d", MaxSpectrumBytes, h.MaxBodyBytes)
	}
	h.MaxBodyBytes = 256
	rec := httptest.NewRecorder()
	h.Image(rec, httptest.NewRequest(http.MethodPost, "/image", spectrumBody(t)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for an oversized spectrum, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Image(rec, httptest.NewRequest(http.MethodPost, "/image", strings.NewReader(`{"wavelength": [3000, 9000], "flux": [1, 1]}`)))
	if rec.Code != http.StatusOK {
		t.Errorf("expected a small spectrum to pass, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHTTPAutowriteRoutes(t *testing.T) {
	recorder := imgrec.NewRecorder(t.TempDir(), "a_", false)
	srv := testServer(t, recorder)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/autowrite/prefix", strings.NewReader(`{"str": "b_"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/autowrite/prefix", nil))
	if strings.TrimSpace(rec.Body.String()) != `{"str":"b_"}` {
		t.Errorf("unexpected prefix payload %q", rec.Body.String())
	}
}
