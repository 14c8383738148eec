// Package generichttp defines the route table used to expose simulator
// functionality over HTTP and a few generic handlers
package generichttp

import (
	"encoding/json"
	"fmt"
	"go/types"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi"
)

// MethodPath is a struct containing an HTTP method and a URL path
type MethodPath struct {
	Method, Path string
}

// RouteTable maps method + path pairs to handlers
type RouteTable map[MethodPath]http.HandlerFunc

// Endpoints returns the sorted list of paths in the table
func (rt RouteTable) Endpoints() []string {
	routes := make([]string, 0, len(rt))
	for k := range rt {
		routes = append(routes, k.Path)
	}
	sort.Strings(routes)
	return routes
}

// Bind calls r.MethodFunc for each entry of the table
func (rt RouteTable) Bind(r chi.Router) {
	for mp, hndl := range rt {
		r.MethodFunc(mp.Method, mp.Path, hndl)
	}
}

// HTTPer is an interface to a type which exposes a RouteTable
type HTTPer interface {
	RT() RouteTable
}

// SubMuxSanitize turns "omc/nkt", "/omc/nkt/", and the like into "/omc/nkt"
func SubMuxSanitize(str string) string {
	return "/" + strings.Trim(strings.TrimSuffix(str, "*"), "/")
}

// FloatT is a struct with a single float64 field F64
type FloatT struct {
	F64 float64 `json:"f64"`
}

// StrT is a struct with a single string field Str
type StrT struct {
	Str string `json:"str"`
}

// BoolT is a struct with a single bool field Bool
type BoolT struct {
	Bool bool `json:"bool"`
}

// HumanPayload holds one of a few basic types and knows how to send itself
// back to a client
type HumanPayload struct {
	// T is the kind of value held
	T types.BasicKind

	Float  float64
	String string
	Bool   bool
}

// EncodeAndRespond writes the payload as JSON, {"f64": 1.5} and so on
func (hp HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	var v interface{}
	switch hp.T {
	case types.Float64:
		v = FloatT{hp.Float}
	case types.String:
		v = StrT{hp.String}
	case types.Bool:
		v = BoolT{hp.Bool}
	default:
		http.Error(w, fmt.Sprintf("unsupported payload kind %v", hp.T), http.StatusInternalServerError)
		return
	}
	ReplyJSON(w, v)
}

// ReplyJSON encodes v as the body of a 200 response
func ReplyJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetFloat calls a float-getting function and returns the response
// as json {'f64': value}
func GetFloat(fcn func() (float64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		hp := HumanPayload{T: types.Float64, Float: f}
		hp.EncodeAndRespond(w, r)
	}
}

// GetString calls a string-getting function and returns the response
// as json {'str': value}
func GetString(fcn func() (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		hp := HumanPayload{T: types.String, String: s}
		hp.EncodeAndRespond(w, r)
	}
}

// SetString parses a JSON input of {'str': value} and
// calls fcn with it
func SetString(fcn func(string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := StrT{}
		err := json.NewDecoder(r.Body).Decode(&s)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = fcn(s.Str)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetBool calls a bool-getting function and returns the response
// as json {'bool': value}
func GetBool(fcn func() (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		hp := HumanPayload{T: types.Bool, Bool: b}
		hp.EncodeAndRespond(w, r)
	}
}

// SetBool parses a JSON input of {'bool': value} and
// calls fcn with it
func SetBool(fcn func(bool) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := BoolT{}
		err := json.NewDecoder(r.Body).Decode(&b)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = fcn(b.Bool)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
