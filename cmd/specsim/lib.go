package main

import (
	"log"
	"net/http"

	"github.com/nasa-jpl/specsim/config"
	"github.com/nasa-jpl/specsim/generichttp"
	"github.com/nasa-jpl/specsim/imgrec"
	"github.com/nasa-jpl/specsim/optics"
	"github.com/nasa-jpl/specsim/synth"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// BuildMux mounts the simulator routes under the configured endpoint.
// The mux serves a special route, /endpoints, which returns a map of the
// stem to its routes as JSON.
func BuildMux(c config.Config, sg *optics.Spectrograph) chi.Router {
	root := chi.NewRouter()
	root.Use(middleware.Logger)

	rs := c.Server.Record
	rec := imgrec.NewRecorder(rs.Root, rs.Prefix, rs.Enabled)
	limit := generichttp.NewRateLimit(c.Server.RateLimit, c.Server.Burst)
	httper := synth.NewHTTPWrapper(sg, c.Synthesis, rec, limit)

	stem := generichttp.SubMuxSanitize(c.Server.Endpoint)
	supergraph := map[string][]string{stem: httper.RT().Endpoints()}

	r := chi.NewRouter()
	httper.RT().Bind(r)
	root.Mount(stem, r)
	root.Get("/endpoints", func(w http.ResponseWriter, r *http.Request) {
		generichttp.ReplyJSON(w, supergraph)
	})
	return root
}

func run() {
	c := loadConfig()
	sg := build(c)
	mux := BuildMux(c, sg)
	log.Println("now listening for requests at ", c.Server.Addr)
	log.Fatal(http.ListenAndServe(c.Server.Addr, mux))
}
