/*Package config loads the description of a spectrograph from YAML.

Values are layered: built in defaults, then the configuration file, then
environment variables prefixed with SPECSIM_, where an underscore separates
levels of nesting (SPECSIM_DETECTOR_XBIN=2).

Example file:

	type: grating
	gratang: 25
	camang: 0
	grating:
	  density: 1200
	  order: 1
	slit:
	  width: 1.5
	telescope:
	  focallength: 46200
	collimator:
	  focallength: 630
	camera:
	  focallength: 330
	detector:
	  width: 30.72
	  height: 30.72
	  xbin: 2
	  ybin: 2
	  pixsize: 0.015
	  pixscale: 1
*/
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/nasa-jpl/specsim/optics"
	"github.com/nasa-jpl/specsim/synth"

	yml "gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of environment variables that override the file
const EnvPrefix = "SPECSIM_"

// tag is the struct tag used by every provider
const tag = "yaml"

// FocalLength holds the focal length of one optic, mm
type FocalLength struct {
	FocalLength float64 `yaml:"focallength"`
}

// Grating is the ruling of the grating
type Grating struct {
	// Density is the groove density in lines/mm
	Density float64 `yaml:"density"`

	// Order is the diffraction order
	Order int `yaml:"order"`
}

// Slit is the entrance slit
type Slit struct {
	// Width is the slit width in arcsec
	Width float64 `yaml:"width"`
}

// Detector mirrors optics.Detector
type Detector struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	XBin     int     `yaml:"xbin"`
	YBin     int     `yaml:"ybin"`
	PixSize  float64 `yaml:"pixsize"`
	PixScale float64 `yaml:"pixscale"`
	XPos     float64 `yaml:"xpos"`
	YPos     float64 `yaml:"ypos"`
}

// Record configures the image recorder used by the server
type Record struct {
	Root    string `yaml:"root"`
	Prefix  string `yaml:"prefix"`
	Enabled bool   `yaml:"enabled"`
}

// Server configures the HTTP interface
type Server struct {
	// Addr is the address to listen at
	Addr string `yaml:"addr"`

	// Endpoint is the URL stem the routes are served under, e.g. /rss
	Endpoint string `yaml:"endpoint"`

	// RateLimit is the number of images per second served, <= 0 for no limit
	RateLimit float64 `yaml:"ratelimit"`

	// Burst is the number of images that may be requested at once
	Burst int `yaml:"burst"`

	Record Record `yaml:"record"`
}

// Config is the whole configuration of the program
type Config struct {
	// Type selects the disperser model, "grating" or "linear"
	Type string `yaml:"type"`

	// GratAng is the grating angle, deg
	GratAng float64 `yaml:"gratang"`

	// CamAng is the camera angle, deg
	CamAng float64 `yaml:"camang"`

	Grating    Grating     `yaml:"grating"`
	Slit       Slit        `yaml:"slit"`
	Telescope  FocalLength `yaml:"telescope"`
	Collimator FocalLength `yaml:"collimator"`
	Camera     FocalLength `yaml:"camera"`
	Detector   Detector    `yaml:"detector"`

	Synthesis synth.Options `yaml:"synthesis"`
	Server    Server        `yaml:"server"`
}

// Defaults returns a configuration for a 2k x 2k detector behind a 1200 l/mm
// grating in Littrow near 7000 Angstrom
func Defaults() Config {
	return Config{
		Type:       "grating",
		GratAng:    25,
		CamAng:     0,
		Grating:    Grating{Density: 1200, Order: 1},
		Slit:       Slit{Width: 1.5},
		Telescope:  FocalLength{46200},
		Collimator: FocalLength{630},
		Camera:     FocalLength{330},
		Detector: Detector{
			Width: 30.72, Height: 30.72,
			XBin: 1, YBin: 1,
			PixSize: 0.015, PixScale: 1,
		},
		Server: Server{
			Addr:      ":8000",
			Endpoint:  "/specsim",
			RateLimit: 2,
			Burst:     4,
			Record:    Record{Prefix: "specsim_"},
		},
	}
}

// Load layers the defaults, the file at path (skipped if path is empty or
// the file does not exist), and the environment
func Load(path string) (Config, error) {
	k := koanf.New(".")
	c := Config{}
	if err := k.Load(structs.Provider(Defaults(), tag), nil); err != nil {
		return c, err
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return c, fmt.Errorf("error loading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return c, err
		}
	}
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return c, err
	}
	err = k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: tag})
	return c, err
}

// envKey maps SPECSIM_DETECTOR_XBIN to detector.xbin
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
}

// Build returns the spectrograph described by c
func (c Config) Build() (*optics.Spectrograph, error) {
	pg := optics.PlaneGrating{
		Grating:    optics.Grating{Density: c.Grating.Density, Order: c.Grating.Order},
		Slit:       optics.Slit{Width: c.Slit.Width},
		Telescope:  optics.Telescope{FocalLength: c.Telescope.FocalLength},
		Collimator: optics.Collimator{FocalLength: c.Collimator.FocalLength},
	}
	var disp optics.Disperser
	switch typ := strings.ToLower(c.Type); typ {
	case "grating", "plane":
		disp = pg
	case "linear":
		disp = optics.LinearGrating{PlaneGrating: pg}
	default:
		return nil, fmt.Errorf("%w: disperser type %q not understood", optics.ErrConfig, c.Type)
	}
	d := c.Detector
	sg := &optics.Spectrograph{
		Detector: optics.Detector{
			Width: d.Width, Height: d.Height,
			XBin: d.XBin, YBin: d.YBin,
			PixSize: d.PixSize, PixScale: d.PixScale,
			XPos: d.XPos, YPos: d.YPos,
		},
		Camera:    optics.Camera{FocalLength: c.Camera.FocalLength},
		GratAng:   c.GratAng,
		CamAng:    c.CamAng,
		Disperser: disp,
	}
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	return sg, nil
}

// Encode writes c to w as YAML
func (c Config) Encode(w io.Writer) error {
	enc := yml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(c)
}
