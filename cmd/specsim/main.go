package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/nasa-jpl/specsim/config"
	"github.com/nasa-jpl/specsim/imgrec"
	"github.com/nasa-jpl/specsim/optics"
	"github.com/nasa-jpl/specsim/spectrum"
	"github.com/nasa-jpl/specsim/synth"

	"github.com/theckman/yacspin"
	"gonum.org/v1/gonum/mat"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "specsim.yml"
)

func root() {
	str := `specsim simulates the image a dispersive spectrograph records of a source spectrum.

Usage:
	specsim <command>

Commands:
	create [-clobber] [-xlen N] [-ylen N] [-workers N] SPECTRUM OUT.fits
	wavemap [-clobber] OUT.fits
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `specsim is configured via specsim.yml in the working directory, for a primer on YAML see
https://yaml.org/start.html

Without a configuration file the built in defaults are used; write them out with
specsim mkconf and edit from there.  Any key may be overridden with an environment
variable, SPECSIM_ followed by the path of the key with underscores, e.g.
SPECSIM_DETECTOR_XBIN=2.

Disperser "type" fields, case insensitive:
- "grating", "plane": plane reflection grating, full grating equation
- "linear": small angle linearization of the grating equation

Spectra may be two column text files (wavelength in Angstrom, flux) or 1D FITS
files with CRVAL1/CDELT1 keywords.

create writes a single extension FITS image of the spectrum as seen on the detector.
wavemap writes the wavelength falling on each pixel instead.
run serves the same over HTTP, see GET /endpoints.`
	fmt.Println(str)
}

func loadConfig() config.Config {
	c, err := config.Load(ConfigFileName)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	return c
}

func build(c config.Config) *optics.Spectrograph {
	sg, err := c.Build()
	if err != nil {
		log.Fatal(err)
	}
	return sg
}

func mkconf() {
	c := loadConfig()
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = c.Encode(f)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := loadConfig()
	err := c.Encode(os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("specsim version %v\n", Version)
}

// spin runs fcn with a spinner on the terminal
func spin(msg string, fcn func() error) error {
	spinner, err := yacspin.New(yacspin.Config{
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[14],
		Suffix:            " " + msg,
		StopCharacter:     "done",
		StopColors:        []string{"fgGreen"},
		StopFailCharacter: "failed",
		StopFailColors:    []string{"fgRed"},
	})
	if err != nil {
		// no terminal niceties, just do the work
		return fcn()
	}
	spinner.Start()
	err = fcn()
	if err != nil {
		spinner.StopFail()
		return err
	}
	spinner.Stop()
	return nil
}

func synthFlags(name string, o *synth.Options) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	clobber := fs.Bool("clobber", false, "overwrite the output file if it exists")
	fs.IntVar(&o.XLen, "xlen", o.XLen, "override the number of detector columns")
	fs.IntVar(&o.YLen, "ylen", o.YLen, "override the number of detector rows")
	fs.IntVar(&o.Workers, "workers", o.Workers, "number of rows computed in parallel, 0 for all CPUs")
	return fs, clobber
}

func create(args []string) {
	c := loadConfig()
	o := c.Synthesis
	fs, clobber := synthFlags("create", &o)
	fs.Parse(args)
	if fs.NArg() != 2 {
		log.Fatal("usage: specsim create [flags] SPECTRUM OUT.fits")
	}
	sg := build(c)
	s, err := spectrum.Load(fs.Arg(0))
	if err != nil {
		log.Fatalf("error reading spectrum %s: %v", fs.Arg(0), err)
	}
	var img *mat.Dense
	err = spin("synthesizing "+fs.Arg(1), func() error {
		img, err = synth.CreateImage(sg, s, o)
		if err != nil {
			return err
		}
		return imgrec.WriteFitsFile(fs.Arg(1), synth.HeaderCards(sg, s, o), img, *clobber)
	})
	if err != nil {
		log.Fatal(err)
	}
	r, cols := img.Dims()
	log.Printf("wrote %dx%d image to %s", cols, r, fs.Arg(1))
}

func wavemap(args []string) {
	c := loadConfig()
	o := c.Synthesis
	fs, clobber := synthFlags("wavemap", &o)
	fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: specsim wavemap [flags] OUT.fits")
	}
	sg := build(c)
	img, err := synth.WavelengthMap(sg, o)
	if err != nil {
		log.Fatal(err)
	}
	err = imgrec.WriteFitsFile(fs.Arg(0), synth.HeaderCards(sg, nil, o), img, *clobber)
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "create":
		create(args[2:])
		return
	case "wavemap":
		wavemap(args[2:])
		return
	case "run":
		run()
		return
	case "version":
		pversion()
		return
	default:
		log.Fatal("unknown command")
	}
}
