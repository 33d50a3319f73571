// Command flythrough flies a free camera over heightmap terrain.
//
//	flythrough [-config flythrough.yaml] [-width 800] [-prefix ".;.."] [-clearance 2]
package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"terrain-sample/config"
	"terrain-sample/engine"
	"terrain-sample/sample"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	app := sample.New(sample.Options{})
	err := engine.Run(app,
		engine.WithLogger(logger),
		engine.WithConfig(func(p *config.Parameters) error {
			return configure(p, app, os.Args[1:])
		}),
	)
	if errors.Cause(err) == flag.ErrHelp {
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("flythrough failed")
	}
}

// configure applies the config file and then the command line on top of the
// parameters the sample asked for. Flags are parsed twice: first to find the
// config file, then again so they override it.
func configure(p *config.Parameters, app *sample.App, args []string) error {
	var configPath string
	fs := flag.NewFlagSet("flythrough", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "flythrough.yaml", "engine config file (YAML)")
	fs.Func("clearance", "keep the camera this high above the terrain, 0 for free flight", func(s string) error {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		app.Options.GroundClearance = float32(v)
		return nil
	})
	p.BindFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := p.LoadFile(configPath); err != nil {
		return err
	}
	return fs.Parse(args)
}
