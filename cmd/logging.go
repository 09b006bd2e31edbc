package cmd

import (
	"github.com/achilleasa/go-raytrace/config"
	"github.com/achilleasa/go-raytrace/log"
	"github.com/urfave/cli"
)

var logger = log.New("raytrace")

// Load the configuration file (if one was specified) and setup logging.
// The -v/-vv and --log-file flags override the configured values.
func setup(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if cfgFile := ctx.GlobalString("config"); cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return cfg, err
		}
	}

	setupLogging(ctx, cfg)
	return cfg, nil
}

func setupLogging(ctx *cli.Context, cfg config.Config) {
	log.SetLevel(cfg.LogLevel())

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	fileCfg := cfg.LogFile()
	if logFile := ctx.GlobalString("log-file"); logFile != "" {
		fileCfg.Path = logFile
	}
	if fileCfg.Path != "" {
		log.SetFileSink(fileCfg)
	}
}
