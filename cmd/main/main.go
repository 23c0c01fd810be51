package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/gitpulse/internal/app"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

var (
	Version, Branch, Commit, BuildDate string
)

var (
	configPath = kingpin.Flag("config", "path to config file, environment is used if empty").Short('c').String()
)

func main() {
	kingpin.Version(Version)
	kingpin.Parse()
	contem.Start(run, logze.DefaultPtr())
}

func run(ctx contem.Context) error {
	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		return erro.Wrap(err, "load config")
	}
	logze.Init(logze.C().WithConsole().WithLevel(
		lang.If(cfg.Debug, logze.LevelDebug, logze.LevelInfo),
	))

	gitpulse, err := app.New(ctx, cfg)
	if err != nil {
		return erro.Wrap(err, "new app")
	}

	if err := gitpulse.Start(ctx); err != nil {
		return erro.Wrap(err, "start")
	}

	logze.DefaultPtr().Info("gitpulse started", "version", Version, "commit", Commit, "build_date", BuildDate)

	return nil
}
