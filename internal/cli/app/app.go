package app

import (
	"context"
	"fmt"
	"path"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pwapreview/internal/console"
	"github.com/yndnr/pwapreview/internal/infra/buildinfo"
	"github.com/yndnr/pwapreview/internal/infra/confloader"
	"github.com/yndnr/pwapreview/internal/infra/shutdown"
	"github.com/yndnr/pwapreview/internal/server/config"
	"github.com/yndnr/pwapreview/internal/server/fileserver"
	"github.com/yndnr/pwapreview/internal/server/preview"
	"github.com/yndnr/pwapreview/internal/server/watch"
	"github.com/yndnr/pwapreview/internal/telemetry/logger"
	"github.com/yndnr/pwapreview/internal/telemetry/metric"
)

// Variant describes one executable.
type Variant struct {
	Name  string
	Usage string
	Mode  preview.Mode
}

var (
	// HTTP is the plain HTTP preview server.
	HTTP = Variant{
		Name:  "pwapreview-http",
		Usage: "Serve the current directory over HTTP for phone previews",
		Mode:  preview.ModeHTTP,
	}

	// HTTPS is the self-signed HTTPS preview server with HTTP fallback.
	HTTPS = Variant{
		Name:  "pwapreview-https",
		Usage: "Serve the current directory over self-signed HTTPS for phone previews",
		Mode:  preview.ModeHTTPS,
	}
)

// New creates the CLI application for v.
func New(v Variant) *cli.App {
	return newApp(v, func(c *cli.Context) error {
		return run(c, v)
	})
}

func newApp(v Variant, action cli.ActionFunc) *cli.App {
	return &cli.App{
		Name:            v.Name,
		Usage:           v.Usage,
		Version:         buildinfo.String(),
		Flags:           globalFlags(),
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return fmt.Errorf("unexpected arguments: %v", c.Args().Slice())
			}
			return action(c)
		},
	}
}

// globalFlags returns the CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"PWAPREVIEW_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Directory to serve (default: current directory)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable coloured console output",
		},
		&cli.BoolFlag{
			Name:  "no-watch",
			Usage: "Disable the content watcher",
		},
	}
}

// overrides maps explicitly set flags onto configuration keys.
func overrides(c *cli.Context) map[string]any {
	values := make(map[string]any)
	if c.IsSet("root") {
		values["root"] = c.String("root")
	}
	if c.IsSet("log-level") {
		values["log.level"] = c.String("log-level")
	}
	if c.IsSet("log-format") {
		values["log.format"] = c.String("log-format")
	}
	if c.Bool("no-color") {
		values["console.color"] = false
	}
	if c.Bool("no-watch") {
		values["watch.enabled"] = false
	}
	return values
}

// loadConfig loads configuration from defaults, file, environment and flags.
func loadConfig(c *cli.Context) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides(c))}
	if file := c.String("config"); file != "" {
		opts = append(opts, confloader.WithConfigFile(file))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(c *cli.Context, v Variant) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	slogger := logger.Slog(log)

	log.Info("starting "+v.Name,
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"go", buildinfo.Get().GoVersion,
		"root", cfg.Root,
		"config", c.String("config"))

	ctx, stop := shutdown.WithSignals(c.Context)
	defer stop()

	out := console.New(c.App.Writer, cfg.Console.Color)
	metrics := metric.NewRegistry()
	hooks := shutdown.NewHandler(cfg.Server.ShutdownTimeout)

	if cfg.Metrics.Addr != "" {
		ms := fileserver.New(cfg.Metrics.Addr, metrics.Handler(),
			fileserver.WithLogger(slogger.With("listener", "metrics")))
		if err := ms.Listen(); err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		log.Info("metrics listening", "addr", ms.Addr().String())

		go func() {
			if err := ms.Serve(); err != nil {
				log.Error("metrics server error", "error", err)
			}
		}()
		hooks.OnShutdown(func(ctx context.Context) error {
			log.Debug("shutting down metrics listener")
			return ms.Shutdown(ctx)
		})
	}

	if cfg.Watch.Enabled {
		w, err := watch.New(cfg.Root,
			watch.WithLogger(slogger.With("component", "watch")),
			watch.WithDebounce(cfg.Watch.Debounce),
			watch.WithIgnore(cfg.Server.HTTPS.CertFile, cfg.Server.HTTPS.KeyFile),
			watch.WithOnChange(func(paths []string) {
				metrics.IncContentChanges()
				out.ContentChanged(paths, func(p string) bool {
					return fileserver.IsServiceWorker(path.Base(p))
				})
			}),
		)
		if err != nil {
			// Previews work without it; inotify limits are the usual cause.
			log.Warn("content watcher disabled", "error", err)
		} else {
			w.StartAsync()
			hooks.OnShutdown(func(context.Context) error {
				log.Debug("stopping content watcher")
				return w.Stop()
			})
		}
	}

	runErr := preview.New(cfg, preview.Deps{
		Console: out,
		Logger:  slogger,
		Metrics: metrics,
	}).Run(ctx, v.Mode)

	if err := hooks.Run(); err != nil {
		log.Warn("shutdown hooks failed", "error", err)
	}
	if runErr != nil {
		return runErr
	}

	log.Info(v.Name + " stopped")
	return nil
}
