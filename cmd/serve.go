package cmd

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/twiced-technology-gmbh/taskwatch/internal/api"
	"github.com/twiced-technology-gmbh/taskwatch/internal/config"
	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
	"github.com/twiced-technology-gmbh/taskwatch/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the task directory and serve it over HTTP",
	Long: `Starts the poll engine and the HTTP API.

Settings are read from flags, then TASKWATCH_* environment variables
(TASKWATCH_ADDR, TASKWATCH_DIRECTORY, TASKWATCH_INTERVAL, TASKWATCH_WATCH,
TASKWATCH_CORS_ORIGIN), then the config file. Without a directory the API
answers 503 until one is set with POST /api/config/directory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().Duration("interval", 0, "poll interval (default from config)")
	serveCmd.Flags().Bool("watch", false, "trigger a poll when files in the directory change")
	serveCmd.Flags().StringSlice("cors-origin", []string{config.DefaultCORSOrigin}, "allowed browser origins")
	rootCmd.AddCommand(serveCmd)
}

// serveSettings is the resolved configuration of the serve command.
type serveSettings struct {
	Addr        string
	Directory   string
	Interval    time.Duration
	Watch       bool
	CORSOrigins []string
}

// loadServeSettings layers flags over TASKWATCH_* env over the config file.
func loadServeSettings(cmd *cobra.Command, cfg config.Config) (serveSettings, error) {
	v := viper.New()
	v.SetEnvPrefix("TASKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("directory", cfg.Dir())
	v.SetDefault("interval", cfg.Interval())

	bindings := map[string]string{
		"addr":        "addr",
		"interval":    "interval",
		"watch":       "watch",
		"cors-origin": "cors-origin",
		"directory":   "dir",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flag(flag)); err != nil {
			return serveSettings{}, err
		}
	}

	s := serveSettings{
		Addr:        v.GetString("addr"),
		Directory:   v.GetString("directory"),
		Interval:    v.GetDuration("interval"),
		Watch:       v.GetBool("watch"),
		CORSOrigins: splitList(v.GetStringSlice("cors-origin")),
	}
	if s.Interval <= 0 {
		s.Interval = cfg.Interval()
	}
	if s.Directory != "" {
		dir, err := config.ValidateDirectory(s.Directory)
		if err != nil {
			return serveSettings{}, err
		}
		s.Directory = dir
	}
	return s, nil
}

// splitList flattens comma-separated entries, as they arrive from env vars.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	settings, err := loadServeSettings(cmd, store.Load())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := poll.New(poll.Options{
		Directory: settings.Directory,
		Interval:  settings.Interval,
		Logger:    logger,
		Metrics:   poll.MustNewMetrics(reg),
	})
	engine.Start()
	defer engine.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var apiEngine api.Engine = engine
	if settings.Watch {
		followed := newFollowingEngine(engine)
		go followed.watch(ctx, settings.Directory)
		apiEngine = followed
	}

	logger.Info("serving", "addr", settings.Addr, "directory", settings.Directory,
		"interval", settings.Interval, "watch", settings.Watch)

	srv := api.New(api.Options{
		Engine:      apiEngine,
		Store:       store,
		Logger:      logger,
		Gatherer:    reg,
		CORSOrigins: settings.CORSOrigins,
	})
	return srv.ListenAndServe(ctx, settings.Addr)
}

// followingEngine moves the file watcher along when the API resets the
// engine to a new directory.
type followingEngine struct {
	*poll.Engine
	dirs chan string
}

func newFollowingEngine(e *poll.Engine) *followingEngine {
	return &followingEngine{Engine: e, dirs: make(chan string, 1)}
}

// Reset implements api.Engine.
func (f *followingEngine) Reset(dir string, interval time.Duration) {
	f.Engine.Reset(dir, interval)
	// Only the latest directory matters.
	select {
	case <-f.dirs:
	default:
	}
	f.dirs <- dir
}

func (f *followingEngine) watch(ctx context.Context, dir string) {
	for {
		wctx, cancel := context.WithCancel(ctx)
		if dir != "" {
			w, err := watcher.New(dir, f.Trigger)
			if err != nil {
				logger.Warn("file watcher unavailable", "directory", dir, "error", err)
			} else {
				logger.Debug("watching directory", "directory", dir)
				go func() {
					defer w.Close()
					w.Run(wctx, func(err error) {
						logger.Warn("file watcher", "error", err)
					})
				}()
			}
		}

		select {
		case <-ctx.Done():
			cancel()
			return
		case dir = <-f.dirs:
			cancel()
		}
	}
}
