package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/enginewatch/internal/adapters/log"
	"github.com/bft-labs/enginewatch/internal/cliconfig"
	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/pkg/enginewatch"
	"github.com/bft-labs/enginewatch/plugins/socketwatch"
	"github.com/bft-labs/enginewatch/plugins/statusfile"
)

const helpDescription = `
Keep an eye on the local Docker Engine.

Highlights:
  - Reconnects with bounded backoff and notices a restarted engine quickly.
  - Turns engine events into immediate health checks.
  - Checks Docker Hub and Docker Desktop release feeds for updates.
  - Writes the latest status to a file for "enginewatch status".
`

var exampleUsage = strings.TrimSpace(`
  enginewatch
  enginewatch --host unix:///run/user/1000/docker.sock --log-level debug
  enginewatch --once --no-update-check
  enginewatch status --json
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return enginewatch.Version
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:          "enginewatch",
		Short:        "Watch the Docker Engine connection and report its status",
		Long:         strings.TrimSpace(helpDescription),
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			log = cliconfig.WithLevel(log, cfg.LogLevel)
			log.Debug().Interface("config", cfg).Msg("configuration")
			return run(cfg, log)
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.enginewatch/config.toml)")
	root.PersistentFlags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "state directory (default: $HOME/.enginewatch)")
	root.PersistentFlags().StringVar(&cfg.StatusFile, "status-file", cfg.StatusFile, "status file path (default: <state-dir>/status.json)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	root.Flags().StringVar(&cfg.Host, "host", cfg.Host, "engine address (default: DOCKER_HOST or the platform socket)")
	root.Flags().StringVar(&cfg.DaemonName, "daemon-name", cfg.DaemonName, "daemon name used in status messages")

	root.Flags().DurationVar(&cfg.RetryInterval, "retry-interval", cfg.RetryInterval, "reconnect attempt interval while disconnected")
	root.Flags().DurationVar(&cfg.HealthCheckInterval, "health-interval", cfg.HealthCheckInterval, "health check interval while connected")
	root.Flags().DurationVar(&cfg.UpdateCheckInterval, "update-interval", cfg.UpdateCheckInterval, "minimum spacing between update checks")
	root.Flags().DurationVar(&cfg.ConnectionTimeout, "connect-timeout", cfg.ConnectionTimeout, "timeout for each engine call")
	root.Flags().DurationVar(&cfg.UpdateCheckTimeout, "update-timeout", cfg.UpdateCheckTimeout, "timeout for each update lookup")
	root.Flags().IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "failures before switching to the fast retry delay")
	root.Flags().DurationVar(&cfg.BackoffBase, "backoff-base", cfg.BackoffBase, "backoff delay unit")
	root.Flags().IntVar(&cfg.BackoffCapExponent, "backoff-cap", cfg.BackoffCapExponent, "maximum backoff exponent")
	root.Flags().DurationVar(&cfg.FastRetryDelay, "fast-retry", cfg.FastRetryDelay, "retry delay once max-retries is reached")
	root.Flags().DurationVar(&cfg.StartupDelay, "startup-delay", cfg.StartupDelay, "delay before periodic checks start")

	root.Flags().StringVar(&cfg.EngineTagsURL, "engine-tags-url", cfg.EngineTagsURL, "engine release tags endpoint")
	root.Flags().StringVar(&cfg.CompanionUpdateURL, "companion-update-url", cfg.CompanionUpdateURL, "Docker Desktop update feed")
	root.Flags().StringVar(&cfg.CompanionInstallerURL, "companion-installer-url", cfg.CompanionInstallerURL, "Docker Desktop installer URL")
	for _, name := range []string{"engine-tags-url", "companion-update-url", "companion-installer-url"} {
		if err := root.Flags().MarkHidden(name); err != nil {
			log.Info().Err(err).Str("flag", name).Msg("failed to hide flag")
		}
	}
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout for update lookups")
	root.Flags().StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "user agent for update lookups")
	root.Flags().BoolVar(&cfg.NoUpdateCheck, "no-update-check", cfg.NoUpdateCheck, "disable update checks")
	root.Flags().BoolVar(&cfg.WatchSocket, "watch-socket", cfg.WatchSocket, "reconnect as soon as the engine socket appears")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "exit after the first definitive status")

	root.AddCommand(newStatusCommand(&cfg, &cfgPath))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("enginewatch")
		os.Exit(1)
	}
}

// loadConfig applies the config file and environment beneath the flags the
// user set explicitly, then validates.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}

func run(cfg cliconfig.Config, log zerolog.Logger) error {
	lock, err := acquireLock(cfg.LockFile)
	if err != nil {
		return err
	}
	defer releaseLock(lock, log)

	libCfg := enginewatch.Config{
		Host:               cfg.Host,
		Monitoring:         cfg.Monitoring(),
		Endpoints:          cfg.Endpoints(),
		HTTPTimeout:        cfg.HTTPTimeout,
		UserAgent:          cfg.UserAgent,
		DisableUpdateCheck: cfg.NoUpdateCheck,
	}

	opts := []enginewatch.Option{
		enginewatch.WithLogger(logAdapter.NewZerologLogger(log)),
		statusfile.WithStatusFile(statusfile.Config{Path: cfg.StatusFile}),
	}
	if cfg.WatchSocket {
		opts = append(opts, socketwatch.WithSocketWatch(socketwatch.DefaultConfig()))
	}

	w, err := enginewatch.New(libCfg, opts...)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sub := w.Subscribe()
	defer sub.Close()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	for done := false; !done; {
		select {
		case <-sigCh:
			log.Info().Msg("received signal, stopping...")
			done = true
		case snap, ok := <-sub.C:
			if !ok {
				done = true
				break
			}
			logSnapshot(log, snap)
			if cfg.Once && snap.ErrorText() != domain.InitializingMessage {
				done = true
			}
		}
	}

	if err := w.Stop(); err != nil {
		return fmt.Errorf("stop watcher: %w", err)
	}
	return nil
}

func logSnapshot(log zerolog.Logger, snap enginewatch.Snapshot) {
	lvl := zerolog.InfoLevel
	if !snap.Healthy() {
		lvl = zerolog.WarnLevel
	}
	ev := log.WithLevel(lvl).Bool("running", snap.IsRunning)
	if snap.EngineVersion != nil {
		ev = ev.Str("version", snap.EngineVersion.Version)
	}
	if snap.CompanionVersion != nil {
		ev = ev.Str("desktop", *snap.CompanionVersion)
	}
	if snap.ResourceCount != nil {
		ev = ev.Int32("containers", *snap.ResourceCount)
	}
	if snap.EngineUpdateAvailable != nil {
		ev = ev.Bool("engine_update", *snap.EngineUpdateAvailable)
	}
	if snap.CompanionUpdateAvailable != nil {
		ev = ev.Bool("desktop_update", *snap.CompanionUpdateAvailable)
	}
	if snap.Error != nil {
		ev = ev.Str("status", *snap.Error)
	}
	ev.Msg("engine status")
}
