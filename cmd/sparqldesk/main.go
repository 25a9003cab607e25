// Package main provides the sparqldesk binary entry point.
// Sparqldesk maintains local caches of ontology elements fetched from
// SPARQL endpoints and exposes search, lookup, and refresh operations
// over them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/sparqldesk/sparqldesk/cache"
	"github.com/sparqldesk/sparqldesk/config"
	"github.com/sparqldesk/sparqldesk/ontology"
)

const (
	Version = "0.1.0"
	appName = "sparqldesk"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Ontology cache for SPARQL endpoints",
		Long: `Sparqldesk fetches classes, properties, and individuals from
configured SPARQL endpoints and keeps them in a local cache for
fast autocompletion-style search and IRI lookup.

Caches are stored in NATS JetStream KV, either on an embedded
server or an external one.`,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		fetchCmd(flags),
		statusCmd(flags),
		searchCmd(flags),
		lookupCmd(flags),
		invalidateCmd(flags),
		sweepCmd(flags),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	}
}

// setup loads configuration, configures logging, and starts the app.
// Callers must call App.Stop when done.
func setup(flags *globalFlags) (*App, *config.Config, error) {
	level := slog.LevelInfo
	switch strings.ToLower(flags.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFromFile(flags.configPath)
		if err == nil {
			err = cfg.Validate()
		}
	} else {
		cfg, err = config.NewLoader(logger).Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	app := NewApp(cfg, logger)
	if err := app.Start(context.Background()); err != nil {
		return nil, nil, err
	}
	return app, cfg, nil
}

func fetchCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch <backend-id>",
		Short: "Fetch or refresh the ontology cache for a backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Stop()

			backendID := args[0]
			unsubscribe := app.service.Subscribe(backendID, func(p cache.Progress) {
				switch p.Status {
				case cache.StatusLoading:
					if p.Kind != "" {
						fmt.Printf("  loading %-12s %d elements so far\n", p.Kind, p.Fetched)
					}
				case cache.StatusError:
					fmt.Printf("  error: %s\n", p.Message)
				}
			})
			defer unsubscribe()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			fmt.Printf("Fetching ontology from backend %q...\n", backendID)
			env, err := app.service.FetchCache(ctx, backendID, force)
			if err != nil {
				return err
			}
			printCacheSummary(env)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Refresh even if the cache is still valid")
	return cmd
}

func statusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status [backend-id]",
		Short: "Show cache validity for one or all backends",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cfg, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Stop()

			ids := make([]string, 0, len(cfg.Backends))
			if len(args) == 1 {
				ids = append(ids, args[0])
			} else {
				for i := range cfg.Backends {
					ids = append(ids, cfg.Backends[i].ID)
				}
				sort.Strings(ids)
			}

			for _, id := range ids {
				v, err := app.service.ValidateCache(cmd.Context(), id)
				if err != nil {
					fmt.Printf("%-20s error: %v\n", id, err)
					continue
				}
				switch {
				case !v.Exists:
					fmt.Printf("%-20s missing\n", id)
				case v.Stale:
					fmt.Printf("%-20s stale  (age %s, ttl %s)\n", id, v.Age.Round(time.Second), v.TTL)
				default:
					fmt.Printf("%-20s valid  (age %s, ttl %s)\n", id, v.Age.Round(time.Second), v.TTL)
				}
			}
			return nil
		},
	}
}

func searchCmd(flags *globalFlags) *cobra.Command {
	var (
		kinds         []string
		limit         int
		prefixOnly    bool
		caseSensitive bool
	)

	cmd := &cobra.Command{
		Use:   "search <backend-id> <query>",
		Short: "Search cached ontology elements",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Stop()

			opts := cache.Options{
				Query:         args[1],
				Limit:         limit,
				PrefixOnly:    prefixOnly,
				CaseSensitive: caseSensitive,
			}
			for _, k := range kinds {
				kind, ok := ontology.ParseKind(k)
				if !ok {
					return fmt.Errorf("unknown element type %q", k)
				}
				opts.Kinds = append(opts.Kinds, kind)
			}

			env, err := app.service.GetCache(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			results := app.service.Search(cmd.Context(), args[0], opts)
			if len(results) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, r := range results {
				base := r.Item.Base()
				name := base.IRI
				if prefixed, ok := env.PrefixedName(base.IRI); ok {
					name = prefixed
				}
				fmt.Printf("%-10s %-40s %s\n", r.Item.Kind(), name, base.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "type", nil, "Restrict to element types (class, property, individual)")
	cmd.Flags().IntVar(&limit, "limit", cache.DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&prefixOnly, "prefix", false, "Match prefixes only instead of substrings")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match case exactly")
	return cmd
}

func lookupCmd(flags *globalFlags) *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "lookup <backend-id> <iri>",
		Short: "Look up a cached element by IRI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Stop()

			var kind ontology.Kind
			if kindName != "" {
				var ok bool
				kind, ok = ontology.ParseKind(kindName)
				if !ok {
					return fmt.Errorf("unknown element type %q", kindName)
				}
			}

			backendID, iri := args[0], args[1]
			env, err := app.service.GetCache(cmd.Context(), backendID)
			if err != nil {
				return err
			}
			if strings.Contains(iri, ":") && !strings.Contains(iri, "://") {
				if expanded, ok := env.ExpandPrefixed(iri); ok {
					iri = expanded
				}
			}

			item := app.service.GetElementByIRI(cmd.Context(), backendID, iri, kind)
			if item == nil {
				return fmt.Errorf("no cached element with IRI %s", iri)
			}
			printItem(item, env)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "type", "", "Restrict to an element type (class, property, individual)")
	return cmd
}

func invalidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <backend-id>",
		Short: "Delete the cached ontology for a backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Stop()

			if err := app.service.Invalidate(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("cache for %s invalidated\n", args[0])
			return nil
		},
	}
}

func sweepCmd(flags *globalFlags) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the background refresh sweeper",
		Long: `Sweep periodically checks every configured backend and refreshes
caches that have gone stale. With --once a single pass runs and the
command exits; otherwise it keeps running until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cfg, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Stop()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			sweepOpts := []cache.SweeperOption{
				cache.WithInterval(cfg.Sweep.Interval),
				cache.WithRateLimit(cfg.Sweep.RateLimit),
			}
			if cfg.Sweep.Schedule != "" {
				sched, err := cache.ParseSchedule(cfg.Sweep.Schedule)
				if err != nil {
					return fmt.Errorf("parse sweep schedule: %w", err)
				}
				sweepOpts = append(sweepOpts, cache.WithSchedule(sched))
			}
			sweeper := cache.NewSweeper(app.service, app.registry, app.logger, sweepOpts...)

			if once {
				sweeper.Sweep(ctx)
				return nil
			}

			if cfg.Metrics.Listen != "" {
				go serveMetrics(ctx, cfg.Metrics.Listen, app.logger)
			}

			watchPath := flags.configPath
			if watchPath == "" {
				watchPath = config.ProjectConfigFile
			}
			watcher := config.NewWatcher(watchPath, app.logger, func(next *config.Config) {
				app.ApplyConfig(next)
			})
			go func() {
				if err := watcher.Run(ctx); err != nil {
					app.logger.Debug("config watch unavailable", slog.String("error", err.Error()))
				}
			}()

			app.logger.Info("sweeper running",
				slog.Duration("interval", cfg.Sweep.Interval),
				slog.String("schedule", cfg.Sweep.Schedule))
			sweeper.Run(ctx)
			app.logger.Info("sweeper stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run a single sweep pass and exit")
	return cmd
}

func serveMetrics(ctx context.Context, listen string, logger *slog.Logger) {
	reg := prometheus.NewRegistry()
	if err := cache.RegisterMetrics(reg); err != nil {
		logger.Warn("metrics registration failed", slog.String("error", err.Error()))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: listen, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", slog.String("addr", listen))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics endpoint failed", slog.String("error", err.Error()))
	}
}

func printCacheSummary(env *ontology.Cache) {
	md := env.Metadata
	fmt.Printf("cached %d elements for %s (classes=%d properties=%d individuals=%d, ~%d KB)\n",
		env.ElementCount(), md.BackendID,
		md.Stats.Classes, md.Stats.Properties, md.Stats.Individuals,
		md.Stats.SizeBytes/1024)
}

func printItem(item ontology.Item, env *ontology.Cache) {
	base := item.Base()
	fmt.Printf("IRI:        %s\n", base.IRI)
	if prefixed, ok := env.PrefixedName(base.IRI); ok {
		fmt.Printf("Prefixed:   %s\n", prefixed)
	}
	fmt.Printf("Type:       %s\n", item.Kind())
	if base.Label != "" {
		fmt.Printf("Label:      %s\n", base.Label)
	}
	if base.Description != "" {
		fmt.Printf("Description: %s\n", base.Description)
	}
	switch v := item.(type) {
	case *ontology.Property:
		fmt.Printf("Property:   %s\n", v.PropertyType)
		if len(v.Domain) > 0 {
			fmt.Printf("Domain:     %s\n", strings.Join(v.Domain, ", "))
		}
		if len(v.Range) > 0 {
			fmt.Printf("Range:      %s\n", strings.Join(v.Range, ", "))
		}
	case *ontology.Individual:
		if len(v.Classes) > 0 {
			fmt.Printf("Classes:    %s\n", strings.Join(v.Classes, ", "))
		}
	}
}
