package action

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/exporter-toolkit/web"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/exporter"
	"github.com/promhippie/jenkins_client/pkg/internal/storage"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
	"github.com/promhippie/jenkins_client/pkg/middleware"
	"github.com/promhippie/jenkins_client/pkg/version"
)

// Server handles the server sub-command.
func Server(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Launching Jenkins Client",
		"version", version.String,
		"revision", version.Revision,
		"date", version.Date,
		"go", version.Go,
	)

	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	var gr run.Group

	{
		server := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      handler(cfg, logger, client),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: cfg.Server.Timeout,
		}

		gr.Add(func() error {
			logger.Info("Starting metrics server",
				"address", cfg.Server.Addr,
			)

			return web.ListenAndServe(
				server,
				&web.FlagConfig{
					WebListenAddresses: sliceP([]string{cfg.Server.Addr}),
					WebSystemdSocket:   boolP(false),
					WebConfigFile:      stringP(cfg.Server.Web),
				},
				logger,
			)
		}, func(reason error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Error("Failed to shutdown metrics server gracefully",
					"err", err,
				)

				return
			}

			logger.Info("Metrics server shutdown gracefully",
				"reason", reason,
			)
		})
	}

	if cfg.Collector.Builds {
		db, err := storage.NewSQLite(cfg.Collector.Database, logger)

		if err != nil {
			logger.Error("Failed to open database",
				"path", cfg.Collector.Database,
				"err", err,
			)

			return err
		}

		repo := storage.NewJobRepo(db, logger)
		collector := exporter.NewBuildCollector(client, repo, logger)
		registry.MustRegister(collector)

		{
			ctx, cancel := context.WithCancel(context.Background())

			gr.Add(func() error {
				return exporter.StartDiscovery(ctx, client, repo, cfg.Collector.Interval, logger)
			}, func(_ error) {
				cancel()
			})
		}

		{
			ctx, cancel := context.WithCancel(context.Background())

			gr.Add(func() error {
				return collector.Start(ctx, cfg.Collector.Interval)
			}, func(_ error) {
				cancel()
				db.Close()
			})
		}
	}

	{
		stop := make(chan os.Signal, 1)

		gr.Add(func() error {
			signal.Notify(stop, os.Interrupt)

			<-stop

			return nil
		}, func(_ error) {
			close(stop)
		})
	}

	return gr.Run()
}

// newClient initializes the typed client from the target configuration,
// resolving credential DSNs first.
func newClient(cfg *config.Config, logger *slog.Logger) (*jenkins.Client, error) {
	username, err := config.Value(cfg.Target.Username)

	if err != nil {
		logger.Error("Failed to load username",
			"err", err,
		)

		return nil, err
	}

	password, err := config.Value(cfg.Target.Password)

	if err != nil {
		logger.Error("Failed to load password",
			"err", err,
		)

		return nil, err
	}

	client, err := jenkins.NewClient(
		jenkins.WithEndpoint(cfg.Target.Address),
		jenkins.WithUsername(username),
		jenkins.WithPassword(password),
		jenkins.WithTimeout(cfg.Target.Timeout),
		jenkins.WithDepth(int(cfg.Target.Depth)),
		jenkins.WithLogger(logger),
	)

	if err != nil {
		logger.Error("Failed to initialize client",
			"address", cfg.Target.Address,
			"err", err,
		)

		return nil, err
	}

	return client, nil
}

func handler(cfg *config.Config, logger *slog.Logger, client *jenkins.Client) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer(logger))
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Timeout)
	mux.Use(middleware.Cache)

	if cfg.Server.Pprof {
		mux.Mount("/debug", middleware.Profiler())
	}

	if cfg.Collector.Jobs {
		logger.Debug("Job collector registered")

		registry.MustRegister(exporter.NewJobCollector(
			logger,
			client,
			requestFailures,
			requestDuration,
			cfg.Target,
		))
	}

	reg := promhttp.HandlerFor(
		registry,
		promhttp.HandlerOpts{
			ErrorLog: promLogger{logger},
		},
	)

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.Server.Path, http.StatusMovedPermanently)
	})

	mux.Route("/", func(root chi.Router) {
		root.Get(cfg.Server.Path, func(w http.ResponseWriter, r *http.Request) {
			reg.ServeHTTP(w, r)
		})

		root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)

			_, _ = io.WriteString(w, http.StatusText(http.StatusOK))
		})

		root.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)

			_, _ = io.WriteString(w, http.StatusText(http.StatusOK))
		})
	})

	return mux
}

func boolP(value bool) *bool {
	return &value
}

func stringP(value string) *string {
	return &value
}

func sliceP(value []string) *[]string {
	return &value
}
