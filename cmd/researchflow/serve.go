package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/researchflow/a2a"
	"github.com/BaSui01/researchflow/agent"
	"github.com/BaSui01/researchflow/agent/research"
	"github.com/BaSui01/researchflow/config"
	"github.com/BaSui01/researchflow/coordinator"
	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/search"
	"github.com/BaSui01/researchflow/state"
)

// serviceNames maps the --service flag to agent URIs.
var serviceNames = map[string]string{
	"coordinator":        research.AgentIDCoordinator,
	"topic-refiner":      research.AgentIDTopicRefiner,
	"question-architect": research.AgentIDQuestionArchitect,
	"search-strategist":  research.AgentIDSearchStrategist,
	"data-analyst":       research.AgentIDDataAnalyst,
	"report-writer":      research.AgentIDReportWriter,
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	service := fs.String("service", "coordinator", "Service to run")
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	serviceURI, ok := serviceNames[*service]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown service: %s\n", *service)
		os.Exit(1)
	}

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.BuildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger = logger.With(zap.String("service", *service))

	store, err := state.NewRedisStore(cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to task store", zap.Error(err))
	}
	defer store.Close()

	var handler http.Handler
	if serviceURI == research.AgentIDCoordinator {
		handler, err = buildCoordinator(cfg, store, logger)
	} else {
		handler, err = buildAgent(serviceURI, cfg, store, logger)
	}
	if err != nil {
		logger.Fatal("failed to build service", zap.Error(err))
	}

	if err := serve(cfg, serviceURI, handler, logger); err != nil {
		logger.Fatal("service exited", zap.Error(err))
	}
}

func buildCoordinator(cfg *config.Config, store state.Store, logger *zap.Logger) (http.Handler, error) {
	metrics := coordinator.NewMetrics("researchflow", nil)
	c, err := coordinator.New(coordinator.Config{
		DefaultMaxIterations: cfg.Coordinator.MaxIterations,
		StepTimeout:          cfg.Coordinator.StepTimeout,
		SearchMaxResults:     cfg.Coordinator.SearchMaxResults,
		Logger:               logger,
	}, a2a.NewHTTPClient(nil), coordinator.NewDirectory(cfg.Agents), store, metrics)
	if err != nil {
		return nil, err
	}
	return coordinator.NewServer(c, store, logger), nil
}

func buildAgent(serviceURI string, cfg *config.Config, store state.Store, logger *zap.Logger) (http.Handler, error) {
	provider := llm.NewOpenAIProvider(cfg.LLM)

	var ag *agent.Agent
	switch serviceURI {
	case research.AgentIDTopicRefiner:
		ag = research.NewTopicRefiner(store, provider, logger)
	case research.AgentIDQuestionArchitect:
		ag = research.NewQuestionArchitect(store, provider, logger)
	case research.AgentIDSearchStrategist:
		searcher := search.NewDuckDuckGoProvider(cfg.Search)
		ag = research.NewSearchStrategist(store, provider, searcher, logger)
	case research.AgentIDDataAnalyst:
		ag = research.NewDataAnalyst(store, provider, logger)
	case research.AgentIDReportWriter:
		ag = research.NewReportWriter(store, provider, logger)
	default:
		return nil, fmt.Errorf("no agent for %s", serviceURI)
	}

	serverCfg := agent.DefaultServerConfig()
	serverCfg.Logger = logger
	return agent.NewServer(ag, serverCfg), nil
}

// serve runs the service listener, plus the metrics listener for the
// coordinator, until a shutdown signal arrives.
func serve(cfg *config.Config, serviceURI string, handler http.Handler, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := cfg.Server.Port
	if port == 0 {
		port = config.ServicePort(serviceURI)
	}
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	var metricsSrv *http.Server
	if serviceURI == research.AgentIDCoordinator && cfg.Coordinator.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Coordinator.MetricsPort),
			Handler: mux,
		}
		group.Go(func() error {
			logger.Info("metrics listening", zap.String("addr", metricsSrv.Addr))
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
