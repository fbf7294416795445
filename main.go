package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/mockapi"
	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/storage"
	"github.com/Zachkp/portfolio/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Serve the portfolio website and its admin panel",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetString("port")
		}
		if cmd.Flags().Changed("debug") {
			cfg.Server.Debug, _ = cmd.Flags().GetBool("debug")
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().String("port", "8080", "port to listen on (overrides PORT)")
	rootCmd.Flags().Bool("debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Stderr.WriteString("portfolio: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// app is everything the HTTP handlers need. It is built once by run.
type app struct {
	cfg      config.Config
	store    *store.Store
	db       *storage.Store
	registry *prometheus.Registry
	logger   *zap.Logger
}

// newApp wires the provider, storage, metrics and store together. The
// returned cleanup closes them in reverse order.
func newApp(cfg config.Config, logger *zap.Logger) (*app, func(), error) {
	seed, err := mockapi.LoadSeed(cfg.Portfolio.SeedPath)
	if err != nil {
		return nil, nil, err
	}
	provider := mockapi.New(seed, mockapi.WithDelays(cfg.Portfolio.FetchDelay, cfg.Portfolio.OpDelay))

	db, err := storage.Open(cfg.Storage.DBPath,
		storage.WithLogger(logger.Named("storage")),
		storage.WithJournalSize(cfg.Storage.JournalSize))
	if err != nil {
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	metrics, err := store.NewMetrics(registry, "portfolio")
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	st := store.New(
		store.WithLogger(logger.Named("store")),
		store.WithEffects(
			store.NewLoadEffect(provider, logger.Named("effects"), metrics),
			store.NewSyncEffect(provider, logger.Named("effects")),
		),
	)
	st.Subscribe(metrics.Observe)
	st.Subscribe(db.Observe)

	a := &app{cfg: cfg, store: st, db: db, registry: registry, logger: logger}
	cleanup := func() {
		st.Close()
		if err := db.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	}
	return a, cleanup, nil
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := newLogger(cfg.Server.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)

	a, cleanup, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Clean up old visitor data for privacy compliance (run in background)
	go a.cleanupOldVisitorData()

	if cfg.Portfolio.LoadOnStart {
		a.store.Dispatch(portfolio.LoadTriggered{})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("portfolio listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.SetHTMLTemplate(loadTemplates())
	r.Use(a.visitorTrackingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	// Home page route
	r.GET("/", func(c *gin.Context) {
		st := a.ensureLoaded()
		sel := a.store.Selectors()
		c.HTML(http.StatusOK, "index.html", gin.H{
			"tagline":  HeroTagline,
			"summary":  sel.Summary(st),
			"featured": sel.FeaturedProjects(st),
			"loading":  portfolio.SelectLoading(st),
			"error":    portfolio.SelectError(st),
		})
	})

	r.GET("/about", func(c *gin.Context) {
		st := a.ensureLoaded()
		sel := a.store.Selectors()
		c.HTML(http.StatusOK, "about.html", gin.H{
			"intro":    AboutIntro,
			"info":     st.PersonalInfo,
			"skills":   sel.SkillsByCategory(st),
			"featured": sel.FeaturedProjects(st),
			"summary":  sel.Summary(st),
			"loading":  portfolio.SelectLoading(st),
			"error":    portfolio.SelectError(st),
		})
	})

	// Refresh button on the public pages
	r.POST("/refresh", func(c *gin.Context) {
		a.store.Dispatch(portfolio.LoadTriggered{})
		c.Redirect(http.StatusSeeOther, safeRedirect(c.PostForm("next")))
	})

	a.setupAdminRoutes(r)

	// Anything else goes home
	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	return r
}

// ensureLoaded starts the first load when a page is rendered before any
// data arrived, and returns the current state.
func (a *app) ensureLoaded() *portfolio.State {
	st := a.store.State()
	if portfolio.SelectPersonalInfo(st) == nil && !portfolio.SelectLoading(st) && portfolio.SelectError(st) == "" {
		a.store.Dispatch(portfolio.LoadTriggered{})
		st = a.store.State()
	}
	return st
}

// safeRedirect only allows the site's own views as redirect targets.
func safeRedirect(next string) string {
	switch next {
	case "/", "/about", "/admin":
		return next
	}
	return "/"
}
