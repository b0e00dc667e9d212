package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/folio/internal/clients/feed"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/niche"
	"github.com/bobmcallan/folio/internal/services/series"
	"github.com/bobmcallan/folio/internal/services/twr"
	"github.com/bobmcallan/folio/internal/storage"
)

// App holds all initialized services, clients, and the MCP server.
// It is the shared core used by cmd/folio-server and cmd/folio.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Blobs             *storage.FileBlobStore
	FeedClient        interfaces.FeedClient
	CalculatorService *twr.Service
	SeriesService     *series.Service
	NicheService      *niche.Service
	MCPServer         *server.MCPServer
	StartupTime       time.Time

	scheduler *Scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath checks the provided path, FOLIO_CONFIG, then the binary
// dir, then the development fallback.
func resolveConfigPath(configPath, binDir string) string {
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and initializes storage, clients, services and
// the MCP server. configPath may be empty.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()
	binDir := getBinaryDir()

	config, err := common.LoadConfig(resolveConfigPath(configPath, binDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative data path to binary directory
	if config.Series.DataDir != "" && !filepath.IsAbs(config.Series.DataDir) {
		config.Series.DataDir = filepath.Join(binDir, config.Series.DataDir)
	}

	return NewAppWithConfig(config, common.NewLoggerFromConfig(config.Logging))
}

// NewAppWithConfig wires an App from an already loaded config.
func NewAppWithConfig(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	blobs, err := storage.NewFileBlobStore(logger, &storage.FileBlobConfig{BasePath: config.Series.DataDir})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	feedClient := feed.NewClient(
		feed.WithLogger(logger),
		feed.WithRateLimit(config.Clients.Feed.RateLimit),
		feed.WithTimeout(config.Clients.Feed.GetTimeout()),
	)

	source := storage.NewSeriesSource(config.Series, blobs, feedClient)

	mcpServer := server.NewMCPServer(
		"folio",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:            config,
		Logger:            logger,
		Blobs:             blobs,
		FeedClient:        feedClient,
		CalculatorService: twr.NewService(logger),
		SeriesService:     series.NewService(source, config.Series.GetCacheTTL(), logger),
		NicheService:      niche.NewService(blobs, config.Niche.Catalog, logger),
		MCPServer:         mcpServer,
		StartupTime:       startupStart,
	}

	a.registerTools()

	logger.Info().
		Str("series_source", source.Name()).
		Str("data_dir", config.Series.DataDir).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// StartScheduler begins periodic series refreshes. An empty refresh
// schedule disables it.
func (a *App) StartScheduler() error {
	spec := a.Config.Series.RefreshSchedule
	if spec == "" {
		a.Logger.Info().Msg("Series refresh scheduler disabled")
		return nil
	}

	s := NewScheduler(context.Background(), a.Logger)
	if _, err := s.Add(spec, "series-refresh", a.refreshSeries); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	s.Start()
	a.scheduler = s
	return nil
}

func (a *App) refreshSeries(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Clients.Feed.GetTimeout()+5*time.Second)
	defer cancel()

	start := time.Now()
	if err := a.SeriesService.Refresh(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("Series refresh failed")
		return
	}
	a.Logger.Info().Dur("elapsed", time.Since(start)).Msg("Series refresh: complete")
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
}
