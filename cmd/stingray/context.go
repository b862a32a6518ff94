package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/catalog"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/config"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/events"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/jellyfin"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/logging"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/metrics"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/profile"
)

// errNoCredentials is returned when neither the config nor the profile store
// holds a login.
var errNoCredentials = errors.New("no credentials: run 'stingray profile login' or set auth.user_id and auth.token")

// commandContext lazily builds the shared pieces a command needs and tears
// them down after it runs.
type commandContext struct {
	configFlag  *string
	profileFlag *string
	jsonFlag    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	logOnce  sync.Once
	logger   *slog.Logger
	logClose io.Closer

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	bus      *events.Bus
	store    *profile.Store
	server   *metrics.Server
}

func newCommandContext(configFlag, profileFlag *string, jsonFlag *bool) *commandContext {
	reg := prometheus.NewRegistry()
	return &commandContext{
		configFlag:  configFlag,
		profileFlag: profileFlag,
		jsonFlag:    jsonFlag,
		registry:    reg,
		metrics:     metrics.New(reg),
	}
}

func (c *commandContext) json() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// ensureConfig loads the config named by --config, or the discovered one.
// Without any file the defaults apply, which is enough for profile commands.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			discovered, err := config.Discover()
			if err != nil {
				c.config = config.Default()
				return
			}
			path = discovered
		}
		c.configPath = path
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.logOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logCfg := config.Default().Log
		if cfg != nil {
			logCfg = cfg.Log
		}
		logger, closer, err := logging.New(logCfg)
		if err != nil {
			logger = slog.Default()
			logger.Warn("falling back to default logger", "error", err)
			closer = nil
		}
		c.logger, c.logClose = logger, closer
	})
	return c.logger
}

func (c *commandContext) ensureBus() *events.Bus {
	if c.bus == nil {
		c.bus = events.NewBus(c.ensureLogger())
	}
	return c.bus
}

func (c *commandContext) ensureStore(ctx context.Context) (*profile.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := profile.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}
	c.store = store
	return store, nil
}

// credentials resolves the login: explicit auth config first, then the
// named profile, then the default profile.
func (c *commandContext) credentials(ctx context.Context) (serverURL, userID, token, deviceID string, err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", "", "", "", err
	}
	if cfg.Auth.UserID != "" && cfg.Auth.Token != "" {
		return cfg.Server.URL, cfg.Auth.UserID, cfg.Auth.Token, cfg.Server.DeviceID, nil
	}

	store, err := c.ensureStore(ctx)
	if err != nil {
		return "", "", "", "", err
	}
	name := strings.TrimSpace(*c.profileFlag)
	if name == "" {
		name = cfg.Auth.Profile
	}
	var p *profile.Profile
	if name != "" {
		p, err = store.Get(ctx, name)
	} else {
		p, err = store.Default(ctx)
	}
	if errors.Is(err, profile.ErrNotFound) {
		return "", "", "", "", errNoCredentials
	}
	if err != nil {
		return "", "", "", "", err
	}
	return p.ServerURL, p.UserID, p.Token, p.DeviceID, nil
}

// jellyfinClient builds an API client for serverURL with the configured
// transport settings. Extra options override the defaults.
func (c *commandContext) jellyfinClient(serverURL string, extra ...jellyfin.Option) (*jellyfin.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := []jellyfin.Option{
		jellyfin.WithLogger(c.ensureLogger()),
		jellyfin.WithHTTPClient(&http.Client{Timeout: cfg.Server.Timeout.Duration}),
		jellyfin.WithDevice(cfg.Server.DeviceName, cfg.Server.DeviceID),
		jellyfin.WithClientInfo(cfg.Server.ClientName, cfg.Server.ClientVersion),
		jellyfin.WithRetry(cfg.Server.RetryAttempts, 0),
	}
	return jellyfin.NewClient(serverURL, append(opts, extra...)...)
}

// authenticatedClient is jellyfinClient with the resolved login.
func (c *commandContext) authenticatedClient(ctx context.Context) (*jellyfin.Client, error) {
	serverURL, userID, token, deviceID, err := c.credentials(ctx)
	if err != nil {
		return nil, err
	}
	cfg, _ := c.ensureConfig()
	return c.jellyfinClient(serverURL,
		jellyfin.WithCredentials(userID, token),
		jellyfin.WithDevice(cfg.Server.DeviceName, deviceID),
	)
}

// newSyncer wires a Syncer to client with the configured limits, the shared
// bus and metrics.
func (c *commandContext) newSyncer(client catalog.Client) (*catalog.Syncer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := catalog.Options{
		Concurrency:   cfg.Sync.Concurrency,
		PageSize:      cfg.Sync.PageSize,
		ExcludedKinds: cfg.Sync.ExcludedCollectionKinds,
	}
	return catalog.NewSyncer(client, opts, c.ensureBus(), c.metrics, c.ensureLogger()), nil
}

// syncCatalog runs a full sync and returns the syncer. Library failures stay
// in their statuses; only a failed library list is an error.
func (c *commandContext) syncCatalog(ctx context.Context) (*catalog.Syncer, error) {
	client, err := c.authenticatedClient(ctx)
	if err != nil {
		return nil, err
	}
	syncer, err := c.newSyncer(client)
	if err != nil {
		return nil, err
	}
	c.startMetrics()
	if err := syncer.Sync(ctx); err != nil {
		return syncer, err
	}
	return syncer, nil
}

// startMetrics serves /metrics while the command runs when metrics.listen
// is set.
func (c *commandContext) startMetrics() {
	cfg, err := c.ensureConfig()
	if err != nil || cfg.Metrics.Listen == "" || c.server != nil {
		return
	}
	c.server = metrics.NewServer(cfg.Metrics.Listen, c.registry, c.ensureLogger())
	go func() { _ = c.server.Start() }()
}

// Close releases everything the command opened.
func (c *commandContext) Close() error {
	var errs []error
	if c.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, c.server.Shutdown(ctx))
		cancel()
		c.server = nil
	}
	if c.bus != nil {
		errs = append(errs, c.bus.Close())
		c.bus = nil
	}
	if c.store != nil {
		errs = append(errs, c.store.Close())
		c.store = nil
	}
	if c.logClose != nil {
		errs = append(errs, c.logClose.Close())
		c.logClose = nil
	}
	return errors.Join(errs...)
}
