package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/weavekit/pkg/agents"
	"github.com/platinummonkey/weavekit/pkg/config"
	"github.com/platinummonkey/weavekit/pkg/connection"
	"github.com/platinummonkey/weavekit/pkg/observability"
	"github.com/platinummonkey/weavekit/pkg/rbac"
)

// Version is reported to telemetry. Set at build time.
var Version = "dev"

// connectionFlags are shared by every command that talks to a database
type connectionFlags struct {
	url      *string
	apiKey   *string
	config   *string
	logLevel *string
}

func addConnectionFlags(fs *flag.FlagSet) *connectionFlags {
	return &connectionFlags{
		url:      fs.String("url", "", "Database URL (overrides WEAVIATE_URL)"),
		apiKey:   fs.String("api-key", "", "Database API key (overrides WEAVIATE_API_KEY)"),
		config:   fs.String("config", "", "Path to a YAML config file"),
		logLevel: fs.String("log-level", "", "Log level (overrides WEAVIATE_LOG_LEVEL)"),
	}
}

func (f *connectionFlags) load() (*config.Config, error) {
	return config.Load(*f.config, func(c *config.Config) {
		if *f.url != "" {
			c.Connection.URL = *f.url
		}
		if *f.apiKey != "" {
			c.Connection.APIKey = *f.apiKey
			c.Connection.OIDCClientID = ""
		}
		if *f.logLevel != "" {
			c.Observability.LogLevel = *f.logLevel
		}
	})
}

// runtime is everything a command needs to talk to a database
type runtime struct {
	cfg       *config.Config
	log       *logrus.Logger
	conn      *connection.HTTPConnection
	registry  *prometheus.Registry
	metrics   *observability.ClientMetrics
	telemetry *observability.Telemetry
}

// withRuntime loads configuration, connects and runs fn. Telemetry is
// flushed and metrics are pushed after fn returns.
func withRuntime(flags *connectionFlags, fn func(ctx context.Context, rt *runtime) error) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rt := &runtime{
		cfg: cfg,
		log: observability.NewLogger(cfg.LogLevel(), os.Stderr),
	}
	if cfg.Observability.MetricsEnabled {
		rt.registry = prometheus.NewRegistry()
		rt.metrics = observability.NewClientMetrics(rt.registry)
	}

	rt.telemetry, err = observability.SetupTelemetry(ctx, cfg.TelemetryOptions(Version), rt.log)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.conn, err = connection.New(ctx, cfg.ConnectionOptions(rt.log, rt.metrics))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	return fn(ctx, rt)
}

func (rt *runtime) close() {
	ctx := context.Background()
	if err := rt.telemetry.Shutdown(ctx); err != nil {
		rt.log.WithError(err).Warn("Failed to flush telemetry")
	}

	if rt.registry != nil && rt.cfg.Observability.MetricsPushURL != "" {
		err := push.New(rt.cfg.Observability.MetricsPushURL, "weavekit").
			Gatherer(rt.registry).
			PushContext(ctx)
		if err != nil {
			rt.log.WithError(err).Warn("Failed to push metrics")
		}
	}
}

func (rt *runtime) rbac() *rbac.Client {
	return rbac.NewClient(rt.conn,
		rbac.WithLogger(rt.log),
		rbac.WithRoleCache(rt.cfg.RBAC.RoleCacheSize, rt.cfg.RBAC.RoleCacheTTL),
	)
}

func (rt *runtime) agentOptions(timeout time.Duration) []agents.Option {
	return []agents.Option{
		agents.WithHost(rt.cfg.Agents.Host),
		agents.WithTimeout(timeout),
		agents.WithConcurrency(rt.cfg.Agents.Concurrency),
		agents.WithMetrics(rt.metrics),
		agents.WithLogger(rt.log),
	}
}

// writeJSON prints v as indented JSON
func writeJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// splitList splits a comma separated flag value
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// loadGrants reads a YAML (or JSON) grants file into permissions
func loadGrants(path string) ([]rbac.Permission, error) {
	if path == "" {
		return nil, fmt.Errorf("grants file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grants: %w", err)
	}

	var grants rbac.Grants
	if err := yaml.Unmarshal(data, &grants); err != nil {
		return nil, fmt.Errorf("failed to parse grants %s: %w", path, err)
	}

	perms := grants.Permissions()
	if len(perms) == 0 {
		return nil, fmt.Errorf("grants file %s selects no permissions", path)
	}
	return perms, nil
}
