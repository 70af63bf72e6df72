package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ne3mer/supplychainweb/core"
	"github.com/ne3mer/supplychainweb/internal/api"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
)

// longRunningService builds a service that memoizes the peer collection for
// the configured TTL. A zero TTL disables the memo.
func longRunningService(source string) (*core.Service, error) {
	svc, err := newService(rootCtx)
	if err != nil {
		return nil, err
	}
	svc.Source = source
	if ttl := cfg.Server.PeerCacheTTL; ttl > 0 {
		svc.Cache = cache.New(ttl, 2*ttl)
	}
	return svc, nil
}

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the supplier scoring HTTP API",
	Long: `Serve the scoring engine over HTTP with JSON request and response bodies.

Routes:
  GET    /health
  GET    /api/status, /api/dashboard, /api/top, /api/weights
  GET    /api/suppliers                       list (industry, country, risk_level, limit)
  POST   /api/suppliers                       create and score
  POST   /api/suppliers/evaluate              score, store unless ?dry_run=true
  POST   /api/suppliers/rescore               rescore all
  GET    /api/suppliers/{id}                  show
  PUT    /api/suppliers/{id}                  replace metrics and rescore
  DELETE /api/suppliers/{id}
  GET    /api/suppliers/{id}/analysis, /recommendations, /explanation, /reports
  POST   /api/suppliers/{id}/simulate, /rescore
  GET    /api/suppliers/{id}/controversies, /media   (POST to record)
  GET    /api/presets, POST /api/presets, GET|DELETE /api/presets/{name}
  PUT    /api/presets/{name}/default
  GET    /api/cluster, POST /api/cluster/train

The server section of the config file sets the port, the per-second rate limit,
the burst size and how long the peer snapshot is cached.

Examples:
  supplychain serve
  SUPPLYCHAIN_LOG_FORMAT=json supplychain serve --db-backend postgresql --db-connect "host=db dbname=esg"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := longRunningService("api")
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.NewServer(svc, cfg).ListenAndServe(ctx)
	},
}
