package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ne3mer/supplychainweb/core"
	"github.com/ne3mer/supplychainweb/core/cluster"
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/internal/store"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "supplychain",
	Short:              "Score suppliers on environmental, social and governance performance.",
	Long:               `Supplychain turns supplier sustainability metrics into explainable ethical scores, risk levels and improvement plans.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setConfigSource points viper at --config or the default .supplychain.yaml locations.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".supplychain") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSource()

	// Set environment variable prefix
	viper.SetEnvPrefix("SUPPLYCHAIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("db-backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.DefaultLogFormat)
	viper.SetDefault("clustering.enabled", true)
	viper.SetDefault("server.port", contract.DefaultServerPort)
	viper.SetDefault("server.rate_limit", contract.DefaultRateLimit)
	viper.SetDefault("server.rate_burst", contract.DefaultRateBurst)
	viper.SetDefault("server.peer_cache_ttl", contract.DefaultPeerCacheTTL.String())
}

// sharedSetup unmarshals config, runs validation and opens the store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Swap the bootstrap logger for the configured one.
	if err := contract.InitLogger(cfg.Log); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := store.InitStores(cfg.DBBackend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// dbSetup loads the minimal configuration needed for store maintenance.
// It does not open the store, so migrate and clear work on broken schemas too.
func dbSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("db-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.DBBackend = backend
	cfg.DBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// dbSetupWrapper wraps dbSetup to provide PreRunE for db commands.
func dbSetupWrapper(_ *cobra.Command, _ []string) error {
	return dbSetup()
}

// readConfigFile loads the config file if one is present.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigSource()
	return readConfigFile()
}

// newService builds the scoring service on top of the initialized stores.
// It activates the requested or default weight preset and restores the last
// trained cluster model.
func newService(ctx context.Context) (*core.Service, error) {
	engine := core.NewEngine(cfg.Weights, cluster.New(cfg.ClusteringEnabled))
	svc := core.NewService(engine, store.Manager, cfg.Workers)

	source, err := svc.UsePreset(ctx, cfg.Preset, cfg.Weights)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("weights selected", zap.String("source", source))

	if cfg.ClusteringEnabled {
		loaded, err := svc.LoadClusterModel(ctx)
		if err != nil {
			contract.LogWarn("Failed to load cluster model", err)
		}
		zap.L().Debug("cluster model", zap.Bool("loaded", loaded))
	}
	return svc, nil
}

// mustService is newService for command Run funcs.
func mustService(ctx context.Context) *core.Service {
	svc, err := newService(ctx)
	if err != nil {
		contract.LogFatal("Failed to initialize scoring service", err)
	}
	return svc
}

// Execute runs the root command.
func Execute() error {
	// Commands log through zap before sharedSetup installs the configured logger.
	if err := contract.InitLogger(contract.LogConfig{Level: contract.DefaultLogLevel, Format: contract.DefaultLogFormat}); err != nil {
		return err
	}
	return rootCmd.Execute()
}
