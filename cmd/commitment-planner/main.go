// Package main implements the commitment-planner CLI: it solves commitment
// plans from a configuration file and serves the plan API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/commitment-planner/internal/config"
	"github.com/iwvelando/commitment-planner/internal/plan"
	"github.com/iwvelando/commitment-planner/internal/server"
	"github.com/iwvelando/commitment-planner/pkg/adapters"
	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/output"
	"github.com/iwvelando/commitment-planner/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "commitment-planner",
		Short: "Plan yearly private-market commitments under a liquidity constraint",
		Long: `commitment-planner decides how much capital to commit each year across
secondaries, buyout and venture funds so that projected cash never falls
below the outstanding unfunded commitments.`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newPlanCmd(), newValidateCmd(), newServeCmd())
	return rootCmd
}

func newPlanCmd() *cobra.Command {
	var configLocation, outputFormat, logLevel string
	var diagnostics bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Solve every active scenario and print the plans",
		Long: `Solve every active scenario of a configuration file.

Examples:
  # Pretty tables
  commitment-planner plan --config config.yaml

  # Machine-readable output
  commitment-planner plan --config config.yaml --output-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), cmd.OutOrStdout(), configLocation, outputFormat, logLevel, diagnostics)
		},
	}
	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json, yaml")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "include per-year search diagnostics")
	return cmd
}

func loadConfiguration(configLocation string) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(configLocation)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("configuration %s not found, start from a copy of %s: %w",
			configLocation, constants.ExampleConfigFile, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
	}
	return conf, nil
}

func runPlan(ctx context.Context, w io.Writer, configLocation, outputFormatFlag, logLevel string, diagnostics bool) error {
	conf, err := loadConfiguration(configLocation)
	if err != nil {
		return err
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runPlan"),
		)
	}

	results, err := plan.SolveScenarios(ctx, logger, adapters.ConfigToScenarios(conf), constants.DefaultScenarioConcurrency)
	if err != nil {
		logger.Error("failed to compute plan",
			zap.String("op", "main.runPlan"),
			zap.Error(err),
		)
		return err
	}

	return output.Write(w, outputFormat, results, diagnostics || conf.Output.Diagnostics)
}

func newValidateCmd() *cobra.Command {
	var configLocation string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file and list its warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), configLocation)
		},
	}
	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	return cmd
}

func runValidate(w io.Writer, configLocation string) error {
	conf, err := loadConfiguration(configLocation)
	if err != nil {
		return err
	}

	for _, scenario := range adapters.ConfigToScenarios(conf) {
		if err := plan.Validate(scenario.Input); err != nil {
			return fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) == 0 {
		_, err = fmt.Fprintf(w, "Configuration %s is valid\n", configLocation)
		return err
	}
	if _, err := fmt.Fprintf(w, "Configuration %s is valid with %d warning(s):\n", configLocation, len(warnings)); err != nil {
		return err
	}
	for _, warning := range warnings {
		if _, err := fmt.Fprintf(w, "  - %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}

func newServeCmd() *cobra.Command {
	var serverConfigLocation, address, maxUploadSize, logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plan API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, serverConfigLocation, address, maxUploadSize, logLevel)
		},
	}
	cmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	cmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "upload size limit override (e.g. 512KiB, 2MB)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	return cmd
}

func runServe(ctx context.Context, serverConfigLocation, address, maxUploadSize, logLevel string) error {
	cfg, err := server.LoadConfig(serverConfigLocation)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Address = address
	}
	if maxUploadSize != "" {
		size, err := server.ParseSize(maxUploadSize)
		if err != nil {
			return err
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := initializeLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.UploadSizeBytes(), cfg.ScenarioLimit, version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving plan API",
			zap.String("op", "main.runServe"),
			zap.String("address", cfg.Address),
			zap.String("maxUploadSize", cfg.MaxUploadSize),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down plan API",
		zap.String("op", "main.runServe"),
	)
	return srv.Shutdown(shutdownCtx)
}
