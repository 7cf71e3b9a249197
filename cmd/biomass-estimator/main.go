package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iwvelando/biomass-estimator/internal/config"
	"github.com/iwvelando/biomass-estimator/internal/logging"
	"github.com/iwvelando/biomass-estimator/internal/simulation"
	"github.com/iwvelando/biomass-estimator/internal/store"
	"github.com/iwvelando/biomass-estimator/pkg/constants"
	"github.com/iwvelando/biomass-estimator/pkg/output"
	"github.com/iwvelando/biomass-estimator/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Best-effort: a missing .env is normal outside development.
	_ = godotenv.Load()

	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	exportSection := flag.String("export", "", "print one table instead of the report: factory, risk, carbon, scenario, catalog")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	pitch := flag.Bool("pitch", false, "replace the inputs with the client pitch defaults")
	historyPath := flag.String("history", os.Getenv("BIOMASS_DB_PATH"), "record the run in this SQLite history file")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	section := strings.ToLower(strings.TrimSpace(*exportSection))
	if section != "" {
		if err := validation.ValidateSection(section); err != nil {
			logger.Fatal(err.Error(),
				zap.String("op", "main"),
			)
		}
	}

	// Validate configuration and display any warnings
	for _, warning := range prepareConfiguration(conf, *pitch) {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	sim, err := simulation.GetSimulation(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute simulation",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *historyPath != "" {
		recordRun(logger, *historyPath, conf, sim)
	}

	if section != "" {
		if err := output.WriteSection(os.Stdout, sim, section); err != nil {
			logger.Fatal("failed to export section",
				zap.String("op", "main"),
				zap.String("section", section),
				zap.Error(err),
			)
		}
		return
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, sim)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, sim)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(os.Stdout, sim)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// prepareConfiguration applies pitch mode before validating, so warnings only
// cover the inputs that are actually computed.
func prepareConfiguration(conf *config.Configuration, pitch bool) []string {
	if pitch {
		conf.PitchMode = true
	}
	conf.ApplyPitchMode()
	return conf.ValidateConfiguration()
}

// recordRun saves the simulation to the history database. Failures are
// logged; the report is still printed.
func recordRun(logger *zap.Logger, path string, conf *config.Configuration, sim simulation.Simulation) {
	ctx := context.Background()

	db, err := store.Open(path)
	if err != nil {
		logger.Error("failed to open run history", zap.String("op", "main.recordRun"), zap.Error(err))
		return
	}
	defer db.Close()

	if err := store.Migrate(ctx, db); err != nil {
		logger.Error("failed to migrate run history", zap.String("op", "main.recordRun"), zap.Error(err))
		return
	}

	run, err := store.NewRunStore(db, logger).Save(ctx, "cli", conf, sim)
	if err != nil {
		logger.Error("failed to record run", zap.String("op", "main.recordRun"), zap.Error(err))
		return
	}
	logger.Info("run recorded",
		zap.String("op", "main.recordRun"),
		zap.String("id", run.ID),
		zap.String("path", path),
	)
}
