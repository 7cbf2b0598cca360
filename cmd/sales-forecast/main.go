package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/iwvelando/sales-forecast/internal/orders"
	"github.com/iwvelando/sales-forecast/internal/server"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/output"
	"github.com/iwvelando/sales-forecast/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file, - for stdin")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, xlsx")
	outputFile := flag.String("output-file", "", "workbook path for xlsx output")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	startFlag := flag.String("start", "", "range start override (YYYY-MM-DD)")
	endFlag := flag.String("end", "", "range end override (YYYY-MM-DD)")
	serve := flag.Bool("serve", false, "serve the forecast API instead of printing a forecast")
	serverConfig := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	maxBodySize := flag.String("max-body-size", "", "request body limit override for -serve, e.g. 512K or 2MB")
	flag.Parse()

	// Secrets such as the orders DSN may live in a .env file.
	if err := godotenv.Load(constants.DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load %s\", \"error\": \"%v\"}\n", constants.DefaultEnvFile, err)
		os.Exit(1)
	}

	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	var srvConf *server.Config
	loggingConfig := conf.Logging
	if *serve {
		srvConf, err = server.LoadConfig(*serverConfig)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfig, err)
			os.Exit(1)
		}
		if err := applyBodySizeOverride(srvConf, *maxBodySize); err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid -max-body-size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		if srvConf.Logging != (config.LoggingConfig{}) {
			loggingConfig = srvConf.Logging
		}
	}

	logger, err := initializeLogger(loggingConfig, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	loc, err := conf.Location()
	if err != nil {
		logger.Fatal("failed to load timezone",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	source, err := orders.NewSource(logger, conf.Orders, loc)
	if err != nil {
		logger.Fatal("failed to open order source",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if closer, ok := source.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	opts := forecast.Options{Location: loc, Locale: conf.Locale}

	if *serve {
		store := server.NewStore(conf.Scenario)
		runner := forecast.NewRunner(logger, source, store, opts)
		if err := runServer(logger, srvConf, runner, store, loc, conf); err != nil {
			logger.Fatal("server stopped",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

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

	if *startFlag != "" {
		conf.Range.Start = *startFlag
	}
	if *endFlag != "" {
		conf.Range.End = *endFlag
	}
	rng, err := conf.DateRange(loc)
	if err != nil {
		logger.Fatal("invalid forecast range",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := forecast.NewRunner(logger, source, forecast.StaticScenario(conf.Scenario), opts)
	result, err := runner.Refresh(ctx, rng)
	if err != nil {
		logger.Fatal("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if err := writeResult(outputFormat, *outputFile, conf, result); err != nil {
		logger.Fatal("failed to write forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func writeResult(format, file string, conf *config.Configuration, result *forecast.Result) error {
	switch format {
	case constants.OutputFormatCSV:
		return output.CsvFormat(os.Stdout, result)
	case constants.OutputFormatXLSX:
		if file == "" {
			file = conf.Output.File
		}
		if file == "" {
			file = constants.DefaultXLSXFile
		}
		return output.SaveXLSX(file, result)
	default:
		return output.PrettyFormat(os.Stdout, result)
	}
}

func loadConfiguration(path string) (*config.Configuration, error) {
	if path == "-" {
		return config.LoadConfigurationFromReader(os.Stdin)
	}
	return config.LoadConfiguration(path)
}
