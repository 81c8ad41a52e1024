package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/serisow/lesocle-seeder/cli"
	"github.com/serisow/lesocle-seeder/config"
	"github.com/serisow/lesocle-seeder/logging"
	"github.com/serisow/lesocle-seeder/pipeline"
	"github.com/serisow/lesocle-seeder/pipeline_type"
	"github.com/serisow/lesocle-seeder/plugin_registry"
)

func main() {
	batch := flag.Bool("batch", false, "run the seeding plan once and exit")
	planFile := flag.String("plan", "", "YAML seeding plan for batch mode (default: SEED_PLAN, else domain + auth)")
	list := flag.Bool("list", false, "print the registered step types and exit")
	flag.Parse()

	// -list never authenticates, so it needs no credentials.
	load := config.Load
	if *list {
		load = config.LoadSettings
	}
	cfg, err := load()
	if err != nil {
		config.Exitf("Configuration error: %v", err)
	}

	interactive := !*batch && !*list && isatty.IsTerminal(os.Stdin.Fd())

	// Logs go to stderr while the menu owns stdout.
	var console io.Writer = os.Stdout
	if interactive {
		console = os.Stderr
	}
	logger, fileHandler, err := initLogger(cfg, console)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	registry := plugin_registry.NewPluginRegistry()
	if err := cli.RegisterStepTypes(registry, cfg, logger); err != nil {
		fileHandler.Close()
		config.Exitf("%v", err)
	}

	if *list {
		for _, name := range registry.StepTypes() {
			fmt.Printf("%-24s %s\n", name, registry.Description(name))
		}
		fileHandler.Close()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := cli.NewSession(cfg, registry, os.Stdout, logger)

	if !interactive {
		if !*batch {
			logger.Info("stdin is not a terminal, running in batch mode")
		}
		plan, err := loadPlan(*planFile, cfg.PlanFile)
		if err != nil {
			fileHandler.Close()
			config.Exitf("%v", err)
		}
		code := cli.RunBatch(ctx, session, plan)
		fileHandler.Close()
		os.Exit(code)
	}

	logger.Info("interactive session started",
		slog.String("api", cfg.APIBaseURL),
		slog.String("credentials", cfg.CredentialSource()))

	go func() {
		<-ctx.Done()
		cli.Interrupted(os.Stdout)
		fileHandler.Close()
		os.Exit(0)
	}()

	code := cli.RunInteractive(ctx, session, cli.PromptUI{})
	fileHandler.Close()
	os.Exit(code)
}

func loadPlan(flagPath, envPath string) (*pipeline_type.Pipeline, error) {
	path := flagPath
	if path == "" {
		path = envPath
	}
	if path == "" {
		return pipeline.DefaultPlan(), nil
	}
	return pipeline.LoadPlan(path)
}

func initLogger(cfg config.Config, console io.Writer) (*slog.Logger, *logging.DailyFileHandler, error) {
	logger, handler, err := logging.New(cfg.LogDir, cfg.Verbose, console)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, handler, nil
}
