package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"hretl/internal/config"
	"hretl/internal/logging"
)

// Exit codes. Partial means the CSV artifact was produced but the warehouse
// step did not complete while enabled.
const (
	exitOK      = 0
	exitFatal   = 1
	exitPartial = 2
)

// main is the entry point for the consolidation binary. It loads the pipeline
// config, validates it, and executes the run.
func main() {
	var (
		cfgPath  string
		validate bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipeline.yaml", "pipeline config YAML path")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	log := logging.New(*verbose)

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Error("configuration is invalid", "path", cfgPath)
		os.Exit(exitFatal)
	}
	if validate {
		log.Info("configuration is valid", "path", cfgPath)
		os.Exit(exitOK)
	}

	start := time.Now()
	code := run(context.Background(), p, log)
	log.Info("run finished",
		"elapsed", time.Since(start).Truncate(time.Millisecond), "exit", code)
	os.Exit(code)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(exitFatal)
}
