package main

import (
	"context"
	"fmt"
	"os"

	"searchlog/internal/cli"
	"searchlog/internal/config"
	"searchlog/internal/server"
	"searchlog/internal/terms"
)

func main() {
	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig(cfg.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config file %s: %v\n", cfg.ConfigFile, err)
		os.Exit(1)
	}

	open := func(ctx context.Context) (terms.Repository, func(), error) {
		return server.OpenStore(ctx, cfg)
	}

	if err := cli.NewRootCommand(open, yamlCfg.TermPolicy()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
