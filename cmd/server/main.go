package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"indexbench/pkg/api"
	"indexbench/pkg/config"
	"indexbench/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	degree := flag.Int("degree", 0, "Tree minimum degree (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *degree != 0 {
		cfg.Server.Degree = *degree
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	srv, err := api.NewServer(cfg.Server.Degree, nil, logger)
	if err != nil {
		logger.Fatal("create server", zap.Error(err))
	}
	if err := srv.Start(cfg.Server.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
