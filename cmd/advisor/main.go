package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mdbplc/advisor"
	"github.com/mdbplc/advisor/common/logger"
	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/mcpserver"
	"github.com/mdbplc/advisor/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to yaml config file")
		mcpMode    = flag.Bool("mcp", false, "serve MCP tools over stdio instead of HTTP")
		devLog     = flag.Bool("dev", false, "human-readable console logging")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger.Init(cfg.Server.LogLevel)
	if *devLog {
		logger.UseDevelopment()
	}
	defer logger.Sync()

	client, err := advisor.New(context.Background(), cfg)
	if err != nil {
		logger.Errorf("startup failed: %v", err)
		os.Exit(1)
	}
	defer client.Close()

	if *mcpMode {
		if err := mcpserver.ServeStdio(client); err != nil {
			logger.Errorf("mcp server: %v", err)
			os.Exit(1)
		}
		return
	}

	logger.Infof("listening on %s", cfg.Server.Addr)
	if err := server.Run(client, cfg.Server); err != nil {
		logger.Errorf("http server: %v", err)
		os.Exit(1)
	}
}
