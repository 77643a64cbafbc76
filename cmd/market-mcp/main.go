package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/market-mcp/internal/alphavantage"
	"github.com/bobmcallan/market-mcp/internal/common"
)

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// Config holds all market-mcp configuration.
type Config struct {
	Server       ServerConfig              `toml:"server"`
	AlphaVantage common.AlphaVantageConfig `toml:"alphavantage"`
	Logging      common.LoggingConfig      `toml:"logging"`
}

// newDefaultConfig returns a Config with sensible defaults.
func newDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name: "Market-MCP",
			Port: "4250",
		},
		AlphaVantage: common.AlphaVantageConfig{
			BaseURL:   alphavantage.DefaultBaseURL,
			RateLimit: alphavantage.DefaultRateLimit,
			Timeout:   "30s",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/market-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// loadConfig loads configuration from a TOML file with defaults and env overrides.
func loadConfig(path string) Config {
	cfg := newDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Failed to read config file %s: %v", path, err)
			}
			// File not found — use defaults
		} else {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				log.Fatalf("Failed to parse config file %s: %v", path, err)
			}
		}
	}

	// Apply environment overrides
	if base := os.Getenv("ALPHAVANTAGE_BASE_URL"); base != "" {
		cfg.AlphaVantage.BaseURL = base
	}
	if port := os.Getenv("MARKET_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if level := os.Getenv("MARKET_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	return cfg
}

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "market-mcp.toml", "Path to config file")
	flag.Parse()

	cfg := loadConfig(*configFile)

	// Load version
	common.LoadVersionFromFile()

	// Setup logging
	logger := common.NewLoggerFromConfig(cfg.Logging)

	// The key is resolved once here and injected; a missing key is not fatal
	// at startup — each tool invocation fails with a credential error instead.
	apiKey := cfg.AlphaVantage.ResolveAPIKey()
	if apiKey == "" {
		logger.Warn().Msg("ALPHAVANTAGE_API_KEY is not set; tool invocations will fail until it is provided")
	}

	opts := []alphavantage.ClientOption{
		alphavantage.WithLogger(logger),
		alphavantage.WithTimeout(cfg.AlphaVantage.GetTimeout()),
	}
	if cfg.AlphaVantage.BaseURL != "" {
		opts = append(opts, alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL))
	}
	if cfg.AlphaVantage.RateLimit > 0 {
		opts = append(opts, alphavantage.WithRateLimit(cfg.AlphaVantage.RateLimit))
	}
	client := alphavantage.NewClient(apiKey, opts...)

	// Create MCP server with tool definitions
	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register all MCP tools
	registerTools(mcpServer, client, logger)

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	log.Printf("Starting MCP Streamable HTTP on :%s", port)
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
