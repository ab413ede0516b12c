package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig     *AppConfig
	BrowserConfig *BrowserConfig
	APIConfig     *APIConfig
	ScraperConfig *ScraperConfig
}

type AppConfig struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	Debug          bool   `envconfig:"DEBUG" default:"false"`
	TracingEnabled bool   `envconfig:"TRACING_ENABLED" default:"false"`
	Console        bool   `envconfig:"CONSOLE_ENABLED" default:"true"`
}

type BrowserConfig struct {
	// CDPURL attaches to a Chrome started with --remote-debugging-port
	// instead of launching one.
	CDPURL      string `envconfig:"BROWSER_CDP_URL" default:"http://localhost:9222"`
	Headless    bool   `envconfig:"BROWSER_HEADLESS" default:"false"`
	SlowMo      int    `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout     int    `envconfig:"BROWSER_TIMEOUT" default:"30000"`
	UserDataDir string `envconfig:"BROWSER_USER_DATA_DIR" default:""`
	HighlightMS int    `envconfig:"BROWSER_HIGHLIGHT_MS" default:"3000"`
	StartURL    string `envconfig:"BROWSER_START_URL" default:""`
}

type APIConfig struct {
	Enabled bool   `envconfig:"API_ENABLED" default:"true"`
	Addr    string `envconfig:"API_ADDR" default:"localhost:8888"`
}

type ScraperConfig struct {
	ResultsDir    string `envconfig:"SCRAPER_RESULTS_DIR" default:"results"`
	CheckPreview  int    `envconfig:"SCRAPER_CHECK_PREVIEW" default:"5"`
	ScrapePreview int    `envconfig:"SCRAPER_SCRAPE_PREVIEW" default:"10"`
	TextLimit     int    `envconfig:"SCRAPER_TEXT_LIMIT" default:"100"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}
