// Command seoshop-orders lists the orders of one shop. Credentials come from the
// environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"github.com/jamslinger/seoshop"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	log "log/slog"
	"os"
	"os/signal"
	"time"
)

type config struct {
	AppKey           string `mapstructure:"app_key"`
	AppSecret        string `mapstructure:"app_secret"`
	ShopID           string `mapstructure:"shop_id"`
	Token            string `mapstructure:"token"`
	Language         string `mapstructure:"language"`
	BaseURL          string `mapstructure:"base_url"`
	Retries          int    `mapstructure:"retries"`
	RateLimitDelayMS int64  `mapstructure:"rate_limit_delay_ms"`
	LogLevel         string `mapstructure:"log_level"`
}

func loadConfig(envFile string) (*config, error) {
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.SetEnvPrefix("seoshop")
	v.SetDefault("app_key", "")
	v.SetDefault("app_secret", "")
	v.SetDefault("shop_id", "")
	v.SetDefault("token", "")
	v.SetDefault("language", seoshop.DefaultLanguage)
	v.SetDefault("base_url", seoshop.DefaultBaseURL)
	v.SetDefault("retries", seoshop.DefaultRetries)
	v.SetDefault("rate_limit_delay_ms", seoshop.DefaultRateLimitDelay.Milliseconds())
	v.SetDefault("log_level", "info")
	v.AutomaticEnv()

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.RateLimitDelayMS <= 0 {
		return nil, fmt.Errorf("invalid rate_limit_delay_ms (must be positive)")
	}
	return &cfg, nil
}

func main() {
	envFile := flag.String("env", ".env", "path of an optional .env file")
	endpoint := flag.String("endpoint", "/orders.json", "endpoint to fetch")
	flag.Parse()

	cfg, err := loadConfig(*envFile)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	var level log.Level
	if err = level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = log.LevelInfo
	}
	logger := log.New(log.NewTextHandler(os.Stderr, &log.HandlerOptions{Level: level}))

	client, err := seoshop.NewClient(
		&seoshop.Credentials{AppKey: cfg.AppKey, AppSecret: cfg.AppSecret},
		seoshop.WithBaseURL(cfg.BaseURL),
		seoshop.WithLanguage(cfg.Language),
		seoshop.WithRetry(cfg.Retries),
		seoshop.WithRateLimitDelay(time.Duration(cfg.RateLimitDelayMS)*time.Millisecond),
		seoshop.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := client.NewSession(cfg.ShopID, cfg.Token, cfg.Language)
	resp, err := client.Get(ctx, sess, *endpoint)
	if err != nil {
		logger.Error("request failed", "endpoint", *endpoint, "error", err)
		os.Exit(1)
	}
	var out any
	if err = resp.Decode(&out); err != nil {
		logger.Error("failed to decode response", "error", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(out); err != nil {
		logger.Error("failed to write output", "error", err)
		os.Exit(1)
	}
}
