package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the binary's settings. Values come from an optional YAML
// file (BINGO_CONFIG) with environment variables taking precedence.
type Config struct {
	ServerURL  string `yaml:"server_url"`
	PlayerName string `yaml:"player_name"`
	CardFile   string `yaml:"card_file"`
	StateAddr  string `yaml:"state_addr"`
	AutoPlay   bool   `yaml:"auto_play"`
}

func defaultConfig() Config {
	return Config{
		ServerURL: "ws://localhost:8000",
		StateAddr: ":8090",
	}
}

func loadConfig() (Config, error) {
	config := defaultConfig()

	if path := getEnv("BINGO_CONFIG", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.ServerURL = getEnv("BINGO_SERVER_URL", config.ServerURL)
	config.PlayerName = getEnv("BINGO_PLAYER_NAME", config.PlayerName)
	config.CardFile = getEnv("BINGO_CARD_FILE", config.CardFile)
	config.StateAddr = getEnv("BINGO_STATE_ADDR", config.StateAddr)
	config.AutoPlay = getEnvAsBool("BINGO_AUTOPLAY", config.AutoPlay)

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
