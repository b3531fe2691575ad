package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration for the application
type Config struct {
	// Game configuration
	Game GameConfig `json:"game"`

	// Oracle (generative backend) configuration
	Oracle OracleConfig `json:"oracle"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// GameConfig holds the simulation tunables
type GameConfig struct {
	// Save file for the career snapshot
	SavePath string `json:"save_path"`

	// Starting resources for a new career
	StartingMoney float64 `json:"starting_money"`
	StartingFans  int64   `json:"starting_fans"`

	// Starting skills
	StartingSongwriting int `json:"starting_songwriting"`
	StartingVocals      int `json:"starting_vocals"`
	StartingProduction  int `json:"starting_production"`
	StartingCharisma    int `json:"starting_charisma"`

	// Recording session costs
	StudioRent     float64 `json:"studio_rent"`
	GhostwriterFee float64 `json:"ghostwriter_fee"`
	FeatureFee     float64 `json:"feature_fee"`

	// Distribution costs
	ReleaseFee    float64 `json:"release_fee"`
	VideoFee      float64 `json:"video_fee"`
	MusicVideoFee float64 `json:"music_video_fee"`

	// Monthly probabilities (0-1)
	OfferProbability float64 `json:"offer_probability"`
	EventProbability float64 `json:"event_probability"`

	// Fan-interaction trigger: a release fan gain above the threshold may
	// spawn an interaction with InteractionProbability.
	InteractionThreshold   int64   `json:"interaction_threshold"`
	InteractionProbability float64 `json:"interaction_probability"`
}

// OracleConfig holds the generative backend settings
type OracleConfig struct {
	// Completions endpoint URL; empty disables the backend (fallbacks only)
	URL string `json:"url"`

	// API key for the endpoint
	APIKey string `json:"api_key"`

	// Model name
	Model string `json:"model"`

	// Per-call timeout in seconds
	TimeoutSeconds int `json:"timeout_seconds"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			SavePath:               "./data/career.json",
			StartingMoney:          5000,
			StartingFans:           100,
			StartingSongwriting:    30,
			StartingVocals:         30,
			StartingProduction:     25,
			StartingCharisma:       35,
			StudioRent:             500,
			GhostwriterFee:         1000,
			FeatureFee:             2000,
			ReleaseFee:             250,
			VideoFee:               1000,
			MusicVideoFee:          5000,
			OfferProbability:       0.6,
			EventProbability:       0.45,
			InteractionThreshold:   1000,
			InteractionProbability: 0.5,
		},
		Oracle: OracleConfig{
			URL:            "",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 10,
		},
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, nil
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
