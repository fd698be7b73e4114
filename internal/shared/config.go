package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Matching    MatchingConfig    `toml:"matching"`
	Spotify     SpotifyAPIConfig  `toml:"spotify"`
	YouTube     YouTubeAPIConfig  `toml:"youtube"`
	Database    DatabaseConfig    `toml:"database"`
	Output      OutputConfig      `toml:"output"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	YouTube YouTubeCredentials `toml:"youtube"`
	Spotify SpotifyCredentials `toml:"spotify"`
}

// YouTubeCredentials contains the YouTube Data API key.
type YouTubeCredentials struct {
	APIKey string `toml:"api_key"`
}

// SpotifyCredentials contains Spotify OAuth2 application credentials.
type SpotifyCredentials struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Map converts the Spotify credentials into the map form expected by service constructors.
func (s SpotifyCredentials) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// MatchingConfig contains fuzzy matching settings.
type MatchingConfig struct {
	// Threshold is the minimum similarity score (0-100) for a Spotify
	// search result to be accepted as a match.
	Threshold int `toml:"threshold"`
	// SearchLimit is the number of candidates requested per Spotify search.
	SearchLimit int `toml:"search_limit"`
}

// SpotifyAPIConfig contains Spotify Web API pacing and batching settings.
type SpotifyAPIConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxTracksPerAdd   int     `toml:"max_tracks_per_add"`
}

// YouTubeAPIConfig contains YouTube Data API settings.
type YouTubeAPIConfig struct {
	PageSize int64 `toml:"page_size"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// OutputConfig contains data directory and report file settings.
type OutputConfig struct {
	DataDir      string `toml:"data_dir"`
	FetchedFile  string `toml:"fetched_file"`
	MigratedFile string `toml:"migrated_file"`
	NotFoundFile string `toml:"not_found_file"`
	LogFile      string `toml:"log_file"`
	TokenFile    string `toml:"token_file"`
}

// FetchedPath returns the full path of the fetched-songs CSV report.
func (o OutputConfig) FetchedPath() string { return filepath.Join(o.DataDir, o.FetchedFile) }

// MigratedPath returns the full path of the migrated CSV report.
func (o OutputConfig) MigratedPath() string { return filepath.Join(o.DataDir, o.MigratedFile) }

// NotFoundPath returns the full path of the not-found CSV report.
func (o OutputConfig) NotFoundPath() string { return filepath.Join(o.DataDir, o.NotFoundFile) }

// LogPath returns the full path of the application log file.
func (o OutputConfig) LogPath() string { return filepath.Join(o.DataDir, o.LogFile) }

// TokenPath returns the full path of the Spotify token cache file.
func (o OutputConfig) TokenPath() string { return filepath.Join(o.DataDir, o.TokenFile) }

// EnsureDataDir creates the data directory if it does not exist.
func (o OutputConfig) EnsureDataDir() error {
	if err := os.MkdirAll(o.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", o.DataDir, err)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Credentials found in a .env file or the process environment override the
// file values, matching how the migrator was originally configured.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnvOverrides()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnvOverrides()
	return &config
}

// applyEnvOverrides loads .env (if present) and overrides credentials from
// the environment.
func (c *Config) applyEnvOverrides() {
	_ = godotenv.Load()

	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.Credentials.YouTube.APIKey = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Credentials.Spotify.RedirectURI = v
	}
}

// Validate checks that credentials required for a migration run are present.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.YouTube.APIKey == "" {
		missing = append(missing, "youtube api_key")
	}
	if c.Credentials.Spotify.ClientID == "" {
		missing = append(missing, "spotify client_id")
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		missing = append(missing, "spotify client_secret")
	}
	if c.Credentials.Spotify.RedirectURI == "" {
		missing = append(missing, "spotify redirect_uri")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingCredentials, missing)
	}
	return nil
}

// SaveConfig writes the configuration to the specified path as TOML.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
