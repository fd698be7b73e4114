package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Matching.Threshold != 85 {
			t.Errorf("expected threshold 85, got %d", config.Matching.Threshold)
		}

		if config.Matching.SearchLimit != 10 {
			t.Errorf("expected search limit 10, got %d", config.Matching.SearchLimit)
		}

		if config.Spotify.RequestsPerSecond != 0.5 {
			t.Errorf("expected 0.5 requests per second, got %f", config.Spotify.RequestsPerSecond)
		}

		if config.Spotify.MaxTracksPerAdd != 100 {
			t.Errorf("expected max tracks per add 100, got %d", config.Spotify.MaxTracksPerAdd)
		}

		if config.Database.Path != "ytspot.db" {
			t.Errorf("expected database path ytspot.db, got %s", config.Database.Path)
		}

		if config.Credentials.Spotify.RedirectURI != "http://localhost:8888/callback" {
			t.Errorf("unexpected redirect URI %s", config.Credentials.Spotify.RedirectURI)
		}

		if config.Output.DataDir != "data" {
			t.Errorf("expected data dir data, got %s", config.Output.DataDir)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.youtube]
api_key = "test_api_key"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[matching]
threshold = 90
search_limit = 5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Matching.Threshold != 90 {
			t.Errorf("expected threshold 90, got %d", config.Matching.Threshold)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "env_yt_key")
		t.Setenv("SPOTIFY_CLIENT_ID", "env_client_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")

		config := DefaultConfig()

		if config.Credentials.YouTube.APIKey != "env_yt_key" {
			t.Errorf("expected env youtube key, got %s", config.Credentials.YouTube.APIKey)
		}
		if config.Credentials.Spotify.ClientID != "env_client_id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.Credentials.YouTube.APIKey = ""
		config.Credentials.Spotify.ClientID = ""

		err := config.Validate()
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}

		config.Credentials.YouTube.APIKey = "key"
		config.Credentials.Spotify.ClientID = "id"
		config.Credentials.Spotify.ClientSecret = "secret"

		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("SaveConfig roundtrip", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Matching.Threshold = 92
		config.Output.DataDir = "elsewhere"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		if loaded.Matching.Threshold != 92 {
			t.Errorf("threshold = %d, want 92", loaded.Matching.Threshold)
		}
		if loaded.Output.DataDir != "elsewhere" {
			t.Errorf("data dir = %s, want elsewhere", loaded.Output.DataDir)
		}
	})

	t.Run("OutputPaths", func(t *testing.T) {
		output := OutputConfig{
			DataDir:     "data",
			FetchedFile: "fetched.csv",
			LogFile:     "run.log",
			TokenFile:   "token.json",
		}

		if got := output.FetchedPath(); got != filepath.Join("data", "fetched.csv") {
			t.Errorf("FetchedPath = %s", got)
		}
		if got := output.LogPath(); got != filepath.Join("data", "run.log") {
			t.Errorf("LogPath = %s", got)
		}
		if got := output.TokenPath(); got != filepath.Join("data", "token.json") {
			t.Errorf("TokenPath = %s", got)
		}
	})
}
