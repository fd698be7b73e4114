package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"ytspot/internal/server"
	"ytspot/internal/services"
	"ytspot/internal/shared"
)

const authTimeout = 2 * time.Minute

// SpotifyAuth performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization,
// exchanges the auth code for tokens and saves them to the token cache file.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd)

	creds := config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	spotifyService, err := services.NewSpotifyService(creds.Map(), config.Spotify.RequestsPerSecond)
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token, err := r.doOAuth(ctx, spotifyService)
	if err != nil {
		return err
	}

	tokenPath := config.Output.TokenPath()
	if err := shared.SaveToken(tokenPath, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	if err := spotifyService.Authenticate(ctx, token); err != nil {
		return fmt.Errorf("failed to verify credentials: %w", err)
	}
	r.spotify = spotifyService
	r.dest = spotifyService

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", tokenPath)
	r.writePlain("You can now use: ytspot migrate run\n")

	return nil
}

// SpotifySearch searches Spotify and prints candidates with their scores
// against the query.
func (r *Runner) SpotifySearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	r.reloadConfig(cmd)
	spotify, err := r.spotifyService(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("searching spotify", "query", query, "limit", limit)

	tracks, err := spotify.SearchTracks(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.ArtistList(), track.Name)
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
		r.writePlain("   URI: %s\n\n", track.URI)
	}

	return nil
}

// SpotifyPlaylists lists the authenticated user's playlists.
func (r *Runner) SpotifyPlaylists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.reloadConfig(cmd)
	spotify, err := r.spotifyService(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("listing spotify playlists with limit %v", limit)

	playlists, err := spotify.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, spotify *services.SpotifyService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	callback, err := server.NewCallbackServer(spotify.OAuthConfig(), state, r.logger)
	if err != nil {
		return nil, err
	}
	if err := callback.Start(); err != nil {
		return nil, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := callback.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	authURL := spotify.GetAuthURL(state)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", authTimeout)

	token, err := callback.Wait(ctx, authTimeout)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return token, nil
}
