// Spotify Web API implementation of [TrackDestination]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"ytspot/internal/models"
	"ytspot/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify caps playlist additions at 100 URIs per request.
	defaultMaxTracksPerAdd = 100

	playlistPageLimit = 50
)

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Country     string    `json:"country"`
	Product     string    `json:"product"`
	Followers   followers `json:"followers"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	URI         string `json:"uri"`
}

// SpotifyTrack represents a Spotify track as returned by the Web API.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	ExternalIDs  externalIDs     `json:"external_ids"`
	ExternalURLs externalURLs    `json:"external_urls"`
	Popularity   int             `json:"popularity"`
	URI          string          `json:"uri"`
}

// toModel converts a wire track into the neutral model type.
func (t SpotifyTrack) toModel() models.SpotifyTrack {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}

	return models.SpotifyTrack{
		ID:          t.ID,
		URI:         t.URI,
		Name:        t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		DurationMS:  t.DurationMS,
		ExternalURL: t.ExternalURLs.Spotify,
	}
}

// Owner identifies the owner of a playlist.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type simplePlaylistTracks struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Owner       Owner                `json:"owner"`
	Public      bool                 `json:"public"`
	Tracks      simplePlaylistTracks `json:"tracks"`
	URI         string               `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

type searchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements [TrackDestination] against the Spotify Web API.
//
// Uses [oauth2] for the authorization-code flow and paces every request
// through a rate limiter so sequential migrations stay inside API limits.
type SpotifyService struct {
	config          *oauth2.Config
	token           *oauth2.Token
	httpClient      *http.Client
	limiter         *rate.Limiter
	maxTracksPerAdd int
	userID          string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2
// credentials. requestsPerSecond bounds the request rate; zero or negative
// falls back to one request every two seconds, which matches the pacing the
// Web API tolerates for long playlist migrations.
func NewSpotifyService(credentials map[string]string, requestsPerSecond float64) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8888/callback"
	}

	if requestsPerSecond <= 0 {
		requestsPerSecond = 0.5
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-read-private",
			"playlist-modify-public",
			"playlist-modify-private",
			"user-library-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:          config,
		httpClient:      http.DefaultClient,
		limiter:         rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		maxTracksPerAdd: defaultMaxTracksPerAdd,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// SetMaxTracksPerAdd overrides the add-items batch size. The Web API rejects
// more than 100 URIs per request, so larger values are clamped.
func (s *SpotifyService) SetMaxTracksPerAdd(max int) {
	if max <= 0 || max > defaultMaxTracksPerAdd {
		max = defaultMaxTracksPerAdd
	}
	s.maxTracksPerAdd = max
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the underlying OAuth2 config for the callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// Authenticate installs a token previously obtained via the authorization
// flow. The HTTP client returned by the config refreshes it as needed.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}

	s.token = token
	s.httpClient = s.config.Client(ctx, token)
	s.userID = ""
	return nil
}

// doRequest performs an authenticated, rate-limited HTTP request against the
// Spotify API, encoding body as JSON when non-nil and decoding the response
// into result when non-nil.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	apiURL := spotifyBaseURL + endpoint

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// currentUserID fetches and caches the authenticated user's ID.
func (s *SpotifyService) currentUserID(ctx context.Context) (string, error) {
	if s.userID != "" {
		return s.userID, nil
	}

	user, err := s.UserProfile(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user profile: %w", err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("%w: empty user id in profile", shared.ErrAPIRequest)
	}

	s.userID = user.ID
	return s.userID, nil
}

// SearchTracks searches Spotify for tracks matching the query and returns up
// to limit candidates.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.SpotifyTrack, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.SpotifyTrack, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		tracks = append(tracks, item.toModel())
	}

	return tracks, nil
}

// UserPlaylists retrieves one page of the current user's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context, limit, offset int) (*SpotifyPaginatedPlaylists, error) {
	if limit <= 0 || limit > playlistPageLimit {
		limit = playlistPageLimit
	}

	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetPlaylists retrieves all playlists for the authenticated user, walking
// the pagination.
func (s *SpotifyService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var all []models.Playlist
	offset := 0

	for {
		response, err := s.UserPlaylists(ctx, playlistPageLimit, offset)
		if err != nil {
			return nil, err
		}

		for _, sp := range response.Items {
			all = append(all, models.Playlist{
				ID:          sp.ID,
				Name:        sp.Name,
				Description: sp.Description,
				TrackCount:  sp.Tracks.Total,
				Public:      sp.Public,
			})
		}

		if response.Next == nil || len(response.Items) == 0 {
			break
		}
		offset += playlistPageLimit
	}

	return all, nil
}

// CreateOrGetPlaylist finds a playlist owned by the current user with the
// given name, or creates it when absent.
func (s *SpotifyService) CreateOrGetPlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty playlist name", shared.ErrInvalidArgument)
	}

	userID, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	offset := 0
	for {
		response, err := s.UserPlaylists(ctx, playlistPageLimit, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list playlists: %w", err)
		}

		for _, sp := range response.Items {
			if sp.Name == name && sp.Owner.ID == userID {
				return &models.Playlist{
					ID:          sp.ID,
					Name:        sp.Name,
					Description: sp.Description,
					TrackCount:  sp.Tracks.Total,
					Public:      sp.Public,
				}, nil
			}
		}

		if response.Next == nil || len(response.Items) == 0 {
			break
		}
		offset += playlistPageLimit
	}

	createReq := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Public      bool   `json:"public"`
	}{Name: name, Description: description, Public: public}

	var created SpotifySimplePlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, createReq, &created); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	return &models.Playlist{
		ID:          created.ID,
		Name:        created.Name,
		Description: created.Description,
		Public:      created.Public,
	}, nil
}

// AddTracks appends the given track URIs to a playlist in batches of at most
// 100 per request.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: empty playlist id", shared.ErrInvalidArgument)
	}
	if len(uris) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(uris); start += s.maxTracksPerAdd {
		end := start + s.maxTracksPerAdd
		if end > len(uris) {
			end = len(uris)
		}

		addReq := struct {
			URIs []string `json:"uris"`
		}{URIs: uris[start:end]}

		if err := s.doRequest(ctx, http.MethodPost, endpoint, addReq, nil); err != nil {
			return fmt.Errorf("failed to add tracks %d-%d: %w", start, end-1, err)
		}
	}

	return nil
}
