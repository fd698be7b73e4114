// YouTube Data API v3 implementation of [PlaylistSource]
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"ytspot/internal/match"
	"ytspot/internal/models"
	"ytspot/internal/shared"
)

const (
	watchURLFormat = "https://www.youtube.com/watch?v=%s"

	// YouTube Data API caps playlistItems.list at 50 results per page.
	maxPageSize = 50
)

// YouTubeService implements [PlaylistSource] using the YouTube Data API v3
// with API-key authentication.
type YouTubeService struct {
	service  *youtube.Service
	pageSize int64
}

// NewYouTubeService creates a YouTube Data API client with the given API key.
func NewYouTubeService(ctx context.Context, apiKey string, pageSize int64) (*YouTubeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: YouTube API key is required", shared.ErrMissingCredentials)
	}

	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to build YouTube API service: %w", err)
	}

	return &YouTubeService{service: service, pageSize: pageSize}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// PlaylistItems fetches all video items from the given playlist ID, walking
// the API pagination. Video titles are cleaned and parsed into candidate
// artist/song pairs.
//
// Entries without a video ID or title, and "Private video"/"Deleted video"
// placeholders, are skipped.
func (y *YouTubeService) PlaylistItems(ctx context.Context, playlistID string) ([]models.YouTubeSong, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: empty playlist id", shared.ErrInvalidArgument)
	}

	var songs []models.YouTubeSong
	pageToken := ""

	for {
		call := y.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(y.pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Context(ctx).Do()
		if err != nil {
			var apiErr *googleapi.Error
			if errors.As(err, &apiErr) && apiErr.Code == 404 {
				return nil, fmt.Errorf("%w: YouTube playlist %s", shared.ErrPlaylistNotFound, playlistID)
			}
			return nil, fmt.Errorf("%w: playlist items fetch: %v", shared.ErrAPIRequest, err)
		}

		for _, item := range response.Items {
			song, ok := songFromItem(item)
			if ok {
				songs = append(songs, song)
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return songs, nil
}

// songFromItem converts a playlist item into a parsed song. Returns false
// when the item should be skipped.
func songFromItem(item *youtube.PlaylistItem) (models.YouTubeSong, bool) {
	if item == nil || item.Snippet == nil || item.Snippet.ResourceId == nil {
		return models.YouTubeSong{}, false
	}

	videoID := item.Snippet.ResourceId.VideoId
	title := item.Snippet.Title
	if videoID == "" || title == "" {
		return models.YouTubeSong{}, false
	}

	lower := strings.ToLower(title)
	if lower == "private video" || lower == "deleted video" {
		return models.YouTubeSong{}, false
	}

	// videoOwnerChannelTitle names the uploader; channelTitle names whoever
	// added the video to the playlist.
	channel := item.Snippet.VideoOwnerChannelTitle
	if channel == "" {
		channel = item.Snippet.ChannelTitle
	}

	cleaned := match.CleanTitle(title)
	artist, songName := match.ParseArtistSong(cleaned, channel)

	return models.YouTubeSong{
		VideoID:      videoID,
		Title:        title,
		ChannelTitle: channel,
		ParsedArtist: artist,
		ParsedSong:   songName,
		Position:     int(item.Snippet.Position),
		URL:          fmt.Sprintf(watchURLFormat, videoID),
	}, true
}
