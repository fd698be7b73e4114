package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"ytspot/internal/formatter"
	"ytspot/internal/shared"
)

// YouTubeFetch fetches a playlist and prints each entry with its parsed
// artist and song fields, optionally writing the fetched songs CSV.
func (r *Runner) YouTubeFetch(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	config := r.reloadConfig(cmd)

	source, err := r.youtubeService(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("fetching youtube playlist", "playlist", playlistID)

	songs, err := source.PlaylistItems(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if save {
		data, err := formatter.FetchedToCSV(songs)
		if err != nil {
			return fmt.Errorf("failed to build CSV: %w", err)
		}
		if err := formatter.WriteReport(config.Output.FetchedPath(), data); err != nil {
			return err
		}
		r.writePlain("✓ Fetched songs written to %s\n", config.Output.FetchedPath())
	}

	if useJSON {
		return r.writeJSON(songs, pretty)
	}

	r.writePlain("Fetched %d songs:\n\n", len(songs))
	for _, song := range songs {
		r.writePlain("%d. %s\n", song.Position+1, song.Title)
		if song.ParsedArtist != "" || song.ParsedSong != "" {
			r.writePlain("   Parsed: %s - %s\n", song.ParsedArtist, song.ParsedSong)
		} else {
			r.writePlain("   Parsed: (no artist/song split)\n")
		}
		r.writePlain("   Channel: %s\n\n", song.ChannelTitle)
	}

	return nil
}
