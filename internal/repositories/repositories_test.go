package repositories

import (
	"database/sql"
	"testing"

	"ytspot/internal/models"
	"ytspot/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestMatchCache(t *testing.T) {
	track := &models.SpotifyTrack{
		ID:      "t1",
		URI:     "spotify:track:t1",
		Name:    "One More Time",
		Artists: []string{"Daft Punk", "Romanthony"},
	}

	t.Run("Get miss returns nil", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewMatchCache(db)
		cached, err := cache.Get("daft punk - one more time")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if cached != nil {
			t.Errorf("expected nil on miss, got %+v", cached)
		}
	})

	t.Run("Put and Get positive entry", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewMatchCache(db)
		key := "daft punk - one more time"

		if err := cache.Put(key, "abc123", track, 97); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		cached, err := cache.Get(key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if cached == nil {
			t.Fatal("expected cache hit")
		}
		if !cached.Found {
			t.Error("expected Found = true")
		}
		if cached.Score != 97 {
			t.Errorf("score = %d, want 97", cached.Score)
		}
		if cached.Track == nil || cached.Track.URI != track.URI {
			t.Errorf("track = %+v", cached.Track)
		}
		if len(cached.Track.Artists) != 2 || cached.Track.Artists[1] != "Romanthony" {
			t.Errorf("artists = %v", cached.Track.Artists)
		}
	})

	t.Run("Put and Get negative entry", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewMatchCache(db)
		key := "nobody - obscure b side"

		if err := cache.Put(key, "def456", nil, 40); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		cached, err := cache.Get(key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if cached == nil {
			t.Fatal("expected cache hit")
		}
		if cached.Found {
			t.Error("expected Found = false")
		}
		if cached.Track != nil {
			t.Errorf("expected nil track, got %+v", cached.Track)
		}
	})

	t.Run("Put upserts existing key", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewMatchCache(db)
		key := "daft punk - one more time"

		if err := cache.Put(key, "abc123", nil, 40); err != nil {
			t.Fatalf("first Put failed: %v", err)
		}
		if err := cache.Put(key, "abc123", track, 97); err != nil {
			t.Fatalf("second Put failed: %v", err)
		}

		cached, err := cache.Get(key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !cached.Found || cached.Score != 97 {
			t.Errorf("cached = %+v, want updated entry", cached)
		}

		total, _, _, err := cache.Stats()
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if total != 1 {
			t.Errorf("total = %d, want 1", total)
		}
	})

	t.Run("Stats counts found and not found", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewMatchCache(db)
		cache.Put("hit one", "v1", track, 95)
		cache.Put("hit two", "v2", track, 90)
		cache.Put("miss one", "v3", nil, 12)

		total, found, notFound, err := cache.Stats()
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if total != 3 || found != 2 || notFound != 1 {
			t.Errorf("Stats = %d/%d/%d, want 3/2/1", total, found, notFound)
		}
	})

	t.Run("Clear removes all entries", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewMatchCache(db)
		cache.Put("one", "v1", track, 95)
		cache.Put("two", "v2", nil, 30)

		deleted, err := cache.Clear()
		if err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if deleted != 2 {
			t.Errorf("deleted = %d, want 2", deleted)
		}

		total, _, _, err := cache.Stats()
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if total != 0 {
			t.Errorf("total = %d, want 0 after clear", total)
		}
	})
}

func TestRunRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run, err := repo.Create("PL123", "My Playlist")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if run.ID == "" {
			t.Error("run ID should be set after creation")
		}
		if run.Status != RunStatusRunning {
			t.Errorf("status = %q, want %q", run.Status, RunStatusRunning)
		}
	})

	t.Run("Complete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run, err := repo.Create("PL123", "My Playlist")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		run.SpotifyPlaylistID = "sp456"
		run.TracksTotal = 10
		run.TracksMigrated = 8
		run.TracksFailed = 2
		run.Status = RunStatusCompleted

		if err := repo.Complete(run); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}

		runs, err := repo.List(10)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("got %d runs, want 1", len(runs))
		}
		got := runs[0]
		if got.Status != RunStatusCompleted || got.TracksMigrated != 8 {
			t.Errorf("run = %+v", got)
		}
		if got.SpotifyPlaylistID != "sp456" {
			t.Errorf("spotify playlist id = %q", got.SpotifyPlaylistID)
		}
	})

	t.Run("Complete unknown run", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run := &Run{ID: "missing", Status: RunStatusFailed}

		if err := repo.Complete(run); err == nil {
			t.Error("expected error for unknown run")
		}
	})

	t.Run("List newest first", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		first, err := repo.Create("PL1", "First")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		second, err := repo.Create("PL2", "Second")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		runs, err := repo.List(10)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("got %d runs, want 2", len(runs))
		}
		if runs[0].ID != second.ID && runs[0].ID != first.ID {
			t.Errorf("unexpected run order: %v", runs)
		}
	})
}
