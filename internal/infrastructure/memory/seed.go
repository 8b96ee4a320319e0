package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mixfeed/mixfeed/internal/domain/entity"
	"github.com/mixfeed/mixfeed/internal/domain/repository"
	"github.com/mixfeed/mixfeed/pkg/helpers"
)

// Seed loads the demo dataset (three users, three playlists, a ten-song
// catalog) into any Store adapter. The memory driver seeds itself at startup;
// cmd/seed uses the same fixture against Postgres.
func Seed(ctx context.Context, store repository.Store) error {
	hash, err := helpers.HashPassword("password123")
	if err != nil {
		return err
	}

	users := []*entity.User{
		{ID: uuid.NewString(), Username: "john_doe", Email: "john@mixfeed.dev", Name: "John Doe", Bio: "Music lover and playlist curator"},
		{ID: uuid.NewString(), Username: "jane_smith", Email: "jane@mixfeed.dev", Name: "Jane Smith", Bio: "Jazz enthusiast | Coffee addict"},
		{ID: uuid.NewString(), Username: "music_fan", Email: "alex@mixfeed.dev", Name: "Alex Johnson", Bio: "Discovering new sounds every day"},
	}
	for _, u := range users {
		u.Password = hash
		if err := store.CreateUser(ctx, u); err != nil {
			return err
		}
	}

	// john and jane follow each other; jane follows alex; alex follows john
	follows := [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 0}}
	for _, f := range follows {
		if err := store.SetFollow(ctx, users[f[0]].ID, users[f[1]].ID, true); err != nil {
			return err
		}
	}

	catalog := []*entity.Song{
		{Title: "Sunset Dreams", Artist: "Ambient Flow", Duration: 225},
		{Title: "Ocean Waves", Artist: "Nature Sounds", Duration: 260},
		{Title: "Power Up", Artist: "Energy Boost", Duration: 210},
		{Title: "Running Wild", Artist: "Fitness Beats", Duration: 255},
		{Title: "Blue Notes", Artist: "Jazz Quartet", Duration: 320},
		{Title: "Smooth Saxophone", Artist: "Classic Jazz", Duration: 285},
		{Title: "Morning Coffee", Artist: "Cafe Sounds", Duration: 230},
		{Title: "Night Drive", Artist: "Synthwave Mix", Duration: 270},
		{Title: "Summer Breeze", Artist: "Tropical Vibes", Duration: 205},
		{Title: "City Lights", Artist: "Urban Beats", Duration: 250},
	}
	for _, s := range catalog {
		s.ID = uuid.NewString()
		if err := store.CreateSong(ctx, s); err != nil {
			return err
		}
	}

	playlists := []struct {
		name, desc string
		owner      int
		created    time.Time
		songs      []int
		likes      []int
	}{
		{"Chill Vibes", "Perfect for relaxing afternoons", 0, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), []int{0, 1}, []int{1, 2}},
		{"Jazz Classics", "Timeless jazz standards", 1, time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC), []int{4, 5}, []int{2}},
		{"Workout Energy", "High energy tracks for your gym sessions", 1, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), []int{2, 3}, []int{0}},
	}
	for i, pl := range playlists {
		p := &entity.Playlist{
			ID:          uuid.NewString(),
			Name:        pl.name,
			Description: pl.desc,
			OwnerID:     users[pl.owner].ID,
			CreatedAt:   pl.created,
		}
		if err := store.CreatePlaylist(ctx, p); err != nil {
			return err
		}
		for _, si := range pl.songs {
			if err := store.AddPlaylistSong(ctx, p.ID, *catalog[si]); err != nil {
				return err
			}
		}
		for _, ui := range pl.likes {
			if err := store.SetLike(ctx, p.ID, users[ui].ID, true); err != nil {
				return err
			}
		}
		if i == 0 {
			c := &entity.Comment{
				ID:        uuid.NewString(),
				AuthorID:  users[1].ID,
				Text:      "Love this playlist!",
				CreatedAt: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
			}
			if err := store.AddComment(ctx, p.ID, c); err != nil {
				return err
			}
		}
	}
	return nil
}
