package entity

import "time"

// Playlist is owned by OwnerID (immutable after creation).
// Songs keep addition order with no duplicate song ids, Likes hold each user
// id at most once, Comments keep insertion order.
type Playlist struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Songs       []Song
	Likes       []string
	Comments    []Comment
}

// HasSong reports whether the playlist already contains the song id.
func (p *Playlist) HasSong(songID string) bool {
	for _, s := range p.Songs {
		if s.ID == songID {
			return true
		}
	}
	return false
}

// LikedBy reports whether the user id is in the like set.
func (p *Playlist) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
