package handlers

import (
	"time"

	"github.com/mixfeed/mixfeed/internal/domain/entity"
)

// Wire shapes mirror the entity shapes in the REST contract. Profile views
// never expose email or password hash to other users.

type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	Following []string  `json:"following"`
	Followers []string  `json:"followers"`
	CreatedAt time.Time `json:"created_at"`
}

type SongView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration"`
}

type CommentView struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type PlaylistView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	OwnerID     string        `json:"owner_id"`
	CreatedAt   time.Time     `json:"created_at"`
	Songs       []SongView    `json:"songs"`
	Likes       []string      `json:"likes"`
	Comments    []CommentView `json:"comments"`
}

func toUserView(u *entity.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Following: emptyIfNil(u.Following),
		Followers: emptyIfNil(u.Followers),
		CreatedAt: u.CreatedAt,
	}
}

func toUserViews(users []*entity.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out
}

func toSongView(s *entity.Song) SongView {
	return SongView{ID: s.ID, Title: s.Title, Artist: s.Artist, Album: s.Album, Duration: s.Duration}
}

func toCommentView(c *entity.Comment) CommentView {
	return CommentView{ID: c.ID, AuthorID: c.AuthorID, Text: c.Text, CreatedAt: c.CreatedAt}
}

func toPlaylistView(p *entity.Playlist) PlaylistView {
	songs := make([]SongView, 0, len(p.Songs))
	for i := range p.Songs {
		songs = append(songs, toSongView(&p.Songs[i]))
	}
	comments := make([]CommentView, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, toCommentView(&p.Comments[i]))
	}
	return PlaylistView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		Songs:       songs,
		Likes:       emptyIfNil(p.Likes),
		Comments:    comments,
	}
}

func toPlaylistViews(playlists []*entity.Playlist) []PlaylistView {
	out := make([]PlaylistView, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, toPlaylistView(p))
	}
	return out
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
