package entity

import "time"

type Comment struct {
	ID        string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}
