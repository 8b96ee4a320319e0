package entity

import (
	"time"
)

// User is the aggregate root for the social graph.
// Passwords are stored as bcrypt hashes in Password field.
//
// Following and Followers hold user ids and are kept symmetric by the store:
// if A follows B then B's Followers contains A.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	Name      string
	Bio       string
	AvatarURL string
	Following []string
	Followers []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFollowing reports whether the user follows the given user id.
func (u *User) IsFollowing(userID string) bool {
	for _, id := range u.Following {
		if id == userID {
			return true
		}
	}
	return false
}
