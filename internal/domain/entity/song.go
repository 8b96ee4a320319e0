package entity

// Song is either a shared catalog entry or an ad hoc track created while
// building a playlist. Duration is in seconds.
type Song struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration int
}
