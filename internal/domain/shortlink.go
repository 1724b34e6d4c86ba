package domain

import "time"

// ShortLink maps a deterministic 15-character token to the media path it
// was derived from. Rows are never mutated or deleted.
type ShortLink struct {
	Token     string    `json:"token"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}
