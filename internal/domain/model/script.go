package model

import "time"

// Script is an entry in the downloadable-script catalog. Delivery prefers
// the cached Telegram file id, then a local copy, then the original URL.
type Script struct {
	Name        string
	Description string
	FileID      string // Telegram file id once uploaded at least once
	LocalPath   string
	SourceURL   string
	Price       int64
	AddedAt     time.Time
}
