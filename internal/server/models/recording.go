package models

import "time"

// Recording is the metadata of one saved answer. The audio itself lives in
// the local recordings directory and, when archiving is on, in object storage
// under StorageKey.
type Recording struct {
	ID            string
	UserID        string
	FileName      string
	Transcription string
	Duration      time.Duration
	// StorageKey is empty when the file was not archived.
	StorageKey string
	CreatedAt  time.Time
}
