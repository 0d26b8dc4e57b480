package models

import "time"

type Question struct {
	ID        int64
	Text      string
	Category  string
	CreatedAt time.Time
}
