package domain

import "time"

type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	Loading   bool      `json:"loading"`
	CreatedAt time.Time `json:"created_at"`
}
