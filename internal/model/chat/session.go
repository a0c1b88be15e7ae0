package chat

import "time"

// Session scopes one loaded transcript and its speech controllers to a user.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}
