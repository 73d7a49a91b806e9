package api

import "time"

type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}
