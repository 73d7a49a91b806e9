package api

import "time"

type Comment struct {
	ID        string    `json:"id"`
	User      Author    `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type CommentCreatedResponse struct {
	Message string  `json:"message"`
	Comment Comment `json:"comment"`
}
