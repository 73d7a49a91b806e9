package api

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  Author `json:"user"`
	Token string `json:"token"`
}

// Message is the body of every error response and of bare acknowledgements
type Message struct {
	Message string `json:"message"`
}
