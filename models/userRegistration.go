package models

// RegisterRequest is the payload of POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest is the payload of POST /api/login. Username matches a name or an email.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse mirrors what the web client stores after signing in.
type LoginResponse struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	UserID string `json:"userId"`
	Token  string `json:"token"`
}
