package auth

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returned after login
type LoginResponse struct {
	Token    string `json:"token"`
	UserType string `json:"userType"`
}
