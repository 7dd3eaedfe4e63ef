package handler

import "github.com/sweetmart/sweetshop/internal/core/domain"

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authData struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type authResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    authData `json:"data"`
}
