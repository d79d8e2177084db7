package dto

import "github.com/activoentrena/territory-service/internal/domain"

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" validate:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8" validate:"required,min=8"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// SubmitRunRequest represents a directly submitted GPS track
type SubmitRunRequest struct {
	Points []domain.Point `json:"points" binding:"required,dive"`
}
