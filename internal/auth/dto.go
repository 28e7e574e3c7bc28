package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/aromaten/aromaten-backend/pkg/db/models"
)

// LoginRequest carries the admin credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminDTO is the admin payload returned after login.
type AdminDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse carries the minted token and its session identifier.
type LoginResponse struct {
	Token     string   `json:"token"`
	SessionID string   `json:"-"`
	Admin     AdminDTO `json:"admin"`
}

// NewAdminDTO builds a DTO from the persisted model.
func NewAdminDTO(admin *models.AdminUser) AdminDTO {
	return AdminDTO{
		ID:        admin.ID,
		Email:     admin.Email,
		CreatedAt: admin.CreatedAt,
	}
}
