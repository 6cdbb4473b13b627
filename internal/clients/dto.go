package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
)

// ClientDTO exposes client data in API responses.
type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateClientDTO holds creation-time data for a new client.
type CreateClientDTO struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

// FromModel maps the persisted client into a DTO.
func FromModel(m *models.Client) *ClientDTO {
	if m == nil {
		return nil
	}
	return &ClientDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO.
func (c CreateClientDTO) ToModel() *models.Client {
	return &models.Client{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		Notes:   c.Notes,
	}
}
