package projects

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// ProjectDTO exposes project data in API responses.
type ProjectDTO struct {
	ID        uuid.UUID           `json:"id"`
	ClientID  uuid.UUID           `json:"client_id"`
	Name      string              `json:"name"`
	Status    enums.ProjectStatus `json:"status"`
	Address   *string             `json:"address,omitempty"`
	StartDate *time.Time          `json:"start_date,omitempty"`
	EndDate   *time.Time          `json:"end_date,omitempty"`
	Tags      []string            `json:"tags"`
	Notes     *string             `json:"notes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CreateProjectDTO holds creation-time data for a new project.
type CreateProjectDTO struct {
	ClientID  uuid.UUID
	Name      string
	Status    *enums.ProjectStatus
	Address   *string
	StartDate *time.Time
	EndDate   *time.Time
	Tags      []string
	Notes     *string
}

// FromModel maps the persisted project into a DTO.
func FromModel(m *models.Project) *ProjectDTO {
	if m == nil {
		return nil
	}
	tags := make([]string, len(m.Tags))
	copy(tags, m.Tags)
	return &ProjectDTO{
		ID:        m.ID,
		ClientID:  m.ClientID,
		Name:      m.Name,
		Status:    m.Status,
		Address:   m.Address,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Tags:      tags,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO, supplying defaults.
func (c CreateProjectDTO) ToModel() *models.Project {
	model := &models.Project{
		ClientID:  c.ClientID,
		Name:      c.Name,
		Status:    enums.ProjectStatusPlanning,
		Address:   c.Address,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Tags:      pq.StringArray{},
		Notes:     c.Notes,
	}
	if c.Status != nil {
		model.Status = *c.Status
	}
	if len(c.Tags) > 0 {
		model.Tags = make(pq.StringArray, len(c.Tags))
		copy(model.Tags, c.Tags)
	}
	return model
}
