package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcosalvarado/buildledger-backend/api/middleware"
	"github.com/marcosalvarado/buildledger-backend/api/responses"
	"github.com/marcosalvarado/buildledger-backend/api/validators"
	"github.com/marcosalvarado/buildledger-backend/internal/projects"
	"github.com/marcosalvarado/buildledger-backend/internal/recent"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type projectCreateRequest struct {
	ClientID  uuid.UUID  `json:"client_id" validate:"required"`
	Name      string     `json:"name" validate:"required,max=200"`
	Status    *string    `json:"status,omitempty"`
	Address   *string    `json:"address,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Tags      []string   `json:"tags,omitempty" validate:"omitempty,dive,max=60"`
	Notes     *string    `json:"notes,omitempty"`
}

type projectUpdateRequest struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Status    *string    `json:"status,omitempty"`
	Address   *string    `json:"address,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Tags      *[]string  `json:"tags,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

func parseProjectStatus(raw *string) (*enums.ProjectStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := enums.ParseProjectStatus(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid project status")
	}
	return &status, nil
}

func ProjectCreate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseProjectStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), projects.CreateProjectInput{
			ClientID:  req.ClientID,
			Name:      req.Name,
			Status:    status,
			Address:   req.Address,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Tags:      req.Tags,
			Notes:     req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ProjectGet loads one project and records the view in the caller's
// recently-viewed list. The recording is best effort.
func ProjectGet(svc projects.Service, recentStore *recent.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "projectId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if recentStore != nil {
			actorID := middleware.ActorIDFromContext(r.Context())
			if recErr := recentStore.Record(r.Context(), actorID, id); recErr != nil && logg != nil {
				logg.Error(r.Context(), "record recent project view", recErr)
			}
		}
		responses.WriteSuccess(w, dto)
	}
}

func ProjectList(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter projects.ListFilter

		if clientID, ok, err := validators.ParseUUIDQuery(r, "client_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if ok {
			filter.ClientID = &clientID
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProjectStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid project status"))
				return
			}
			filter.Status = &status
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("tag")); raw != "" {
			filter.Tag = &raw
		}

		page := pagination.FromRequest(r)
		dtos, total, err := svc.List(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, dtos, pagination.NewMeta(page, total))
	}
}

func ProjectUpdate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "projectId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req projectUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseProjectStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, projects.UpdateProjectInput{
			Name:      req.Name,
			Status:    status,
			Address:   req.Address,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Tags:      req.Tags,
			Notes:     req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ProjectDelete(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "projectId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProjectsRecent returns the caller's recently viewed projects, loaded in
// list order. Projects deleted since the view are dropped silently.
func ProjectsRecent(svc projects.Service, recentStore *recent.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := middleware.ActorIDFromContext(r.Context())
		if actorID == "" {
			responses.WriteSuccess(w, []projects.ProjectDTO{})
			return
		}

		ids, err := recentStore.List(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent projects"))
			return
		}

		dtos := make([]projects.ProjectDTO, 0, len(ids))
		for _, id := range ids {
			dto, err := svc.GetByID(r.Context(), id)
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					continue
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			dtos = append(dtos, *dto)
		}
		responses.WriteSuccess(w, dtos)
	}
}
