package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/echofinder/api/internal/api/dto"
	"github.com/echofinder/api/internal/api/middleware"
	"github.com/echofinder/api/internal/api/validation"
	"github.com/echofinder/api/internal/apperr"
	"github.com/echofinder/api/internal/database/models"
	"github.com/echofinder/api/internal/users"
)

type UserHandler struct {
	users *users.Service
}

func NewUserHandler(usersSvc *users.Service) *UserHandler {
	return &UserHandler{users: usersSvc}
}

// Me handles GET /api/v1/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateMe handles PUT /api/v1/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	name := validation.TruncateString(validation.SanitizeString(req.DisplayName), 120)

	user, err := h.users.UpdateDisplayName(r.Context(), middleware.GetUserID(r.Context()), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	list, total, err := h.users.List(r.Context(), pagination.Offset(), pagination.PerPage)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]dto.UserResponse, len(list))
	for i := range list {
		response[i] = dto.NewUserResponse(&list[i])
	}

	totalPages := int(total) / pagination.PerPage
	if int(total)%pagination.PerPage > 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: totalPages,
	})
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.NewError(apperr.CodeValidation, "Invalid user ID"))
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateRole handles PUT /api/v1/users/{id}/role. Admins cannot demote
// themselves; losing the last admin would lock the tenant out.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.NewError(apperr.CodeValidation, "Invalid user ID"))
		return
	}

	var req dto.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if id == middleware.GetUserID(r.Context()) && models.UserRole(req.Role) != models.RoleAdmin {
		writeJSON(w, http.StatusConflict, dto.NewError(apperr.CodeConflict, "Cannot change your own role"))
		return
	}

	user, err := h.users.UpdateRole(r.Context(), id, models.UserRole(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateStatus handles PUT /api/v1/users/{id}/status
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.NewError(apperr.CodeValidation, "Invalid user ID"))
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if id == middleware.GetUserID(r.Context()) && models.UserStatus(req.Status) != models.StatusActive {
		writeJSON(w, http.StatusConflict, dto.NewError(apperr.CodeConflict, "Cannot disable your own account"))
		return
	}

	user, err := h.users.UpdateStatus(r.Context(), id, models.UserStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}
