package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/echofinder/api/internal/api/dto"
	"github.com/echofinder/api/internal/api/middleware"
	"github.com/echofinder/api/internal/api/validation"
	"github.com/echofinder/api/internal/apperr"
	"github.com/echofinder/api/internal/auth"
	"github.com/echofinder/api/internal/database/models"
	"github.com/echofinder/api/internal/invites"
	"github.com/echofinder/api/internal/tasks"
)

type InviteHandler struct {
	invites     *invites.Service
	jwtService  auth.TokenService
	asynqClient *asynq.Client
	defaultTTL  time.Duration
	logger      *slog.Logger
}

func NewInviteHandler(invitesSvc *invites.Service, jwtService auth.TokenService, asynqClient *asynq.Client, defaultTTL time.Duration, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{
		invites:     invitesSvc,
		jwtService:  jwtService,
		asynqClient: asynqClient,
		defaultTTL:  defaultTTL,
		logger:      logger,
	}
}

// Issue handles POST /api/v1/invites. The raw token appears in this response
// and in the enqueued mail task; it is never readable again afterwards.
func (h *InviteHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	ttl := h.defaultTTL
	if req.ExpiresInHours > 0 {
		ttl = time.Duration(req.ExpiresInHours) * time.Hour
	}

	invite, rawToken, err := h.invites.Issue(r.Context(), invites.IssueInput{
		Email:     req.Email,
		Role:      models.UserRole(req.Role),
		InviterID: middleware.GetUserID(r.Context()),
		TTL:       ttl,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("invite issued",
		"invite_id", invite.ID,
		"email", invite.Email,
		"role", invite.InvitedRole,
		"issued_by", middleware.GetUserEmail(r.Context()),
	)

	h.enqueueInviteEmail(invite, rawToken)

	writeJSON(w, http.StatusCreated, dto.IssuedInviteResponse{
		Invite: dto.NewInviteResponse(invite),
		Token:  rawToken,
	})
}

func (h *InviteHandler) enqueueInviteEmail(invite *models.Invite, rawToken string) {
	if h.asynqClient == nil {
		return
	}

	task, err := tasks.NewInviteEmailTask(tasks.InviteEmailPayload{
		InviteID:  invite.ID,
		Email:     invite.Email,
		Role:      string(invite.InvitedRole),
		Token:     rawToken,
		ExpiresAt: invite.ExpiresAt,
	})
	if err != nil {
		h.logger.Error("failed to build invite email task", "error", err, "invite_id", invite.ID)
		return
	}

	// Mail delivery is best-effort; the admin still gets the raw token in the
	// response, so a queue outage never loses the invite.
	if _, err := h.asynqClient.Enqueue(task, asynq.Queue("mail")); err != nil {
		h.logger.Error("failed to enqueue invite email", "error", err, "invite_id", invite.ID)
	}
}

// List handles GET /api/v1/invites
func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	list, total, err := h.invites.List(r.Context(), pagination.Offset(), pagination.PerPage)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]dto.InviteResponse, len(list))
	for i := range list {
		response[i] = dto.NewInviteResponse(&list[i])
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

// Get handles GET /api/v1/invites/{id}
func (h *InviteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.NewError(apperr.CodeValidation, "Invalid invite ID"))
		return
	}

	invite, err := h.invites.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInviteResponse(invite))
}

// Revoke handles POST /api/v1/invites/{id}/revoke. Revoking an already-used
// or already-revoked invite is a no-op that returns the invite unchanged.
func (h *InviteHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.NewError(apperr.CodeValidation, "Invalid invite ID"))
		return
	}

	invite, err := h.invites.Revoke(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewInviteResponse(invite))
}

// Validate handles POST /api/v1/invites/validate. An unknown token answers
// {"valid":false} rather than 404 so the endpoint can't be used to probe
// which tokens exist.
func (h *InviteHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	invite, err := h.invites.Lookup(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, invites.ErrInviteNotFound) {
			writeJSON(w, http.StatusOK, dto.ValidateInviteResponse{Valid: false})
			return
		}
		writeError(w, err)
		return
	}

	if !invite.IsValid(time.Now()) {
		writeJSON(w, http.StatusOK, dto.ValidateInviteResponse{Valid: false})
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidateInviteResponse{
		Valid: true,
		Email: invite.Email,
		Role:  string(invite.InvitedRole),
	})
}

// Accept handles POST /api/v1/invites/accept. Consuming the invite and
// creating the account happen in one transaction; the new session token is
// minted only after both succeed.
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req dto.AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	displayName := validation.TruncateString(validation.SanitizeString(req.DisplayName), 120)

	user, _, err := h.invites.Redeem(r.Context(), req.Token, displayName)
	if err != nil {
		writeError(w, err)
		return
	}

	sessionToken, err := h.jwtService.GenerateToken(user)
	if err != nil {
		h.logger.Error("failed to mint session token after redemption", "error", err, "user_id", user.ID)
		writeError(w, apperr.Internal("creating session", err))
		return
	}

	writeJSON(w, http.StatusCreated, dto.AcceptInviteResponse{
		Token: sessionToken,
		User:  dto.NewUserResponse(user),
	})
}
