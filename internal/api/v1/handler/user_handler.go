package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"boardinghouse/internal/api/v1/dto"
	"boardinghouse/internal/service"
)

// UserHandler handles landlord and tenant accounts
type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, validate *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, validate: validate, logger: logger}
}

// RegisterRoutes mounts account routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /landlords", authMw(http.HandlerFunc(h.createLandlord)))
	mux.Handle("GET /landlords", authMw(http.HandlerFunc(h.listLandlords)))
	mux.Handle("POST /tenants", authMw(http.HandlerFunc(h.createTenant)))
	mux.Handle("GET /tenants", authMw(http.HandlerFunc(h.listTenants)))
}

func userInput(req dto.UserCreateDTO) service.NewUserInput {
	return service.NewUserInput{Name: req.Name, Email: req.Email, Password: req.Password}
}

// createLandlord godoc
// @Summary Create a landlord
// @Tags accounts
// @Accept json
// @Produce json
// @Param landlord body dto.UserCreateDTO true "Landlord"
// @Success 201 {object} model.User
// @Failure 400 {object} dto.ErrorDTO
// @Failure 403 {object} dto.ErrorDTO
// @Failure 409 {object} dto.ErrorDTO "Email already exists"
// @Router /landlords [post]
func (h *UserHandler) createLandlord(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req dto.UserCreateDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	u, err := h.userService.CreateLandlord(r.Context(), p, userInput(req))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// listLandlords godoc
// @Summary List landlords
// @Tags accounts
// @Produce json
// @Success 200 {array} model.UserSummary
// @Failure 403 {object} dto.ErrorDTO
// @Router /landlords [get]
func (h *UserHandler) listLandlords(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	users, err := h.userService.ListLandlords(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// createTenant godoc
// @Summary Create a tenant
// @Description Creates the tenant account and assigns it to one of the landlord's vacant rooms.
// @Tags accounts
// @Accept json
// @Produce json
// @Param tenant body dto.TenantCreateDTO true "Tenant"
// @Success 201 {object} model.User
// @Failure 400 {object} dto.ErrorDTO
// @Failure 403 {object} dto.ErrorDTO
// @Failure 409 {object} dto.ErrorDTO "Email exists or room occupied"
// @Router /tenants [post]
func (h *UserHandler) createTenant(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req dto.TenantCreateDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	u, err := h.userService.CreateTenant(r.Context(), p, service.NewTenantInput{
		NewUserInput:  userInput(req.UserCreateDTO),
		RoomID:        req.RoomID,
		BillingDueDay: req.BillingDueDay,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// listTenants godoc
// @Summary List the landlord's tenants
// @Tags accounts
// @Produce json
// @Success 200 {array} model.UserSummary
// @Failure 403 {object} dto.ErrorDTO
// @Router /tenants [get]
func (h *UserHandler) listTenants(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	users, err := h.userService.ListTenants(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
