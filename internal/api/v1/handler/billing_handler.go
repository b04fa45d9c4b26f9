package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"boardinghouse/internal/api/v1/dto"
	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/service"
)

// BillingHandler handles billing endpoints
type BillingHandler struct {
	billingService service.BillingService
	validate       *validator.Validate
	clock          func() time.Time
	logger         zerolog.Logger
}

func NewBillingHandler(billingService service.BillingService, validate *validator.Validate, clock func() time.Time, logger zerolog.Logger) *BillingHandler {
	if clock == nil {
		clock = time.Now
	}
	return &BillingHandler{billingService: billingService, validate: validate, clock: clock, logger: logger}
}

// RegisterRoutes mounts billing routes
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /billings", authMw(http.HandlerFunc(h.createManual)))
	mux.Handle("GET /billings", authMw(http.HandlerFunc(h.listBillings)))
	mux.Handle("GET /billings/pending-count", authMw(http.HandlerFunc(h.pendingCount)))
	mux.Handle("GET /billings/{id}", authMw(http.HandlerFunc(h.getBilling)))
	mux.Handle("GET /due-date-status", authMw(http.HandlerFunc(h.dueDateStatus)))
}

// createManual godoc
// @Summary Create a billing manually
// @Description Creates the month's billing for a tenanted room. Omitted amounts default to the room's rates, electricity to zero.
// @Tags billings
// @Accept json
// @Produce json
// @Param billing body dto.ManualBillingCreateDTO true "Billing"
// @Success 201 {object} model.Billing
// @Failure 400 {object} dto.ErrorDTO
// @Failure 403 {object} dto.ErrorDTO
// @Failure 409 {object} dto.ErrorDTO "Billing for this month already exists"
// @Router /billings [post]
func (h *BillingHandler) createManual(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req dto.ManualBillingCreateDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	b, err := h.billingService.CreateManual(r.Context(), p, service.ManualBillingInput{
		RoomID:      req.RoomID,
		Month:       req.Month,
		Rent:        req.Rent,
		Wifi:        req.Wifi,
		Electricity: req.Electricity,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// listBillings godoc
// @Summary List billings
// @Description Tenants get their own billings, newest month first, with the month's meter reading and due-date status. Landlords get the billings of their rooms.
// @Tags billings
// @Produce json
// @Success 200 {array} service.BillingView
// @Failure 403 {object} dto.ErrorDTO
// @Router /billings [get]
func (h *BillingHandler) listBillings(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var views []service.BillingView
	switch p.Role {
	case auth.RoleTenant:
		views, err = h.billingService.ListForTenant(r.Context(), p)
	default:
		views, err = h.billingService.ListForLandlord(r.Context(), p)
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// pendingCount godoc
// @Summary Count pending billings
// @Tags billings
// @Produce json
// @Success 200 {object} dto.PendingCountDTO
// @Failure 403 {object} dto.ErrorDTO
// @Router /billings/pending-count [get]
func (h *BillingHandler) pendingCount(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	n, err := h.billingService.PendingCount(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PendingCountDTO{Count: n})
}

// getBilling godoc
// @Summary Get a billing
// @Tags billings
// @Produce json
// @Param id path string true "Billing ID"
// @Success 200 {object} service.BillingView
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Router /billings/{id} [get]
func (h *BillingHandler) getBilling(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.billingService.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// dueDateStatus godoc
// @Summary Compute a due-date status
// @Description Derives the due-date status of a billing month as of today's server date.
// @Tags billings
// @Produce json
// @Param month query string true "Billing month (YYYY-MM)"
// @Param due_day query int true "Due day of month (1-31)"
// @Param status query string false "Billing status" Enums(PENDING, PAID, VERIFIED)
// @Success 200 {object} billing.DueDateStatus
// @Failure 400 {object} dto.ErrorDTO
// @Router /due-date-status [get]
func (h *BillingHandler) dueDateStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := principal(r); err != nil {
		writeError(w, h.logger, err)
		return
	}
	q := r.URL.Query()
	month, err := billing.ParseMonth(q.Get("month"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dueDay, err := strconv.Atoi(q.Get("due_day"))
	if err != nil {
		writeError(w, h.logger, apperr.Validation("due_day must be a number"))
		return
	}
	status := billing.StatusPending
	if s := q.Get("status"); s != "" {
		if status, err = billing.ParseStatus(s); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	res, err := billing.CalculateDueDateStatus(month, dueDay, status, h.clock())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
