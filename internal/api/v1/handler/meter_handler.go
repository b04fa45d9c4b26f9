package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"boardinghouse/internal/api/v1/dto"
	"boardinghouse/internal/service"
)

// MeterHandler handles meter reading endpoints
type MeterHandler struct {
	meterService service.MeterService
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewMeterHandler(meterService service.MeterService, validate *validator.Validate, logger zerolog.Logger) *MeterHandler {
	return &MeterHandler{meterService: meterService, validate: validate, logger: logger}
}

// RegisterRoutes mounts meter reading routes
func (h *MeterHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /meter-readings", authMw(http.HandlerFunc(h.recordReading)))
	mux.Handle("GET /meter-readings", authMw(http.HandlerFunc(h.listRecent)))
	mux.Handle("PUT /meter-readings/{id}", authMw(http.HandlerFunc(h.updateReading)))
}

// recordReading godoc
// @Summary Record a meter reading
// @Description Records the month's reading and creates or reprices the month's billing when the room has a tenant.
// @Tags meter-readings
// @Accept json
// @Produce json
// @Param reading body dto.MeterReadingCreateDTO true "Reading"
// @Success 201 {object} service.ReadingResult
// @Failure 400 {object} dto.ErrorDTO "Invalid payload or meter went backwards"
// @Failure 403 {object} dto.ErrorDTO
// @Failure 409 {object} dto.ErrorDTO "Reading for this month already exists"
// @Router /meter-readings [post]
func (h *MeterHandler) recordReading(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req dto.MeterReadingCreateDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.meterService.Record(r.Context(), p, service.RecordReadingInput{
		RoomID:         req.RoomID,
		Month:          req.Month,
		CurrentReading: *req.CurrentReading,
		PhotoURL:       req.MeterPhotoURL,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// listRecent godoc
// @Summary List recent meter readings
// @Description The 50 most recent readings across the landlord's rooms.
// @Tags meter-readings
// @Produce json
// @Success 200 {array} model.MeterReading
// @Failure 403 {object} dto.ErrorDTO
// @Router /meter-readings [get]
func (h *MeterHandler) listRecent(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	readings, err := h.meterService.ListRecent(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, readings)
}

// updateReading godoc
// @Summary Correct a meter reading
// @Description Recomputes usage against the stored previous reading and reprices the month's billing.
// @Tags meter-readings
// @Accept json
// @Produce json
// @Param id path string true "Reading ID"
// @Param reading body dto.MeterReadingUpdateDTO true "Corrected reading"
// @Success 200 {object} service.ReadingResult
// @Failure 400 {object} dto.ErrorDTO
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Router /meter-readings/{id} [put]
func (h *MeterHandler) updateReading(w http.ResponseWriter, r *http.Request) {
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
	var req dto.MeterReadingUpdateDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.meterService.Update(r.Context(), p, id, service.UpdateReadingInput{
		CurrentReading: *req.CurrentReading,
		PhotoURL:       req.MeterPhotoURL,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
