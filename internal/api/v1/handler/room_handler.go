package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"boardinghouse/internal/api/v1/dto"
	"boardinghouse/internal/model"
	"boardinghouse/internal/service"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	roomService  service.RoomService
	meterService service.MeterService
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewRoomHandler(roomService service.RoomService, meterService service.MeterService, validate *validator.Validate, logger zerolog.Logger) *RoomHandler {
	return &RoomHandler{roomService: roomService, meterService: meterService, validate: validate, logger: logger}
}

// RegisterRoutes mounts room routes
func (h *RoomHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /rooms", authMw(http.HandlerFunc(h.createRoom)))
	mux.Handle("GET /rooms", authMw(http.HandlerFunc(h.listRooms)))
	mux.Handle("GET /rooms/{id}", authMw(http.HandlerFunc(h.getRoom)))
	mux.Handle("PATCH /rooms/{id}", authMw(http.HandlerFunc(h.updateRoom)))
	mux.Handle("DELETE /rooms/{id}/tenant", authMw(http.HandlerFunc(h.removeTenant)))
	mux.Handle("GET /rooms/{id}/meter-readings", authMw(http.HandlerFunc(h.listRoomReadings)))
}

// createRoom godoc
// @Summary Create a room
// @Tags rooms
// @Accept json
// @Produce json
// @Param room body dto.RoomCreateDTO true "Room"
// @Success 201 {object} model.Room
// @Failure 400 {object} dto.ErrorDTO
// @Failure 403 {object} dto.ErrorDTO
// @Failure 409 {object} dto.ErrorDTO "Room number already exists"
// @Router /rooms [post]
func (h *RoomHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req dto.RoomCreateDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	room, err := h.roomService.Create(r.Context(), p, service.CreateRoomInput{
		RoomNumber:            req.RoomNumber,
		MonthlyRent:           *req.MonthlyRent,
		WifiFee:               *req.WifiFee,
		ElectricityRatePerKwh: *req.ElectricityRatePerKwh,
		BillingDueDay:         req.BillingDueDay,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// listRooms godoc
// @Summary List the landlord's rooms
// @Tags rooms
// @Produce json
// @Success 200 {array} model.RoomOverview
// @Failure 403 {object} dto.ErrorDTO
// @Router /rooms [get]
func (h *RoomHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	rooms, err := h.roomService.ListByLandlord(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// getRoom godoc
// @Summary Get a room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} model.Room
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Router /rooms/{id} [get]
func (h *RoomHandler) getRoom(w http.ResponseWriter, r *http.Request) {
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
	room, err := h.roomService.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// updateRoom godoc
// @Summary Update a room
// @Description Changes only the fields present in the body. Existing billings keep their amounts.
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param room body dto.RoomUpdateDTO true "Fields to change"
// @Success 200 {object} model.Room
// @Failure 400 {object} dto.ErrorDTO
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Router /rooms/{id} [patch]
func (h *RoomHandler) updateRoom(w http.ResponseWriter, r *http.Request) {
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
	var req dto.RoomUpdateDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	room, err := h.roomService.Update(r.Context(), p, id, model.RoomUpdate{
		MonthlyRent:           req.MonthlyRent,
		WifiFee:               req.WifiFee,
		ElectricityRatePerKwh: req.ElectricityRatePerKwh,
		BillingDueDay:         req.BillingDueDay,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// removeTenant godoc
// @Summary Vacate a room
// @Tags rooms
// @Param id path string true "Room ID"
// @Success 204
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Router /rooms/{id}/tenant [delete]
func (h *RoomHandler) removeTenant(w http.ResponseWriter, r *http.Request) {
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
	if err := h.roomService.RemoveTenant(r.Context(), p, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listRoomReadings godoc
// @Summary List a room's meter readings
// @Tags meter-readings
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {array} model.MeterReading
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Router /rooms/{id}/meter-readings [get]
func (h *RoomHandler) listRoomReadings(w http.ResponseWriter, r *http.Request) {
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
	readings, err := h.meterService.ListByRoom(r.Context(), p, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, readings)
}
