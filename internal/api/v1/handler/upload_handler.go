package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"boardinghouse/internal/api/v1/dto"
	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/service"
)

// multipartOverhead is allowed on top of the image size for form framing.
const multipartOverhead = 64 << 10

// UploadHandler accepts image uploads
type UploadHandler struct {
	uploadService service.UploadService
	maxBytes      int64
	logger        zerolog.Logger
}

func NewUploadHandler(uploadService service.UploadService, maxBytes int64, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxBytes: maxBytes, logger: logger}
}

// RegisterRoutes mounts upload routes
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /uploads/meter-photo", authMw(http.HandlerFunc(h.uploadMeterPhoto)))
	mux.Handle("POST /uploads/payment-receipt", authMw(http.HandlerFunc(h.uploadPaymentReceipt)))
}

type uploadFunc func(ctx context.Context, p auth.Principal, filename string, body io.Reader) (string, error)

// uploadMeterPhoto godoc
// @Summary Upload a meter photo
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} dto.UploadResponseDTO
// @Failure 400 {object} dto.ErrorDTO "Missing file, not an image or too large"
// @Failure 401 {object} dto.ErrorDTO
// @Router /uploads/meter-photo [post]
func (h *UploadHandler) uploadMeterPhoto(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.uploadService.UploadMeterPhoto)
}

// uploadPaymentReceipt godoc
// @Summary Upload a payment receipt
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} dto.UploadResponseDTO
// @Failure 400 {object} dto.ErrorDTO "Missing file, not an image or too large"
// @Failure 401 {object} dto.ErrorDTO
// @Router /uploads/payment-receipt [post]
func (h *UploadHandler) uploadPaymentReceipt(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.uploadService.UploadPaymentReceipt)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, store uploadFunc) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, apperr.Validation("file exceeds %d bytes", h.maxBytes))
			return
		}
		writeError(w, h.logger, apperr.Validation("multipart field \"file\" is required: %v", err))
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	url, err := store(r.Context(), p, header.Filename, file)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.UploadResponseDTO{URL: url})
}
