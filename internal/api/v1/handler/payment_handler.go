package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"boardinghouse/internal/api/v1/dto"
	"boardinghouse/internal/model"
	"boardinghouse/internal/service"
)

// PaymentHandler handles payment proof endpoints
type PaymentHandler struct {
	paymentService service.PaymentService
	validate       *validator.Validate
	logger         zerolog.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, validate *validator.Validate, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validate: validate, logger: logger}
}

// RegisterRoutes mounts payment proof routes
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /billings/{id}/payment-proofs", authMw(http.HandlerFunc(h.listByBilling)))
	mux.Handle("POST /billings/{id}/payment-proofs", authMw(http.HandlerFunc(h.uploadProof)))
	mux.Handle("GET /payment-proofs/pending", authMw(http.HandlerFunc(h.listPending)))
	mux.Handle("POST /payment-proofs/{id}/verify", authMw(http.HandlerFunc(h.verifyProof)))
	mux.Handle("DELETE /payment-proofs/{id}", authMw(http.HandlerFunc(h.rejectProof)))
	mux.Handle("GET /payment-proofs/{id}/receipt", authMw(http.HandlerFunc(h.receiptURL)))
}

// listByBilling godoc
// @Summary List a billing's payment proofs
// @Tags payment-proofs
// @Produce json
// @Param id path string true "Billing ID"
// @Success 200 {array} model.PaymentProof
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Router /billings/{id}/payment-proofs [get]
func (h *PaymentHandler) listByBilling(w http.ResponseWriter, r *http.Request) {
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
	proofs, err := h.paymentService.ListByBilling(r.Context(), p, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, proofs)
}

// uploadProof godoc
// @Summary Submit a payment proof
// @Description Marks the billing PAID. A billing takes one proof at a time, and none once verified.
// @Tags payment-proofs
// @Accept json
// @Produce json
// @Param id path string true "Billing ID"
// @Param proof body dto.PaymentProofCreateDTO true "Proof"
// @Success 201 {object} model.PaymentProof
// @Failure 400 {object} dto.ErrorDTO
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Failure 409 {object} dto.ErrorDTO "Billing verified or a proof is already pending"
// @Router /billings/{id}/payment-proofs [post]
func (h *PaymentHandler) uploadProof(w http.ResponseWriter, r *http.Request) {
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
	var req dto.PaymentProofCreateDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	proof, err := h.paymentService.UploadProof(r.Context(), p, service.UploadProofInput{
		BillingID:  id,
		Method:     model.PaymentMethod(req.PaymentMethod),
		ReceiptURL: req.ReceiptPhotoURL,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, proof)
}

// listPending godoc
// @Summary List proofs awaiting verification
// @Tags payment-proofs
// @Produce json
// @Success 200 {array} model.PaymentProof
// @Failure 403 {object} dto.ErrorDTO
// @Router /payment-proofs/pending [get]
func (h *PaymentHandler) listPending(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	proofs, err := h.paymentService.ListPending(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, proofs)
}

// verifyProof godoc
// @Summary Verify a payment proof
// @Description Marks the proof verified and its billing VERIFIED.
// @Tags payment-proofs
// @Produce json
// @Param id path string true "Payment proof ID"
// @Success 200 {object} model.PaymentProof
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Failure 409 {object} dto.ErrorDTO "Already verified"
// @Router /payment-proofs/{id}/verify [post]
func (h *PaymentHandler) verifyProof(w http.ResponseWriter, r *http.Request) {
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
	proof, err := h.paymentService.VerifyProof(r.Context(), p, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, proof)
}

// rejectProof godoc
// @Summary Reject a payment proof
// @Description Deletes an unverified proof. The billing returns to PENDING when no proofs remain.
// @Tags payment-proofs
// @Param id path string true "Payment proof ID"
// @Success 204
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Failure 409 {object} dto.ErrorDTO "Proof already verified"
// @Router /payment-proofs/{id} [delete]
func (h *PaymentHandler) rejectProof(w http.ResponseWriter, r *http.Request) {
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
	if err := h.paymentService.RejectProof(r.Context(), p, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// receiptURL godoc
// @Summary Get a download link for a receipt
// @Description Returns a presigned URL valid for 15 minutes. Available to the owning landlord and the billed tenant.
// @Tags payment-proofs
// @Produce json
// @Param id path string true "Payment proof ID"
// @Success 200 {object} dto.SignedURLDTO
// @Failure 403 {object} dto.ErrorDTO
// @Failure 404 {object} dto.ErrorDTO
// @Router /payment-proofs/{id}/receipt [get]
func (h *PaymentHandler) receiptURL(w http.ResponseWriter, r *http.Request) {
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
	url, err := h.paymentService.ReceiptURL(r.Context(), p, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SignedURLDTO{URL: url})
}
