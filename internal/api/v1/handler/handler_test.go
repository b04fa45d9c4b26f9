package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"boardinghouse/internal/api/v1/dto"
	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/middleware"
	"boardinghouse/internal/model"
	"boardinghouse/internal/service"
	"boardinghouse/internal/util"
)

const (
	testSecret = "handler-secret"
	billingID  = "6f1c2f4e-8a51-4c64-9a3f-2b7d0f1e9c11"
	roomID     = "0b8e4a52-3d1f-4f7a-8c2e-5a6b7c8d9e0f"
)

var (
	landlord = auth.Principal{UserID: "landlord-1", Email: "l@example.com", Role: auth.RoleLandlord}
	tenant   = auth.Principal{UserID: "tenant-1", Email: "t@example.com", Role: auth.RoleTenant}
	today    = time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
)

type registrar interface {
	RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler)
}

func newServer(handlers ...registrar) http.Handler {
	mux := http.NewServeMux()
	authMw := middleware.AuthMiddleware(testSecret, zerolog.Nop())
	for _, h := range handlers {
		h.RegisterRoutes(mux, authMw)
	}
	return mux
}

func do(t *testing.T, h http.Handler, p *auth.Principal, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if p != nil {
		token, err := util.IssueSessionToken(*p, testSecret, time.Hour, time.Now())
		if err != nil {
			t.Fatalf("IssueSessionToken: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, h http.Handler, p *auth.Principal, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return do(t, h, p, method, path, r, "application/json")
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body, err)
	}
	return resp.Error
}

type fakeBillings struct {
	service.BillingService
	created service.ManualBillingInput
	err     error
	listed  string
}

func (f *fakeBillings) CreateManual(ctx context.Context, p auth.Principal, in service.ManualBillingInput) (*model.Billing, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Billing{ID: billingID, RoomID: in.RoomID, Month: in.Month, Status: billing.StatusPending}, nil
}

func (f *fakeBillings) ListForTenant(ctx context.Context, p auth.Principal) ([]service.BillingView, error) {
	f.listed = "tenant"
	return []service.BillingView{}, nil
}

func (f *fakeBillings) ListForLandlord(ctx context.Context, p auth.Principal) ([]service.BillingView, error) {
	f.listed = "landlord"
	return []service.BillingView{}, nil
}

func (f *fakeBillings) PendingCount(ctx context.Context, p auth.Principal) (int, error) {
	return 3, nil
}

func newBillingServer(f *fakeBillings) http.Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return newServer(NewBillingHandler(f, v, func() time.Time { return today }, zerolog.Nop()))
}

func TestRoutesRequireToken(t *testing.T) {
	h := newBillingServer(&fakeBillings{})
	rec := doJSON(t, h, nil, http.MethodGet, "/billings", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreateManualBilling(t *testing.T) {
	f := &fakeBillings{}
	h := newBillingServer(f)

	body := `{"room_id":"` + roomID + `","month":"2024-03","rent_amount":"1250000.50"}`
	rec := doJSON(t, h, &landlord, http.MethodPost, "/billings", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if f.created.Month.String() != "2024-03" || f.created.RoomID != roomID {
		t.Fatalf("unexpected input %+v", f.created)
	}
	if f.created.Rent == nil || f.created.Rent.String() != "1250000.5" || f.created.Wifi != nil {
		t.Fatalf("unexpected amounts %+v", f.created)
	}
}

func TestCreateManualBillingRejectsPayload(t *testing.T) {
	h := newBillingServer(&fakeBillings{})
	tests := []struct {
		name string
		body string
	}{
		{"missing room", `{"month":"2024-03"}`},
		{"bad room id", `{"room_id":"room-1","month":"2024-03"}`},
		{"bad month", `{"room_id":"` + roomID + `","month":"2024-13"}`},
		{"missing month", `{"room_id":"` + roomID + `"}`},
		{"not json", `{`},
		{"unknown field", `{"room_id":"` + roomID + `","month":"2024-03","total_amount":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, &landlord, http.MethodPost, "/billings", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body)
			}
		})
	}
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.Conflict("billing for this month already exists"), http.StatusConflict, "conflict: billing for this month already exists"},
		{apperr.Forbidden("room belongs to another landlord"), http.StatusForbidden, ""},
		{apperr.NotFound("room"), http.StatusNotFound, ""},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		h := newBillingServer(&fakeBillings{err: tt.err})
		rec := doJSON(t, h, &landlord, http.MethodPost, "/billings", `{"room_id":"`+roomID+`","month":"2024-03"}`)
		if rec.Code != tt.status {
			t.Fatalf("%v: status = %d, want %d", tt.err, rec.Code, tt.status)
		}
		if msg := errorBody(t, rec); tt.msg != "" && msg != tt.msg {
			t.Fatalf("%v: error = %q, want %q", tt.err, msg, tt.msg)
		}
	}
}

func TestListBillingsByRole(t *testing.T) {
	f := &fakeBillings{}
	h := newBillingServer(f)

	if rec := doJSON(t, h, &tenant, http.MethodGet, "/billings", ""); rec.Code != http.StatusOK || f.listed != "tenant" {
		t.Fatalf("tenant: status %d listed %q", rec.Code, f.listed)
	}
	if rec := doJSON(t, h, &landlord, http.MethodGet, "/billings", ""); rec.Code != http.StatusOK || f.listed != "landlord" {
		t.Fatalf("landlord: status %d listed %q", rec.Code, f.listed)
	}

	rec := doJSON(t, h, &tenant, http.MethodGet, "/billings/pending-count", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"count":3}` {
		t.Fatalf("pending-count: %d %s", rec.Code, rec.Body)
	}
}

func TestDueDateStatusUsesClock(t *testing.T) {
	h := newBillingServer(&fakeBillings{})

	rec := doJSON(t, h, &tenant, http.MethodGet, "/due-date-status?month=2024-02&due_day=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var got billing.DueDateStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DaysUntilDue != -15 || !got.IsPastDue || got.StatusColor != billing.ColorRed {
		t.Fatalf("unexpected status %+v", got)
	}

	rec = doJSON(t, h, &tenant, http.MethodGet, "/due-date-status?month=2024-02&due_day=5&status=VERIFIED", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.StatusText != "Paid & Verified" {
		t.Fatalf("status text = %q", got.StatusText)
	}

	for _, q := range []string{"month=2024-02&due_day=x", "month=2024-02&due_day=0", "month=feb&due_day=5", "month=2024-02&due_day=5&status=LATE"} {
		if rec := doJSON(t, h, &tenant, http.MethodGet, "/due-date-status?"+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

type fakePayments struct {
	service.PaymentService
	verifyErr error
	uploaded  service.UploadProofInput
	rejected  string
}

func (f *fakePayments) UploadProof(ctx context.Context, p auth.Principal, in service.UploadProofInput) (*model.PaymentProof, error) {
	f.uploaded = in
	return &model.PaymentProof{ID: "proof-1", BillingID: in.BillingID, PaymentMethod: in.Method}, nil
}

func (f *fakePayments) VerifyProof(ctx context.Context, p auth.Principal, proofID string) (*model.PaymentProof, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &model.PaymentProof{ID: proofID, VerifiedByID: &p.UserID}, nil
}

func (f *fakePayments) RejectProof(ctx context.Context, p auth.Principal, proofID string) error {
	f.rejected = proofID
	return nil
}

func (f *fakePayments) ReceiptURL(ctx context.Context, p auth.Principal, proofID string) (string, error) {
	if p.Role != auth.RoleLandlord && p.Role != auth.RoleTenant {
		return "", apperr.Forbidden("no access")
	}
	return "https://signed.example/" + proofID, nil
}

func TestPaymentProofRoutes(t *testing.T) {
	f := &fakePayments{}
	v := validator.New(validator.WithRequiredStructEnabled())
	h := newServer(NewPaymentHandler(f, v, zerolog.Nop()))

	rec := doJSON(t, h, &tenant, http.MethodPost, "/billings/"+billingID+"/payment-proofs", `{"payment_method":"CASH","receipt_photo_url":"https://cdn/r.png"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body)
	}
	if f.uploaded.BillingID != billingID || f.uploaded.Method != model.PaymentCash {
		t.Fatalf("unexpected upload %+v", f.uploaded)
	}

	rec = doJSON(t, h, &tenant, http.MethodPost, "/billings/"+billingID+"/payment-proofs", `{"payment_method":"CHEQUE","receipt_photo_url":"r"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad method: %d", rec.Code)
	}

	rec = doJSON(t, h, &landlord, http.MethodPost, "/payment-proofs/"+billingID+"/verify", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", rec.Code, rec.Body)
	}

	f.verifyErr = apperr.Conflict("payment proof already verified")
	rec = doJSON(t, h, &landlord, http.MethodPost, "/payment-proofs/"+billingID+"/verify", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second verify: %d", rec.Code)
	}

	rec = doJSON(t, h, &landlord, http.MethodDelete, "/payment-proofs/"+billingID, "")
	if rec.Code != http.StatusNoContent || f.rejected != billingID {
		t.Fatalf("reject: %d rejected %q", rec.Code, f.rejected)
	}

	rec = doJSON(t, h, &landlord, http.MethodDelete, "/payment-proofs/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", rec.Code)
	}

	rec = doJSON(t, h, &tenant, http.MethodGet, "/payment-proofs/"+billingID+"/receipt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("receipt: %d %s", rec.Code, rec.Body)
	}
	var signed dto.SignedURLDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &signed); err != nil || signed.URL != "https://signed.example/"+billingID {
		t.Fatalf("receipt body %s (%v)", rec.Body, err)
	}
}

type fakeUploads struct {
	filename string
	body     string
}

func (f *fakeUploads) UploadMeterPhoto(ctx context.Context, p auth.Principal, filename string, body io.Reader) (string, error) {
	return f.store("meter-photos", filename, body)
}

func (f *fakeUploads) UploadPaymentReceipt(ctx context.Context, p auth.Principal, filename string, body io.Reader) (string, error) {
	return f.store("payment-receipts", filename, body)
}

func (f *fakeUploads) store(folder, filename string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.filename, f.body = filename, string(b)
	return "https://cdn.example/" + folder + "/" + filename, nil
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(content)
	if err := mw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	f := &fakeUploads{}
	h := newServer(NewUploadHandler(f, 1024, zerolog.Nop()))

	body, ct := multipartBody(t, "file", "meter.png", []byte("png-bytes"))
	rec := do(t, h, &landlord, http.MethodPost, "/uploads/meter-photo", body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		URL string `json:"url"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.URL != "https://cdn.example/meter-photos/meter.png" || f.body != "png-bytes" {
		t.Fatalf("unexpected upload url=%q body=%q", resp.URL, f.body)
	}

	body, ct = multipartBody(t, "image", "r.png", []byte("x"))
	if rec := do(t, h, &tenant, http.MethodPost, "/uploads/payment-receipt", body, ct); rec.Code != http.StatusBadRequest {
		t.Fatalf("wrong field: status = %d", rec.Code)
	}

	body, ct = multipartBody(t, "file", "big.png", bytes.Repeat([]byte("a"), 200<<10))
	if rec := do(t, h, &tenant, http.MethodPost, "/uploads/payment-receipt", body, ct); rec.Code != http.StatusBadRequest {
		t.Fatalf("too large: status = %d", rec.Code)
	}
}
