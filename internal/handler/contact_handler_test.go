package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/58nights/backend/internal/model"
	"github.com/58nights/backend/internal/notify"
	"github.com/58nights/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc func(ctx context.Context, sub *model.Submission) error
	listFunc   func(ctx context.Context) ([]*model.Submission, error)
	hasBackup  bool
	submitted  []*model.Submission
}

func (m *mockContactService) Submit(ctx context.Context, sub *model.Submission) error {
	m.submitted = append(m.submitted, sub)
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return nil
}

func (m *mockContactService) List(ctx context.Context) ([]*model.Submission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockContactService) HasBackup() bool { return m.hasBackup }

func postJSON(h *ContactHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func decodeSubmitResponse(t *testing.T, rec *httptest.ResponseRecorder) submitResponse {
	t.Helper()
	var resp submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v — body: %s", err, rec.Body.String())
	}
	return resp
}

// ---------------------------------------------------------------------------
// POST /api/contact tests
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	mock := &mockContactService{hasBackup: true}
	h := NewContactHandler(mock)

	rec := postJSON(h, `{"name":"Ada","email":"ada@example.com","message":"Hello\nWorld"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	resp := decodeSubmitResponse(t, rec)
	if !resp.Success || resp.Message != "Message sent successfully" || resp.Error != "" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(mock.submitted) != 1 {
		t.Fatalf("expected exactly one Submit, got %d", len(mock.submitted))
	}
	got := mock.submitted[0]
	if got.Name != "Ada" || got.Email != "ada@example.com" || got.Message != "Hello\nWorld" {
		t.Errorf("unexpected submission: %+v", got)
	}
}

func TestContactHandler_Submit_MissingFields(t *testing.T) {
	bodies := map[string]string{
		"empty name":      `{"name":"","email":"x@x.com","message":"hi"}`,
		"missing name":    `{"email":"x@x.com","message":"hi"}`,
		"missing email":   `{"name":"Bob","message":"hi"}`,
		"empty message":   `{"name":"Bob","email":"x@x.com","message":""}`,
		"empty object":    `{}`,
		"empty body":      ``,
		"all fields null": `{"name":null,"email":null,"message":null}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			mock := &mockContactService{}
			h := NewContactHandler(mock)

			rec := postJSON(h, body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			resp := decodeSubmitResponse(t, rec)
			if resp.Success || resp.Error != "All fields are required" {
				t.Errorf("unexpected response: %+v", resp)
			}
			if len(mock.submitted) != 0 {
				t.Errorf("service must not be called, got %d calls", len(mock.submitted))
			}
		})
	}
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	rec := postJSON(h, `{"name":`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if len(mock.submitted) != 0 {
		t.Error("service must not be called on malformed JSON")
	}
}

func TestContactHandler_Submit_TooLarge(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	big := strings.Repeat("a", maxBodyBytes+1)
	rec := postJSON(h, `{"name":"Ada","email":"a@example.com","message":"`+big+`"}`)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
	if len(mock.submitted) != 0 {
		t.Error("service must not be called for oversized bodies")
	}
}

func TestContactHandler_Submit_FormEncoded(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"from a form"}}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if len(mock.submitted) != 1 || mock.submitted[0].Message != "from a form" {
		t.Errorf("unexpected submissions: %+v", mock.submitted)
	}
}

func TestContactHandler_Submit_MethodNotAllowed(t *testing.T) {
	methods := []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions}
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			mock := &mockContactService{}
			h := NewContactHandler(mock)

			// A complete body must not change the outcome.
			req := httptest.NewRequest(method, "/api/contact",
				strings.NewReader(`{"name":"Ada","email":"ada@example.com","message":"hi"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.Submit(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected 405, got %d", rec.Code)
			}
			if method != http.MethodHead {
				var resp map[string]string
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp["error"] != "Method not allowed" {
					t.Errorf("unexpected body: %v", resp)
				}
			}
			if len(mock.submitted) != 0 {
				t.Error("service must not be called")
			}
		})
	}
}

func TestContactHandler_Submit_NotifyFailureWithBackup(t *testing.T) {
	mock := &mockContactService{
		hasBackup: true,
		submitFunc: func(ctx context.Context, sub *model.Submission) error {
			return &notify.Error{Backend: "smtp", Err: errors.New("535 5.7.8 bad credentials for user@example.com")}
		},
	}
	h := NewContactHandler(mock)

	rec := postJSON(h, `{"name":"Ada","email":"ada@example.com","message":"hi"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "535") || strings.Contains(body, "credentials") {
		t.Errorf("backend detail leaked to client: %s", body)
	}
	resp := decodeSubmitResponse(t, rec)
	if resp.Success || resp.Error != "Failed to send email. Your message has been saved and we'll get back to you." {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestContactHandler_Submit_NotifyFailureWithoutBackup(t *testing.T) {
	mock := &mockContactService{
		hasBackup: false,
		submitFunc: func(ctx context.Context, sub *model.Submission) error {
			return &notify.Error{Backend: "resend", Err: errors.New("timeout")}
		},
	}
	h := NewContactHandler(mock)

	rec := postJSON(h, `{"name":"Ada","email":"ada@example.com","message":"hi"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	resp := decodeSubmitResponse(t, rec)
	if resp.Error != "Failed to send email. Please try again later." {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

// ---------------------------------------------------------------------------
// GET /api/submissions tests
// ---------------------------------------------------------------------------

func TestContactHandler_Submissions_ReturnsLog(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context) ([]*model.Submission, error) {
			return []*model.Submission{
				{Name: "Ada", Email: "ada@example.com", Message: "hi", Timestamp: "2024-01-01T00:00:00.000Z"},
				{Name: "Grace", Email: "grace@example.com", Message: "yo", Timestamp: "2024-01-01T00:00:01.000Z"},
			}, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	rec := httptest.NewRecorder()
	h.Submissions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var subs []model.Submission
	if err := json.NewDecoder(rec.Body).Decode(&subs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(subs) != 2 || subs[0].Name != "Ada" || subs[1].Name != "Grace" {
		t.Errorf("unexpected log: %+v", subs)
	}
}

func TestContactHandler_Submissions_EmptyIsArray(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	rec := httptest.NewRecorder()
	h.Submissions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestContactHandler_Submissions_CorruptStore(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context) ([]*model.Submission, error) {
			return nil, repository.ErrCorruptStore
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	rec := httptest.NewRecorder()
	h.Submissions(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
