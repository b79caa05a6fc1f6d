package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/58nights/backend/internal/model"
	"github.com/58nights/backend/internal/service"
)

// maxBodyBytes caps request bodies at 100kb.
const maxBodyBytes = 100 << 10

// Client-visible messages. Notification failures are reported with one of
// the two generic messages depending on whether a backup log exists.
const (
	msgSent            = "Message sent successfully"
	msgFieldsRequired  = "All fields are required"
	msgInvalidBody     = "Invalid request body"
	msgBodyTooLarge    = "Request body too large"
	msgMethodNotAllow  = "Method not allowed"
	msgSendFailedSaved = "Failed to send email. Your message has been saved and we'll get back to you."
	msgSendFailedRetry = "Failed to send email. Please try again later."
	msgListFailed      = "Failed to read submissions"
)

// ContactHandler handles contact form submission and the admin log listing.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// submitRequest is the expected body for POST /api/contact.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Submit handles POST /api/contact.
// name, email and message are all required; any other method is rejected
// with 405 before the body is looked at.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": msgMethodNotAllow})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req, err := decodeSubmit(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, submitResponse{Error: msgBodyTooLarge})
			return
		}
		writeJSON(w, http.StatusBadRequest, submitResponse{Error: msgInvalidBody})
		return
	}

	sub := &model.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if !sub.Complete() {
		writeJSON(w, http.StatusBadRequest, submitResponse{Error: msgFieldsRequired})
		return
	}

	if err := h.contactService.Submit(r.Context(), sub); err != nil {
		// Details were logged by the service; the client only gets the generic message.
		msg := msgSendFailedRetry
		if h.contactService.HasBackup() {
			msg = msgSendFailedSaved
		}
		writeJSON(w, http.StatusInternalServerError, submitResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{Success: true, Message: msgSent})
}

// decodeSubmit reads a JSON or URL-encoded form body. An empty body decodes
// to an empty request so that it fails field validation rather than parsing.
func decodeSubmit(r *http.Request) (submitRequest, error) {
	var req submitRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, err
		}
		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Message = r.FormValue("message")
		return req, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

// Submissions handles GET /api/submissions. Callers must be authorised by
// auth.RequireAdminKey.
func (h *ContactHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.contactService.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read submissions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msgListFailed})
		return
	}

	// Return [] not null for empty logs
	if subs == nil {
		subs = []*model.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}
