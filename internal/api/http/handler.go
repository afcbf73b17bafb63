// Package http serves the public verification endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// Verifier is the public half of the attestation service.
type Verifier interface {
	Verify(ctx context.Context, code string, candidate []byte) (model.AttestationRecord, model.VerificationResult, error)
	Lookup(ctx context.Context, code string) (model.AttestationRecord, error)
}

// HealthCheck reports the health of one dependency.
type HealthCheck func(ctx context.Context) error

// AttestationView is the public projection of a record.
type AttestationView struct {
	VerificationCode  string    `json:"verification_code"`
	ContentHash       string    `json:"content_hash"`
	SignatureMode     string    `json:"signature_mode"`
	PublicKeyRef      string    `json:"public_key_ref"`
	KeyVersion        int       `json:"key_version"`
	CreatedAt         time.Time `json:"created_at"`
	VerificationCount int64     `json:"verification_count"`
}

type verifyResponse struct {
	Authentic   bool             `json:"authentic"`
	Attestation *AttestationView `json:"attestation,omitempty"`
}

type handler struct {
	verifier     Verifier
	checks       map[string]HealthCheck
	maxBodyBytes int64
	logger       *logger.Logger
}

func newAttestationView(r model.AttestationRecord) *AttestationView {
	return &AttestationView{
		VerificationCode:  r.VerificationCode,
		ContentHash:       r.ContentHash,
		SignatureMode:     string(r.SignatureMode),
		PublicKeyRef:      r.PublicKeyRef.String(),
		KeyVersion:        r.KeyVersion,
		CreatedAt:         r.CreatedAt,
		VerificationCount: r.VerificationCount,
	}
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request) {
	record, err := h.verifier.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAttestationView(record))
}

// verify reads the candidate content from the raw body. Any outcome other
// than authentic gets the same answer.
func (h *handler) verify(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	candidate, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "content too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read content")
		return
	}

	record, result, err := h.verifier.Verify(r.Context(), chi.URLParam(r, "code"), candidate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if result != model.Authentic {
		writeJSON(w, http.StatusOK, verifyResponse{Authentic: false})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Authentic: true, Attestation: newAttestationView(record)})
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string, len(h.checks))
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("HTTP: health check failed", "component", name, "error", err)
			components[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	writeJSON(w, status, map[string]any{"status": overall, "components": components})
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "malformed verification code")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "attestation not found")
	default:
		h.logger.Error("HTTP: request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
