// Package filecheck decides whether an uploaded file may be attested. It
// cross-checks the extension, the declared MIME type and the leading bytes
// so a renamed executable cannot pass as a document.
package filecheck

import (
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/metrics"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

const octetStream = "application/octet-stream"

// Validator applies a Policy to uploads.
type Validator struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewValidator creates a Validator. m may be nil.
func NewValidator(logger *logger.Logger, m *metrics.Metrics) *Validator {
	return &Validator{logger: logger, metrics: m}
}

// Validate runs the checks in order: size, extension deny/allow lists, MIME
// category agreement, magic number. head supplies the leading bytes and may
// be longer than HeadSize; only HeadSize bytes are read.
//
// A read error on head skips the magic number check in lenient mode and
// rejects in strict mode.
func (v *Validator) Validate(policy Policy, info model.FileInfo, head io.Reader) (model.FileValidationResult, error) {
	res, err := v.validate(policy, info, head)
	if err != nil {
		var rej *model.FileRejectedError
		if errors.As(err, &rej) {
			v.metrics.FileRejected(string(rej.Reason))
			v.logger.Info("File validator: upload rejected",
				"file_name", info.Name,
				"mime_type", info.MIMEType,
				"size", info.Size,
				"reason", rej.Reason)
		}
		return model.FileValidationResult{Category: res.Category}, err
	}
	return res, nil
}

func (v *Validator) validate(policy Policy, info model.FileInfo, head io.Reader) (model.FileValidationResult, error) {
	var res model.FileValidationResult

	if info.Size < 0 {
		return res, model.InvalidArgument("negative file size %d", info.Size)
	}
	if policy.MaxSizeBytes > 0 && info.Size > policy.MaxSizeBytes {
		return res, model.NewFileRejected(model.RejectTooLarge, "")
	}

	ext := Extension(info.Name)
	if ext == "" {
		return res, model.NewFileRejected(model.RejectNoExtension, "")
	}
	if IsDenied(ext) {
		return res, model.NewFileRejected(model.RejectExtensionDenied, ext)
	}
	category, ok := CategoryForExtension(ext)
	if !ok {
		return res, model.NewFileRejected(model.RejectExtensionUnsupported, ext)
	}
	res.Category = category
	if !policy.Allows(category) {
		return res, model.NewFileRejected(model.RejectExtensionUnsupported, "category "+string(category)+" not allowed")
	}

	if err := checkMIME(policy, category, info.MIMEType); err != nil {
		return res, err
	}

	if len(Signatures(ext)) > 0 {
		buf, err := readHead(head)
		if err != nil {
			if policy.StrictMode {
				return res, model.NewFileRejected(model.RejectSignatureMismatch, "leading bytes unreadable")
			}
			v.metrics.FileSignatureDegraded()
			v.logger.Warn("File validator: leading bytes unreadable, skipping magic number check",
				"file_name", info.Name,
				"error", err)
			res.SignatureDegraded = true
		} else {
			if _, matched := Match(ext, buf); !matched {
				return res, model.NewFileRejected(model.RejectSignatureMismatch, ext)
			}
			res.SignatureChecked = true
		}
	}

	res.Accepted = true
	return res, nil
}

func checkMIME(policy Policy, category model.FileCategory, declared string) error {
	mt := normalizeMIME(declared)
	if mt == "" || mt == octetStream {
		if policy.StrictMode {
			return model.NewFileRejected(model.RejectMimeMismatch, "mime type not declared")
		}
		return nil
	}

	mimeCategory, ok := categoryForMIME(mt)
	if !ok {
		return model.NewFileRejected(model.RejectMimeMismatch, "unknown mime type "+mt)
	}
	if mimeCategory != category {
		return model.NewFileRejected(model.RejectMimeMismatch, mt+" is not "+string(category))
	}
	return nil
}

func readHead(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.New("no content reader")
	}
	buf := make([]byte, HeadSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:n], nil
}

// Extension returns the lower-cased final extension of name without the dot.
func Extension(name string) string {
	ext := filepath.Ext(strings.TrimSpace(name))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func normalizeMIME(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(declared)
	}
	return mt
}

func categoryForMIME(mt string) (model.FileCategory, bool) {
	if c, ok := mimeCategories[mt]; ok {
		return c, true
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return model.CategoryImage, true
	case strings.HasPrefix(mt, "video/"):
		return model.CategoryVideo, true
	case strings.HasPrefix(mt, "audio/"):
		return model.CategoryAudio, true
	}
	return "", false
}
