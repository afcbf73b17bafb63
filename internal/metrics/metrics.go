// Package metrics holds the prometheus collectors of the service. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service collectors.
type Metrics struct {
	signatures     *prometheus.CounterVec
	verifications  *prometheus.CounterVec
	codeCollisions prometheus.Counter
	cacheLookups   *prometheus.CounterVec
	cacheErrors    *prometheus.CounterVec
	fileRejections *prometheus.CounterVec
	fileDegraded   prometheus.Counter
	totpAttempts   *prometheus.CounterVec
}

// New creates the collectors and registers them on reg (default registerer if nil).
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	var err error
	m := &Metrics{}

	if m.signatures, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attest_signatures_total",
		Help: "Attestations signed, by signature mode",
	}, []string{"mode"})); err != nil {
		return nil, err
	}
	if m.verifications, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attest_verifications_total",
		Help: "Attestation verifications, by result",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if m.codeCollisions, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attest_code_collisions_total",
		Help: "Verification code inserts rejected by the unique constraint",
	})); err != nil {
		return nil, err
	}
	if m.cacheLookups, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "key_cache_lookups_total",
		Help: "Key cache tier lookups, by tier and outcome (hit, miss, stale)",
	}, []string{"tier", "outcome"})); err != nil {
		return nil, err
	}
	if m.cacheErrors, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "key_cache_errors_total",
		Help: "Best-effort key cache tier failures, by tier and operation",
	}, []string{"tier", "op"})); err != nil {
		return nil, err
	}
	if m.fileRejections, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "file_rejections_total",
		Help: "Uploads rejected by the integrity validator, by reason",
	}, []string{"reason"})); err != nil {
		return nil, err
	}
	if m.fileDegraded, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "file_signature_check_degraded_total",
		Help: "Uploads accepted without a magic number check after a read error",
	})); err != nil {
		return nil, err
	}
	if m.totpAttempts, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "totp_attempts_total",
		Help: "Second factor attempts, by method and outcome",
	}, []string{"method", "outcome"})); err != nil {
		return nil, err
	}

	return m, nil
}

// register returns the already registered collector when c duplicates one.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

func (m *Metrics) SignatureCreated(mode string) {
	if m == nil {
		return
	}
	m.signatures.WithLabelValues(mode).Inc()
}

func (m *Metrics) Verification(result string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(result).Inc()
}

func (m *Metrics) CodeCollision() {
	if m == nil {
		return
	}
	m.codeCollisions.Inc()
}

func (m *Metrics) CacheLookup(tier, outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(tier, outcome).Inc()
}

func (m *Metrics) CacheError(tier, op string) {
	if m == nil {
		return
	}
	m.cacheErrors.WithLabelValues(tier, op).Inc()
}

func (m *Metrics) FileRejected(reason string) {
	if m == nil {
		return
	}
	m.fileRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) FileSignatureDegraded() {
	if m == nil {
		return
	}
	m.fileDegraded.Inc()
}

func (m *Metrics) TOTPAttempt(method, outcome string) {
	if m == nil {
		return
	}
	m.totpAttempts.WithLabelValues(method, outcome).Inc()
}
