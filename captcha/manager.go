package captcha

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/nsoz/arrowcaptcha/captcha/render"
	"github.com/nsoz/arrowcaptcha/captcha/sequence"
	"github.com/nsoz/arrowcaptcha/captcha/session"
	"github.com/nsoz/arrowcaptcha/metrics"
)

// InputResult classifies the outcome of one SubmitInput call.
type InputResult int

const (
	// InputAbsent means no live challenge exists for the identifier; the
	// call had no effect.
	InputAbsent InputResult = iota
	// InputPending means the input was consumed but the challenge is not
	// resolved yet.
	InputPending
	// InputSolved means the entered sequence matched the answer; the
	// challenge was removed from the store.
	InputSolved
	// InputRegenerated means the failure threshold was reached and the
	// challenge was replaced in place with a fresh answer and image.
	InputRegenerated
)

// String returns the result's wire-friendly name.
func (r InputResult) String() string {
	switch r {
	case InputAbsent:
		return "absent"
	case InputPending:
		return "pending"
	case InputSolved:
		return "solved"
	case InputRegenerated:
		return "regenerated"
	default:
		return fmt.Sprintf("InputResult(%d)", int(r))
	}
}

// Manager orchestrates challenge generation, input routing, and
// failure-triggered regeneration over a concurrent session store. Hosts
// hold one Manager instance and pass it by reference; there is no global
// state. All methods are safe for concurrent use.
type Manager struct {
	cfg     Config
	store   *session.Store
	synth   *render.Synthesizer
	renders *semaphore.Weighted
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewManager creates a challenge manager. A nil config uses defaults.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	resolved := *cfg
	resolved.applyDefaults()
	if err := resolved.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Manager{
		cfg:     resolved,
		store:   session.NewStore(),
		synth:   render.NewSynthesizer(),
		renders: semaphore.NewWeighted(int64(resolved.RenderConcurrency)),
		logger:  resolved.Logger,
		metrics: resolved.Metrics,
	}, nil
}

// Generate builds a fresh challenge for the session identifier at the
// given zoom level and installs it, disposing any previous challenge for
// that identifier. An out-of-range zoom returns ErrInvalidZoom and leaves
// any existing challenge untouched. Synthesis runs without holding any
// store lock; on failure the store is left with no challenge for the
// identifier and the host may retry.
func (m *Manager) Generate(ctx context.Context, sessionID string, zoom int) error {
	if zoom < render.MinZoom || zoom > render.MaxZoom {
		return fmt.Errorf("%w: got %d", ErrInvalidZoom, zoom)
	}

	m.store.Remove(sessionID)
	m.updateActiveSessions()

	ch, err := m.synthesize(ctx, sessionID, zoom)
	if err != nil {
		m.logger.Error("challenge generation failed",
			slog.String("session_id", sessionID),
			slog.Int("zoom", zoom),
			slog.Any("error", err))
		return err
	}

	m.store.Install(sessionID, ch)
	if m.metrics != nil {
		m.metrics.Generated.Inc()
	}
	m.updateActiveSessions()
	m.logger.Debug("challenge generated",
		slog.String("session_id", sessionID),
		slog.Int("zoom", zoom))
	return nil
}

// Contains reports whether a live, undisposed challenge exists for the
// identifier.
func (m *Manager) Contains(sessionID string) bool {
	ch, ok := m.store.Get(sessionID)
	return ok && !ch.Disposed()
}

// GetChallenge returns the encoded challenge image for the identifier.
// Missing and disposed challenges are reported identically as absent.
func (m *Manager) GetChallenge(sessionID string) ([]byte, bool) {
	ch, ok := m.store.Get(sessionID)
	if !ok {
		return nil, false
	}
	img, err := ch.ImageBytes()
	if err != nil {
		return nil, false
	}
	return img, true
}

// SubmitInput routes one operator key press into the stored challenge.
//
// Outcomes: InputSolved when the trailing entered symbols match the
// answer (the challenge is removed), InputRegenerated when the failure
// threshold was reached (the challenge was replaced at the same zoom and
// the failure count starts over), InputAbsent when no live challenge
// exists, and InputPending otherwise. Out-of-alphabet symbols are
// consumed as a no-op InputPending.
//
// Because the entered buffer is a sliding window, the full-but-wrong
// check fires on every keystroke once the buffer has filled, not once per
// discrete answer attempt, so the failure count can escalate quickly.
//
// The error is non-nil only when regeneration itself failed; the old
// challenge is removed in that case and the host may Generate again.
func (m *Manager) SubmitInput(ctx context.Context, sessionID string, sym sequence.Symbol) (InputResult, error) {
	ch, ok := m.store.Get(sessionID)
	if !ok || ch.Disposed() {
		return InputAbsent, nil
	}

	outcome := ch.AddInput(sym)
	if !outcome.Accepted && ch.Disposed() {
		// Lost a race with disposal; missing and disposed look the same.
		return InputAbsent, nil
	}
	if outcome.Completed {
		m.store.CompareAndRemove(sessionID, ch)
		if m.metrics != nil {
			m.metrics.Solved.Inc()
		}
		m.updateActiveSessions()
		m.logger.Info("challenge solved", slog.String("session_id", sessionID))
		return InputSolved, nil
	}

	if outcome.Accepted && outcome.BufferFull {
		failures := ch.RecordFailure()
		if m.metrics != nil {
			m.metrics.FailedInputs.Inc()
		}
		if failures >= m.cfg.MaxFailures {
			return m.regenerate(ctx, sessionID, ch)
		}
	}
	return InputPending, nil
}

// regenerate replaces a challenge in place after the failure threshold is
// reached: fresh answer and image, same identifier and zoom. On synthesis
// failure the exhausted challenge is removed so the store never holds a
// half-built or stale entry.
func (m *Manager) regenerate(ctx context.Context, sessionID string, old *session.Challenge) (InputResult, error) {
	fresh, err := m.synthesize(ctx, sessionID, old.Zoom())
	if err != nil {
		m.store.CompareAndRemove(sessionID, old)
		m.updateActiveSessions()
		m.logger.Error("challenge regeneration failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err))
		return InputAbsent, err
	}

	m.store.Install(sessionID, fresh)
	if m.metrics != nil {
		m.metrics.Generated.Inc()
		m.metrics.Regenerated.Inc()
	}
	m.updateActiveSessions()
	m.logger.Info("challenge regenerated",
		slog.String("session_id", sessionID),
		slog.Int("zoom", fresh.Zoom()))
	return InputRegenerated, nil
}

// RemoveChallenge atomically removes and disposes the challenge for the
// identifier. Removing an absent identifier is a no-op.
func (m *Manager) RemoveChallenge(sessionID string) {
	if m.store.Remove(sessionID) != nil {
		m.updateActiveSessions()
		m.logger.Debug("challenge removed", slog.String("session_id", sessionID))
	}
}

// Count returns the number of stored challenges.
func (m *Manager) Count() int {
	return m.store.Len()
}

// SessionIDs returns a snapshot of identifiers with stored challenges,
// for host-side policy layers such as idle-session sweeps.
func (m *Manager) SessionIDs() []string {
	return m.store.IDs()
}

// synthesize runs the full pipeline — answer draw, rasterization,
// post-processing, encoding — bounded by the render semaphore and outside
// any store lock. It returns a fully formed challenge or a wrapped
// ErrGenerationFailed.
func (m *Manager) synthesize(ctx context.Context, sessionID string, zoom int) (*session.Challenge, error) {
	if err := m.renders.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: acquiring render slot: %v", ErrGenerationFailed, err)
	}
	defer m.renders.Release(1)

	rng := m.cfg.NewRand()
	answer := sequence.New(rng).Generate()

	img, err := m.synth.Render(answer, zoom, rng)
	if err != nil {
		if errors.Is(err, ErrInvalidZoom) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	img = render.PostProcess(img, zoom)

	data, err := render.EncodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return session.NewChallenge(sessionID, answer, zoom, data), nil
}

func (m *Manager) updateActiveSessions() {
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(float64(m.store.Len()))
	}
}
