// Package monitor runs the periodic sampling loop: every interval it
// computes the current length of stay for each active patient, walks their
// vital signs forward, and appends a tracking record.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/losmon/losmon/internal/domain/patient"
	"github.com/losmon/losmon/internal/domain/tracking"
	"github.com/losmon/losmon/internal/platform/events"
	"github.com/losmon/losmon/internal/sim"
)

// PatientLister is the subset of the patient repository the loop needs.
type PatientLister interface {
	ListActive(ctx context.Context) ([]*patient.Patient, error)
}

// RecordAppender is the subset of the tracking repository the loop needs.
type RecordAppender interface {
	Append(ctx context.Context, rec *tracking.Record) error
}

// Monitor owns the sampling loop and its per-patient baseline cache. The
// cache anchors the vital-sign random walk; it lives in memory only and is
// rebuilt after a restart, which costs walk continuity but nothing else.
type Monitor struct {
	patients  PatientLister
	records   RecordAppender
	gen       *sim.Generator
	publisher events.Publisher
	logger    zerolog.Logger

	// Interval is the nominal cycle cadence; RetryInterval is the
	// shortened wait after a failed cycle.
	Interval      time.Duration
	RetryInterval time.Duration

	baselines map[string]tracking.VitalSigns
	now       func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

func New(patients PatientLister, records RecordAppender, gen *sim.Generator, logger zerolog.Logger) *Monitor {
	return &Monitor{
		patients:      patients,
		records:       records,
		gen:           gen,
		publisher:     events.NoopPublisher{},
		logger:        logger.With().Str("component", "monitor").Logger(),
		Interval:      5 * time.Minute,
		RetryInterval: time.Minute,
		baselines:     make(map[string]tracking.VitalSigns),
		now:           time.Now,
	}
}

// SetPublisher attaches an optional tracking-update publisher. Publish
// failures are logged and never fail a cycle.
func (m *Monitor) SetPublisher(p events.Publisher) {
	m.publisher = p
}

// Start launches the background loop. Starting a running monitor is a
// no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.logger.Warn().Msg("monitor already running")
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.done = make(chan struct{})
	go m.run(m.stopCh, m.done)
	m.logger.Info().
		Dur("interval", m.Interval).
		Dur("retry_interval", m.RetryInterval).
		Msg("monitor started")
}

// Stop signals the loop and waits for the in-flight cycle to finish.
// There is no mid-cycle cancellation: a cycle that has begun runs to
// completion before the loop observes the stop request.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopCh, done := m.stopCh, m.done
	m.mu.Unlock()

	close(stopCh)
	<-done
	m.logger.Info().Msg("monitor stopped")
}

func (m *Monitor) run(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		wait := m.Interval
		if err := m.RunCycle(context.Background()); err != nil {
			m.logger.Error().Err(err).
				Dur("retry_in", m.RetryInterval).
				Msg("monitoring cycle failed")
			wait = m.RetryInterval
		}

		select {
		case <-stopCh:
			return
		case <-time.After(wait):
		}
	}
}

// RunCycle performs one sampling pass over all active patients. Any error
// aborts the cycle and is returned for the loop to log and back off on;
// records appended before the failure remain appended.
func (m *Monitor) RunCycle(ctx context.Context) error {
	active, err := m.patients.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active patients: %w", err)
	}

	for _, p := range active {
		now := m.now().UTC()
		currentLOS := now.Sub(p.AdmissionDate).Hours() / 24

		baseline, ok := m.baselines[p.ID]
		if !ok {
			baseline = m.gen.Fresh()
		}
		vitals := m.gen.Perturb(baseline)
		m.baselines[p.ID] = vitals

		rec := &tracking.Record{
			PatientID:    p.ID,
			TrackingDate: now,
			CurrentLOS:   currentLOS,
			VitalSigns:   vitals,
		}
		if err := m.records.Append(ctx, rec); err != nil {
			return fmt.Errorf("append tracking record for %s: %w", p.ID, err)
		}

		if err := m.publisher.PublishTrackingUpdate(ctx, events.TrackingUpdate{
			PatientID:    p.ID,
			TrackingDate: now,
			CurrentLOS:   currentLOS,
			VitalSigns:   vitals,
		}); err != nil {
			m.logger.Warn().Err(err).Str("patient", p.ID).Msg("failed to publish tracking update")
		}

		m.logger.Info().
			Str("patient", p.ID).
			Float64("current_los", currentLOS).
			Msg("updated LOS")
	}

	return nil
}
