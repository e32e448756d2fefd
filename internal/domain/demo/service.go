package demo

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/platform/clinic"
	"github.com/frontdesk/frontdesk/internal/platform/fhirstore"
)

// ErrBusy is returned when a setup or clear is requested while another
// lifecycle operation is still in flight. The caller should retry once the
// running operation finishes; interleaving two operations would corrupt the
// tracked demo set.
var ErrBusy = errors.New("another demo lifecycle operation is in flight")

// Service owns the demo-data lifecycle: it seeds today's synthetic patients,
// encounters and appointments into the record store and tears down exactly
// what it created. At most one setup-or-clear runs at a time.
type Service struct {
	store  RecordStore
	clock  *clinic.Clock
	logger zerolog.Logger

	mu       sync.Mutex
	inFlight bool
	tracked  dataSet
}

// NewService creates the lifecycle service.
func NewService(store RecordStore, clock *clinic.Clock, logger zerolog.Logger) *Service {
	return &Service{store: store, clock: clock, logger: logger}
}

// begin claims the single-flight slot or reports ErrBusy.
func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrBusy
	}
	s.inFlight = true
	return nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// Setup writes the fixed demo dataset for today. Each resource kind fans out
// independently; a failed write is recorded and does not abort the rest. The
// ids of everything attempted are tracked so Clear can target them precisely.
func (s *Service) Setup(ctx context.Context) (*SetupResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	day := s.clock.Today()
	patients, encounters, appointments := buildDataSet(day, s.clock.Now())

	// Writes run detached from the inbound request: an aborted request must
	// not strand the store half-seeded. Per-call timeouts still apply.
	wctx := context.WithoutCancel(ctx)

	result := &SetupResult{}
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		result.Patients = s.writePatients(wctx, patients)
	}()
	go func() {
		defer wg.Done()
		result.Encounters = s.writeEncounters(wctx, encounters)
	}()
	go func() {
		defer wg.Done()
		result.Appointments = s.writeAppointments(wctx, appointments)
	}()
	wg.Wait()
	result.Success = result.ErrorCount() == 0

	// Track every attempted id, not only the succeeded ones: a write that
	// failed this round may still exist in the store from an earlier setup.
	tracked := dataSet{}
	for _, p := range patients {
		tracked.patients = append(tracked.patients, trackedResource{Type: "Patient", ID: p.ID})
	}
	for _, e := range encounters {
		tracked.encounters = append(tracked.encounters, trackedResource{Type: "Encounter", ID: e.ID})
	}
	for _, a := range appointments {
		tracked.appointments = append(tracked.appointments, trackedResource{Type: "Appointment", ID: a.ID})
	}
	s.mu.Lock()
	s.tracked = tracked
	s.mu.Unlock()

	s.logger.Info().
		Str("day", day.ISO()).
		Int("attempted", tracked.size()).
		Int("errors", result.ErrorCount()).
		Msg("demo setup finished")

	return result, nil
}

// Clear deletes every tracked resource. Calling it with nothing tracked is a
// successful no-op, so clear is safe to call any number of times. After a
// fully successful clear the tracked set is empty; after a partial one it
// holds only the ids that still need deleting.
func (s *Service) Clear(ctx context.Context) (*ClearResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	s.mu.Lock()
	snapshot := s.tracked
	s.mu.Unlock()

	if snapshot.empty() {
		return &ClearResult{Success: true}, nil
	}

	wctx := context.WithoutCancel(ctx)
	result := &ClearResult{Attempted: snapshot.size()}
	remaining := dataSet{}

	// Dependents first: encounters and appointments reference patients, so
	// patient deletes would hit reference conflicts while they exist.
	var wg sync.WaitGroup
	var encErrs, apptErrs []ItemError
	wg.Add(2)
	go func() {
		defer wg.Done()
		remaining.encounters, encErrs = s.deleteAll(wctx, snapshot.encounters)
	}()
	go func() {
		defer wg.Done()
		remaining.appointments, apptErrs = s.deleteAll(wctx, snapshot.appointments)
	}()
	wg.Wait()

	var patErrs []ItemError
	remaining.patients, patErrs = s.deleteAll(wctx, snapshot.patients)

	result.Errors = append(result.Errors, encErrs...)
	result.Errors = append(result.Errors, apptErrs...)
	result.Errors = append(result.Errors, patErrs...)
	result.Deleted = result.Attempted - len(result.Errors)
	result.Success = len(result.Errors) == 0

	s.mu.Lock()
	s.tracked = remaining
	s.mu.Unlock()

	s.logger.Info().
		Int("attempted", result.Attempted).
		Int("deleted", result.Deleted).
		Int("errors", len(result.Errors)).
		Msg("demo clear finished")

	return result, nil
}

func (s *Service) writePatients(ctx context.Context, patients []fhirstore.Patient) KindResult {
	r := KindResult{Attempted: len(patients)}
	for i := range patients {
		if err := s.store.UpsertPatient(ctx, &patients[i]); err != nil {
			r.Errors = append(r.Errors, ItemError{ID: patients[i].ID, Message: err.Error()})
			continue
		}
		r.Succeeded++
	}
	return r
}

func (s *Service) writeEncounters(ctx context.Context, encounters []fhirstore.Encounter) KindResult {
	r := KindResult{Attempted: len(encounters)}
	for i := range encounters {
		if err := s.store.UpsertEncounter(ctx, &encounters[i]); err != nil {
			r.Errors = append(r.Errors, ItemError{ID: encounters[i].ID, Message: err.Error()})
			continue
		}
		r.Succeeded++
	}
	return r
}

func (s *Service) writeAppointments(ctx context.Context, appointments []fhirstore.Appointment) KindResult {
	r := KindResult{Attempted: len(appointments)}
	for i := range appointments {
		if err := s.store.UpsertAppointment(ctx, &appointments[i]); err != nil {
			r.Errors = append(r.Errors, ItemError{ID: appointments[i].ID, Message: err.Error()})
			continue
		}
		r.Succeeded++
	}
	return r
}

// deleteAll attempts every deletion and returns the resources that failed
// alongside their errors.
func (s *Service) deleteAll(ctx context.Context, items []trackedResource) ([]trackedResource, []ItemError) {
	var failed []trackedResource
	var errs []ItemError
	for _, item := range items {
		if err := s.store.Delete(ctx, item.Type, item.ID); err != nil {
			failed = append(failed, item)
			errs = append(errs, ItemError{ID: item.ID, Message: err.Error()})
		}
	}
	return failed, errs
}
