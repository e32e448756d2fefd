package queue

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/frontdesk/frontdesk/internal/platform/clinic"
	"github.com/frontdesk/frontdesk/internal/platform/fhirstore"
)

// ErrUpstream marks a failed read from the record store. The status snapshot
// is all-or-nothing: a partial snapshot would misstate clinic occupancy, so
// any fetch failure aborts the whole computation.
var ErrUpstream = errors.New("record store read failed")

// RecordStore is the read surface the reporter needs.
type RecordStore interface {
	EncountersByDay(ctx context.Context, day clinic.Day) ([]fhirstore.Encounter, error)
	AppointmentsByDay(ctx context.Context, day clinic.Day) ([]fhirstore.Appointment, error)
}

// Snapshot is one consistent view of today's queue and appointment book.
type Snapshot struct {
	Today        string           `json:"today"`
	Queue        Stats            `json:"queue"`
	Appointments AppointmentStats `json:"appointments"`
}

// Reporter composes day resolution, concurrent record-store reads and
// aggregation into a single status snapshot.
type Reporter struct {
	store RecordStore
	clock *clinic.Clock
}

// NewReporter creates a Reporter.
func NewReporter(store RecordStore, clock *clinic.Clock) *Reporter {
	return &Reporter{store: store, clock: clock}
}

// Status resolves today in the clinic timezone, fetches the day's encounters
// and appointments concurrently, and aggregates both. Either fetch failing
// fails the snapshot with ErrUpstream wrapping the cause.
func (r *Reporter) Status(ctx context.Context) (*Snapshot, error) {
	day := r.clock.Today()

	var encounters []fhirstore.Encounter
	var appointments []fhirstore.Appointment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		encounters, err = r.store.EncountersByDay(gctx, day)
		if err != nil {
			return fmt.Errorf("encounters: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		appointments, err = r.store.AppointmentsByDay(gctx, day)
		if err != nil {
			return fmt.Errorf("appointments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return &Snapshot{
		Today:        day.ISO(),
		Queue:        Aggregate(encounters),
		Appointments: AggregateAppointments(appointments),
	}, nil
}
