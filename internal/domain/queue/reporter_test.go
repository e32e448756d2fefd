package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/frontdesk/frontdesk/internal/platform/clinic"
	"github.com/frontdesk/frontdesk/internal/platform/fhirstore"
)

// -- Fake record store --

type fakeStore struct {
	encounters    []fhirstore.Encounter
	appointments  []fhirstore.Appointment
	encountersErr error
	apptsErr      error
}

func (f *fakeStore) EncountersByDay(_ context.Context, _ clinic.Day) ([]fhirstore.Encounter, error) {
	return f.encounters, f.encountersErr
}

func (f *fakeStore) AppointmentsByDay(_ context.Context, _ clinic.Day) ([]fhirstore.Appointment, error) {
	return f.appointments, f.apptsErr
}

func fixedClock(t *testing.T) *clinic.Clock {
	t.Helper()
	c, err := clinic.NewClock("Europe/Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.SetNowFunc(func() time.Time {
		return time.Date(2026, 8, 31, 11, 0, 0, 0, c.Location())
	})
	return c
}

func TestStatus_AggregatesBothCollections(t *testing.T) {
	store := &fakeStore{
		encounters: []fhirstore.Encounter{
			{ID: "e1", Urgency: fhirstore.UrgencyUrgent},
			{ID: "e2", Urgency: fhirstore.UrgencyUrgent},
			{ID: "e3", Urgency: fhirstore.UrgencyRegular},
			{ID: "e4", Urgency: fhirstore.UrgencyRegular},
			{ID: "e5", Urgency: fhirstore.UrgencyRegular},
		},
		appointments: []fhirstore.Appointment{
			{ID: "a1", Status: fhirstore.AppointmentBooked},
			{ID: "a2", Status: fhirstore.AppointmentBooked},
			{ID: "a3", Status: fhirstore.AppointmentBooked},
			{ID: "a4", Status: fhirstore.AppointmentArrived},
		},
	}

	snap, err := NewReporter(store, fixedClock(t)).Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Today != "2026-08-31" {
		t.Errorf("expected 2026-08-31, got %s", snap.Today)
	}
	if snap.Queue != (Stats{Total: 5, Urgent: 2, Regular: 3}) {
		t.Errorf("unexpected queue stats: %+v", snap.Queue)
	}
	if snap.Appointments != (AppointmentStats{Total: 4, Booked: 3, Arrived: 1}) {
		t.Errorf("unexpected appointment stats: %+v", snap.Appointments)
	}
}

func TestStatus_EmptyDay(t *testing.T) {
	snap, err := NewReporter(&fakeStore{}, fixedClock(t)).Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Queue.Total != 0 || snap.Appointments.Total != 0 {
		t.Errorf("expected all-zero snapshot, got %+v", snap)
	}
}

func TestStatus_EncounterFetchFailureIsFatal(t *testing.T) {
	store := &fakeStore{
		encountersErr: fmt.Errorf("connection refused"),
		appointments:  []fhirstore.Appointment{{ID: "a1", Status: fhirstore.AppointmentBooked}},
	}
	_, err := NewReporter(store, fixedClock(t)).Status(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestStatus_AppointmentFetchFailureIsFatal(t *testing.T) {
	store := &fakeStore{
		apptsErr: fmt.Errorf("gateway timeout"),
	}
	_, err := NewReporter(store, fixedClock(t)).Status(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
