package demo

import (
	"context"

	"github.com/frontdesk/frontdesk/internal/platform/fhirstore"
)

// RecordStore is the write surface the orchestrator needs. Upserts are keyed
// by the resource's own id so repeated setups overwrite instead of duplicate.
type RecordStore interface {
	UpsertPatient(ctx context.Context, p *fhirstore.Patient) error
	UpsertEncounter(ctx context.Context, e *fhirstore.Encounter) error
	UpsertAppointment(ctx context.Context, a *fhirstore.Appointment) error
	Delete(ctx context.Context, resourceType, id string) error
}
