// Package queue aggregates the day's encounters and appointments into the
// occupancy statistics shown on the front-desk panels.
package queue

import (
	"github.com/frontdesk/frontdesk/internal/platform/fhirstore"
)

// Stats summarizes today's queue occupancy. Derived, never persisted.
type Stats struct {
	Total   int `json:"total"`
	Urgent  int `json:"urgent"`
	Regular int `json:"regular"`
}

// AppointmentStats summarizes today's appointment book.
type AppointmentStats struct {
	Total   int `json:"total"`
	Booked  int `json:"booked"`
	Arrived int `json:"arrived"`
}

// Aggregate computes queue stats in a single pass. Everything that is not
// urgent counts as regular, so urgent+regular always equals total.
func Aggregate(encounters []fhirstore.Encounter) Stats {
	s := Stats{Total: len(encounters)}
	for _, e := range encounters {
		if e.Urgency == fhirstore.UrgencyUrgent {
			s.Urgent++
		}
	}
	s.Regular = s.Total - s.Urgent
	return s
}

// AggregateAppointments computes appointment stats in a single pass. Statuses
// other than booked and arrived count toward the total only.
func AggregateAppointments(appointments []fhirstore.Appointment) AppointmentStats {
	s := AppointmentStats{Total: len(appointments)}
	for _, a := range appointments {
		switch a.Status {
		case fhirstore.AppointmentBooked:
			s.Booked++
		case fhirstore.AppointmentArrived:
			s.Arrived++
		}
	}
	return s
}
