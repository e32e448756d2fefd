package demo

import (
	"fmt"
	"time"

	"github.com/frontdesk/frontdesk/internal/platform/clinic"
	"github.com/frontdesk/frontdesk/internal/platform/fhirstore"
)

// The demo dataset is fixed and deterministic: the same clinic day always
// produces the same resources under the same ids. Repeating setup therefore
// upserts instead of duplicating.

type patientFixture struct {
	Slug      string
	First     string
	Last      string
	Phone     string
	BirthDate string
	Email     string
	Flags     []string
	Returning bool
}

type encounterFixture struct {
	Slug        string
	PatientSlug string
	Urgency     string
	Status      string
	HourOffset  int
}

type appointmentFixture struct {
	Slug        string
	PatientSlug string
	Status      string
	HourOffset  int
}

var patientFixtures = []patientFixture{
	{
		Slug: "lena-fischer", First: "Lena", Last: "Fischer",
		Phone: "+49 30 5550101", BirthDate: "1987-04-12",
		Email: "lena.fischer@example.com", Returning: true,
	},
	{
		Slug: "jonas-weber", First: "Jonas", Last: "Weber",
		Phone: "+49 30 5550102", BirthDate: "1954-11-03",
		Flags: []string{"hard of hearing"}, Returning: true,
	},
	{
		Slug: "amira-haddad", First: "Amira", Last: "Haddad",
		Phone: "+49 30 5550103", BirthDate: "1992-07-28",
		Email: "amira.haddad@example.com",
		Flags: []string{"interpreter needed"},
	},
	{
		Slug: "karl-brandt", First: "Karl", Last: "Brandt",
		Phone: "+49 30 5550104", BirthDate: "1948-02-17",
		Flags: []string{"wheelchair access", "anticoagulated"}, Returning: true,
	},
	{
		Slug: "sofia-rossi", First: "Sofia", Last: "Rossi",
		Phone: "+49 30 5550105", BirthDate: "2001-09-09",
		Email: "sofia.rossi@example.com",
	},
}

var encounterFixtures = []encounterFixture{
	{Slug: "lena-fischer", PatientSlug: "lena-fischer", Urgency: fhirstore.UrgencyUrgent, Status: "in-progress", HourOffset: 8},
	{Slug: "jonas-weber", PatientSlug: "jonas-weber", Urgency: fhirstore.UrgencyUrgent, Status: "triaged", HourOffset: 9},
	{Slug: "amira-haddad", PatientSlug: "amira-haddad", Urgency: fhirstore.UrgencyRegular, Status: "arrived", HourOffset: 9},
	{Slug: "karl-brandt", PatientSlug: "karl-brandt", Urgency: fhirstore.UrgencyRegular, Status: "arrived", HourOffset: 10},
	{Slug: "sofia-rossi", PatientSlug: "sofia-rossi", Urgency: fhirstore.UrgencyRegular, Status: "planned", HourOffset: 11},
}

var appointmentFixtures = []appointmentFixture{
	{Slug: "lena-fischer", PatientSlug: "lena-fischer", Status: fhirstore.AppointmentArrived, HourOffset: 8},
	{Slug: "jonas-weber", PatientSlug: "jonas-weber", Status: fhirstore.AppointmentBooked, HourOffset: 13},
	{Slug: "amira-haddad", PatientSlug: "amira-haddad", Status: fhirstore.AppointmentBooked, HourOffset: 14},
	{Slug: "sofia-rossi", PatientSlug: "sofia-rossi", Status: fhirstore.AppointmentBooked, HourOffset: 16},
}

func patientID(slug string, day clinic.Day) string {
	return fmt.Sprintf("demo-pat-%s-%s", slug, day.Start.Format("20060102"))
}

func encounterID(slug string, day clinic.Day) string {
	return fmt.Sprintf("demo-enc-%s-%s", slug, day.Start.Format("20060102"))
}

func appointmentID(slug string, day clinic.Day) string {
	return fmt.Sprintf("demo-appt-%s-%s", slug, day.Start.Format("20060102"))
}

// buildDataSet materializes the fixtures for the given clinic day.
func buildDataSet(day clinic.Day, now time.Time) ([]fhirstore.Patient, []fhirstore.Encounter, []fhirstore.Appointment) {
	patients := make([]fhirstore.Patient, 0, len(patientFixtures))
	for _, f := range patientFixtures {
		created := now
		patients = append(patients, fhirstore.Patient{
			ID:        patientID(f.Slug, day),
			FirstName: f.First,
			LastName:  f.Last,
			Phone:     f.Phone,
			BirthDate: f.BirthDate,
			Email:     f.Email,
			Flags:     f.Flags,
			Returning: f.Returning,
			CreatedAt: &created,
		})
	}

	encounters := make([]fhirstore.Encounter, 0, len(encounterFixtures))
	for _, f := range encounterFixtures {
		encounters = append(encounters, fhirstore.Encounter{
			ID:        encounterID(f.Slug, day),
			PatientID: patientID(f.PatientSlug, day),
			Urgency:   f.Urgency,
			Status:    f.Status,
			Start:     day.Start.Add(time.Duration(f.HourOffset) * time.Hour),
		})
	}

	appointments := make([]fhirstore.Appointment, 0, len(appointmentFixtures))
	for _, f := range appointmentFixtures {
		appointments = append(appointments, fhirstore.Appointment{
			ID:        appointmentID(f.Slug, day),
			PatientID: patientID(f.PatientSlug, day),
			Status:    f.Status,
			Start:     day.Start.Add(time.Duration(f.HourOffset) * time.Hour),
		})
	}

	return patients, encounters, appointments
}
