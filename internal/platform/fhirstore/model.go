package fhirstore

import (
	"encoding/json"
	"time"
)

// Urgency classification of a queue encounter.
const (
	UrgencyUrgent  = "urgent"
	UrgencyRegular = "regular"
)

// Appointment statuses the front desk distinguishes. The record store may
// return others; those count only toward totals.
const (
	AppointmentBooked  = "booked"
	AppointmentArrived = "arrived"
)

// Patient is the front-desk view of a record-store patient.
type Patient struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	BirthDate string     `json:"birth_date"`
	Email     string     `json:"email,omitempty"`
	Flags     []string   `json:"flags,omitempty"`
	Returning bool       `json:"returning,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Encounter is a queue entry: a patient's present visit with an urgency
// classification. The day it belongs to is derived from Start.
type Encounter struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Urgency   string    `json:"urgency"`
	Status    string    `json:"status"`
	Start     time.Time `json:"start"`
}

// Appointment is a scheduled visit.
type Appointment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Status    string    `json:"status"`
	Start     time.Time `json:"start"`
}

// -- FHIR wire representation --

type coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type codeableConcept struct {
	Coding []coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type reference struct {
	Reference string `json:"reference,omitempty"`
}

type period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type humanName struct {
	Use    string   `json:"use,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

type contactPoint struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
	Use    string `json:"use,omitempty"`
}

type extension struct {
	URL          string `json:"url"`
	ValueString  string `json:"valueString,omitempty"`
	ValueBoolean *bool  `json:"valueBoolean,omitempty"`
}

const (
	extPatientFlag      = "https://frontdesk.example/fhir/StructureDefinition/patient-flag"
	extReturningPatient = "https://frontdesk.example/fhir/StructureDefinition/returning-patient"

	actPrioritySystem = "http://terminology.hl7.org/CodeSystem/v3-ActPriority"
	actCodeSystem     = "http://terminology.hl7.org/CodeSystem/v3-ActCode"

	priorityUrgent  = "UR"
	priorityRoutine = "R"
)

type fhirPatient struct {
	ResourceType string         `json:"resourceType"`
	ID           string         `json:"id"`
	Active       bool           `json:"active"`
	Name         []humanName    `json:"name,omitempty"`
	Telecom      []contactPoint `json:"telecom,omitempty"`
	BirthDate    string         `json:"birthDate,omitempty"`
	Extension    []extension    `json:"extension,omitempty"`
}

type fhirEncounter struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id"`
	Status       string           `json:"status"`
	Class        *coding          `json:"class,omitempty"`
	Priority     *codeableConcept `json:"priority,omitempty"`
	Subject      *reference       `json:"subject,omitempty"`
	Period       *period          `json:"period,omitempty"`
}

type fhirAppointment struct {
	ResourceType string     `json:"resourceType"`
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	Start        *time.Time `json:"start,omitempty"`
	Participant  []struct {
		Actor  *reference `json:"actor,omitempty"`
		Status string     `json:"status,omitempty"`
	} `json:"participant,omitempty"`
}

type bundle struct {
	ResourceType string        `json:"resourceType"`
	Entry        []bundleEntry `json:"entry,omitempty"`
}

type bundleEntry struct {
	Resource json.RawMessage `json:"resource"`
}

func (p *Patient) toFHIR() fhirPatient {
	fp := fhirPatient{
		ResourceType: "Patient",
		ID:           p.ID,
		Active:       true,
		Name: []humanName{{
			Use:    "official",
			Family: p.LastName,
			Given:  []string{p.FirstName},
		}},
		BirthDate: p.BirthDate,
	}
	if p.Phone != "" {
		fp.Telecom = append(fp.Telecom, contactPoint{System: "phone", Value: p.Phone, Use: "mobile"})
	}
	if p.Email != "" {
		fp.Telecom = append(fp.Telecom, contactPoint{System: "email", Value: p.Email, Use: "home"})
	}
	for _, f := range p.Flags {
		fp.Extension = append(fp.Extension, extension{URL: extPatientFlag, ValueString: f})
	}
	if p.Returning {
		v := true
		fp.Extension = append(fp.Extension, extension{URL: extReturningPatient, ValueBoolean: &v})
	}
	return fp
}

func (e *Encounter) toFHIR() fhirEncounter {
	code := priorityRoutine
	if e.Urgency == UrgencyUrgent {
		code = priorityUrgent
	}
	start := e.Start
	return fhirEncounter{
		ResourceType: "Encounter",
		ID:           e.ID,
		Status:       e.Status,
		Class:        &coding{System: actCodeSystem, Code: "AMB", Display: "ambulatory"},
		Priority:     &codeableConcept{Coding: []coding{{System: actPrioritySystem, Code: code}}},
		Subject:      &reference{Reference: "Patient/" + e.PatientID},
		Period:       &period{Start: &start},
	}
}

func (a *Appointment) toFHIR() fhirAppointment {
	start := a.Start
	fa := fhirAppointment{
		ResourceType: "Appointment",
		ID:           a.ID,
		Status:       a.Status,
		Start:        &start,
	}
	fa.Participant = append(fa.Participant, struct {
		Actor  *reference `json:"actor,omitempty"`
		Status string     `json:"status,omitempty"`
	}{
		Actor:  &reference{Reference: "Patient/" + a.PatientID},
		Status: "accepted",
	})
	return fa
}

func encounterFromFHIR(fe fhirEncounter) Encounter {
	enc := Encounter{
		ID:      fe.ID,
		Status:  fe.Status,
		Urgency: UrgencyRegular,
	}
	if fe.Priority != nil {
		for _, c := range fe.Priority.Coding {
			if c.Code == priorityUrgent {
				enc.Urgency = UrgencyUrgent
			}
		}
	}
	if fe.Subject != nil {
		enc.PatientID = stripReferencePrefix(fe.Subject.Reference, "Patient/")
	}
	if fe.Period != nil && fe.Period.Start != nil {
		enc.Start = *fe.Period.Start
	}
	return enc
}

func appointmentFromFHIR(fa fhirAppointment) Appointment {
	appt := Appointment{
		ID:     fa.ID,
		Status: fa.Status,
	}
	if fa.Start != nil {
		appt.Start = *fa.Start
	}
	for _, p := range fa.Participant {
		if p.Actor == nil {
			continue
		}
		if id := stripReferencePrefix(p.Actor.Reference, "Patient/"); id != "" {
			appt.PatientID = id
			break
		}
	}
	return appt
}

func stripReferencePrefix(ref, prefix string) string {
	if len(ref) > len(prefix) && ref[:len(prefix)] == prefix {
		return ref[len(prefix):]
	}
	return ""
}
