package fhirstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontdesk/frontdesk/internal/platform/clinic"
)

func testDay(t *testing.T) clinic.Day {
	t.Helper()
	c, err := clinic.NewClock("Europe/Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.SetNowFunc(func() time.Time {
		return time.Date(2026, 8, 31, 10, 0, 0, 0, c.Location())
	})
	return c.Today()
}

func TestUpsertPatient_PutsByID(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	p := &Patient{
		ID:        "demo-pat-lena-fischer-20260831",
		FirstName: "Lena",
		LastName:  "Fischer",
		Phone:     "+49 30 1234567",
		BirthDate: "1987-04-12",
		Flags:     []string{"interpreter needed"},
		Returning: true,
	}
	if err := c.UpsertPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
	if gotPath != "/Patient/demo-pat-lena-fischer-20260831" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotBody["resourceType"] != "Patient" {
		t.Errorf("expected Patient resource, got %v", gotBody["resourceType"])
	}
	if gotBody["id"] != p.ID {
		t.Errorf("expected id %s, got %v", p.ID, gotBody["id"])
	}
}

func TestUpsert_StoreErrorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "validation failed", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	err := c.UpsertEncounter(context.Background(), &Encounter{ID: "demo-enc-1", PatientID: "p1", Urgency: UrgencyUrgent, Status: "in-progress", Start: time.Now()})
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if se.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", se.Code)
	}
}

func TestDelete_NotFoundIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	if err := c.Delete(context.Background(), "Encounter", "demo-enc-gone"); err != nil {
		t.Fatalf("expected 404 to be tolerated, got %v", err)
	}
}

func TestEncountersByDay_DecodesBundle(t *testing.T) {
	day := testDay(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dates := r.URL.Query()["date"]
		if len(dates) != 2 {
			t.Errorf("expected two date params, got %v", dates)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"resourceType": "Bundle",
			"entry": []map[string]interface{}{
				{"resource": map[string]interface{}{
					"resourceType": "Encounter",
					"id":           "demo-enc-1",
					"status":       "in-progress",
					"priority": map[string]interface{}{
						"coding": []map[string]interface{}{{"system": actPrioritySystem, "code": "UR"}},
					},
					"subject": map[string]interface{}{"reference": "Patient/demo-pat-1"},
					"period":  map[string]interface{}{"start": day.Start.Add(9 * time.Hour).Format(time.RFC3339)},
				}},
				{"resource": map[string]interface{}{
					"resourceType": "Encounter",
					"id":           "demo-enc-2",
					"status":       "planned",
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	encounters, err := c.EncountersByDay(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encounters) != 2 {
		t.Fatalf("expected 2 encounters, got %d", len(encounters))
	}
	if encounters[0].Urgency != UrgencyUrgent {
		t.Errorf("expected urgent, got %s", encounters[0].Urgency)
	}
	if encounters[0].PatientID != "demo-pat-1" {
		t.Errorf("expected patient reference stripped, got %s", encounters[0].PatientID)
	}
	// No priority coding means regular.
	if encounters[1].Urgency != UrgencyRegular {
		t.Errorf("expected regular, got %s", encounters[1].Urgency)
	}
}

func TestAppointmentsByDay_DecodesBundle(t *testing.T) {
	day := testDay(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"resourceType": "Bundle",
			"entry": []map[string]interface{}{
				{"resource": map[string]interface{}{
					"resourceType": "Appointment",
					"id":           "demo-appt-1",
					"status":       "booked",
					"start":        day.Start.Add(14 * time.Hour).Format(time.RFC3339),
					"participant": []map[string]interface{}{
						{"actor": map[string]interface{}{"reference": "Patient/demo-pat-2"}, "status": "accepted"},
					},
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	appointments, err := c.AppointmentsByDay(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appointments))
	}
	if appointments[0].Status != AppointmentBooked {
		t.Errorf("expected booked, got %s", appointments[0].Status)
	}
	if appointments[0].PatientID != "demo-pat-2" {
		t.Errorf("expected demo-pat-2, got %s", appointments[0].PatientID)
	}
}

func TestSearch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	if _, err := c.EncountersByDay(context.Background(), testDay(t)); err == nil {
		t.Error("expected timeout error")
	}
}
