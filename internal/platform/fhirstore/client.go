// Package fhirstore is the HTTP client for the external FHIR-compatible
// clinical record store. It exposes the narrow set of operations the front
// desk needs: idempotent upserts and deletes for demo seeding, and day-scoped
// searches over encounters and appointments.
package fhirstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frontdesk/frontdesk/internal/platform/clinic"
)

// DefaultTimeout bounds a single record-store call.
const DefaultTimeout = 10 * time.Second

// StatusError is a non-2xx response from the record store.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("record store returned status %d", e.Code)
	}
	return fmt.Sprintf("record store returned status %d: %s", e.Code, e.Body)
}

// Client talks to the record store's FHIR REST API.
type Client struct {
	baseURL string
	hc      *http.Client
	timeout time.Duration
}

// NewClient creates a Client for the store at baseURL. A non-positive timeout
// falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// UpsertPatient writes the patient under its own id. PUT-by-id makes repeated
// writes of the same demo entity overwrite rather than duplicate.
func (c *Client) UpsertPatient(ctx context.Context, p *Patient) error {
	return c.put(ctx, "Patient", p.ID, p.toFHIR())
}

// UpsertEncounter writes the encounter under its own id.
func (c *Client) UpsertEncounter(ctx context.Context, e *Encounter) error {
	return c.put(ctx, "Encounter", e.ID, e.toFHIR())
}

// UpsertAppointment writes the appointment under its own id.
func (c *Client) UpsertAppointment(ctx context.Context, a *Appointment) error {
	return c.put(ctx, "Appointment", a.ID, a.toFHIR())
}

// Delete removes a resource by type and id. A 404 or 410 is treated as
// success so teardown stays idempotent.
func (c *Client) Delete(ctx context.Context, resourceType, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.resourceURL(resourceType, id), nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", resourceType, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil
	}
	return checkStatus(resp)
}

// EncountersByDay returns the encounters whose period starts on the given
// clinic day.
func (c *Client) EncountersByDay(ctx context.Context, day clinic.Day) ([]Encounter, error) {
	q := url.Values{}
	q.Add("date", "ge"+day.Start.Format(time.RFC3339))
	q.Add("date", "lt"+day.End.Format(time.RFC3339))

	entries, err := c.search(ctx, "Encounter", q)
	if err != nil {
		return nil, err
	}

	encounters := make([]Encounter, 0, len(entries))
	for _, raw := range entries {
		var fe fhirEncounter
		if err := json.Unmarshal(raw, &fe); err != nil {
			return nil, fmt.Errorf("decode encounter: %w", err)
		}
		encounters = append(encounters, encounterFromFHIR(fe))
	}
	return encounters, nil
}

// AppointmentsByDay returns the appointments scheduled on the given clinic day.
func (c *Client) AppointmentsByDay(ctx context.Context, day clinic.Day) ([]Appointment, error) {
	q := url.Values{}
	q.Add("date", "ge"+day.Start.Format(time.RFC3339))
	q.Add("date", "lt"+day.End.Format(time.RFC3339))

	entries, err := c.search(ctx, "Appointment", q)
	if err != nil {
		return nil, err
	}

	appointments := make([]Appointment, 0, len(entries))
	for _, raw := range entries {
		var fa fhirAppointment
		if err := json.Unmarshal(raw, &fa); err != nil {
			return nil, fmt.Errorf("decode appointment: %w", err)
		}
		appointments = append(appointments, appointmentFromFHIR(fa))
	}
	return appointments, nil
}

func (c *Client) put(ctx context.Context, resourceType, id string, resource interface{}) error {
	body, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", resourceType, id, err)
	}
	req, err := c.newRequest(ctx, http.MethodPut, c.resourceURL(resourceType, id), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/fhir+json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", resourceType, id, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) search(ctx context.Context, resourceType string, q url.Values) ([]json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/"+resourceType+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", resourceType, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var b bundle
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode %s bundle: %w", resourceType, err)
	}

	entries := make([]json.RawMessage, 0, len(b.Entry))
	for _, e := range b.Entry {
		entries = append(entries, e.Resource)
	}
	return entries, nil
}

// newRequest builds a request carrying the caller's context. The per-call
// timeout is enforced by the underlying http.Client, so no call can hang past
// c.timeout even with a background context.
func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/fhir+json")
	return req, nil
}

func (c *Client) resourceURL(resourceType, id string) string {
	return c.baseURL + "/" + resourceType + "/" + url.PathEscape(id)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}
