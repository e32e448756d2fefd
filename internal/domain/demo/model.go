// Package demo seeds and tears down a day's worth of synthetic front-desk
// state in the external record store. Seeding is best-effort test scaffolding:
// every resource is attempted, every failure is named, nothing is rolled back.
package demo

// ItemError names a single resource that failed to be written or deleted.
type ItemError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// KindResult reports the outcome for one resource kind within a setup batch.
type KindResult struct {
	Attempted int         `json:"attempted"`
	Succeeded int         `json:"succeeded"`
	Errors    []ItemError `json:"errors,omitempty"`
}

func (r KindResult) failed() int { return r.Attempted - r.Succeeded }

// SetupResult reports a full setup batch. Success is true only when no
// resource of any kind failed.
type SetupResult struct {
	Success      bool       `json:"success"`
	Patients     KindResult `json:"patients"`
	Encounters   KindResult `json:"encounters"`
	Appointments KindResult `json:"appointments"`
}

// ErrorCount returns the number of failed items across all kinds.
func (r *SetupResult) ErrorCount() int {
	return r.Patients.failed() + r.Encounters.failed() + r.Appointments.failed()
}

// ClearResult reports a teardown batch. A clear with nothing tracked succeeds
// trivially with zero attempts.
type ClearResult struct {
	Success   bool        `json:"success"`
	Attempted int         `json:"attempted"`
	Deleted   int         `json:"deleted"`
	Errors    []ItemError `json:"errors,omitempty"`
}

// trackedResource is one record-store resource owned by the current demo set.
type trackedResource struct {
	Type string
	ID   string
}

// dataSet records exactly which resources the last setup wrote, so clear can
// target those ids and nothing else. Broad "delete everything dated today"
// sweeps could destroy real data.
type dataSet struct {
	patients     []trackedResource
	encounters   []trackedResource
	appointments []trackedResource
}

func (d *dataSet) empty() bool {
	return len(d.patients) == 0 && len(d.encounters) == 0 && len(d.appointments) == 0
}

func (d *dataSet) size() int {
	return len(d.patients) + len(d.encounters) + len(d.appointments)
}
