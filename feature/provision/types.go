package provision

import "fmt"

// State is the orchestrator's current phase.
type State int

const (
	// StateStarting launches the storage server background process.
	StateStarting State = iota
	// StateWaitingForStore polls the backend until it accepts credentials.
	StateWaitingForStore
	// StateReady marks a successful handshake.
	StateReady
	// StateProvisioning walks the market tree creating buckets and objects.
	StateProvisioning
	// StateComplete is the terminal success state.
	StateComplete
	// StateTimeout is the terminal failure state when the backend never
	// became reachable.
	StateTimeout
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "STARTING"
	case StateWaitingForStore:
		return "WAITING_FOR_STORE"
	case StateReady:
		return "READY"
	case StateProvisioning:
		return "PROVISIONING"
	case StateComplete:
		return "COMPLETE"
	case StateTimeout:
		return "TIMEOUT"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ProvisionedObject records the outcome of one upload attempt. Records are
// produced during the run and never mutated afterwards.
type ProvisionedObject struct {
	// Dest is the destination path within the base bucket.
	Dest string
	// Tags is the tag set attached (or attempted) for the object.
	Tags map[string]string
	// Uploaded reports whether the object's bytes reached the backend.
	Uploaded bool
	// Tagged reports whether the tag set was attached. A false value with
	// Uploaded true means the tagging call failed and was ignored.
	Tagged bool
	// Err holds the upload failure when Uploaded is false, or the ignored
	// tagging failure when Tagged is false.
	Err error
}

// Result summarizes a provisioning run.
type Result struct {
	Objects []ProvisionedObject
	// HierarchyFailures lists markets whose bucket segments could not be
	// created; their uploads were skipped.
	HierarchyFailures []string
}

// Uploaded counts objects whose bytes reached the backend.
func (r *Result) Uploaded() int {
	n := 0
	for _, o := range r.Objects {
		if o.Uploaded {
			n++
		}
	}
	return n
}

// UploadFailures returns the records whose upload failed.
func (r *Result) UploadFailures() []ProvisionedObject {
	var failed []ProvisionedObject
	for _, o := range r.Objects {
		if !o.Uploaded {
			failed = append(failed, o)
		}
	}
	return failed
}

// TagFailures returns the records whose upload succeeded but whose tagging
// was rejected and ignored.
func (r *Result) TagFailures() []ProvisionedObject {
	var failed []ProvisionedObject
	for _, o := range r.Objects {
		if o.Uploaded && !o.Tagged {
			failed = append(failed, o)
		}
	}
	return failed
}

// UploadError is the fatal-per-object failure of copying an artifact to its
// destination. It carries the destination path so the failed checkpoint can
// be named in the run summary.
type UploadError struct {
	Dest string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Dest, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
