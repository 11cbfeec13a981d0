package workflow

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the derived lifecycle state of a workflow.
//
//	pending ──> in_progress ──> completed
//	               │    ^
//	               v    │ approve / reject / complete
//	        override_required
type Status int

const (
	// StatusUnknown catches uninitialised values.
	StatusUnknown Status = iota
	StatusPending
	StatusInProgress
	StatusCompleted
	StatusOverrideRequired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:          "unknown",
		StatusPending:          "pending",
		StatusInProgress:       "in_progress",
		StatusCompleted:        "completed",
		StatusOverrideRequired: "override_required",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ParseStatus maps a wire string to a Status.
func ParseStatus(str string) (Status, error) {
	for s, name := range getStatusStrings() {
		if s != StatusUnknown && name == str {
			return s, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", str))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
