package models

import "fmt"

// Status is the lifecycle state of an Application.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusShortlisted Status = "Shortlisted"
	StatusSelected    Status = "Selected"
	StatusRejected    Status = "Rejected"
)

var allStatuses = map[Status]struct{}{
	StatusPending:     {},
	StatusShortlisted: {},
	StatusSelected:    {},
	StatusRejected:    {},
}

// transitions holds the allowed forward moves. Rejected and Selected are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:     {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusSelected, StatusRejected},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := allStatuses[st]; !ok {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return st, nil
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusSelected || s == StatusRejected
}
