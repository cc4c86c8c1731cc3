package models

// ApplicationStatus is the closed set of decision states an application
// moves through. An application starts pending and is decided exactly once.
type ApplicationStatus string

const (
	// StatusPending indicates the application awaits an admin decision.
	StatusPending ApplicationStatus = "pending"
	// StatusAccepted indicates an admin awarded the scholarship.
	StatusAccepted ApplicationStatus = "accepted"
	// StatusRejected indicates an admin declined the application.
	StatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is a known status value.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transition.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransition reports whether moving from s to next is a legal status
// change. Only pending applications may be decided, and a decision is final.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusAccepted || next == StatusRejected
}
