package capture

import "fmt"

// Violation classifies a protocol error.
type Violation uint8

const (
	// ViolationUnsetEvent is an event carrying no variant.
	ViolationUnsetEvent Violation = iota + 1
	// ViolationDuplicateAnnouncement is a second announcement of a
	// (producer, local id) pair.
	ViolationDuplicateAnnouncement
	// ViolationUnresolvedReference is a reference to a local id the producer
	// never announced.
	ViolationUnresolvedReference
)

func (v Violation) String() string {
	switch v {
	case ViolationUnsetEvent:
		return "unset event"
	case ViolationDuplicateAnnouncement:
		return "duplicate announcement"
	case ViolationUnresolvedReference:
		return "unresolved reference"
	default:
		return fmt.Sprintf("violation(%d)", uint8(v))
	}
}

// ProtocolError describes a producer stream that broke the interning
// protocol. The id mappings of the session are unreliable once one occurs,
// so it is raised with panic and recovered only at the session boundary.
type ProtocolError struct {
	Violation  Violation
	ProducerID uint64
	Kind       Kind
	// Table names the translation table involved, if any.
	Table   string
	LocalID uint64
}

func (e *ProtocolError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("protocol violation: %s from producer %d (%s)", e.Violation, e.ProducerID, e.Kind)
	}
	return fmt.Sprintf("protocol violation: %s of %s id %d from producer %d (%s)",
		e.Violation, e.Table, e.LocalID, e.ProducerID, e.Kind)
}
