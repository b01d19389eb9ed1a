package capture

// WarningEvent is a free-form warning raised by a producer.
type WarningEvent struct {
	TimestampNs uint64 `json:"timestamp_ns"`
	Message     string `json:"message"`
}

// ClockResolutionEvent reports the resolution of the producer's clock.
type ClockResolutionEvent struct {
	TimestampNs       uint64 `json:"timestamp_ns"`
	ClockResolutionNs uint64 `json:"clock_resolution_ns"`
}

// ErrorsWithPerfEventOpenEvent lists the perf events that could not be opened.
type ErrorsWithPerfEventOpenEvent struct {
	TimestampNs  uint64   `json:"timestamp_ns"`
	FailedToOpen []string `json:"failed_to_open"`
}

// ErrorEnablingAPIEvent reports that manual instrumentation could not be
// enabled in the target.
type ErrorEnablingAPIEvent struct {
	TimestampNs uint64 `json:"timestamp_ns"`
	Message     string `json:"message"`
}

// ErrorEnablingUserSpaceInstrumentationEvent reports that user space dynamic
// instrumentation could not be enabled.
type ErrorEnablingUserSpaceInstrumentationEvent struct {
	TimestampNs uint64 `json:"timestamp_ns"`
	Message     string `json:"message"`
}

// LostPerfRecordsEvent is a period for which the kernel dropped records.
type LostPerfRecordsEvent struct {
	DurationNs     uint64 `json:"duration_ns"`
	EndTimestampNs uint64 `json:"end_timestamp_ns"`
}

// OutOfOrderEventsDiscardedEvent is a period for which events arrived too
// late to be ordered and were dropped.
type OutOfOrderEventsDiscardedEvent struct {
	DurationNs     uint64 `json:"duration_ns"`
	EndTimestampNs uint64 `json:"end_timestamp_ns"`
}
