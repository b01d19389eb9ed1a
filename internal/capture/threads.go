package capture

// SchedulingSlice is a period during which a thread ran on a core.
type SchedulingSlice struct {
	Pid            uint32 `json:"pid"`
	Tid            uint32 `json:"tid"`
	Core           int32  `json:"core"`
	DurationNs     uint64 `json:"duration_ns"`
	OutTimestampNs uint64 `json:"out_timestamp_ns"`
}

// ThreadName reports the name of a thread at a point in time.
type ThreadName struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	Name        string `json:"name"`
	TimestampNs uint64 `json:"timestamp_ns"`
}

// ThreadNamesSnapshot lists the names of all threads at capture start.
type ThreadNamesSnapshot struct {
	TimestampNs uint64       `json:"timestamp_ns"`
	ThreadNames []ThreadName `json:"thread_names"`
}

// ThreadState is the scheduler state of a thread.
type ThreadState int32

const (
	ThreadStateRunning ThreadState = iota
	ThreadStateRunnable
	ThreadStateInterruptibleSleep
	ThreadStateUninterruptibleSleep
	ThreadStateStopped
	ThreadStateTraced
	ThreadStateDead
	ThreadStateZombie
	ThreadStateParked
	ThreadStateIdle
)

// WakeupReason tells why a thread left a sleeping state.
type WakeupReason int32

const (
	WakeupReasonNotApplicable WakeupReason = iota
	WakeupReasonUnblocked
	WakeupReasonCreated
)

// ThreadStateSlice is a period a thread spent in one state.
type ThreadStateSlice struct {
	Pid            uint32       `json:"pid"`
	Tid            uint32       `json:"tid"`
	ThreadState    ThreadState  `json:"thread_state"`
	DurationNs     uint64       `json:"duration_ns"`
	EndTimestampNs uint64       `json:"end_timestamp_ns"`
	WakeupReason   WakeupReason `json:"wakeup_reason"`
	WakeupTid      uint32       `json:"wakeup_tid"`
	WakeupPid      uint32       `json:"wakeup_pid"`
}

// FunctionCall is a dynamically instrumented function invocation.
type FunctionCall struct {
	Pid            uint32   `json:"pid"`
	Tid            uint32   `json:"tid"`
	FunctionID     uint64   `json:"function_id"`
	DurationNs     uint64   `json:"duration_ns"`
	EndTimestampNs uint64   `json:"end_timestamp_ns"`
	Depth          int32    `json:"depth"`
	ReturnValue    uint64   `json:"return_value"`
	Registers      []uint64 `json:"registers,omitempty"`
}

// IntrospectionScope is a scope emitted by the service's own instrumentation.
type IntrospectionScope struct {
	Pid            uint32   `json:"pid"`
	Tid            uint32   `json:"tid"`
	DurationNs     uint64   `json:"duration_ns"`
	EndTimestampNs uint64   `json:"end_timestamp_ns"`
	Depth          int32    `json:"depth"`
	Registers      []uint64 `json:"registers,omitempty"`
}
