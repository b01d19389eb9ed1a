package capture

// CallstackType classifies how a callstack was obtained.
type CallstackType int32

const (
	CallstackComplete CallstackType = iota
	CallstackDwarfUnwindingError
	CallstackFramePointerUnwindingError
	CallstackInUprobes
	CallstackInUserSpaceInstrumentation
	CallstackPatchingFailed
	CallstackStackTopForDwarfUnwindingTooSmall
	CallstackStackTopDwarfUnwindingError
)

// Callstack is a sequence of program counters, innermost frame first.
type Callstack struct {
	PCs  []uint64      `json:"pcs"`
	Type CallstackType `json:"type"`
}

// InternedCallstack announces a callstack under Key.
// From a producer Key is producer-local; towards the client it is global.
type InternedCallstack struct {
	Key    uint64     `json:"key"`
	Intern *Callstack `json:"intern"`
}

// CallstackSample references a previously announced callstack.
type CallstackSample struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
	CallstackID uint64 `json:"callstack_id"`
}

// FullCallstackSample carries its callstack inline instead of by reference.
type FullCallstackSample struct {
	Pid         uint32     `json:"pid"`
	Tid         uint32     `json:"tid"`
	TimestampNs uint64     `json:"timestamp_ns"`
	Callstack   *Callstack `json:"callstack"`
}
