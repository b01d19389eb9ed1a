package capture

// InternedString announces a string under Key.
// From a producer Key is producer-local; towards the client it is global.
type InternedString struct {
	Key    uint64 `json:"key"`
	Intern string `json:"intern"`
}

// FullAddressInfo describes a symbolized address with inline names.
type FullAddressInfo struct {
	AbsoluteAddress  uint64 `json:"absolute_address"`
	FunctionName     string `json:"function_name"`
	OffsetInFunction uint64 `json:"offset_in_function"`
	ModuleName       string `json:"module_name"`
}

// AddressInfo is FullAddressInfo with both names replaced by string keys.
type AddressInfo struct {
	AbsoluteAddress  uint64 `json:"absolute_address"`
	FunctionNameKey  uint64 `json:"function_name_key"`
	OffsetInFunction uint64 `json:"offset_in_function"`
	ModuleNameKey    uint64 `json:"module_name_key"`
}

// TracepointInfo names a kernel tracepoint.
type TracepointInfo struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// FullTracepointEvent carries its tracepoint descriptor inline.
type FullTracepointEvent struct {
	Pid            uint32          `json:"pid"`
	Tid            uint32          `json:"tid"`
	TimestampNs    uint64          `json:"timestamp_ns"`
	CPU            int32           `json:"cpu"`
	TracepointInfo *TracepointInfo `json:"tracepoint_info"`
}

// InternedTracepointInfo announces a tracepoint descriptor under a global key.
type InternedTracepointInfo struct {
	Key    uint64          `json:"key"`
	Intern *TracepointInfo `json:"intern"`
}

// TracepointEvent references an announced tracepoint descriptor.
type TracepointEvent struct {
	Pid               uint32 `json:"pid"`
	Tid               uint32 `json:"tid"`
	TimestampNs       uint64 `json:"timestamp_ns"`
	CPU               int32  `json:"cpu"`
	TracepointInfoKey uint64 `json:"tracepoint_info_key"`
}
