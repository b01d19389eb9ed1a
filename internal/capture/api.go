package capture

// APIEvent is a raw manual-instrumentation event in its packed register form.
type APIEvent struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
	R0          uint64 `json:"r0"`
	R1          uint64 `json:"r1"`
	R2          uint64 `json:"r2"`
	R3          uint64 `json:"r3"`
	R4          uint64 `json:"r4"`
	R5          uint64 `json:"r5"`
}

// APIScopeStart opens a synchronous manual-instrumentation scope.
type APIScopeStart struct {
	Pid               uint32 `json:"pid"`
	Tid               uint32 `json:"tid"`
	TimestampNs       uint64 `json:"timestamp_ns"`
	Name              string `json:"name"`
	ColorRGBA         uint32 `json:"color_rgba"`
	GroupID           uint64 `json:"group_id"`
	AddressInFunction uint64 `json:"address_in_function"`
}

// APIScopeStartAsync opens an asynchronous scope identified by ID.
type APIScopeStartAsync struct {
	Pid               uint32 `json:"pid"`
	Tid               uint32 `json:"tid"`
	TimestampNs       uint64 `json:"timestamp_ns"`
	Name              string `json:"name"`
	ColorRGBA         uint32 `json:"color_rgba"`
	ID                uint64 `json:"id"`
	AddressInFunction uint64 `json:"address_in_function"`
}

// APIScopeStop closes the innermost synchronous scope of a thread.
type APIScopeStop struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
}

// APIScopeStopAsync closes the asynchronous scope with the given ID.
type APIScopeStopAsync struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
	ID          uint64 `json:"id"`
}

// APIStringEvent attaches a string to an asynchronous scope.
type APIStringEvent struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
	Name        string `json:"name"`
	ID          uint64 `json:"id"`
	ColorRGBA   uint32 `json:"color_rgba"`
}

// APITrackDouble is a float64 sample on a named track.
type APITrackDouble struct {
	Pid         uint32  `json:"pid"`
	Tid         uint32  `json:"tid"`
	TimestampNs uint64  `json:"timestamp_ns"`
	Name        string  `json:"name"`
	ColorRGBA   uint32  `json:"color_rgba"`
	Data        float64 `json:"data"`
}

// APITrackFloat is a float32 sample on a named track.
type APITrackFloat struct {
	Pid         uint32  `json:"pid"`
	Tid         uint32  `json:"tid"`
	TimestampNs uint64  `json:"timestamp_ns"`
	Name        string  `json:"name"`
	ColorRGBA   uint32  `json:"color_rgba"`
	Data        float32 `json:"data"`
}

// APITrackInt is an int32 sample on a named track.
type APITrackInt struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
	Name        string `json:"name"`
	ColorRGBA   uint32 `json:"color_rgba"`
	Data        int32  `json:"data"`
}

// APITrackInt64 is an int64 sample on a named track.
type APITrackInt64 struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
	Name        string `json:"name"`
	ColorRGBA   uint32 `json:"color_rgba"`
	Data        int64  `json:"data"`
}

// APITrackUint is a uint32 sample on a named track.
type APITrackUint struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
	Name        string `json:"name"`
	ColorRGBA   uint32 `json:"color_rgba"`
	Data        uint32 `json:"data"`
}

// APITrackUint64 is a uint64 sample on a named track.
type APITrackUint64 struct {
	Pid         uint32 `json:"pid"`
	Tid         uint32 `json:"tid"`
	TimestampNs uint64 `json:"timestamp_ns"`
	Name        string `json:"name"`
	ColorRGBA   uint32 `json:"color_rgba"`
	Data        uint64 `json:"data"`
}
