package capture

// Kind identifies an event variant. Kind names are part of the wire format.
type Kind uint8

// Event kinds. KindUnset is never carried by a valid event.
const (
	KindUnset Kind = iota
	KindCaptureStarted
	KindInternedCallstack
	KindSchedulingSlice
	KindCallstackSample
	KindFullCallstackSample
	KindFullTracepointEvent
	KindFunctionCall
	KindInternedString
	KindFullGpuJob
	KindGpuQueueSubmission
	KindThreadName
	KindThreadNamesSnapshot
	KindThreadStateSlice
	KindFullAddressInfo
	KindIntrospectionScope
	KindModuleUpdateEvent
	KindModulesSnapshot
	KindMemoryUsageEvent
	KindAPIEvent
	KindAPIScopeStart
	KindAPIScopeStartAsync
	KindAPIScopeStop
	KindAPIScopeStopAsync
	KindAPIStringEvent
	KindAPITrackDouble
	KindAPITrackFloat
	KindAPITrackInt
	KindAPITrackInt64
	KindAPITrackUint
	KindAPITrackUint64
	KindWarningEvent
	KindClockResolutionEvent
	KindErrorsWithPerfEventOpenEvent
	KindErrorEnablingAPIEvent
	KindErrorEnablingUserSpaceInstrumentationEvent
	KindLostPerfRecordsEvent
	KindOutOfOrderEventsDiscardedEvent

	// Client-only kinds.
	KindInternedTracepointInfo
	KindTracepointEvent
	KindGpuJob
	KindAddressInfo

	kindCount
)

var kindNames = [kindCount]string{
	KindUnset:                                      "Unset",
	KindCaptureStarted:                             "CaptureStarted",
	KindInternedCallstack:                          "InternedCallstack",
	KindSchedulingSlice:                            "SchedulingSlice",
	KindCallstackSample:                            "CallstackSample",
	KindFullCallstackSample:                        "FullCallstackSample",
	KindFullTracepointEvent:                        "FullTracepointEvent",
	KindFunctionCall:                               "FunctionCall",
	KindInternedString:                             "InternedString",
	KindFullGpuJob:                                 "FullGpuJob",
	KindGpuQueueSubmission:                         "GpuQueueSubmission",
	KindThreadName:                                 "ThreadName",
	KindThreadNamesSnapshot:                        "ThreadNamesSnapshot",
	KindThreadStateSlice:                           "ThreadStateSlice",
	KindFullAddressInfo:                            "FullAddressInfo",
	KindIntrospectionScope:                         "IntrospectionScope",
	KindModuleUpdateEvent:                          "ModuleUpdateEvent",
	KindModulesSnapshot:                            "ModulesSnapshot",
	KindMemoryUsageEvent:                           "MemoryUsageEvent",
	KindAPIEvent:                                   "ApiEvent",
	KindAPIScopeStart:                              "ApiScopeStart",
	KindAPIScopeStartAsync:                         "ApiScopeStartAsync",
	KindAPIScopeStop:                               "ApiScopeStop",
	KindAPIScopeStopAsync:                          "ApiScopeStopAsync",
	KindAPIStringEvent:                             "ApiStringEvent",
	KindAPITrackDouble:                             "ApiTrackDouble",
	KindAPITrackFloat:                              "ApiTrackFloat",
	KindAPITrackInt:                                "ApiTrackInt",
	KindAPITrackInt64:                              "ApiTrackInt64",
	KindAPITrackUint:                               "ApiTrackUint",
	KindAPITrackUint64:                             "ApiTrackUint64",
	KindWarningEvent:                               "WarningEvent",
	KindClockResolutionEvent:                       "ClockResolutionEvent",
	KindErrorsWithPerfEventOpenEvent:               "ErrorsWithPerfEventOpenEvent",
	KindErrorEnablingAPIEvent:                      "ErrorEnablingApiEvent",
	KindErrorEnablingUserSpaceInstrumentationEvent: "ErrorEnablingUserSpaceInstrumentationEvent",
	KindLostPerfRecordsEvent:                       "LostPerfRecordsEvent",
	KindOutOfOrderEventsDiscardedEvent:             "OutOfOrderEventsDiscardedEvent",
	KindInternedTracepointInfo:                     "InternedTracepointInfo",
	KindTracepointEvent:                            "TracepointEvent",
	KindGpuJob:                                     "GpuJob",
	KindAddressInfo:                                "AddressInfo",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

func (k Kind) String() string {
	if k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given wire name.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	if !ok || k == KindUnset {
		return KindUnset, false
	}
	return k, true
}
