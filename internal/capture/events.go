package capture

// ProducerEvent is the closed set of events a producer can send.
// A nil ProducerEvent is the unset variant and is never valid.
//
//sumtype:decl
type ProducerEvent interface {
	Kind() Kind
	producerEvent()
}

// ClientEvent is the closed set of events forwarded to the capture client.
//
//sumtype:decl
type ClientEvent interface {
	Kind() Kind
	clientEvent()
}

func (*CaptureStarted) Kind() Kind { return KindCaptureStarted }
func (*InternedCallstack) Kind() Kind { return KindInternedCallstack }
func (*SchedulingSlice) Kind() Kind { return KindSchedulingSlice }
func (*CallstackSample) Kind() Kind { return KindCallstackSample }
func (*FullCallstackSample) Kind() Kind { return KindFullCallstackSample }
func (*FullTracepointEvent) Kind() Kind { return KindFullTracepointEvent }
func (*FunctionCall) Kind() Kind { return KindFunctionCall }
func (*InternedString) Kind() Kind { return KindInternedString }
func (*FullGpuJob) Kind() Kind { return KindFullGpuJob }
func (*GpuQueueSubmission) Kind() Kind { return KindGpuQueueSubmission }
func (*ThreadName) Kind() Kind { return KindThreadName }
func (*ThreadNamesSnapshot) Kind() Kind { return KindThreadNamesSnapshot }
func (*ThreadStateSlice) Kind() Kind { return KindThreadStateSlice }
func (*FullAddressInfo) Kind() Kind { return KindFullAddressInfo }
func (*IntrospectionScope) Kind() Kind { return KindIntrospectionScope }
func (*ModuleUpdateEvent) Kind() Kind { return KindModuleUpdateEvent }
func (*ModulesSnapshot) Kind() Kind { return KindModulesSnapshot }
func (*MemoryUsageEvent) Kind() Kind { return KindMemoryUsageEvent }
func (*APIEvent) Kind() Kind { return KindAPIEvent }
func (*APIScopeStart) Kind() Kind { return KindAPIScopeStart }
func (*APIScopeStartAsync) Kind() Kind { return KindAPIScopeStartAsync }
func (*APIScopeStop) Kind() Kind { return KindAPIScopeStop }
func (*APIScopeStopAsync) Kind() Kind { return KindAPIScopeStopAsync }
func (*APIStringEvent) Kind() Kind { return KindAPIStringEvent }
func (*APITrackDouble) Kind() Kind { return KindAPITrackDouble }
func (*APITrackFloat) Kind() Kind { return KindAPITrackFloat }
func (*APITrackInt) Kind() Kind { return KindAPITrackInt }
func (*APITrackInt64) Kind() Kind { return KindAPITrackInt64 }
func (*APITrackUint) Kind() Kind { return KindAPITrackUint }
func (*APITrackUint64) Kind() Kind { return KindAPITrackUint64 }
func (*WarningEvent) Kind() Kind { return KindWarningEvent }
func (*ClockResolutionEvent) Kind() Kind { return KindClockResolutionEvent }
func (*ErrorsWithPerfEventOpenEvent) Kind() Kind { return KindErrorsWithPerfEventOpenEvent }
func (*ErrorEnablingAPIEvent) Kind() Kind { return KindErrorEnablingAPIEvent }
func (*ErrorEnablingUserSpaceInstrumentationEvent) Kind() Kind { return KindErrorEnablingUserSpaceInstrumentationEvent }
func (*LostPerfRecordsEvent) Kind() Kind { return KindLostPerfRecordsEvent }
func (*OutOfOrderEventsDiscardedEvent) Kind() Kind { return KindOutOfOrderEventsDiscardedEvent }
func (*InternedTracepointInfo) Kind() Kind { return KindInternedTracepointInfo }
func (*TracepointEvent) Kind() Kind { return KindTracepointEvent }
func (*GpuJob) Kind() Kind { return KindGpuJob }
func (*AddressInfo) Kind() Kind { return KindAddressInfo }

func (*CaptureStarted) producerEvent() {}
func (*InternedCallstack) producerEvent() {}
func (*SchedulingSlice) producerEvent() {}
func (*CallstackSample) producerEvent() {}
func (*FullCallstackSample) producerEvent() {}
func (*FullTracepointEvent) producerEvent() {}
func (*FunctionCall) producerEvent() {}
func (*InternedString) producerEvent() {}
func (*FullGpuJob) producerEvent() {}
func (*GpuQueueSubmission) producerEvent() {}
func (*ThreadName) producerEvent() {}
func (*ThreadNamesSnapshot) producerEvent() {}
func (*ThreadStateSlice) producerEvent() {}
func (*FullAddressInfo) producerEvent() {}
func (*IntrospectionScope) producerEvent() {}
func (*ModuleUpdateEvent) producerEvent() {}
func (*ModulesSnapshot) producerEvent() {}
func (*MemoryUsageEvent) producerEvent() {}
func (*APIEvent) producerEvent() {}
func (*APIScopeStart) producerEvent() {}
func (*APIScopeStartAsync) producerEvent() {}
func (*APIScopeStop) producerEvent() {}
func (*APIScopeStopAsync) producerEvent() {}
func (*APIStringEvent) producerEvent() {}
func (*APITrackDouble) producerEvent() {}
func (*APITrackFloat) producerEvent() {}
func (*APITrackInt) producerEvent() {}
func (*APITrackInt64) producerEvent() {}
func (*APITrackUint) producerEvent() {}
func (*APITrackUint64) producerEvent() {}
func (*WarningEvent) producerEvent() {}
func (*ClockResolutionEvent) producerEvent() {}
func (*ErrorsWithPerfEventOpenEvent) producerEvent() {}
func (*ErrorEnablingAPIEvent) producerEvent() {}
func (*ErrorEnablingUserSpaceInstrumentationEvent) producerEvent() {}
func (*LostPerfRecordsEvent) producerEvent() {}
func (*OutOfOrderEventsDiscardedEvent) producerEvent() {}

func (*CaptureStarted) clientEvent() {}
func (*InternedCallstack) clientEvent() {}
func (*SchedulingSlice) clientEvent() {}
func (*CallstackSample) clientEvent() {}
func (*FunctionCall) clientEvent() {}
func (*InternedString) clientEvent() {}
func (*GpuQueueSubmission) clientEvent() {}
func (*ThreadName) clientEvent() {}
func (*ThreadNamesSnapshot) clientEvent() {}
func (*ThreadStateSlice) clientEvent() {}
func (*IntrospectionScope) clientEvent() {}
func (*ModuleUpdateEvent) clientEvent() {}
func (*ModulesSnapshot) clientEvent() {}
func (*MemoryUsageEvent) clientEvent() {}
func (*APIEvent) clientEvent() {}
func (*APIScopeStart) clientEvent() {}
func (*APIScopeStartAsync) clientEvent() {}
func (*APIScopeStop) clientEvent() {}
func (*APIScopeStopAsync) clientEvent() {}
func (*APIStringEvent) clientEvent() {}
func (*APITrackDouble) clientEvent() {}
func (*APITrackFloat) clientEvent() {}
func (*APITrackInt) clientEvent() {}
func (*APITrackInt64) clientEvent() {}
func (*APITrackUint) clientEvent() {}
func (*APITrackUint64) clientEvent() {}
func (*WarningEvent) clientEvent() {}
func (*ClockResolutionEvent) clientEvent() {}
func (*ErrorsWithPerfEventOpenEvent) clientEvent() {}
func (*ErrorEnablingAPIEvent) clientEvent() {}
func (*ErrorEnablingUserSpaceInstrumentationEvent) clientEvent() {}
func (*LostPerfRecordsEvent) clientEvent() {}
func (*OutOfOrderEventsDiscardedEvent) clientEvent() {}
func (*InternedTracepointInfo) clientEvent() {}
func (*TracepointEvent) clientEvent() {}
func (*GpuJob) clientEvent() {}
func (*AddressInfo) clientEvent() {}

var producerEvents = map[Kind]func() ProducerEvent{
	KindCaptureStarted:                             func() ProducerEvent { return new(CaptureStarted) },
	KindInternedCallstack:                          func() ProducerEvent { return new(InternedCallstack) },
	KindSchedulingSlice:                            func() ProducerEvent { return new(SchedulingSlice) },
	KindCallstackSample:                            func() ProducerEvent { return new(CallstackSample) },
	KindFullCallstackSample:                        func() ProducerEvent { return new(FullCallstackSample) },
	KindFullTracepointEvent:                        func() ProducerEvent { return new(FullTracepointEvent) },
	KindFunctionCall:                               func() ProducerEvent { return new(FunctionCall) },
	KindInternedString:                             func() ProducerEvent { return new(InternedString) },
	KindFullGpuJob:                                 func() ProducerEvent { return new(FullGpuJob) },
	KindGpuQueueSubmission:                         func() ProducerEvent { return new(GpuQueueSubmission) },
	KindThreadName:                                 func() ProducerEvent { return new(ThreadName) },
	KindThreadNamesSnapshot:                        func() ProducerEvent { return new(ThreadNamesSnapshot) },
	KindThreadStateSlice:                           func() ProducerEvent { return new(ThreadStateSlice) },
	KindFullAddressInfo:                            func() ProducerEvent { return new(FullAddressInfo) },
	KindIntrospectionScope:                         func() ProducerEvent { return new(IntrospectionScope) },
	KindModuleUpdateEvent:                          func() ProducerEvent { return new(ModuleUpdateEvent) },
	KindModulesSnapshot:                            func() ProducerEvent { return new(ModulesSnapshot) },
	KindMemoryUsageEvent:                           func() ProducerEvent { return new(MemoryUsageEvent) },
	KindAPIEvent:                                   func() ProducerEvent { return new(APIEvent) },
	KindAPIScopeStart:                              func() ProducerEvent { return new(APIScopeStart) },
	KindAPIScopeStartAsync:                         func() ProducerEvent { return new(APIScopeStartAsync) },
	KindAPIScopeStop:                               func() ProducerEvent { return new(APIScopeStop) },
	KindAPIScopeStopAsync:                          func() ProducerEvent { return new(APIScopeStopAsync) },
	KindAPIStringEvent:                             func() ProducerEvent { return new(APIStringEvent) },
	KindAPITrackDouble:                             func() ProducerEvent { return new(APITrackDouble) },
	KindAPITrackFloat:                              func() ProducerEvent { return new(APITrackFloat) },
	KindAPITrackInt:                                func() ProducerEvent { return new(APITrackInt) },
	KindAPITrackInt64:                              func() ProducerEvent { return new(APITrackInt64) },
	KindAPITrackUint:                               func() ProducerEvent { return new(APITrackUint) },
	KindAPITrackUint64:                             func() ProducerEvent { return new(APITrackUint64) },
	KindWarningEvent:                               func() ProducerEvent { return new(WarningEvent) },
	KindClockResolutionEvent:                       func() ProducerEvent { return new(ClockResolutionEvent) },
	KindErrorsWithPerfEventOpenEvent:               func() ProducerEvent { return new(ErrorsWithPerfEventOpenEvent) },
	KindErrorEnablingAPIEvent:                      func() ProducerEvent { return new(ErrorEnablingAPIEvent) },
	KindErrorEnablingUserSpaceInstrumentationEvent: func() ProducerEvent { return new(ErrorEnablingUserSpaceInstrumentationEvent) },
	KindLostPerfRecordsEvent:                       func() ProducerEvent { return new(LostPerfRecordsEvent) },
	KindOutOfOrderEventsDiscardedEvent:             func() ProducerEvent { return new(OutOfOrderEventsDiscardedEvent) },
}

var clientEvents = map[Kind]func() ClientEvent{
	KindCaptureStarted:                             func() ClientEvent { return new(CaptureStarted) },
	KindInternedCallstack:                          func() ClientEvent { return new(InternedCallstack) },
	KindSchedulingSlice:                            func() ClientEvent { return new(SchedulingSlice) },
	KindCallstackSample:                            func() ClientEvent { return new(CallstackSample) },
	KindFunctionCall:                               func() ClientEvent { return new(FunctionCall) },
	KindInternedString:                             func() ClientEvent { return new(InternedString) },
	KindGpuQueueSubmission:                         func() ClientEvent { return new(GpuQueueSubmission) },
	KindThreadName:                                 func() ClientEvent { return new(ThreadName) },
	KindThreadNamesSnapshot:                        func() ClientEvent { return new(ThreadNamesSnapshot) },
	KindThreadStateSlice:                           func() ClientEvent { return new(ThreadStateSlice) },
	KindIntrospectionScope:                         func() ClientEvent { return new(IntrospectionScope) },
	KindModuleUpdateEvent:                          func() ClientEvent { return new(ModuleUpdateEvent) },
	KindModulesSnapshot:                            func() ClientEvent { return new(ModulesSnapshot) },
	KindMemoryUsageEvent:                           func() ClientEvent { return new(MemoryUsageEvent) },
	KindAPIEvent:                                   func() ClientEvent { return new(APIEvent) },
	KindAPIScopeStart:                              func() ClientEvent { return new(APIScopeStart) },
	KindAPIScopeStartAsync:                         func() ClientEvent { return new(APIScopeStartAsync) },
	KindAPIScopeStop:                               func() ClientEvent { return new(APIScopeStop) },
	KindAPIScopeStopAsync:                          func() ClientEvent { return new(APIScopeStopAsync) },
	KindAPIStringEvent:                             func() ClientEvent { return new(APIStringEvent) },
	KindAPITrackDouble:                             func() ClientEvent { return new(APITrackDouble) },
	KindAPITrackFloat:                              func() ClientEvent { return new(APITrackFloat) },
	KindAPITrackInt:                                func() ClientEvent { return new(APITrackInt) },
	KindAPITrackInt64:                              func() ClientEvent { return new(APITrackInt64) },
	KindAPITrackUint:                               func() ClientEvent { return new(APITrackUint) },
	KindAPITrackUint64:                             func() ClientEvent { return new(APITrackUint64) },
	KindWarningEvent:                               func() ClientEvent { return new(WarningEvent) },
	KindClockResolutionEvent:                       func() ClientEvent { return new(ClockResolutionEvent) },
	KindErrorsWithPerfEventOpenEvent:               func() ClientEvent { return new(ErrorsWithPerfEventOpenEvent) },
	KindErrorEnablingAPIEvent:                      func() ClientEvent { return new(ErrorEnablingAPIEvent) },
	KindErrorEnablingUserSpaceInstrumentationEvent: func() ClientEvent { return new(ErrorEnablingUserSpaceInstrumentationEvent) },
	KindLostPerfRecordsEvent:                       func() ClientEvent { return new(LostPerfRecordsEvent) },
	KindOutOfOrderEventsDiscardedEvent:             func() ClientEvent { return new(OutOfOrderEventsDiscardedEvent) },
	KindInternedTracepointInfo:                     func() ClientEvent { return new(InternedTracepointInfo) },
	KindTracepointEvent:                            func() ClientEvent { return new(TracepointEvent) },
	KindGpuJob:                                     func() ClientEvent { return new(GpuJob) },
	KindAddressInfo:                                func() ClientEvent { return new(AddressInfo) },
}

// NewProducerEvent returns a zero event of the given producer kind.
func NewProducerEvent(k Kind) (ProducerEvent, bool) {
	f, ok := producerEvents[k]
	if !ok {
		return nil, false
	}
	return f(), true
}

// NewClientEvent returns a zero event of the given client kind.
func NewClientEvent(k Kind) (ClientEvent, bool) {
	f, ok := clientEvents[k]
	if !ok {
		return nil, false
	}
	return f(), true
}

// ProducerKinds lists every producer kind in declaration order.
func ProducerKinds() []Kind {
	return kindsOf(producerEvents)
}

// ClientKinds lists every client kind in declaration order.
func ClientKinds() []Kind {
	return kindsOf(clientEvents)
}

func kindsOf[F any](m map[Kind]F) []Kind {
	kinds := make([]Kind, 0, len(m))
	for k := KindUnset + 1; k < kindCount; k++ {
		if _, ok := m[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
