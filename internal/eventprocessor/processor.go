package eventprocessor

import (
	"github.com/go-kit/log"

	"github.com/mrzor/capture-normalizer/internal/capture"
	"github.com/mrzor/capture-normalizer/internal/intern"
	"github.com/mrzor/capture-normalizer/internal/translator"
)

// Pool names, used as metric labels and in protocol errors.
const (
	PoolCallstack  = "callstack"
	PoolString     = "string"
	PoolTracepoint = "tracepoint"
)

// Sink receives normalized events in the order they are produced.
// Append must be safe for concurrent use.
type Sink interface {
	Append(ev capture.ClientEvent)
}

// Observer is told about every announcement a producer makes. forwarded is
// false when the value already had a global id and nothing was sent.
type Observer interface {
	ObserveAnnouncement(producerID uint64, pool string, forwarded bool)
}

// Processor normalizes producer events and forwards them to a Sink.
// It owns the id space of one capture session: its pools and translation
// tables live exactly as long as the Processor.
type Processor struct {
	sink     Sink
	logger   log.Logger
	metrics  *Metrics
	observer Observer

	callstacks  *intern.Pool[intern.CallstackKey]
	strings     *intern.Pool[string]
	tracepoints *intern.Pool[intern.TracepointKey]

	callstackIDs *translator.Table[intern.CallstackKey]
	stringIDs    *translator.Table[string]
}

// NewProcessor creates a processor with an empty id space.
// metrics and observer may be nil.
func NewProcessor(sink Sink, logger log.Logger, metrics *Metrics, observer Observer) *Processor {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	callstacks := intern.New[intern.CallstackKey]()
	strings := intern.New[string]()
	return &Processor{
		sink:         sink,
		logger:       logger,
		metrics:      metrics,
		observer:     observer,
		callstacks:   callstacks,
		strings:      strings,
		tracepoints:  intern.New[intern.TracepointKey](),
		callstackIDs: translator.New(PoolCallstack, callstacks),
		stringIDs:    translator.New(PoolString, strings),
	}
}

// Interned returns the number of distinct values in each pool.
func (p *Processor) Interned() map[string]int {
	return map[string]int{
		PoolCallstack:  p.callstacks.Len(),
		PoolString:     p.strings.Len(),
		PoolTracepoint: p.tracepoints.Len(),
	}
}

// Process normalizes ev, sent by producerID, and appends the result to the
// sink. Ownership of ev passes to the processor: it may be rewritten in place
// and forwarded as is.
//
// Process panics with a *capture.ProtocolError when ev is nil or breaks the
// announce-before-reference protocol. Callers that need to survive a
// malformed producer stream recover it at the session boundary.
func (p *Processor) Process(producerID uint64, ev capture.ProducerEvent) {
	if ev == nil {
		panic(&capture.ProtocolError{Violation: capture.ViolationUnsetEvent, ProducerID: producerID})
	}
	kind := ev.Kind()
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*capture.ProtocolError); ok && perr.Kind == capture.KindUnset {
				perr.Kind = kind
			}
			panic(r)
		}
	}()
	p.metrics.EventsReceived.WithLabelValues(kind.String()).Inc()

	switch ev := ev.(type) {
	// Announcements.
	case *capture.InternedCallstack:
		p.processInternedCallstack(producerID, ev)
	case *capture.InternedString:
		p.processInternedString(producerID, ev)

	// References.
	case *capture.CallstackSample:
		ev.CallstackID = p.callstackIDs.Resolve(producerID, ev.CallstackID)
		p.forward(ev)
	case *capture.GpuQueueSubmission:
		p.processGpuQueueSubmission(producerID, ev)

	// Inline values.
	case *capture.FullCallstackSample:
		p.processFullCallstackSample(ev)
	case *capture.FullTracepointEvent:
		p.processFullTracepointEvent(ev)
	case *capture.FullGpuJob:
		p.processFullGpuJob(ev)
	case *capture.FullAddressInfo:
		p.processFullAddressInfo(ev)

	// Everything else carries no references.
	case *capture.CaptureStarted:
		p.forward(ev)
	case *capture.SchedulingSlice:
		p.forward(ev)
	case *capture.FunctionCall:
		p.forward(ev)
	case *capture.ThreadName:
		p.forward(ev)
	case *capture.ThreadNamesSnapshot:
		p.forward(ev)
	case *capture.ThreadStateSlice:
		p.forward(ev)
	case *capture.IntrospectionScope:
		p.forward(ev)
	case *capture.ModuleUpdateEvent:
		p.forward(ev)
	case *capture.ModulesSnapshot:
		p.forward(ev)
	case *capture.MemoryUsageEvent:
		p.forward(ev)
	case *capture.APIEvent:
		p.forward(ev)
	case *capture.APIScopeStart:
		p.forward(ev)
	case *capture.APIScopeStartAsync:
		p.forward(ev)
	case *capture.APIScopeStop:
		p.forward(ev)
	case *capture.APIScopeStopAsync:
		p.forward(ev)
	case *capture.APIStringEvent:
		p.forward(ev)
	case *capture.APITrackDouble:
		p.forward(ev)
	case *capture.APITrackFloat:
		p.forward(ev)
	case *capture.APITrackInt:
		p.forward(ev)
	case *capture.APITrackInt64:
		p.forward(ev)
	case *capture.APITrackUint:
		p.forward(ev)
	case *capture.APITrackUint64:
		p.forward(ev)
	case *capture.WarningEvent:
		p.forward(ev)
	case *capture.ClockResolutionEvent:
		p.forward(ev)
	case *capture.ErrorsWithPerfEventOpenEvent:
		p.forward(ev)
	case *capture.ErrorEnablingAPIEvent:
		p.forward(ev)
	case *capture.ErrorEnablingUserSpaceInstrumentationEvent:
		p.forward(ev)
	case *capture.LostPerfRecordsEvent:
		p.forward(ev)
	case *capture.OutOfOrderEventsDiscardedEvent:
		p.forward(ev)

	default:
		// Reached only by a variant added without a handler.
		panic(&capture.ProtocolError{Violation: capture.ViolationUnsetEvent, ProducerID: producerID, Kind: kind})
	}
}

func (p *Processor) forward(ev capture.ClientEvent) {
	p.metrics.EventsForwarded.WithLabelValues(ev.Kind().String()).Inc()
	p.sink.Append(ev)
}
