package eventprocessor

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/capture-normalizer/internal/capture"
)

type recordingSink struct {
	mu     sync.Mutex
	events []capture.ClientEvent
}

func (s *recordingSink) Append(ev capture.ClientEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) kinds() []capture.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]capture.Kind, len(s.events))
	for i, ev := range s.events {
		kinds[i] = ev.Kind()
	}
	return kinds
}

type announcement struct {
	producerID uint64
	pool       string
	forwarded  bool
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []announcement
}

func (o *recordingObserver) ObserveAnnouncement(producerID uint64, pool string, forwarded bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, announcement{producerID, pool, forwarded})
}

func newTestProcessor() (*Processor, *recordingSink) {
	sink := &recordingSink{}
	return NewProcessor(sink, nil, nil, nil), sink
}

func protocolPanic(t *testing.T, f func()) (perr *capture.ProtocolError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		var ok bool
		perr, ok = r.(*capture.ProtocolError)
		require.True(t, ok, "panic value %T is not a *capture.ProtocolError", r)
	}()
	f()
	return nil
}

func TestProcessor_AnnouncementBeforeSample(t *testing.T) {
	p, sink := newTestProcessor()

	callstack := &capture.Callstack{PCs: []uint64{0x1000, 0x2000}}
	p.Process(1, &capture.InternedCallstack{Key: 5, Intern: callstack})
	p.Process(1, &capture.CallstackSample{Pid: 10, Tid: 11, TimestampNs: 99, CallstackID: 5})

	require.Len(t, sink.events, 2)
	announced, ok := sink.events[0].(*capture.InternedCallstack)
	require.True(t, ok)
	sample, ok := sink.events[1].(*capture.CallstackSample)
	require.True(t, ok)

	assert.Equal(t, uint64(1), announced.Key)
	assert.Same(t, callstack, announced.Intern, "payload is moved, not copied")
	assert.Equal(t, announced.Key, sample.CallstackID)
	assert.Equal(t, uint32(10), sample.Pid)
	assert.Equal(t, uint32(11), sample.Tid)
	assert.Equal(t, uint64(99), sample.TimestampNs)
}

func TestProcessor_CrossProducerSharing(t *testing.T) {
	sink := &recordingSink{}
	observer := &recordingObserver{}
	p := NewProcessor(sink, nil, nil, observer)

	p.Process(1, &capture.InternedCallstack{Key: 5, Intern: &capture.Callstack{PCs: []uint64{1, 2, 3}}})
	p.Process(2, &capture.InternedCallstack{Key: 40, Intern: &capture.Callstack{PCs: []uint64{1, 2, 3}}})
	p.Process(2, &capture.CallstackSample{CallstackID: 40})
	p.Process(1, &capture.CallstackSample{CallstackID: 5})

	assert.Equal(t, []capture.Kind{
		capture.KindInternedCallstack,
		capture.KindCallstackSample,
		capture.KindCallstackSample,
	}, sink.kinds())
	global := sink.events[0].(*capture.InternedCallstack).Key
	assert.Equal(t, global, sink.events[1].(*capture.CallstackSample).CallstackID)
	assert.Equal(t, global, sink.events[2].(*capture.CallstackSample).CallstackID)

	assert.Equal(t, []announcement{
		{1, PoolCallstack, true},
		{2, PoolCallstack, false},
	}, observer.seen)
}

func TestProcessor_SameLocalIDDifferentProducers(t *testing.T) {
	p, sink := newTestProcessor()

	p.Process(1, &capture.InternedString{Key: 1, Intern: "render"})
	p.Process(2, &capture.InternedString{Key: 1, Intern: "upload"})

	require.Len(t, sink.events, 2)
	first := sink.events[0].(*capture.InternedString)
	second := sink.events[1].(*capture.InternedString)
	assert.Equal(t, "render", first.Intern)
	assert.Equal(t, "upload", second.Intern)
	assert.NotEqual(t, first.Key, second.Key)
}

func TestProcessor_GpuQueueSubmissionMarkers(t *testing.T) {
	p, sink := newTestProcessor()

	p.Process(3, &capture.InternedString{Key: 100, Intern: "frame"})
	p.Process(3, &capture.InternedString{Key: 101, Intern: "shadow pass"})
	p.Process(3, &capture.GpuQueueSubmission{
		MetaInfo: capture.GpuQueueSubmissionMetaInfo{Tid: 7, Pid: 6},
		CompletedMarkers: []capture.GpuDebugMarker{
			{TextKey: 101, Depth: 1},
			{TextKey: 100, Depth: 0},
		},
		NumBeginMarkers: 2,
	})

	require.Len(t, sink.events, 3)
	frame := sink.events[0].(*capture.InternedString).Key
	shadow := sink.events[1].(*capture.InternedString).Key
	submission := sink.events[2].(*capture.GpuQueueSubmission)
	assert.Equal(t, shadow, submission.CompletedMarkers[0].TextKey)
	assert.Equal(t, frame, submission.CompletedMarkers[1].TextKey)
	assert.Equal(t, int32(1), submission.CompletedMarkers[0].Depth)
	assert.Equal(t, int32(2), submission.NumBeginMarkers)
}

func TestProcessor_FullAddressInfo(t *testing.T) {
	p, sink := newTestProcessor()

	for i := 0; i < 2; i++ {
		p.Process(1, &capture.FullAddressInfo{
			AbsoluteAddress:  0x4000,
			FunctionName:     "foo",
			OffsetInFunction: 16,
			ModuleName:       "bar",
		})
	}

	assert.Equal(t, []capture.Kind{
		capture.KindInternedString,
		capture.KindInternedString,
		capture.KindAddressInfo,
		capture.KindAddressInfo,
	}, sink.kinds())

	foo := sink.events[0].(*capture.InternedString)
	bar := sink.events[1].(*capture.InternedString)
	assert.Equal(t, "foo", foo.Intern)
	assert.Equal(t, "bar", bar.Intern)

	for _, ev := range sink.events[2:] {
		info := ev.(*capture.AddressInfo)
		assert.Equal(t, foo.Key, info.FunctionNameKey)
		assert.Equal(t, bar.Key, info.ModuleNameKey)
		assert.Equal(t, uint64(0x4000), info.AbsoluteAddress)
		assert.Equal(t, uint64(16), info.OffsetInFunction)
	}
}

func TestProcessor_FullAddressInfoSameNames(t *testing.T) {
	p, sink := newTestProcessor()

	p.Process(1, &capture.FullAddressInfo{FunctionName: "x", ModuleName: "x"})

	assert.Equal(t, []capture.Kind{capture.KindInternedString, capture.KindAddressInfo}, sink.kinds())
	info := sink.events[1].(*capture.AddressInfo)
	assert.Equal(t, info.FunctionNameKey, info.ModuleNameKey)
}

func TestProcessor_InlineStringsShareThePoolWithAnnouncements(t *testing.T) {
	p, sink := newTestProcessor()

	p.Process(1, &capture.InternedString{Key: 9, Intern: "gfx"})
	p.Process(2, &capture.FullGpuJob{Pid: 1, Seqno: 4, Depth: 2, Timeline: "gfx"})
	p.Process(2, &capture.FullGpuJob{Pid: 1, Seqno: 5, Timeline: "sdma0"})

	assert.Equal(t, []capture.Kind{
		capture.KindInternedString,
		capture.KindGpuJob,
		capture.KindInternedString,
		capture.KindGpuJob,
	}, sink.kinds())
	gfx := sink.events[0].(*capture.InternedString).Key
	job := sink.events[1].(*capture.GpuJob)
	assert.Equal(t, gfx, job.TimelineKey)
	assert.Equal(t, uint32(4), job.Seqno)
	assert.Equal(t, int32(2), job.Depth)
	assert.Equal(t, "sdma0", sink.events[2].(*capture.InternedString).Intern)
	assert.Equal(t, sink.events[2].(*capture.InternedString).Key, sink.events[3].(*capture.GpuJob).TimelineKey)
}

func TestProcessor_FullCallstackSample(t *testing.T) {
	p, sink := newTestProcessor()

	p.Process(1, &capture.FullCallstackSample{Pid: 1, Tid: 2, TimestampNs: 3,
		Callstack: &capture.Callstack{PCs: []uint64{7, 8}}})
	p.Process(2, &capture.FullCallstackSample{Pid: 4, Tid: 5, TimestampNs: 6,
		Callstack: &capture.Callstack{PCs: []uint64{7, 8}}})
	// Same addresses, different classification.
	p.Process(2, &capture.FullCallstackSample{
		Callstack: &capture.Callstack{PCs: []uint64{7, 8}, Type: capture.CallstackDwarfUnwindingError}})

	assert.Equal(t, []capture.Kind{
		capture.KindInternedCallstack,
		capture.KindCallstackSample,
		capture.KindCallstackSample,
		capture.KindInternedCallstack,
		capture.KindCallstackSample,
	}, sink.kinds())
	first := sink.events[1].(*capture.CallstackSample)
	second := sink.events[2].(*capture.CallstackSample)
	assert.Equal(t, sink.events[0].(*capture.InternedCallstack).Key, first.CallstackID)
	assert.Equal(t, first.CallstackID, second.CallstackID)
	assert.Equal(t, capture.CallstackSample{Pid: 4, Tid: 5, TimestampNs: 6, CallstackID: first.CallstackID}, *second)
	assert.NotEqual(t, first.CallstackID, sink.events[4].(*capture.CallstackSample).CallstackID)
}

func TestProcessor_FullCallstackSampleSharesAnnouncedIDs(t *testing.T) {
	p, sink := newTestProcessor()

	p.Process(1, &capture.InternedCallstack{Key: 77, Intern: &capture.Callstack{PCs: []uint64{9}}})
	p.Process(2, &capture.FullCallstackSample{Callstack: &capture.Callstack{PCs: []uint64{9}}})

	assert.Equal(t, []capture.Kind{capture.KindInternedCallstack, capture.KindCallstackSample}, sink.kinds())
	assert.Equal(t, sink.events[0].(*capture.InternedCallstack).Key, sink.events[1].(*capture.CallstackSample).CallstackID)
}

func TestProcessor_FullTracepointEvent(t *testing.T) {
	p, sink := newTestProcessor()

	info := &capture.TracepointInfo{Category: "sched", Name: "sched_wakeup"}
	p.Process(1, &capture.FullTracepointEvent{Pid: 1, Tid: 2, TimestampNs: 3, CPU: 4, TracepointInfo: info})
	p.Process(2, &capture.FullTracepointEvent{CPU: 5,
		TracepointInfo: &capture.TracepointInfo{Category: "sched", Name: "sched_wakeup"}})

	assert.Equal(t, []capture.Kind{
		capture.KindInternedTracepointInfo,
		capture.KindTracepointEvent,
		capture.KindTracepointEvent,
	}, sink.kinds())
	interned := sink.events[0].(*capture.InternedTracepointInfo)
	assert.Equal(t, uint64(1), interned.Key)
	assert.Same(t, info, interned.Intern)
	assert.Equal(t, capture.TracepointEvent{Pid: 1, Tid: 2, TimestampNs: 3, CPU: 4, TracepointInfoKey: 1},
		*sink.events[1].(*capture.TracepointEvent))
	assert.Equal(t, int32(5), sink.events[2].(*capture.TracepointEvent).CPU)
}

func TestProcessor_PassThroughFidelity(t *testing.T) {
	events := []capture.ProducerEvent{
		&capture.CaptureStarted{ProcessID: 42, ExecutablePath: "/bin/game", CaptureStartTimestampNs: 1 << 62},
		&capture.SchedulingSlice{Pid: 1, Tid: 2, Core: 3, DurationNs: 4, OutTimestampNs: 5},
		&capture.FunctionCall{Pid: 1, Tid: 2, FunctionID: 3, DurationNs: 4, EndTimestampNs: 5, Depth: 6, ReturnValue: 7},
		&capture.ThreadName{Pid: 1, Tid: 2, Name: "main", TimestampNs: 3},
		&capture.ThreadStateSlice{Tid: 9, ThreadState: capture.ThreadStateRunnable, WakeupReason: capture.WakeupReasonCreated},
		&capture.ModuleUpdateEvent{Pid: 1, Module: &capture.ModuleInfo{Name: "libc.so.6", LoadBias: 0x1000}},
		&capture.MemoryUsageEvent{TimestampNs: 8, SystemMemoryUsage: &capture.SystemMemoryUsage{TotalKb: 16}},
		&capture.APITrackDouble{Name: "fps", Data: 59.94},
		&capture.APITrackInt64{Name: "alloc", Data: -1},
		&capture.WarningEvent{TimestampNs: 1, Message: "clock drift"},
		&capture.ErrorsWithPerfEventOpenEvent{FailedToOpen: []string{"sched:sched_switch"}},
		&capture.LostPerfRecordsEvent{DurationNs: 100, EndTimestampNs: 200},
	}

	for _, ev := range events {
		t.Run(ev.Kind().String(), func(t *testing.T) {
			p, sink := newTestProcessor()
			p.Process(1, ev)

			require.Len(t, sink.events, 1)
			assert.Same(t, ev, sink.events[0], "pass-through events are forwarded without a copy")
			assert.Equal(t, ev.Kind(), sink.events[0].Kind())
		})
	}
}

func TestProcessor_DispatchesEveryProducerKind(t *testing.T) {
	p, sink := newTestProcessor()
	// Zero-valued references point at local id 0.
	p.Process(1, &capture.InternedCallstack{Key: 0, Intern: &capture.Callstack{}})
	p.Process(1, &capture.InternedString{Key: 0, Intern: ""})

	for _, kind := range capture.ProducerKinds() {
		if kind == capture.KindInternedCallstack || kind == capture.KindInternedString {
			continue
		}
		t.Run(kind.String(), func(t *testing.T) {
			ev, ok := capture.NewProducerEvent(kind)
			require.True(t, ok)

			before := len(sink.events)
			assert.NotPanics(t, func() { p.Process(1, ev) })
			assert.Greater(t, len(sink.events), before, "%s produced no event", kind)
		})
	}
}

func TestProcessor_DuplicateAnnouncementIsFatal(t *testing.T) {
	p, _ := newTestProcessor()
	p.Process(4, &capture.InternedString{Key: 1, Intern: "a"})

	perr := protocolPanic(t, func() {
		p.Process(4, &capture.InternedString{Key: 1, Intern: "b"})
	})
	assert.Equal(t, capture.ViolationDuplicateAnnouncement, perr.Violation)
	assert.Equal(t, uint64(4), perr.ProducerID)
	assert.Equal(t, capture.KindInternedString, perr.Kind)
	assert.Equal(t, PoolString, perr.Table)
	assert.Equal(t, uint64(1), perr.LocalID)
}

func TestProcessor_UnresolvedReferenceIsFatal(t *testing.T) {
	p, sink := newTestProcessor()
	p.Process(1, &capture.InternedCallstack{Key: 5, Intern: &capture.Callstack{PCs: []uint64{1}}})

	perr := protocolPanic(t, func() {
		// Local ids are producer-scoped: producer 2 never announced 5.
		p.Process(2, &capture.CallstackSample{CallstackID: 5})
	})
	assert.Equal(t, capture.ViolationUnresolvedReference, perr.Violation)
	assert.Equal(t, uint64(2), perr.ProducerID)
	assert.Equal(t, capture.KindCallstackSample, perr.Kind)
	assert.Equal(t, PoolCallstack, perr.Table)
	assert.Len(t, sink.events, 1, "the offending event is not forwarded")
}

func TestProcessor_UnresolvedMarkerIsFatal(t *testing.T) {
	p, _ := newTestProcessor()

	perr := protocolPanic(t, func() {
		p.Process(1, &capture.GpuQueueSubmission{CompletedMarkers: []capture.GpuDebugMarker{{TextKey: 3}}})
	})
	assert.Equal(t, capture.ViolationUnresolvedReference, perr.Violation)
	assert.Equal(t, capture.KindGpuQueueSubmission, perr.Kind)
}

func TestProcessor_UnsetEventIsFatal(t *testing.T) {
	p, sink := newTestProcessor()

	perr := protocolPanic(t, func() { p.Process(7, nil) })
	assert.Equal(t, capture.ViolationUnsetEvent, perr.Violation)
	assert.Equal(t, uint64(7), perr.ProducerID)
	assert.Equal(t, capture.KindUnset, perr.Kind)
	assert.Empty(t, sink.events)
}

func TestProcessor_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p := NewProcessor(&recordingSink{}, nil, metrics, nil)

	p.Process(1, &capture.InternedString{Key: 1, Intern: "s"})
	p.Process(2, &capture.InternedString{Key: 1, Intern: "s"})
	p.Process(1, &capture.FullAddressInfo{FunctionName: "f", ModuleName: "s"})

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.EventsReceived.WithLabelValues("InternedString")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsReceived.WithLabelValues("FullAddressInfo")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.EventsForwarded.WithLabelValues("InternedString")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsForwarded.WithLabelValues("AddressInfo")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.InternedValues.WithLabelValues(PoolString)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AnnouncementsSuppressed.WithLabelValues(PoolString)))

	assert.Equal(t, map[string]int{PoolCallstack: 0, PoolString: 2, PoolTracepoint: 0}, p.Interned())
}

func TestProcessor_ConcurrentProducers(t *testing.T) {
	const (
		producers  = 8
		callstacks = 50
	)
	p, sink := newTestProcessor()

	var wg sync.WaitGroup
	for producer := 1; producer <= producers; producer++ {
		wg.Add(1)
		go func(producerID uint64) {
			defer wg.Done()
			for i := 0; i < callstacks; i++ {
				// Each producer picks its own local ids for the shared callstacks.
				localID := uint64(i)*producers + producerID
				p.Process(producerID, &capture.InternedCallstack{
					Key:    localID,
					Intern: &capture.Callstack{PCs: []uint64{uint64(i), 0xffff}},
				})
				p.Process(producerID, &capture.CallstackSample{Pid: uint32(producerID), Tid: uint32(i), CallstackID: localID})
			}
		}(uint64(producer))
	}
	wg.Wait()

	// Within a producer an announcement precedes its samples. Across
	// producers the sink sees whatever interleaving the goroutines produced.
	globalByPC := make(map[uint64]uint64)
	var samples []*capture.CallstackSample
	for _, ev := range sink.events {
		switch ev := ev.(type) {
		case *capture.InternedCallstack:
			pc := ev.Intern.PCs[0]
			_, dup := globalByPC[pc]
			require.False(t, dup, "callstack %d announced twice", pc)
			globalByPC[pc] = ev.Key
		case *capture.CallstackSample:
			samples = append(samples, ev)
		default:
			t.Fatalf("unexpected event %s", ev.Kind())
		}
	}
	for _, sample := range samples {
		assert.Equal(t, globalByPC[uint64(sample.Tid)], sample.CallstackID)
	}
	assert.Len(t, samples, producers*callstacks)
	assert.Len(t, globalByPC, callstacks)
}
