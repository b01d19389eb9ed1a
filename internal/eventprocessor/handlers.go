package eventprocessor

import (
	"github.com/go-kit/log/level"

	"github.com/mrzor/capture-normalizer/internal/capture"
	"github.com/mrzor/capture-normalizer/internal/intern"
)

// processInternedCallstack records the producer's callstack id and forwards
// the callstack under its global id, unless it already had one.
func (p *Processor) processInternedCallstack(producerID uint64, ev *capture.InternedCallstack) {
	localID := ev.Key
	globalID, announced := p.callstackIDs.Register(producerID, localID, intern.KeyForCallstack(ev.Intern))
	p.announcement(producerID, PoolCallstack, localID, globalID, announced)
	if !announced {
		return
	}
	ev.Key = globalID
	p.forward(ev)
}

func (p *Processor) processInternedString(producerID uint64, ev *capture.InternedString) {
	localID := ev.Key
	globalID, announced := p.stringIDs.Register(producerID, localID, ev.Intern)
	p.announcement(producerID, PoolString, localID, globalID, announced)
	if !announced {
		return
	}
	ev.Key = globalID
	p.forward(ev)
}

func (p *Processor) announcement(producerID uint64, pool string, localID, globalID uint64, forwarded bool) {
	if forwarded {
		p.metrics.InternedValues.WithLabelValues(pool).Inc()
	} else {
		p.metrics.AnnouncementsSuppressed.WithLabelValues(pool).Inc()
		level.Debug(p.logger).Log("msg", "announced value already interned", "producer", producerID,
			"pool", pool, "local_id", localID, "global_id", globalID)
	}
	if p.observer != nil {
		p.observer.ObserveAnnouncement(producerID, pool, forwarded)
	}
}

// processGpuQueueSubmission rewrites the text key of every completed debug
// marker. Text keys refer to strings announced by the same producer.
func (p *Processor) processGpuQueueSubmission(producerID uint64, ev *capture.GpuQueueSubmission) {
	for i := range ev.CompletedMarkers {
		marker := &ev.CompletedMarkers[i]
		marker.TextKey = p.stringIDs.Resolve(producerID, marker.TextKey)
	}
	p.forward(ev)
}

func (p *Processor) processFullCallstackSample(ev *capture.FullCallstackSample) {
	callstackID, isNew := p.callstacks.GetOrAssignID(intern.KeyForCallstack(ev.Callstack))
	if isNew {
		p.metrics.InternedValues.WithLabelValues(PoolCallstack).Inc()
		p.forward(&capture.InternedCallstack{Key: callstackID, Intern: ev.Callstack})
	}
	p.forward(&capture.CallstackSample{
		Pid:         ev.Pid,
		Tid:         ev.Tid,
		TimestampNs: ev.TimestampNs,
		CallstackID: callstackID,
	})
}

func (p *Processor) processFullTracepointEvent(ev *capture.FullTracepointEvent) {
	key, isNew := p.tracepoints.GetOrAssignID(intern.KeyForTracepoint(ev.TracepointInfo))
	if isNew {
		p.metrics.InternedValues.WithLabelValues(PoolTracepoint).Inc()
		p.forward(&capture.InternedTracepointInfo{Key: key, Intern: ev.TracepointInfo})
	}
	p.forward(&capture.TracepointEvent{
		Pid:               ev.Pid,
		Tid:               ev.Tid,
		TimestampNs:       ev.TimestampNs,
		CPU:               ev.CPU,
		TracepointInfoKey: key,
	})
}

func (p *Processor) processFullGpuJob(ev *capture.FullGpuJob) {
	p.forward(&capture.GpuJob{
		Pid:                     ev.Pid,
		Tid:                     ev.Tid,
		Context:                 ev.Context,
		Seqno:                   ev.Seqno,
		Depth:                   ev.Depth,
		AmdgpuCsIoctlTimeNs:     ev.AmdgpuCsIoctlTimeNs,
		AmdgpuSchedRunJobTimeNs: ev.AmdgpuSchedRunJobTimeNs,
		GpuHardwareStartTimeNs:  ev.GpuHardwareStartTimeNs,
		DmaFenceSignaledTimeNs:  ev.DmaFenceSignaledTimeNs,
		TimelineKey:             p.internString(ev.Timeline),
	})
}

func (p *Processor) processFullAddressInfo(ev *capture.FullAddressInfo) {
	functionNameKey := p.internString(ev.FunctionName)
	moduleNameKey := p.internString(ev.ModuleName)
	p.forward(&capture.AddressInfo{
		AbsoluteAddress:  ev.AbsoluteAddress,
		FunctionNameKey:  functionNameKey,
		OffsetInFunction: ev.OffsetInFunction,
		ModuleNameKey:    moduleNameKey,
	})
}

// internString returns the global id of s, announcing s first if it is new.
// Inline strings have no producer-local id and bypass the translator.
func (p *Processor) internString(s string) uint64 {
	key, isNew := p.strings.GetOrAssignID(s)
	if isNew {
		p.metrics.InternedValues.WithLabelValues(PoolString).Inc()
		p.forward(&capture.InternedString{Key: key, Intern: s})
	}
	return key
}
