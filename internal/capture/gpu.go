package capture

// FullGpuJob is a GPU job with its timeline name inline.
type FullGpuJob struct {
	Pid                     uint32 `json:"pid"`
	Tid                     uint32 `json:"tid"`
	Context                 uint32 `json:"context"`
	Seqno                   uint32 `json:"seqno"`
	Depth                   int32  `json:"depth"`
	AmdgpuCsIoctlTimeNs     uint64 `json:"amdgpu_cs_ioctl_time_ns"`
	AmdgpuSchedRunJobTimeNs uint64 `json:"amdgpu_sched_run_job_time_ns"`
	GpuHardwareStartTimeNs  uint64 `json:"gpu_hardware_start_time_ns"`
	DmaFenceSignaledTimeNs  uint64 `json:"dma_fence_signaled_time_ns"`
	Timeline                string `json:"timeline"`
}

// GpuJob is FullGpuJob with the timeline replaced by a string key.
type GpuJob struct {
	Pid                     uint32 `json:"pid"`
	Tid                     uint32 `json:"tid"`
	Context                 uint32 `json:"context"`
	Seqno                   uint32 `json:"seqno"`
	Depth                   int32  `json:"depth"`
	AmdgpuCsIoctlTimeNs     uint64 `json:"amdgpu_cs_ioctl_time_ns"`
	AmdgpuSchedRunJobTimeNs uint64 `json:"amdgpu_sched_run_job_time_ns"`
	GpuHardwareStartTimeNs  uint64 `json:"gpu_hardware_start_time_ns"`
	DmaFenceSignaledTimeNs  uint64 `json:"dma_fence_signaled_time_ns"`
	TimelineKey             uint64 `json:"timeline_key"`
}

// GpuQueueSubmissionMetaInfo identifies the submitting thread and CPU window.
type GpuQueueSubmissionMetaInfo struct {
	Tid                        uint32 `json:"tid"`
	Pid                        uint32 `json:"pid"`
	PreSubmissionCPUTimestamp  uint64 `json:"pre_submission_cpu_timestamp"`
	PostSubmissionCPUTimestamp uint64 `json:"post_submission_cpu_timestamp"`
}

// GpuCommandBuffer is the GPU-side execution window of one command buffer.
type GpuCommandBuffer struct {
	BeginGpuTimestampNs uint64 `json:"begin_gpu_timestamp_ns"`
	EndGpuTimestampNs   uint64 `json:"end_gpu_timestamp_ns"`
}

// GpuSubmitInfo groups the command buffers of one vkQueueSubmit batch.
type GpuSubmitInfo struct {
	CommandBuffers []GpuCommandBuffer `json:"command_buffers"`
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	Red   float32 `json:"red"`
	Green float32 `json:"green"`
	Blue  float32 `json:"blue"`
	Alpha float32 `json:"alpha"`
}

// GpuDebugMarkerBeginInfo locates the begin side of a debug marker.
type GpuDebugMarkerBeginInfo struct {
	MetaInfo       GpuQueueSubmissionMetaInfo `json:"meta_info"`
	GpuTimestampNs uint64                     `json:"gpu_timestamp_ns"`
}

// GpuDebugMarker is a completed debug marker. TextKey refers to an
// InternedString announced by the same producer.
type GpuDebugMarker struct {
	TextKey           uint64                   `json:"text_key"`
	Color             Color                    `json:"color"`
	Depth             int32                    `json:"depth"`
	BeginMarker       *GpuDebugMarkerBeginInfo `json:"begin_marker,omitempty"`
	EndGpuTimestampNs uint64                   `json:"end_gpu_timestamp_ns"`
}

// GpuQueueSubmission reports a queue submission and the debug markers it
// completed.
type GpuQueueSubmission struct {
	MetaInfo         GpuQueueSubmissionMetaInfo `json:"meta_info"`
	SubmitInfos      []GpuSubmitInfo            `json:"submit_infos"`
	CompletedMarkers []GpuDebugMarker           `json:"completed_markers"`
	NumBeginMarkers  int32                      `json:"num_begin_markers"`
}
