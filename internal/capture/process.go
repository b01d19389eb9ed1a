package capture

// CaptureStarted opens a capture and describes the target process.
type CaptureStarted struct {
	ProcessID               uint32 `json:"process_id"`
	ExecutablePath          string `json:"executable_path"`
	ExecutableBuildID       string `json:"executable_build_id"`
	CaptureStartTimestampNs uint64 `json:"capture_start_timestamp_ns"`
	CaptureStartUnixTimeNs  uint64 `json:"capture_start_unix_time_ns"`
	VersionMajor            uint32 `json:"version_major"`
	VersionMinor            uint32 `json:"version_minor"`
}

// ObjectFileType is the format of a loaded module.
type ObjectFileType int32

const (
	ObjectFileUnknown ObjectFileType = iota
	ObjectFileElf
	ObjectFileCoff
)

// ModuleInfo describes a module mapped into the target process.
type ModuleInfo struct {
	Name           string         `json:"name"`
	FilePath       string         `json:"file_path"`
	FileSize       uint64         `json:"file_size"`
	AddressStart   uint64         `json:"address_start"`
	AddressEnd     uint64         `json:"address_end"`
	BuildID        string         `json:"build_id"`
	LoadBias       uint64         `json:"load_bias"`
	ObjectFileType ObjectFileType `json:"object_file_type"`
}

// ModuleUpdateEvent reports a module loaded after capture start.
type ModuleUpdateEvent struct {
	Pid         uint32      `json:"pid"`
	TimestampNs uint64      `json:"timestamp_ns"`
	Module      *ModuleInfo `json:"module"`
}

// ModulesSnapshot lists the modules of the target at one point in time.
type ModulesSnapshot struct {
	Pid         uint32       `json:"pid"`
	TimestampNs uint64       `json:"timestamp_ns"`
	Modules     []ModuleInfo `json:"modules"`
}

// SystemMemoryUsage is a sample of /proc/meminfo.
type SystemMemoryUsage struct {
	TimestampNs uint64 `json:"timestamp_ns"`
	TotalKb     int64  `json:"total_kb"`
	FreeKb      int64  `json:"free_kb"`
	AvailableKb int64  `json:"available_kb"`
	BuffersKb   int64  `json:"buffers_kb"`
	CachedKb    int64  `json:"cached_kb"`
	PgFault     int64  `json:"pgfault"`
	PgMajFault  int64  `json:"pgmajfault"`
}

// CGroupMemoryUsage is a sample of the target's memory cgroup.
type CGroupMemoryUsage struct {
	TimestampNs       uint64 `json:"timestamp_ns"`
	CGroupName        string `json:"cgroup_name"`
	LimitBytes        int64  `json:"limit_bytes"`
	RssBytes          int64  `json:"rss_bytes"`
	MappedFileBytes   int64  `json:"mapped_file_bytes"`
	PgFault           int64  `json:"pgfault"`
	PgMajFault        int64  `json:"pgmajfault"`
	UnevictableBytes  int64  `json:"unevictable_bytes"`
	InactiveAnonBytes int64  `json:"inactive_anon_bytes"`
	ActiveAnonBytes   int64  `json:"active_anon_bytes"`
	InactiveFileBytes int64  `json:"inactive_file_bytes"`
	ActiveFileBytes   int64  `json:"active_file_bytes"`
}

// ProcessMemoryUsage is a sample of the target's /proc/<pid>/stat.
type ProcessMemoryUsage struct {
	TimestampNs uint64 `json:"timestamp_ns"`
	Pid         uint32 `json:"pid"`
	RssAnonKb   int64  `json:"rss_anon_kb"`
	MinFlt      int64  `json:"minflt"`
	MajFlt      int64  `json:"majflt"`
}

// MemoryUsageEvent bundles memory samples taken at the same time.
type MemoryUsageEvent struct {
	TimestampNs        uint64              `json:"timestamp_ns"`
	SystemMemoryUsage  *SystemMemoryUsage  `json:"system_memory_usage,omitempty"`
	CGroupMemoryUsage  *CGroupMemoryUsage  `json:"cgroup_memory_usage,omitempty"`
	ProcessMemoryUsage *ProcessMemoryUsage `json:"process_memory_usage,omitempty"`
}
