package config

// Core configuration constants that define the boundaries and defaults
// for the visualization engine.
const (
	// Render loop boundaries.
	MinFrameRate      = 10 // Lowest usable frame rate (fps)
	MaxFrameRate      = 60 // Highest supported frame rate (fps)
	MinUpdateInterval = 1  // Recompute needles/spectrum every frame
	MaxUpdateInterval = 10 // At most 10 frames between recomputes
	MinMeterDelayMS   = 0  // No extra inter-frame delay
	MaxMeterDelayMS   = 20 // Max fixed delay traded against CPU

	// Display persistence window boundaries (seconds).
	MinPersistenceSec = 5
	MaxPersistenceSec = 300

	// Default values for the render loop.
	DefaultFrameRate      = 30
	DefaultUpdateInterval = 2
	DefaultMeterDelayMS   = 0

	// Rotation defaults.
	DefaultRotationQuality = "medium"
	DefaultRotationFPS     = 8
	DefaultReelDirection   = "ccw"

	// Progress source defaults.
	DefaultQueueMode = "track"

	// Time display behavior during a persistence window.
	TimeModeFreeze    = "freeze"
	TimeModeCountdown = "countdown"

	// Scrolling text fallback when neither the field nor the skin
	// resolves a speed (pixels per second).
	DefaultScrollSpeed = 40.0

	// Capture collaborator defaults.
	DefaultDeviceID        = -1 // System default input device
	DefaultSampleRate      = 44100
	DefaultFramesPerBuffer = 1024
	DefaultBands           = 32
	DefaultWindow          = "Hann"
)

// Config holds all runtime configuration for the engine and its
// collaborators. Loaded from YAML with env overrides; see yaml.go.
type Config struct {
	Debug    bool   `yaml:"debug"`     // Verbose logging shortcut
	LogLevel string `yaml:"log_level"` // trace|debug|info|warn|error
	// Component names with trace output enabled (tonearm, reel.left, ...).
	TraceComponents []string `yaml:"trace_components"`

	Render    RenderConfig    `yaml:"render"`
	Rotation  RotationConfig  `yaml:"rotation"`
	Progress  ProgressConfig  `yaml:"progress"`
	Capture   CaptureConfig   `yaml:"capture"`
	Recording RecordingConfig `yaml:"recording"`
	Transport TransportConfig `yaml:"transport"`
}

// RenderConfig holds the scheduler settings.
type RenderConfig struct {
	FrameRate      int  `yaml:"frame_rate"`      // Target fps (10-60)
	UpdateInterval int  `yaml:"update_interval"` // Frames between needle/spectrum recomputes (1-10)
	MeterDelayMS   int  `yaml:"meter_delay_ms"`  // Fixed extra per-frame delay (0-20 ms)
	Profiling      bool `yaml:"profiling"`       // Periodic min/max/avg tick reports

	// Display persistence: keep the skin animated for this many seconds
	// after playback pauses or stops. 0 disables.
	PersistenceSec int `yaml:"persistence_sec"`
	// Time display while the persistence window runs: freeze|countdown.
	PersistenceTimeMode string `yaml:"persistence_time_mode"`
}

// RotationConfig holds settings shared by all rotating elements.
type RotationConfig struct {
	Quality    string  `yaml:"quality"`        // low|medium|high|custom
	CustomFPS  int     `yaml:"custom_fps"`     // Blit rate when quality=custom
	SpeedMult  float64 `yaml:"speed"`          // Global rotation speed multiplier
	ReelDir    string  `yaml:"reel_direction"` // ccw|cw
	SpoolLeft  float64 `yaml:"spool_left_speed"`
	SpoolRight float64 `yaml:"spool_right_speed"`
	Adaptive   bool    `yaml:"spool_adaptive"` // Adaptive reel speed from progress
}

// ProgressConfig selects the progress source for tonearm tracking and
// adaptive reels.
type ProgressConfig struct {
	QueueMode string `yaml:"queue_mode"` // track|queue
}

// CaptureConfig holds settings for the audio-level collaborator.
type CaptureConfig struct {
	Enabled         bool    `yaml:"enabled"`
	InputDevice     int     `yaml:"input_device"` // PortAudio index, -1 for default
	SampleRate      float64 `yaml:"sample_rate"`
	FramesPerBuffer int     `yaml:"frames_per_buffer"`
	InputChannels   int     `yaml:"input_channels"`
	LowLatency      bool    `yaml:"low_latency"`
	Bands           int     `yaml:"bands"`      // Spectrum band count
	FFTWindow       string  `yaml:"fft_window"` // Hann, Hamming, Blackman, ...
}

// RecordingConfig holds settings for recording the captured input.
type RecordingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
	BitDepth  int    `yaml:"bit_depth"`
}

// TransportConfig holds settings for re-exporting level/metadata snapshots
// to remote viewers.
type TransportConfig struct {
	WSEnabled         bool   `yaml:"ws_enabled"`
	WSAddr            string `yaml:"ws_addr"`
	UDPEnabled        bool   `yaml:"udp_enabled"`
	UDPTargetAddress  string `yaml:"udp_target_address"`
	UDPSendIntervalMS int    `yaml:"udp_send_interval_ms"`
}
