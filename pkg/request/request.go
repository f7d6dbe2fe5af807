package request

import "unicode/utf8"

const (
	// MaxPathLen bounds scene file and output directory paths.
	MaxPathLen = 255
	// MaxTokenLen bounds mode and device tokens.
	MaxTokenLen = 9
)

const (
	// ModeEevee names the rasterizing engine.
	ModeEevee = "EEVEE"
	// ModeCycles names the path-traced engine, the only one that takes a device.
	ModeCycles = "CYCLES"
)

const (
	// DeviceCPU and DeviceGPU are the conventional Cycles devices.
	DeviceCPU = "CPU"
	DeviceGPU = "GPU"
)

// Request describes one rendering job.
type Request struct {
	FilePath   string `json:"filePath" yaml:"filePath"`
	Mode       string `json:"mode" yaml:"mode"`
	Device     string `json:"device,omitempty" yaml:"device,omitempty"`
	FrameStart int    `json:"frameStart" yaml:"frameStart"`
	FrameEnd   int    `json:"frameEnd" yaml:"frameEnd"`
	OutputDir  string `json:"outputDir" yaml:"outputDir"`
}

// Fields carries raw values prior to bounding.
type Fields struct {
	FilePath   string
	Mode       string
	Device     string
	FrameStart int
	FrameEnd   int
	OutputDir  string
}

// New bounds every string field and drops the device unless the mode is
// exactly ModeCycles.
func New(f Fields) Request {
	mode := Truncate(f.Mode, MaxTokenLen)
	device := ""
	if UsesDevice(mode) {
		device = Truncate(f.Device, MaxTokenLen)
	}
	return Request{
		FilePath:   Truncate(f.FilePath, MaxPathLen),
		Mode:       mode,
		Device:     device,
		FrameStart: f.FrameStart,
		FrameEnd:   f.FrameEnd,
		OutputDir:  Truncate(f.OutputDir, MaxPathLen),
	}
}

// UsesDevice reports whether mode takes a compute device. The comparison is
// case-sensitive.
func UsesDevice(mode string) bool {
	return mode == ModeCycles
}

// UsesDevice reports whether the request carries a device flag.
func (r Request) UsesDevice() bool {
	return UsesDevice(r.Mode)
}

// FrameRange returns the frame bounds in ascending order.
func (r Request) FrameRange() (first, last int) {
	if r.FrameStart > r.FrameEnd {
		return r.FrameEnd, r.FrameStart
	}
	return r.FrameStart, r.FrameEnd
}

// Truncate cuts s to at most max runes. Invalid UTF-8 falls back to a byte
// cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if !utf8.ValidString(s) {
		return s[:max]
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
