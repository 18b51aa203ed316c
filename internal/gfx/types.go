// Package gfx drives presentation: it negotiates the swapchain with the
// surface, owns the chain of objects rebuilt whenever the surface becomes
// invalid, records the per-frame commands and sequences frame slots against
// their fences and semaphores. The graphics API itself is reached through the
// Backend interface.
package gfx

// Extent is a two dimensional size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// IsZero reports whether the extent has no area.
func (e Extent) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

// UndefinedExtent in SurfaceCapabilities.CurrentExtent means the surface size
// is determined by the swapchain extent.
const UndefinedExtent = 0xFFFFFFFF

// Format values match VkFormat.
type Format int32

const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Srgb  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
)

// ColorSpace values match VkColorSpaceKHR.
type ColorSpace int32

const ColorSpaceSrgbNonlinear ColorSpace = 0

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// PresentMode values match VkPresentModeKHR.
type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFifo        PresentMode = 2
	PresentModeFifoRelaxed PresentMode = 3
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeFifo:
		return "fifo"
	case PresentModeFifoRelaxed:
		return "fifo-relaxed"
	}
	return "unknown"
}

// SurfaceCapabilities is the subset of the surface capabilities the
// swapchain negotiation reads. A MaxImageCount of zero means no limit.
type SurfaceCapabilities struct {
	MinImageCount  uint32
	MaxImageCount  uint32
	CurrentExtent  Extent
	MinImageExtent Extent
	MaxImageExtent Extent
}

// SurfaceSupport is what a device reports for presenting to a surface.
type SurfaceSupport struct {
	Capabilities SurfaceCapabilities
	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

// SwapchainConfig is the negotiated result used to create a swapchain.
type SwapchainConfig struct {
	Format      SurfaceFormat
	Extent      Extent
	ImageCount  uint32
	PresentMode PresentMode
}

// ShaderSource holds the two compiled stages of the graphics pipeline.
// Both stages may share one blob when it carries both entry points.
type ShaderSource struct {
	Vertex        []byte
	Fragment      []byte
	VertexEntry   string
	FragmentEntry string
}

// ClearColor is the RGBA value the color attachment is cleared to.
type ClearColor [4]float32

// Status is the outcome of an acquire or present that did not fail.
type Status int

const (
	StatusSuccess Status = iota
	// StatusSuboptimal: the image was acquired or presented, but the
	// swapchain no longer matches the surface exactly.
	StatusSuboptimal
	// StatusOutOfDate: the swapchain can no longer be used with the surface.
	StatusOutOfDate
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSuboptimal:
		return "suboptimal"
	case StatusOutOfDate:
		return "out of date"
	}
	return "unknown"
}
