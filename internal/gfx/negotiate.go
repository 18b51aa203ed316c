package gfx

import (
	"github.com/pkg/errors"
)

// PreferredSurfaceFormat is chosen whenever the surface offers it.
var PreferredSurfaceFormat = SurfaceFormat{
	Format:     FormatB8G8R8A8Srgb,
	ColorSpace: ColorSpaceSrgbNonlinear,
}

// ChooseSurfaceFormat picks the preferred format/color space pair, falling
// back to the first format the surface lists. A lone undefined format means
// the surface accepts anything.
func ChooseSurfaceFormat(formats []SurfaceFormat) (SurfaceFormat, error) {
	if len(formats) == 0 {
		return SurfaceFormat{}, errors.New("surface reports no formats")
	}
	if len(formats) == 1 && formats[0].Format == FormatUndefined {
		return PreferredSurfaceFormat, nil
	}
	for _, f := range formats {
		if f == PreferredSurfaceFormat {
			return f, nil
		}
	}
	return formats[0], nil
}

// ChoosePresentMode prefers mailbox (low latency triple buffering) and
// otherwise uses FIFO, which every surface supports.
func ChoosePresentMode(modes []PresentMode) PresentMode {
	for _, mode := range modes {
		if mode == PresentModeMailbox {
			return mode
		}
	}
	return PresentModeFifo
}

// ChooseExtent returns the surface's current extent, or, when the surface
// leaves it to the swapchain, the drawable size clamped to the supported range.
func ChooseExtent(caps SurfaceCapabilities, drawableWidth, drawableHeight int) Extent {
	if caps.CurrentExtent.Width != UndefinedExtent {
		return caps.CurrentExtent
	}
	return Extent{
		Width:  clamp(nonNegative(drawableWidth), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(nonNegative(drawableHeight), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum so the
// application never waits on the driver, without exceeding the maximum.
func ChooseImageCount(caps SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// Negotiate derives the whole swapchain configuration.
func Negotiate(support SurfaceSupport, drawableWidth, drawableHeight int) (SwapchainConfig, error) {
	format, err := ChooseSurfaceFormat(support.Formats)
	if err != nil {
		return SwapchainConfig{}, err
	}
	if len(support.PresentModes) == 0 {
		return SwapchainConfig{}, errors.New("surface reports no present modes")
	}
	return SwapchainConfig{
		Format:      format,
		Extent:      ChooseExtent(support.Capabilities, drawableWidth, drawableHeight),
		ImageCount:  ChooseImageCount(support.Capabilities),
		PresentMode: ChoosePresentMode(support.PresentModes),
	}, nil
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

func nonNegative(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
