package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
)

// The gfx enums carry the vulkan values, so conversion is a cast.

func toVkFormat(f gfx.Format) vk.Format {
	return vk.Format(f)
}

func toVkColorSpace(c gfx.ColorSpace) vk.ColorSpace {
	return vk.ColorSpace(c)
}

func toVkPresentMode(m gfx.PresentMode) vk.PresentMode {
	return vk.PresentMode(m)
}

func toVkExtent(e gfx.Extent) vk.Extent2D {
	return vk.Extent2D{Width: e.Width, Height: e.Height}
}

func fromVkExtent(e vk.Extent2D) gfx.Extent {
	return gfx.Extent{Width: e.Width, Height: e.Height}
}

func fromVkSurfaceFormats(formats []vk.SurfaceFormat) []gfx.SurfaceFormat {
	out := make([]gfx.SurfaceFormat, 0, len(formats))
	for _, f := range formats {
		f.Deref()
		out = append(out, gfx.SurfaceFormat{
			Format:     gfx.Format(f.Format),
			ColorSpace: gfx.ColorSpace(f.ColorSpace),
		})
	}
	return out
}

func fromVkPresentModes(modes []vk.PresentMode) []gfx.PresentMode {
	out := make([]gfx.PresentMode, 0, len(modes))
	for _, m := range modes {
		out = append(out, gfx.PresentMode(m))
	}
	return out
}

func fromVkCapabilities(caps vk.SurfaceCapabilities) gfx.SurfaceCapabilities {
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return gfx.SurfaceCapabilities{
		MinImageCount:  caps.MinImageCount,
		MaxImageCount:  caps.MaxImageCount,
		CurrentExtent:  fromVkExtent(caps.CurrentExtent),
		MinImageExtent: fromVkExtent(caps.MinImageExtent),
		MaxImageExtent: fromVkExtent(caps.MaxImageExtent),
	}
}

func clearValue(c gfx.ClearColor) vk.ClearValue {
	return vk.NewClearValue(c[:])
}

func fullRect(e gfx.Extent) vk.Rect2D {
	return vk.Rect2D{Offset: vk.Offset2D{}, Extent: toVkExtent(e)}
}

func fullViewport(e gfx.Extent) vk.Viewport {
	return vk.Viewport{
		Width:    float32(e.Width),
		Height:   float32(e.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
}
