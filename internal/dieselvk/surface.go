package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
)

// querySurfaceSupport reads what gpu offers for presenting to surface.
func querySurfaceSupport(gpu vk.PhysicalDevice, surface vk.Surface) (gfx.SurfaceSupport, error) {
	var support gfx.SurfaceSupport

	var caps vk.SurfaceCapabilities
	if err := NewError(vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &caps)); err != nil {
		return support, errors.Wrap(err, "surface capabilities")
	}
	support.Capabilities = fromVkCapabilities(caps)

	var formatCount uint32
	if err := NewError(vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, nil)); err != nil {
		return support, errors.Wrap(err, "count surface formats")
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	if formatCount > 0 {
		if err := NewError(vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, formats)); err != nil {
			return support, errors.Wrap(err, "surface formats")
		}
	}
	support.Formats = fromVkSurfaceFormats(formats[:formatCount])

	var modeCount uint32
	if err := NewError(vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &modeCount, nil)); err != nil {
		return support, errors.Wrap(err, "count present modes")
	}
	modes := make([]vk.PresentMode, modeCount)
	if modeCount > 0 {
		if err := NewError(vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &modeCount, modes)); err != nil {
			return support, errors.Wrap(err, "present modes")
		}
	}
	support.PresentModes = fromVkPresentModes(modes[:modeCount])
	return support, nil
}
