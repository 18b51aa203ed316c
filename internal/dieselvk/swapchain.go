package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
)

// CoreSwapchain is a vulkan swapchain together with the images it owns.
type CoreSwapchain struct {
	device    *CoreDevice
	swapchain vk.Swapchain
	images    []vk.Image
	config    gfx.SwapchainConfig
}

var _ gfx.Swapchain = (*CoreSwapchain)(nil)

func newCoreSwapchain(d *CoreDevice, cfg gfx.SwapchainConfig) (*CoreSwapchain, error) {
	var caps vk.SurfaceCapabilities
	if err := NewError(vk.GetPhysicalDeviceSurfaceCapabilities(d.gpu, d.surface, &caps)); err != nil {
		return nil, errors.Wrap(err, "surface capabilities")
	}
	caps.Deref()

	// Prefer a non-rotated transform.
	var preTransform vk.SurfaceTransformFlagBits
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	} else {
		preTransform = caps.CurrentTransform
	}

	// One of these is guaranteed to be set.
	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, flag := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(flag) != 0 {
			compositeAlpha = flag
			break
		}
	}

	info := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          d.surface,
		MinImageCount:    cfg.ImageCount,
		ImageFormat:      toVkFormat(cfg.Format.Format),
		ImageColorSpace:  toVkColorSpace(cfg.Format.ColorSpace),
		ImageExtent:      toVkExtent(cfg.Extent),
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      toVkPresentMode(cfg.PresentMode),
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if d.families.separate() {
		families := d.families.unique()
		info.ImageSharingMode = vk.SharingModeConcurrent
		info.QueueFamilyIndexCount = uint32(len(families))
		info.PQueueFamilyIndices = families
	}

	s := &CoreSwapchain{device: d, config: cfg}
	if err := NewError(vk.CreateSwapchain(d.handle, &info, nil, &s.swapchain)); err != nil {
		return nil, errors.Wrap(err, "create swapchain")
	}

	var count uint32
	if err := NewError(vk.GetSwapchainImages(d.handle, s.swapchain, &count, nil)); err != nil {
		s.Destroy()
		return nil, errors.Wrap(err, "count swapchain images")
	}
	s.images = make([]vk.Image, count)
	if err := NewError(vk.GetSwapchainImages(d.handle, s.swapchain, &count, s.images)); err != nil {
		s.Destroy()
		return nil, errors.Wrap(err, "get swapchain images")
	}
	// The implementation may hand out more images than requested.
	s.config.ImageCount = count
	return s, nil
}

func (s *CoreSwapchain) Config() gfx.SwapchainConfig {
	return s.config
}

func (s *CoreSwapchain) ImageCount() int {
	return len(s.images)
}

func (s *CoreSwapchain) AcquireNextImage(slot gfx.FrameSlot, timeout uint64) (uint32, gfx.Status, error) {
	fs, ok := slot.(*CoreFrameSlot)
	if !ok {
		return 0, gfx.StatusSuccess, errors.Errorf("vulkan: foreign frame slot %T", slot)
	}
	var index uint32
	ret := vk.AcquireNextImage(s.device.handle, s.swapchain, timeout, fs.imageAcquired, vk.NullFence, &index)
	status, err := presentStatus(ret)
	if err != nil {
		return 0, status, errors.Wrap(err, "acquire next image")
	}
	return index, status, nil
}

func (s *CoreSwapchain) Present(slot gfx.FrameSlot, image uint32) (gfx.Status, error) {
	fs, ok := slot.(*CoreFrameSlot)
	if !ok {
		return gfx.StatusSuccess, errors.Errorf("vulkan: foreign frame slot %T", slot)
	}
	ret := vk.QueuePresent(s.device.queues.Present(), &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{fs.renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.swapchain},
		PImageIndices:      []uint32{image},
	})
	status, err := presentStatus(ret)
	return status, errors.Wrap(err, "queue present")
}

// Destroy releases the swapchain; its images go with it.
func (s *CoreSwapchain) Destroy() {
	if s.swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(s.device.handle, s.swapchain, nil)
		s.swapchain = vk.NullSwapchain
	}
	s.images = nil
}
