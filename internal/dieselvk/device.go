package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
	"github.com/andewx/iwengine/internal/logs"
)

// deviceCandidate is what device selection knows about one physical device.
type deviceCandidate struct {
	name         string
	deviceType   vk.PhysicalDeviceType
	families     queueFamilies
	hasQueues    bool
	hasSwapchain bool
	formats      int
	presentModes int
}

// deviceScore is 0 for a device that cannot render to the surface, 1000 for
// a suitable discrete GPU and 1 for any other suitable device.
func deviceScore(c deviceCandidate) int {
	if !c.hasQueues || !c.hasSwapchain || c.formats == 0 || c.presentModes == 0 {
		return 0
	}
	if c.deviceType == vk.PhysicalDeviceTypeDiscreteGpu {
		return 1000
	}
	return 1
}

// pickDevice returns the index of the best scoring candidate, the first one
// on ties, or -1 when none qualifies.
func pickDevice(candidates []deviceCandidate) int {
	best, bestScore := -1, 0
	for i, c := range candidates {
		if score := deviceScore(c); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func inspectDevice(gpu vk.PhysicalDevice, surface vk.Surface) (deviceCandidate, error) {
	var c deviceCandidate
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()
	c.name = vk.ToString(props.DeviceName[:])
	c.deviceType = props.DeviceType

	flags := queueFamilyFlags(gpu)
	present, err := surfaceSupportPerFamily(gpu, surface, len(flags))
	if err != nil {
		return c, err
	}
	c.families, c.hasQueues = selectQueueFamilies(flags, present)

	extensions, err := DeviceExtensions(gpu)
	if err != nil {
		return c, err
	}
	c.hasSwapchain = contains(extensions, vk.KhrSwapchainExtensionName)
	if !c.hasSwapchain {
		return c, nil
	}
	support, err := querySurfaceSupport(gpu, surface)
	if err != nil {
		return c, err
	}
	c.formats = len(support.Formats)
	c.presentModes = len(support.PresentModes)
	return c, nil
}

// CoreDevice is the logical device bound to one surface. It implements
// gfx.Backend and owns the surface, the queues and the command pool.
type CoreDevice struct {
	instance *CoreInstance
	surface  vk.Surface
	gpu      vk.PhysicalDevice
	name     string
	handle   vk.Device
	families queueFamilies
	queues   *CoreQueue
	pool     *CorePool
}

var _ gfx.Backend = (*CoreDevice)(nil)

// NewCoreDevice selects the best physical device for surface and creates the
// logical device with the swapchain extension. The device takes ownership of
// surface and destroys it on Destroy, also when creation fails.
func NewCoreDevice(instance *CoreInstance, surface vk.Surface) (*CoreDevice, error) {
	d := &CoreDevice{instance: instance, surface: surface}
	if err := d.init(); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

func (d *CoreDevice) init() error {
	var count uint32
	if err := NewError(vk.EnumeratePhysicalDevices(d.instance.Handle(), &count, nil)); err != nil {
		return errors.Wrap(err, "count physical devices")
	}
	if count == 0 {
		return errors.New("vulkan: no physical devices found")
	}
	gpus := make([]vk.PhysicalDevice, count)
	if err := NewError(vk.EnumeratePhysicalDevices(d.instance.Handle(), &count, gpus)); err != nil {
		return errors.Wrap(err, "enumerate physical devices")
	}

	candidates := make([]deviceCandidate, len(gpus))
	for i, gpu := range gpus {
		c, err := inspectDevice(gpu, d.surface)
		if err != nil {
			logs.Warn.Printf("vulkan: skipping device %d: %v", i, err)
			continue
		}
		candidates[i] = c
		logs.Info.Printf("vulkan: device %d %q score %d", i, c.name, deviceScore(c))
	}
	best := pickDevice(candidates)
	if best < 0 {
		return errors.New("vulkan: no device can render and present to the surface")
	}
	d.gpu = gpus[best]
	d.name = candidates[best].name
	d.families = candidates[best].families

	wanted := []string{vk.KhrSwapchainExtensionName, portabilitySubset}
	available, err := DeviceExtensions(d.gpu)
	if err != nil {
		return err
	}
	extensions, _ := checkExisting(available, wanted)

	queueInfos := d.families.createInfos()
	ret := vk.CreateDevice(d.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(d.instance.Layers())),
		PpEnabledLayerNames:     safeStrings(d.instance.Layers()),
	}, nil, &d.handle)
	if err := NewError(ret); err != nil {
		d.handle = nil
		return errors.Wrapf(err, "create device on %s", d.name)
	}
	d.queues = NewCoreQueue(d.handle, d.families)

	d.pool, err = NewCorePool(d.handle, d.families.graphics)
	if err != nil {
		return err
	}
	logs.Info.Printf("vulkan: using %s (graphics family %d, present family %d)",
		d.name, d.families.graphics, d.families.present)
	return nil
}

// Name is the selected physical device's name.
func (d *CoreDevice) Name() string {
	return d.name
}

func (d *CoreDevice) SurfaceSupport() (gfx.SurfaceSupport, error) {
	return querySurfaceSupport(d.gpu, d.surface)
}

func (d *CoreDevice) CreateSwapchain(cfg gfx.SwapchainConfig) (gfx.Swapchain, error) {
	return newCoreSwapchain(d, cfg)
}

func (d *CoreDevice) CreateImageView(sc gfx.Swapchain, index int) (gfx.ImageView, error) {
	core, ok := sc.(*CoreSwapchain)
	if !ok {
		return nil, errors.Errorf("vulkan: foreign swapchain %T", sc)
	}
	return newCoreImageView(d.handle, core, index)
}

func (d *CoreDevice) CreateRenderPass(format gfx.Format) (gfx.RenderPass, error) {
	return newCoreRenderPass(d.handle, toVkFormat(format))
}

func (d *CoreDevice) CreatePipeline(pass gfx.RenderPass, extent gfx.Extent, shaders gfx.ShaderSource) (gfx.Pipeline, error) {
	rp, ok := pass.(*CoreRenderPass)
	if !ok {
		return nil, errors.Errorf("vulkan: foreign render pass %T", pass)
	}
	return NewPipelineBuilder(d.handle).Build(rp, extent, shaders)
}

func (d *CoreDevice) CreateFramebuffer(pass gfx.RenderPass, view gfx.ImageView, extent gfx.Extent) (gfx.Framebuffer, error) {
	rp, ok := pass.(*CoreRenderPass)
	if !ok {
		return nil, errors.Errorf("vulkan: foreign render pass %T", pass)
	}
	iv, ok := view.(*CoreImageView)
	if !ok {
		return nil, errors.Errorf("vulkan: foreign image view %T", view)
	}
	return newCoreFramebuffer(d.handle, rp, iv, extent)
}

func (d *CoreDevice) CreateFrameSlot(index int) (gfx.FrameSlot, error) {
	return newCoreFrameSlot(d, index)
}

func (d *CoreDevice) WaitIdle() error {
	return errors.Wrap(NewError(vk.DeviceWaitIdle(d.handle)), "device wait idle")
}

// Destroy releases the command pool, the device and the surface. Every
// object created from the device must be destroyed first.
func (d *CoreDevice) Destroy() {
	if d.handle != nil {
		vk.DeviceWaitIdle(d.handle)
		if d.pool != nil {
			d.pool.Destroy(d.handle)
			d.pool = nil
		}
		vk.DestroyDevice(d.handle, nil)
		d.handle = nil
	}
	if d.surface != vk.NullSurface {
		vk.DestroySurface(d.instance.Handle(), d.surface, nil)
		d.surface = vk.NullSurface
	}
}
