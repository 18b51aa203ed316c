package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// queueFamilies are the family indices graphics and present work go to.
type queueFamilies struct {
	graphics uint32
	present  uint32
}

// separate reports whether presentation happens on a different family than
// rendering, in which case swapchain images are shared concurrently.
func (q queueFamilies) separate() bool {
	return q.graphics != q.present
}

func (q queueFamilies) unique() []uint32 {
	if q.separate() {
		return []uint32{q.graphics, q.present}
	}
	return []uint32{q.graphics}
}

// createInfos asks for a single queue from every unique family.
func (q queueFamilies) createInfos() []vk.DeviceQueueCreateInfo {
	families := q.unique()
	infos := make([]vk.DeviceQueueCreateInfo, 0, len(families))
	for _, index := range families {
		infos = append(infos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: index,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}
	return infos
}

// selectQueueFamilies picks the families from per-family capability flags and
// surface support. A family doing both is preferred; otherwise the first
// graphics family is paired with the first presenting one.
func selectQueueFamilies(flags []vk.QueueFlags, present []bool) (queueFamilies, bool) {
	graphicsBit := vk.QueueFlags(vk.QueueGraphicsBit)
	graphics, presenting := -1, -1
	for i := range flags {
		canPresent := i < len(present) && present[i]
		if flags[i]&graphicsBit != 0 {
			if canPresent {
				return queueFamilies{graphics: uint32(i), present: uint32(i)}, true
			}
			if graphics < 0 {
				graphics = i
			}
		}
		if canPresent && presenting < 0 {
			presenting = i
		}
	}
	if graphics < 0 || presenting < 0 {
		return queueFamilies{}, false
	}
	return queueFamilies{graphics: uint32(graphics), present: uint32(presenting)}, true
}

// queueFamilyFlags lists the capability flags of every queue family on gpu.
func queueFamilyFlags(gpu vk.PhysicalDevice) []vk.QueueFlags {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, properties)
	flags := make([]vk.QueueFlags, count)
	for i := range properties {
		properties[i].Deref()
		flags[i] = properties[i].QueueFlags
	}
	return flags
}

// surfaceSupportPerFamily reports which queue families of gpu can present to surface.
func surfaceSupportPerFamily(gpu vk.PhysicalDevice, surface vk.Surface, families int) ([]bool, error) {
	support := make([]bool, families)
	for i := 0; i < families; i++ {
		var supported vk.Bool32
		ret := vk.GetPhysicalDeviceSurfaceSupport(gpu, uint32(i), surface, &supported)
		if err := NewError(ret); err != nil {
			return nil, errors.Wrapf(err, "surface support of queue family %d", i)
		}
		support[i] = supported.B()
	}
	return support, nil
}

// CoreQueue holds the device queues the renderer submits and presents on.
type CoreQueue struct {
	families queueFamilies
	graphics vk.Queue
	present  vk.Queue
}

// NewCoreQueue fetches the queues once the logical device exists.
func NewCoreQueue(device vk.Device, families queueFamilies) *CoreQueue {
	q := &CoreQueue{families: families}
	vk.GetDeviceQueue(device, families.graphics, 0, &q.graphics)
	if families.separate() {
		vk.GetDeviceQueue(device, families.present, 0, &q.present)
	} else {
		q.present = q.graphics
	}
	return q
}

func (q *CoreQueue) Graphics() vk.Queue {
	return q.graphics
}

func (q *CoreQueue) Present() vk.Queue {
	return q.present
}
