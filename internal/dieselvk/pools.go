package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CorePool is the command pool frame slots allocate from. Its buffers can be
// reset one at a time.
type CorePool struct {
	pool vk.CommandPool
}

func NewCorePool(device vk.Device, familyIndex uint32) (*CorePool, error) {
	var core CorePool
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: familyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &core.pool)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrap(err, "create command pool")
	}
	return &core, nil
}

// Allocate returns one primary command buffer.
func (c *CorePool) Allocate(device vk.Device) (vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, buffers)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrap(err, "allocate command buffer")
	}
	return buffers[0], nil
}

func (c *CorePool) Free(device vk.Device, cmd vk.CommandBuffer) {
	vk.FreeCommandBuffers(device, c.pool, 1, []vk.CommandBuffer{cmd})
}

func (c *CorePool) Destroy(device vk.Device) {
	vk.DestroyCommandPool(device, c.pool, nil)
}
