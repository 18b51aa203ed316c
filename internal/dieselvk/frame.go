package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
)

// CoreFrameSlot is the per frame in flight state: a command buffer, the
// semaphore the acquired image signals, the semaphore presentation waits on
// and the fence guarding the command buffer.
type CoreFrameSlot struct {
	device         *CoreDevice
	index          int
	cmd            vk.CommandBuffer
	imageAcquired  vk.Semaphore
	renderFinished vk.Semaphore
	fence          vk.Fence
}

var (
	_ gfx.FrameSlot      = (*CoreFrameSlot)(nil)
	_ gfx.CommandEncoder = (*coreEncoder)(nil)
)

func newCoreFrameSlot(d *CoreDevice, index int) (*CoreFrameSlot, error) {
	s := &CoreFrameSlot{device: d, index: index}
	var err error
	if s.cmd, err = d.pool.Allocate(d.handle); err != nil {
		return nil, err
	}
	if s.imageAcquired, err = newSemaphore(d.handle); err != nil {
		s.Destroy()
		return nil, err
	}
	if s.renderFinished, err = newSemaphore(d.handle); err != nil {
		s.Destroy()
		return nil, err
	}
	// Signaled so the first wait on a fresh slot returns immediately.
	ret := vk.CreateFence(d.handle, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}, nil, &s.fence)
	if err := NewError(ret); err != nil {
		s.Destroy()
		return nil, errors.Wrapf(err, "create fence for slot %d", index)
	}
	return s, nil
}

func newSemaphore(device vk.Device) (vk.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	return sem, errors.Wrap(NewError(ret), "create semaphore")
}

func (s *CoreFrameSlot) Index() int {
	return s.index
}

func (s *CoreFrameSlot) WaitFence(timeout uint64) error {
	ret := vk.WaitForFences(s.device.handle, 1, []vk.Fence{s.fence}, vk.True, timeout)
	return errors.Wrapf(NewError(ret), "wait fence of slot %d", s.index)
}

func (s *CoreFrameSlot) ResetFence() error {
	ret := vk.ResetFences(s.device.handle, 1, []vk.Fence{s.fence})
	return errors.Wrapf(NewError(ret), "reset fence of slot %d", s.index)
}

func (s *CoreFrameSlot) Begin() (gfx.CommandEncoder, error) {
	if err := NewError(vk.ResetCommandBuffer(s.cmd, 0)); err != nil {
		return nil, errors.Wrapf(err, "reset command buffer of slot %d", s.index)
	}
	ret := vk.BeginCommandBuffer(s.cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if err := NewError(ret); err != nil {
		return nil, errors.Wrapf(err, "begin command buffer of slot %d", s.index)
	}
	return &coreEncoder{cmd: s.cmd}, nil
}

func (s *CoreFrameSlot) Submit() error {
	ret := vk.QueueSubmit(s.device.queues.Graphics(), 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{s.imageAcquired},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{s.cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{s.renderFinished},
	}}, s.fence)
	return errors.Wrapf(NewError(ret), "submit slot %d", s.index)
}

// Destroy releases the slot. The device must be idle.
func (s *CoreFrameSlot) Destroy() {
	device := s.device.handle
	if s.fence != vk.NullFence {
		vk.DestroyFence(device, s.fence, nil)
		s.fence = vk.NullFence
	}
	if s.renderFinished != vk.NullSemaphore {
		vk.DestroySemaphore(device, s.renderFinished, nil)
		s.renderFinished = vk.NullSemaphore
	}
	if s.imageAcquired != vk.NullSemaphore {
		vk.DestroySemaphore(device, s.imageAcquired, nil)
		s.imageAcquired = vk.NullSemaphore
	}
	if s.cmd != nil {
		s.device.pool.Free(device, s.cmd)
		s.cmd = nil
	}
}

// coreEncoder records into one slot's command buffer.
type coreEncoder struct {
	cmd vk.CommandBuffer
}

func (e *coreEncoder) BeginRenderPass(pass gfx.RenderPass, fb gfx.Framebuffer, area gfx.Extent, clear gfx.ClearColor) {
	rp := pass.(*CoreRenderPass)
	framebuffer := fb.(*CoreFramebuffer)
	vk.CmdBeginRenderPass(e.cmd, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      rp.pass,
		Framebuffer:     framebuffer.framebuffer,
		RenderArea:      fullRect(area),
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clearValue(clear)},
	}, vk.SubpassContentsInline)
}

func (e *coreEncoder) BindPipeline(p gfx.Pipeline) {
	vk.CmdBindPipeline(e.cmd, vk.PipelineBindPointGraphics, p.(*CorePipeline).pipeline)
}

func (e *coreEncoder) SetViewport(extent gfx.Extent) {
	vk.CmdSetViewport(e.cmd, 0, 1, []vk.Viewport{fullViewport(extent)})
}

func (e *coreEncoder) SetScissor(extent gfx.Extent) {
	vk.CmdSetScissor(e.cmd, 0, 1, []vk.Rect2D{fullRect(extent)})
}

func (e *coreEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(e.cmd, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (e *coreEncoder) EndRenderPass() {
	vk.CmdEndRenderPass(e.cmd)
}

func (e *coreEncoder) End() error {
	return errors.Wrap(NewError(vk.EndCommandBuffer(e.cmd)), "end command buffer")
}
