package gfx

import "math"

// NoTimeout makes a fence wait or image acquire block until it completes.
const NoTimeout uint64 = math.MaxUint64

// Backend creates the objects the renderer drives. Every object it returns
// is owned by the caller and released with Destroy.
type Backend interface {
	// SurfaceSupport queries the surface the backend presents to.
	SurfaceSupport() (SurfaceSupport, error)
	CreateSwapchain(cfg SwapchainConfig) (Swapchain, error)
	// CreateImageView makes a color view onto swapchain image index.
	CreateImageView(sc Swapchain, index int) (ImageView, error)
	CreateRenderPass(format Format) (RenderPass, error)
	// CreatePipeline compiles the shaders into a graphics pipeline bound to
	// pass; the shader modules do not outlive the call.
	CreatePipeline(pass RenderPass, extent Extent, shaders ShaderSource) (Pipeline, error)
	CreateFramebuffer(pass RenderPass, view ImageView, extent Extent) (Framebuffer, error)
	// CreateFrameSlot allocates one command buffer, an image-acquired and a
	// render-finished semaphore and a fence created in the signaled state.
	CreateFrameSlot(index int) (FrameSlot, error)
	// WaitIdle blocks until the device has finished all submitted work.
	WaitIdle() error
}

// Swapchain is a ring of presentable images.
type Swapchain interface {
	Config() SwapchainConfig
	ImageCount() int
	// AcquireNextImage signals the slot's image-acquired semaphore once the
	// returned image is available. StatusOutOfDate returns no image.
	AcquireNextImage(slot FrameSlot, timeout uint64) (uint32, Status, error)
	// Present queues image for display after the slot's render-finished
	// semaphore is signaled.
	Present(slot FrameSlot, image uint32) (Status, error)
	Destroy()
}

// ImageView is a view onto one swapchain image.
type ImageView interface {
	Image() int
	Destroy()
}

type RenderPass interface {
	Destroy()
}

type Pipeline interface {
	Destroy()
}

// Framebuffer binds one image view to a render pass.
type Framebuffer interface {
	View() ImageView
	Destroy()
}

// FrameSlot is one of the concurrently schedulable frame contexts.
type FrameSlot interface {
	Index() int
	// WaitFence blocks until the GPU work last submitted from this slot is done.
	WaitFence(timeout uint64) error
	ResetFence() error
	// Begin resets the slot's command buffer and starts recording into it.
	Begin() (CommandEncoder, error)
	// Submit queues the recorded commands: wait on image-acquired at the
	// color attachment output stage, signal render-finished and the fence.
	Submit() error
	Destroy()
}

// CommandEncoder records into a frame slot's command buffer.
type CommandEncoder interface {
	BeginRenderPass(pass RenderPass, fb Framebuffer, area Extent, clear ClearColor)
	BindPipeline(p Pipeline)
	SetViewport(extent Extent)
	SetScissor(extent Extent)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	EndRenderPass()
	End() error
}

// Window is the platform window the surface belongs to.
type Window interface {
	// FramebufferSize is the drawable size in pixels.
	FramebufferSize() (width, height int)
	PollEvents()
	// WaitEvents blocks until at least one platform event arrived.
	WaitEvents()
	ShouldClose() bool
	// TakeResize reports and clears a pending resize notification.
	TakeResize() bool
}
