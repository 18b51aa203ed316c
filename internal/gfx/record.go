package gfx

import (
	"github.com/pkg/errors"
)

// recordFrame fills the slot's command buffer for one image. Everything
// between Begin and End is scoped to the render pass.
func recordFrame(slot FrameSlot, c *Chain, image uint32, clear ClearColor) error {
	if int(image) >= len(c.Framebuffers) {
		return errors.Errorf("image %d has no framebuffer (%d images)", image, len(c.Framebuffers))
	}
	enc, err := slot.Begin()
	if err != nil {
		return errors.Wrap(err, "begin command buffer")
	}
	extent := c.Config.Extent
	enc.BeginRenderPass(c.RenderPass, c.Framebuffers[image], extent, clear)
	enc.BindPipeline(c.Pipeline)
	enc.SetViewport(extent)
	enc.SetScissor(extent)
	// Placeholder triangle, positions come from the vertex index.
	enc.Draw(3, 1, 0, 0)
	enc.EndRenderPass()
	return errors.Wrap(enc.End(), "end command buffer")
}
