package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
)

type CoreFramebuffer struct {
	device      vk.Device
	framebuffer vk.Framebuffer
	view        *CoreImageView
}

func newCoreFramebuffer(device vk.Device, pass *CoreRenderPass, view *CoreImageView, extent gfx.Extent) (*CoreFramebuffer, error) {
	fb := &CoreFramebuffer{device: device, view: view}
	views := []vk.ImageView{view.view}
	ret := vk.CreateFramebuffer(device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      pass.pass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}, nil, &fb.framebuffer)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrapf(err, "create framebuffer for image %d", view.image)
	}
	return fb, nil
}

func (fb *CoreFramebuffer) View() gfx.ImageView {
	return fb.view
}

func (fb *CoreFramebuffer) Destroy() {
	if fb.framebuffer != nil {
		vk.DestroyFramebuffer(fb.device, fb.framebuffer, nil)
		fb.framebuffer = nil
	}
}
