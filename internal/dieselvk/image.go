package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CoreImageView is a 2D color view onto one swapchain image.
type CoreImageView struct {
	device vk.Device
	view   vk.ImageView
	image  int
}

func newCoreImageView(device vk.Device, sc *CoreSwapchain, index int) (*CoreImageView, error) {
	if index < 0 || index >= len(sc.images) {
		return nil, errors.Errorf("vulkan: swapchain has no image %d", index)
	}
	v := &CoreImageView{device: device, image: index}
	ret := vk.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    sc.images[index],
		ViewType: vk.ImageViewType2d,
		Format:   toVkFormat(sc.config.Format.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &v.view)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrapf(err, "create image view %d", index)
	}
	return v, nil
}

func (v *CoreImageView) Image() int {
	return v.image
}

func (v *CoreImageView) Destroy() {
	if v.view != vk.NullImageView {
		vk.DestroyImageView(v.device, v.view, nil)
		v.view = vk.NullImageView
	}
}
