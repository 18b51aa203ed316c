package gfx

import (
	"github.com/pkg/errors"
)

// errZeroExtent is returned by buildChain when the surface currently has no
// area, typically while the window is minimized.
var errZeroExtent = errors.New("surface extent is zero")

// releaseStack releases resources in reverse acquisition order.
type releaseStack []func()

func (s *releaseStack) push(fn func()) {
	*s = append(*s, fn)
}

func (s *releaseStack) release() {
	for i := len(*s) - 1; i >= 0; i-- {
		(*s)[i]()
	}
	*s = nil
}

// Chain is the unit rebuilt when the surface is invalidated: the swapchain,
// its image views, the render pass, the pipeline and one framebuffer per view.
// Framebuffer i is bound to view i, which views swapchain image i.
type Chain struct {
	Config       SwapchainConfig
	Swapchain    Swapchain
	Views        []ImageView
	RenderPass   RenderPass
	Pipeline     Pipeline
	Framebuffers []Framebuffer

	release releaseStack
}

func buildChain(b Backend, width, height int, shaders ShaderSource) (c *Chain, err error) {
	support, err := b.SurfaceSupport()
	if err != nil {
		return nil, errors.Wrap(err, "query surface support")
	}
	cfg, err := Negotiate(support, width, height)
	if err != nil {
		return nil, errors.Wrap(err, "negotiate swapchain")
	}
	if cfg.Extent.IsZero() {
		return nil, errZeroExtent
	}

	c = &Chain{}
	defer func() {
		if err != nil {
			c.release.release()
			c = nil
		}
	}()

	sc, err := b.CreateSwapchain(cfg)
	if err != nil {
		return c, errors.Wrap(err, "create swapchain")
	}
	c.release.push(sc.Destroy)
	c.Swapchain = sc
	c.Config = sc.Config()

	for i := 0; i < sc.ImageCount(); i++ {
		view, err := b.CreateImageView(sc, i)
		if err != nil {
			return c, errors.Wrapf(err, "create image view %d", i)
		}
		c.release.push(view.Destroy)
		c.Views = append(c.Views, view)
	}

	pass, err := b.CreateRenderPass(c.Config.Format.Format)
	if err != nil {
		return c, errors.Wrap(err, "create render pass")
	}
	c.release.push(pass.Destroy)
	c.RenderPass = pass

	pipeline, err := b.CreatePipeline(pass, c.Config.Extent, shaders)
	if err != nil {
		return c, errors.Wrap(err, "create pipeline")
	}
	c.release.push(pipeline.Destroy)
	c.Pipeline = pipeline

	for i, view := range c.Views {
		fb, err := b.CreateFramebuffer(pass, view, c.Config.Extent)
		if err != nil {
			return c, errors.Wrapf(err, "create framebuffer %d", i)
		}
		c.release.push(fb.Destroy)
		c.Framebuffers = append(c.Framebuffers, fb)
	}
	return c, nil
}

// Destroy releases framebuffers, pipeline, render pass, image views and the
// swapchain, in that order. The device must be idle.
func (c *Chain) Destroy() {
	c.release.release()
	c.Framebuffers = nil
	c.Pipeline = nil
	c.RenderPass = nil
	c.Views = nil
	c.Swapchain = nil
}
