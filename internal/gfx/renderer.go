package gfx

import (
	"github.com/pkg/errors"

	"github.com/andewx/iwengine/internal/logs"
)

// ErrQuit is returned when the window is closed while the renderer waits for
// it to become drawable again.
var ErrQuit = errors.New("window closed")

type Options struct {
	FramesInFlight int
	AcquireTimeout uint64
	ClearColor     ClearColor
}

// Stats counts what the renderer did since it was created.
type Stats struct {
	Presented   int
	Skipped     int
	Recreations int
}

// Renderer owns the presentation chain and the frame slots and drives them
// from the window's event loop.
type Renderer struct {
	backend Backend
	window  Window
	shaders ShaderSource
	frames  *FrameSynchronizer
	chain   *Chain
	stats   Stats
}

// New creates the frame slots and the first presentation chain. When the
// window has no area yet the chain is built on the first DrawFrame.
func New(b Backend, w Window, shaders ShaderSource, opts Options) (*Renderer, error) {
	if opts.AcquireTimeout == 0 {
		opts.AcquireTimeout = NoTimeout
	}
	frames, err := NewFrameSynchronizer(b, opts.FramesInFlight, opts.AcquireTimeout, opts.ClearColor)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		backend: b,
		window:  w,
		shaders: shaders,
		frames:  frames,
	}

	width, height := w.FramebufferSize()
	if width == 0 || height == 0 {
		return r, nil
	}
	chain, err := buildChain(b, width, height, shaders)
	if err != nil && err != errZeroExtent {
		frames.Destroy()
		return nil, err
	}
	r.chain = chain
	if chain != nil {
		logs.Info.Printf("presentation chain %dx%d, %d images, %v",
			chain.Config.Extent.Width, chain.Config.Extent.Height, len(chain.Views), chain.Config.PresentMode)
	}
	return r, nil
}

func (r *Renderer) Chain() *Chain {
	return r.chain
}

func (r *Renderer) Frames() *FrameSynchronizer {
	return r.frames
}

func (r *Renderer) Stats() Stats {
	return r.stats
}

// DrawFrame renders and presents one frame, rebuilding the presentation chain
// when the surface changed.
func (r *Renderer) DrawFrame() error {
	if r.chain == nil {
		if err := r.Recreate(); err != nil {
			return err
		}
		if r.chain == nil {
			return nil
		}
	}

	res, err := r.frames.DrawFrame(r.chain, r.window.TakeResize())
	if err != nil {
		return err
	}
	if res.Presented {
		r.stats.Presented++
	} else {
		r.stats.Skipped++
	}
	if res.Recreate {
		return r.Recreate()
	}
	return nil
}

// Recreate waits for the device to go idle and rebuilds the presentation
// chain for the current drawable size. While the window has no area it blocks
// on window events. ErrQuit is returned if the window closes meanwhile.
func (r *Renderer) Recreate() error {
	width, height := r.window.FramebufferSize()
	for width == 0 || height == 0 {
		if r.window.ShouldClose() {
			return ErrQuit
		}
		r.window.WaitEvents()
		width, height = r.window.FramebufferSize()
	}

	if err := r.backend.WaitIdle(); err != nil {
		return errors.Wrap(err, "wait for device idle")
	}
	if r.chain != nil {
		r.chain.Destroy()
		r.chain = nil
	}
	r.frames.Reset()

	chain, err := buildChain(r.backend, width, height, r.shaders)
	if err == errZeroExtent {
		// The surface lags behind the window; try again after the next event.
		r.window.WaitEvents()
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "recreate presentation chain")
	}
	r.chain = chain
	r.stats.Recreations++
	logs.Info.Printf("presentation chain recreated at %dx%d", chain.Config.Extent.Width, chain.Config.Extent.Height)
	return nil
}

// Run draws frames until the window closes. onFrame is called once per
// iteration after events are polled. The device is idle when Run returns.
func (r *Renderer) Run(onFrame func()) (err error) {
	defer func() {
		if idleErr := r.backend.WaitIdle(); idleErr != nil && err == nil {
			err = errors.Wrap(idleErr, "wait for device idle")
		}
	}()
	for {
		r.window.PollEvents()
		if r.window.ShouldClose() {
			return nil
		}
		if onFrame != nil {
			onFrame()
		}
		if err := r.DrawFrame(); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// Destroy releases the chain and the frame slots after the device is idle.
func (r *Renderer) Destroy() {
	if err := r.backend.WaitIdle(); err != nil {
		logs.Warn.Printf("wait idle before destroy: %v", err)
	}
	if r.chain != nil {
		r.chain.Destroy()
		r.chain = nil
	}
	if r.frames != nil {
		r.frames.Destroy()
		r.frames = nil
	}
}
