package gfx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/andewx/iwengine/internal/logs"
)

func TestMain(m *testing.M) {
	logs.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeGPU is an in-order queue. A submission completes on its own once more
// than latency newer submissions are queued, or when its fence is waited on.
type fakeGPU struct {
	t       *testing.T
	support SurfaceSupport
	latency int

	events []string

	acquireStatus map[int]Status
	presentStatus map[int]Status
	failSubmit    error
	failCreate    map[string]error

	acquires, submits, presents int
	swapchains                  int
	outstanding                 []*fakeSlot
	maxOutstanding              int
}

func newFakeGPU(t *testing.T) *fakeGPU {
	return &fakeGPU{
		t: t,
		support: SurfaceSupport{
			Capabilities: SurfaceCapabilities{
				MinImageCount:  2,
				MaxImageCount:  3,
				CurrentExtent:  Extent{UndefinedExtent, UndefinedExtent},
				MinImageExtent: Extent{1, 1},
				MaxImageExtent: Extent{4096, 4096},
			},
			Formats:      []SurfaceFormat{PreferredSurfaceFormat},
			PresentModes: []PresentMode{PresentModeFifo},
		},
		latency:       1 << 30,
		acquireStatus: map[int]Status{},
		presentStatus: map[int]Status{},
		failCreate:    map[string]error{},
	}
}

func (g *fakeGPU) logf(format string, args ...interface{}) {
	g.events = append(g.events, fmt.Sprintf(format, args...))
}

// eventsWith returns the logged events that start with prefix.
func (g *fakeGPU) eventsWith(prefix string) []string {
	var out []string
	for _, e := range g.events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func (g *fakeGPU) indexOf(event string) int {
	for i, e := range g.events {
		if e == event {
			return i
		}
	}
	return -1
}

func (g *fakeGPU) lastIndexOf(event string) int {
	for i := len(g.events) - 1; i >= 0; i-- {
		if g.events[i] == event {
			return i
		}
	}
	return -1
}

func (g *fakeGPU) completeThrough(s *fakeSlot) {
	for len(g.outstanding) > 0 {
		head := g.outstanding[0]
		g.outstanding = g.outstanding[1:]
		head.pending = false
		head.signaled = true
		if head == s {
			return
		}
	}
}

func (g *fakeGPU) fail(kind string) error {
	return g.failCreate[kind]
}

func (g *fakeGPU) SurfaceSupport() (SurfaceSupport, error) {
	return g.support, nil
}

func (g *fakeGPU) CreateSwapchain(cfg SwapchainConfig) (Swapchain, error) {
	if err := g.fail("swapchain"); err != nil {
		return nil, err
	}
	g.swapchains++
	g.logf("create swapchain %dx%d", cfg.Extent.Width, cfg.Extent.Height)
	return &fakeSwapchain{gpu: g, cfg: cfg}, nil
}

func (g *fakeGPU) CreateImageView(sc Swapchain, index int) (ImageView, error) {
	if err := g.fail("view"); err != nil {
		return nil, err
	}
	g.logf("create view %d", index)
	return &fakeView{gpu: g, image: index}, nil
}

func (g *fakeGPU) CreateRenderPass(format Format) (RenderPass, error) {
	if err := g.fail("pass"); err != nil {
		return nil, err
	}
	g.logf("create pass")
	return &fakeObject{gpu: g, name: "pass"}, nil
}

func (g *fakeGPU) CreatePipeline(pass RenderPass, extent Extent, shaders ShaderSource) (Pipeline, error) {
	if err := g.fail("pipeline"); err != nil {
		return nil, err
	}
	g.logf("create pipeline")
	return &fakeObject{gpu: g, name: "pipeline"}, nil
}

func (g *fakeGPU) CreateFramebuffer(pass RenderPass, view ImageView, extent Extent) (Framebuffer, error) {
	if err := g.fail("framebuffer"); err != nil {
		return nil, err
	}
	g.logf("create framebuffer %d", view.Image())
	return &fakeFramebuffer{gpu: g, view: view}, nil
}

func (g *fakeGPU) CreateFrameSlot(index int) (FrameSlot, error) {
	if err := g.fail("slot"); err != nil {
		return nil, err
	}
	return &fakeSlot{gpu: g, index: index, signaled: true}, nil
}

func (g *fakeGPU) WaitIdle() error {
	for len(g.outstanding) > 0 {
		g.completeThrough(g.outstanding[len(g.outstanding)-1])
	}
	g.logf("wait idle")
	return nil
}

type fakeSwapchain struct {
	gpu  *fakeGPU
	cfg  SwapchainConfig
	next uint32
}

func (s *fakeSwapchain) Config() SwapchainConfig { return s.cfg }
func (s *fakeSwapchain) ImageCount() int         { return int(s.cfg.ImageCount) }

func (s *fakeSwapchain) AcquireNextImage(slot FrameSlot, timeout uint64) (uint32, Status, error) {
	s.gpu.acquires++
	status := s.gpu.acquireStatus[s.gpu.acquires]
	if status == StatusOutOfDate {
		s.gpu.logf("acquire out of date slot %d", slot.Index())
		return 0, status, nil
	}
	image := s.next
	s.next = (s.next + 1) % s.cfg.ImageCount
	s.gpu.logf("acquire slot %d image %d", slot.Index(), image)
	return image, status, nil
}

func (s *fakeSwapchain) Present(slot FrameSlot, image uint32) (Status, error) {
	s.gpu.presents++
	s.gpu.logf("present slot %d image %d", slot.Index(), image)
	return s.gpu.presentStatus[s.gpu.presents], nil
}

func (s *fakeSwapchain) Destroy() { s.gpu.logf("destroy swapchain") }

type fakeView struct {
	gpu   *fakeGPU
	image int
}

func (v *fakeView) Image() int { return v.image }
func (v *fakeView) Destroy()   { v.gpu.logf("destroy view %d", v.image) }

type fakeObject struct {
	gpu  *fakeGPU
	name string
}

func (o *fakeObject) Destroy() { o.gpu.logf("destroy %s", o.name) }

type fakeFramebuffer struct {
	gpu  *fakeGPU
	view ImageView
}

func (f *fakeFramebuffer) View() ImageView { return f.view }
func (f *fakeFramebuffer) Destroy()        { f.gpu.logf("destroy framebuffer %d", f.view.Image()) }

type fakeSlot struct {
	gpu      *fakeGPU
	index    int
	signaled bool
	pending  bool
}

func (s *fakeSlot) Index() int { return s.index }

func (s *fakeSlot) WaitFence(timeout uint64) error {
	if !s.signaled && s.pending {
		s.gpu.completeThrough(s)
	}
	if !s.signaled {
		s.gpu.t.Errorf("slot %d waits on a fence that will never signal", s.index)
	}
	return nil
}

func (s *fakeSlot) ResetFence() error {
	if s.pending {
		s.gpu.t.Errorf("slot %d fence reset while its work is in flight", s.index)
	}
	s.signaled = false
	return nil
}

func (s *fakeSlot) Begin() (CommandEncoder, error) {
	if s.pending {
		s.gpu.t.Errorf("slot %d re-recorded before its fence signaled", s.index)
	}
	s.gpu.logf("begin slot %d", s.index)
	return &fakeEncoder{gpu: s.gpu}, nil
}

func (s *fakeSlot) Submit() error {
	if s.gpu.failSubmit != nil {
		return s.gpu.failSubmit
	}
	s.gpu.submits++
	s.pending = true
	s.gpu.outstanding = append(s.gpu.outstanding, s)
	if n := len(s.gpu.outstanding); n > s.gpu.maxOutstanding {
		s.gpu.maxOutstanding = n
	}
	for len(s.gpu.outstanding) > s.gpu.latency+1 {
		s.gpu.completeThrough(s.gpu.outstanding[0])
	}
	s.gpu.logf("submit slot %d", s.index)
	return nil
}

func (s *fakeSlot) Destroy() { s.gpu.logf("destroy slot %d", s.index) }

type fakeEncoder struct {
	gpu *fakeGPU
}

func (e *fakeEncoder) BeginRenderPass(pass RenderPass, fb Framebuffer, area Extent, clear ClearColor) {
	e.gpu.logf("cmd begin pass framebuffer %d %dx%d", fb.View().Image(), area.Width, area.Height)
}
func (e *fakeEncoder) BindPipeline(p Pipeline) { e.gpu.logf("cmd bind pipeline") }
func (e *fakeEncoder) SetViewport(extent Extent) {
	e.gpu.logf("cmd viewport %dx%d", extent.Width, extent.Height)
}
func (e *fakeEncoder) SetScissor(extent Extent) {
	e.gpu.logf("cmd scissor %dx%d", extent.Width, extent.Height)
}
func (e *fakeEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	e.gpu.logf("cmd draw %d %d", vertexCount, instanceCount)
}
func (e *fakeEncoder) EndRenderPass() { e.gpu.logf("cmd end pass") }
func (e *fakeEncoder) End() error {
	e.gpu.logf("cmd end")
	return nil
}

// fakeWindow reports size, then moves through pending sizes, one per
// WaitEvents call.
type fakeWindow struct {
	width, height int
	pending       [][2]int
	resized       bool
	closeAfter    int
	closed        bool

	polls, waits int
}

func (w *fakeWindow) FramebufferSize() (int, int) { return w.width, w.height }

func (w *fakeWindow) PollEvents() { w.polls++ }

func (w *fakeWindow) WaitEvents() {
	w.waits++
	if len(w.pending) > 0 {
		w.width, w.height = w.pending[0][0], w.pending[0][1]
		w.pending = w.pending[1:]
		return
	}
	w.closed = true
}

func (w *fakeWindow) ShouldClose() bool {
	return w.closed || (w.closeAfter > 0 && w.polls >= w.closeAfter)
}

func (w *fakeWindow) TakeResize() bool {
	r := w.resized
	w.resized = false
	return r
}
