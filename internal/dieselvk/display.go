package dieselvk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// InitPlatform starts glfw and loads the vulkan entry points through it. It
// must run on the locked main thread; the returned func terminates glfw.
func InitPlatform() (func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, errors.New("glfw: vulkan loader not found")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "vulkan init")
	}
	return glfw.Terminate, nil
}

// CoreDisplay is a resizable glfw window without a client API. It
// implements gfx.Window and tracks the input the camera reads.
type CoreDisplay struct {
	window  *glfw.Window
	resized bool

	cursorX, cursorY float64
	hasCursor        bool
	deltaX, deltaY   float64
}

func NewCoreDisplay(width, height int, title string) (*CoreDisplay, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)
	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	d := &CoreDisplay{window: window}
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		d.resized = true
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if d.hasCursor {
			d.deltaX += x - d.cursorX
			d.deltaY += y - d.cursorY
		}
		d.cursorX, d.cursorY, d.hasCursor = x, y, true
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	return d, nil
}

// RequiredExtensions lists the instance extensions the window system needs.
func (d *CoreDisplay) RequiredExtensions() []string {
	return d.window.GetRequiredInstanceExtensions()
}

// CreateSurface binds the window to instance.
func (d *CoreDisplay) CreateSurface(instance *CoreInstance) (vk.Surface, error) {
	ptr, err := d.window.CreateWindowSurface(instance.Handle(), nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "create window surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}

func (d *CoreDisplay) FramebufferSize() (int, int) {
	return d.window.GetFramebufferSize()
}

func (d *CoreDisplay) PollEvents() {
	glfw.PollEvents()
}

func (d *CoreDisplay) WaitEvents() {
	glfw.WaitEvents()
}

func (d *CoreDisplay) ShouldClose() bool {
	return d.window.ShouldClose()
}

func (d *CoreDisplay) TakeResize() bool {
	r := d.resized
	d.resized = false
	return r
}

// KeyDown reports whether key is held.
func (d *CoreDisplay) KeyDown(key glfw.Key) bool {
	return d.window.GetKey(key) == glfw.Press
}

// TakeCursorDelta returns the cursor movement since the previous call.
func (d *CoreDisplay) TakeCursorDelta() (float64, float64) {
	dx, dy := d.deltaX, d.deltaY
	d.deltaX, d.deltaY = 0, 0
	return dx, dy
}

func (d *CoreDisplay) SetTitle(title string) {
	d.window.SetTitle(title)
}

// Time is the glfw clock in seconds.
func (d *CoreDisplay) Time() float64 {
	return glfw.GetTime()
}

func (d *CoreDisplay) Destroy() {
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
}
