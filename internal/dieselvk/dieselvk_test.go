package dieselvk

import (
	"encoding/binary"
	"reflect"
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
)

var (
	graphicsOnly = vk.QueueFlags(vk.QueueGraphicsBit)
	computeOnly  = vk.QueueFlags(vk.QueueComputeBit)
	transferOnly = vk.QueueFlags(vk.QueueTransferBit)
)

func TestSelectQueueFamilies(t *testing.T) {
	tests := []struct {
		name    string
		flags   []vk.QueueFlags
		present []bool
		want    queueFamilies
		ok      bool
	}{
		{"shared family", []vk.QueueFlags{graphicsOnly | computeOnly}, []bool{true}, queueFamilies{0, 0}, true},
		{"prefers shared over first graphics", []vk.QueueFlags{graphicsOnly, transferOnly, graphicsOnly}, []bool{false, true, true}, queueFamilies{2, 2}, true},
		{"separate families", []vk.QueueFlags{graphicsOnly, transferOnly}, []bool{false, true}, queueFamilies{0, 1}, true},
		{"no present", []vk.QueueFlags{graphicsOnly}, []bool{false}, queueFamilies{}, false},
		{"no graphics", []vk.QueueFlags{computeOnly}, []bool{true}, queueFamilies{}, false},
		{"short support list", []vk.QueueFlags{graphicsOnly, graphicsOnly}, []bool{false}, queueFamilies{}, false},
		{"no families", nil, nil, queueFamilies{}, false},
	}
	for _, tc := range tests {
		got, ok := selectQueueFamilies(tc.flags, tc.present)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: got %+v %v, want %+v %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestQueueCreateInfos(t *testing.T) {
	shared := queueFamilies{graphics: 1, present: 1}
	if shared.separate() {
		t.Error("shared family reported as separate")
	}
	if infos := shared.createInfos(); len(infos) != 1 || infos[0].QueueFamilyIndex != 1 {
		t.Errorf("shared create infos = %+v", infos)
	}

	split := queueFamilies{graphics: 0, present: 2}
	if !reflect.DeepEqual(split.unique(), []uint32{0, 2}) {
		t.Errorf("unique = %v", split.unique())
	}
	infos := split.createInfos()
	if len(infos) != 2 {
		t.Fatalf("got %d create infos, want 2", len(infos))
	}
	for i, info := range infos {
		if info.QueueCount != 1 || len(info.PQueuePriorities) != 1 {
			t.Errorf("info %d asks for %d queues", i, info.QueueCount)
		}
	}
}

func TestPickDevice(t *testing.T) {
	suitable := func(kind vk.PhysicalDeviceType) deviceCandidate {
		return deviceCandidate{deviceType: kind, hasQueues: true, hasSwapchain: true, formats: 2, presentModes: 1}
	}
	integrated := suitable(vk.PhysicalDeviceTypeIntegratedGpu)
	discrete := suitable(vk.PhysicalDeviceTypeDiscreteGpu)
	noSwapchain := discrete
	noSwapchain.hasSwapchain = false
	noFormats := discrete
	noFormats.formats = 0
	noQueues := discrete
	noQueues.hasQueues = false

	if got := deviceScore(discrete); got != 1000 {
		t.Errorf("discrete score = %d", got)
	}
	if got := deviceScore(integrated); got != 1 {
		t.Errorf("integrated score = %d", got)
	}
	for _, c := range []deviceCandidate{noSwapchain, noFormats, noQueues} {
		if deviceScore(c) != 0 {
			t.Errorf("unsuitable device scored: %+v", c)
		}
	}

	tests := []struct {
		name       string
		candidates []deviceCandidate
		want       int
	}{
		{"discrete wins", []deviceCandidate{integrated, discrete}, 1},
		{"first on ties", []deviceCandidate{integrated, integrated}, 0},
		{"skips unsuitable", []deviceCandidate{noSwapchain, integrated}, 1},
		{"none", []deviceCandidate{noSwapchain, noFormats, noQueues}, -1},
		{"empty", nil, -1},
	}
	for _, tc := range tests {
		if got := pickDevice(tc.candidates); got != tc.want {
			t.Errorf("%s: picked %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestCheckExisting(t *testing.T) {
	actual := []string{"VK_KHR_surface", "VK_KHR_xcb_surface\x00", "VK_EXT_debug_report"}
	wanted := []string{"VK_KHR_surface\x00", "VK_KHR_xcb_surface", "VK_KHR_portability_enumeration"}
	existing, missing := checkExisting(actual, wanted)
	if !reflect.DeepEqual(existing, []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}) {
		t.Errorf("existing = %q", existing)
	}
	if !reflect.DeepEqual(missing, []string{"VK_KHR_portability_enumeration"}) {
		t.Errorf("missing = %q", missing)
	}
	if !contains(actual, "VK_EXT_debug_report\x00") || contains(actual, "VK_KHR_swapchain") {
		t.Error("contains disagrees with the list")
	}
}

func TestSafeStrings(t *testing.T) {
	got := safeStrings([]string{"main", "main\x00", ""})
	want := []string{"main\x00", "main\x00", "\x00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("safeStrings = %q, want %q", got, want)
	}
}

func TestSliceUint32(t *testing.T) {
	code := make([]byte, 8)
	binary.LittleEndian.PutUint32(code, spirvMagic)
	binary.LittleEndian.PutUint32(code[4:], 0x00010000)
	words, err := sliceUint32(code)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(words, []uint32{spirvMagic, 0x00010000}) {
		t.Errorf("words = %#x", words)
	}

	for _, bad := range [][]byte{nil, code[:6], make([]byte, 8)} {
		if _, err := sliceUint32(bad); err == nil {
			t.Errorf("accepted %d bytes of invalid spir-v", len(bad))
		}
	}
}

func TestPresentStatus(t *testing.T) {
	tests := []struct {
		ret     vk.Result
		want    gfx.Status
		wantErr bool
	}{
		{vk.Success, gfx.StatusSuccess, false},
		{vk.Suboptimal, gfx.StatusSuboptimal, false},
		{vk.ErrorOutOfDate, gfx.StatusOutOfDate, false},
		{vk.ErrorDeviceLost, gfx.StatusSuccess, true},
	}
	for _, tc := range tests {
		got, err := presentStatus(tc.ret)
		if got != tc.want || (err != nil) != tc.wantErr {
			t.Errorf("presentStatus(%d) = %v, %v", tc.ret, got, err)
		}
	}
	if NewError(vk.Success) != nil {
		t.Error("success converted to an error")
	}
}

func TestSurfaceConversion(t *testing.T) {
	modes := fromVkPresentModes([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox})
	if !reflect.DeepEqual(modes, []gfx.PresentMode{gfx.PresentModeFifo, gfx.PresentModeMailbox}) {
		t.Errorf("present modes = %v", modes)
	}
	if toVkFormat(gfx.FormatB8G8R8A8Srgb) != vk.FormatB8g8r8a8Srgb {
		t.Error("format values diverged from vulkan")
	}
	if toVkColorSpace(gfx.ColorSpaceSrgbNonlinear) != vk.ColorSpaceSrgbNonlinear {
		t.Error("color space values diverged from vulkan")
	}
	e := gfx.Extent{Width: 640, Height: 480}
	if fromVkExtent(toVkExtent(e)) != e {
		t.Error("extent conversion lost data")
	}
	vp := fullViewport(e)
	if vp.Width != 640 || vp.Height != 480 || vp.MaxDepth != 1 {
		t.Errorf("viewport = %+v", vp)
	}
}

func TestPipelineBuilderEntryPoints(t *testing.T) {
	p := NewPipelineBuilder(nil)
	if v, f := p.entryPoints(gfx.ShaderSource{}); v != "main" || f != "main" {
		t.Errorf("default entry points = %q, %q", v, f)
	}
	v, f := p.entryPoints(gfx.ShaderSource{VertexEntry: "vs_main", FragmentEntry: "fs_main"})
	if v != "vs_main" || f != "fs_main" {
		t.Errorf("entry points = %q, %q", v, f)
	}
	if len(p.dynamicStates) != 2 {
		t.Errorf("dynamic states = %v", p.dynamicStates)
	}
}
