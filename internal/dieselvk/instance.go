package dieselvk

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/logs"
)

const (
	validationLayer      = "VK_LAYER_KHRONOS_validation"
	debugReportExtension = "VK_EXT_debug_report"
	portabilityExtension = "VK_KHR_portability_enumeration"
	portabilitySubset    = "VK_KHR_portability_subset"

	// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
	enumeratePortabilityBit = 0x00000001
)

// CoreInstance is the vulkan instance plus the optional debug report hook.
type CoreInstance struct {
	handle        vk.Instance
	layers        []string
	debugCallback vk.DebugReportCallback
}

// NewCoreInstance creates an instance enabling the required extensions (the
// window system's list). With validation the khronos layer and a debug report
// callback routed to the engine logs are enabled when the loader has them.
func NewCoreInstance(appName string, required []string, validation bool) (*CoreInstance, error) {
	available, err := InstanceExtensions()
	if err != nil {
		return nil, err
	}
	wanted := append([]string{}, required...)
	if validation {
		wanted = append(wanted, debugReportExtension)
	}
	var flags vk.InstanceCreateFlags
	if runtime.GOOS == "darwin" {
		wanted = append(wanted, portabilityExtension)
		flags = vk.InstanceCreateFlags(enumeratePortabilityBit)
	}
	extensions, missing := checkExisting(available, wanted)
	for _, name := range missing {
		logs.Warn.Printf("vulkan: instance extension %s not available", name)
	}
	for _, name := range required {
		if !contains(extensions, name) {
			return nil, errors.Errorf("vulkan: required instance extension %s missing", trimNull(name))
		}
	}

	core := &CoreInstance{}
	if validation {
		layers, err := ValidationLayers()
		if err != nil {
			return nil, err
		}
		var missing []string
		core.layers, missing = checkExisting(layers, []string{validationLayer})
		if len(missing) > 0 {
			logs.Warn.Printf("vulkan: validation requested but %s is not installed", validationLayer)
		}
	}

	logs.Info.Printf("vulkan: enabling %d instance extensions, %d layers", len(extensions), len(core.layers))
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(appName),
			PEngineName:        safeString("iwengine"),
		},
		Flags:                   flags,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(core.layers)),
		PpEnabledLayerNames:     safeStrings(core.layers),
	}, nil, &core.handle)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrap(err, "create instance")
	}
	if err := vk.InitInstance(core.handle); err != nil {
		vk.DestroyInstance(core.handle, nil)
		return nil, errors.Wrap(err, "init instance")
	}

	if validation && contains(extensions, debugReportExtension) {
		ret := vk.CreateDebugReportCallback(core.handle, &vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}, nil, &core.debugCallback)
		if err := NewError(ret); err != nil {
			logs.Warn.Printf("vulkan: debug report callback unavailable: %v", err)
		} else {
			logs.Info.Println("vulkan: debug report callback enabled")
		}
	}
	return core, nil
}

func (c *CoreInstance) Handle() vk.Instance {
	return c.handle
}

// Layers lists the enabled validation layers; devices enable the same ones.
func (c *CoreInstance) Layers() []string {
	return c.layers
}

func (c *CoreInstance) Destroy() {
	if c.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(c.handle, c.debugCallback, nil)
		c.debugCallback = vk.NullDebugReportCallback
	}
	if c.handle != nil {
		vk.DestroyInstance(c.handle, nil)
		c.handle = nil
	}
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if trimNull(s) == trimNull(name) {
			return true
		}
	}
	return false
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		logs.Error.Printf("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		logs.Warn.Printf("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		logs.Warn.Printf("PERFORMANCE [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		logs.Info.Printf("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
