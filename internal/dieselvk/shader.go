package dieselvk

import (
	"encoding/binary"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const spirvMagic = 0x07230203

// sliceUint32 reinterprets SPIR-V bytes as the words vulkan expects.
func sliceUint32(data []byte) ([]uint32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errors.Errorf("spir-v size %d is not a positive multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, errors.Errorf("bad spir-v magic %#08x", words[0])
	}
	return words, nil
}

// loadShaderModule wraps one compiled SPIR-V blob in a shader module. Modules
// are only needed while the pipeline is created.
func loadShaderModule(device vk.Device, code []byte) (vk.ShaderModule, error) {
	words, err := sliceUint32(code)
	if err != nil {
		return vk.NullShaderModule, err
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    words,
	}, nil, &module)
	if err := NewError(ret); err != nil {
		return vk.NullShaderModule, errors.Wrap(err, "create shader module")
	}
	return module, nil
}
