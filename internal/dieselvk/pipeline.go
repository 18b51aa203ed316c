package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
)

// CorePipeline is a graphics pipeline and its (empty) layout.
type CorePipeline struct {
	device   vk.Device
	layout   vk.PipelineLayout
	pipeline vk.Pipeline
}

func (p *CorePipeline) Destroy() {
	if p.pipeline != vk.NullPipeline {
		vk.DestroyPipeline(p.device, p.pipeline, nil)
		p.pipeline = vk.NullPipeline
	}
	if p.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(p.device, p.layout, nil)
		p.layout = vk.NullPipelineLayout
	}
}

// PipelineBuilder holds the fixed function state of the triangle pipeline:
// no vertex input, triangle list, filled polygons with back faces culled,
// one sample and blending disabled. Viewport and scissor are dynamic.
type PipelineBuilder struct {
	device        vk.Device
	vertexInput   vk.PipelineVertexInputStateCreateInfo
	inputAssembly vk.PipelineInputAssemblyStateCreateInfo
	rasterizer    vk.PipelineRasterizationStateCreateInfo
	multisampling vk.PipelineMultisampleStateCreateInfo
	colorBlend    vk.PipelineColorBlendAttachmentState
	dynamicStates []vk.DynamicState
	vertexEntry   string
	fragmentEntry string
}

func NewPipelineBuilder(device vk.Device) *PipelineBuilder {
	return &PipelineBuilder{
		device: device,
		vertexInput: vk.PipelineVertexInputStateCreateInfo{
			SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
		},
		inputAssembly: vk.PipelineInputAssemblyStateCreateInfo{
			SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology:               vk.PrimitiveTopologyTriangleList,
			PrimitiveRestartEnable: vk.False,
		},
		rasterizer: vk.PipelineRasterizationStateCreateInfo{
			SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
			DepthClampEnable:        vk.False,
			RasterizerDiscardEnable: vk.False,
			PolygonMode:             vk.PolygonModeFill,
			CullMode:                vk.CullModeFlags(vk.CullModeBackBit),
			FrontFace:               vk.FrontFaceClockwise,
			DepthBiasEnable:         vk.False,
			LineWidth:               1.0,
		},
		multisampling: vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
			SampleShadingEnable:  vk.False,
			MinSampleShading:     1.0,
		},
		colorBlend: vk.PipelineColorBlendAttachmentState{
			BlendEnable: vk.False,
			ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
				vk.ColorComponentBBit | vk.ColorComponentABit),
		},
		dynamicStates: []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor},
		vertexEntry:   "main",
		fragmentEntry: "main",
	}
}

// entryPoints overrides the default "main" entry points when set.
func (p *PipelineBuilder) entryPoints(shaders gfx.ShaderSource) (string, string) {
	vertex, fragment := p.vertexEntry, p.fragmentEntry
	if shaders.VertexEntry != "" {
		vertex = shaders.VertexEntry
	}
	if shaders.FragmentEntry != "" {
		fragment = shaders.FragmentEntry
	}
	return vertex, fragment
}

// Build creates the pipeline for pass. The extent only seeds the static
// viewport state; the command buffer sets the real one every frame.
func (p *PipelineBuilder) Build(pass *CoreRenderPass, extent gfx.Extent, shaders gfx.ShaderSource) (*CorePipeline, error) {
	vertexModule, err := loadShaderModule(p.device, shaders.Vertex)
	if err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	defer vk.DestroyShaderModule(p.device, vertexModule, nil)
	fragmentModule, err := loadShaderModule(p.device, shaders.Fragment)
	if err != nil {
		return nil, errors.Wrap(err, "fragment shader")
	}
	defer vk.DestroyShaderModule(p.device, fragmentModule, nil)

	vertexEntry, fragmentEntry := p.entryPoints(shaders)
	stages := []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: vertexModule,
			PName:  safeString(vertexEntry),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: fragmentModule,
			PName:  safeString(fragmentEntry),
		},
	}

	out := &CorePipeline{device: p.device}
	ret := vk.CreatePipelineLayout(p.device, &vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}, nil, &out.layout)
	if err := NewError(ret); err != nil {
		return nil, errors.Wrap(err, "create pipeline layout")
	}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{fullViewport(extent)},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{fullRect(extent)},
	}
	blendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{p.colorBlend},
	}
	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(p.dynamicStates)),
		PDynamicStates:    p.dynamicStates,
	}

	info := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &p.vertexInput,
		PInputAssemblyState: &p.inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &p.rasterizer,
		PMultisampleState:   &p.multisampling,
		PColorBlendState:    &blendState,
		PDynamicState:       &dynamicState,
		Layout:              out.layout,
		RenderPass:          pass.pass,
		Subpass:             0,
	}
	pipelines := make([]vk.Pipeline, 1)
	ret = vk.CreateGraphicsPipelines(p.device, vk.PipelineCache(vk.NullHandle), 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	if err := NewError(ret); err != nil {
		out.Destroy()
		return nil, errors.Wrap(err, "create graphics pipeline")
	}
	out.pipeline = pipelines[0]
	return out, nil
}
