package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/iwengine/internal/gfx"
)

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError converts a failed vulkan result into an error, nil on success.
func NewError(ret vk.Result) error {
	if !isError(ret) {
		return nil
	}
	name := "unknown result"
	if err := vk.Error(ret); err != nil {
		name = err.Error()
	}
	return errors.Errorf("vulkan error: %s (%d)", name, ret)
}

// presentStatus separates the surface conditions the renderer recovers from
// out of the results that are real failures.
func presentStatus(ret vk.Result) (gfx.Status, error) {
	switch ret {
	case vk.Success:
		return gfx.StatusSuccess, nil
	case vk.Suboptimal:
		return gfx.StatusSuboptimal, nil
	case vk.ErrorOutOfDate:
		return gfx.StatusOutOfDate, nil
	}
	return gfx.StatusSuccess, NewError(ret)
}
