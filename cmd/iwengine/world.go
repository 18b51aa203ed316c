package main

import (
	"fmt"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/andewx/iwengine/internal/camera"
	"github.com/andewx/iwengine/internal/collision"
	"github.com/andewx/iwengine/internal/level"
	"github.com/andewx/iwengine/internal/logs"
)

// input is what the world reads from the window each frame.
type input interface {
	KeyDown(key glfw.Key) bool
	TakeCursorDelta() (float64, float64)
}

// world is the level the camera walks through.
type world struct {
	level  *level.Level
	grid   *collision.Grid
	camera *camera.Camera
	cell   level.Cell
	titled bool
}

// loadWorld reads the level at path. A missing file leaves an empty world.
func loadWorld(path string) (*world, error) {
	w := &world{camera: camera.New(), grid: collision.NewGrid(nil, collision.WallHeight)}
	l, err := level.Load(path)
	if os.IsNotExist(errors.Cause(err)) {
		logs.Warn.Printf("level %s not found, starting in an empty world", path)
		return w, nil
	}
	if err != nil {
		return nil, err
	}
	w.level = l
	w.grid = collision.NewGrid(l.WallPositions(), collision.WallHeight)
	if pos, yaw, pitch, ok := l.Spawn(); ok {
		w.camera.Position, w.camera.Yaw, w.camera.Pitch = pos, yaw, pitch
	}
	logs.Info.Printf("level %s: %d walls, %d zombie spawns", path, len(w.grid.Boxes()), len(l.ZombieSpawns))
	return w, nil
}

func (w *world) update(in input, dt float32) {
	dx, dy := in.TakeCursorDelta()
	w.camera.Look(float32(dx), float32(dy))
	w.camera.Move(camera.Input{
		Forward: in.KeyDown(glfw.KeyW),
		Back:    in.KeyDown(glfw.KeyS),
		Left:    in.KeyDown(glfw.KeyA),
		Right:   in.KeyDown(glfw.KeyD),
	}, dt, w.grid)
}

// title reports the window title and whether it changed since the last call.
func (w *world) title(base string) (string, bool) {
	if w.level == nil {
		if w.titled {
			return base, false
		}
		w.titled = true
		return base, true
	}
	cell := w.level.CellAt(w.camera.Position)
	if w.titled && cell == w.cell {
		return "", false
	}
	w.cell, w.titled = cell, true
	return fmt.Sprintf("%s - cell (%d, %d)", base, cell.X, cell.Y), true
}
