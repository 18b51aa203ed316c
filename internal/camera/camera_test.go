package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// wallsAt blocks every position whose x or z crosses a limit.
type wallsAt struct {
	maxX, maxZ float32
}

func (w wallsAt) Collides(pos mgl32.Vec3, radius float32) bool {
	return pos.X()+radius > w.maxX || pos.Z()+radius > w.maxZ
}

type open struct{}

func (open) Collides(mgl32.Vec3, float32) bool { return false }

func TestFront(t *testing.T) {
	c := New()
	if !c.Front().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("default front = %v", c.Front())
	}
	c.Yaw, c.Pitch = 0, 90
	if !c.Front().ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("looking up = %v", c.Front())
	}
}

func TestLookClampsPitch(t *testing.T) {
	c := New()
	c.Look(100, 0)
	if !mgl32.FloatEqualThreshold(c.Yaw, -90+12, 1e-4) {
		t.Errorf("yaw = %v", c.Yaw)
	}
	c.Look(0, -10000)
	if c.Pitch != MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, MaxPitch)
	}
	c.Look(0, 10000)
	if c.Pitch != -MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, -MaxPitch)
	}
}

func TestMoveNormalizesDiagonal(t *testing.T) {
	c := New()
	c.Yaw = 0
	c.Move(Input{Forward: true, Right: true}, 1, open{})
	moved := c.Position.Sub(mgl32.Vec3{0, 1, 0})
	if !mgl32.FloatEqualThreshold(moved.Len(), DefaultSpeed, 1e-4) {
		t.Errorf("diagonal move length %v, want %v", moved.Len(), DefaultSpeed)
	}
	if moved.Y() != 0 {
		t.Error("movement left the floor plane")
	}

	c.Pitch = -60
	before := c.Position
	c.Move(Input{Forward: true}, 1, open{})
	if got := c.Position.Sub(before).Len(); !mgl32.FloatEqualThreshold(got, DefaultSpeed, 1e-4) {
		t.Errorf("pitched move length %v", got)
	}
}

func TestMoveSlidesAlongWall(t *testing.T) {
	c := New()
	c.Yaw = 45 // towards +x +z
	c.Position = mgl32.Vec3{0, 1, 0}
	walls := wallsAt{maxX: 1, maxZ: 100}

	c.Move(Input{Forward: true}, 0.5, walls)
	if c.Position.X() != 0 {
		t.Errorf("moved into the wall: %v", c.Position)
	}
	if c.Position.Z() <= 0 {
		t.Errorf("did not slide along z: %v", c.Position)
	}

	stuck := New()
	stuck.Yaw = 45
	stuck.Move(Input{Forward: true}, 0.5, wallsAt{maxX: 0.1, maxZ: 0.1})
	if stuck.Position != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("moved while boxed in: %v", stuck.Position)
	}
}

func TestMoveWithoutInput(t *testing.T) {
	c := New()
	c.Move(Input{Forward: true, Back: true}, 1, open{})
	if c.Position != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("opposite keys moved the camera to %v", c.Position)
	}
}
