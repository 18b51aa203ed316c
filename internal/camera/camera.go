// Package camera is the first person camera walking the level.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultSpeed       float32 = 3.5  // units per second
	DefaultSensitivity float32 = 0.12 // degrees per pixel
	PlayerRadius       float32 = 0.45
	MaxPitch           float32 = 89.0
)

// Collider answers whether a sphere overlaps the world.
type Collider interface {
	Collides(pos mgl32.Vec3, radius float32) bool
}

// Input is the movement keys held during a frame.
type Input struct {
	Forward, Back, Left, Right bool
}

type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32 // degrees, 0 looks down +x
	Pitch       float32 // degrees
	Speed       float32
	Sensitivity float32
	Radius      float32
}

// New places a camera at eye height in the origin looking down -z.
func New() *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 1, 0},
		Yaw:         -90,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
		Radius:      PlayerRadius,
	}
}

// Front is the unit view direction.
func (c *Camera) Front() mgl32.Vec3 {
	yaw, pitch := float64(mgl32.DegToRad(c.Yaw)), float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Look turns the camera by a cursor movement in pixels. Moving the cursor
// up looks up.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -MaxPitch, MaxPitch)
}

// Move walks on the floor plane for dt seconds. A blocked move slides along
// whichever axis is still free.
func (c *Camera) Move(in Input, dt float32, world Collider) {
	front := c.Front()
	front = mgl32.Vec3{front.X(), 0, front.Z()}
	if front.Len() == 0 {
		return
	}
	front = front.Normalize()
	right := front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	var move mgl32.Vec3
	if in.Forward {
		move = move.Add(front)
	}
	if in.Back {
		move = move.Sub(front)
	}
	if in.Left {
		move = move.Sub(right)
	}
	if in.Right {
		move = move.Add(right)
	}
	if move.Len() == 0 {
		return
	}
	move = move.Normalize().Mul(c.Speed * dt)

	pos := c.Position
	if !world.Collides(mgl32.Vec3{pos.X() + move.X(), pos.Y(), pos.Z() + move.Z()}, c.Radius) {
		c.Position = pos.Add(move)
		return
	}
	if !world.Collides(mgl32.Vec3{pos.X() + move.X(), pos.Y(), pos.Z()}, c.Radius) {
		pos[0] += move.X()
	}
	if !world.Collides(mgl32.Vec3{pos.X(), pos.Y(), pos.Z() + move.Z()}, c.Radius) {
		pos[2] += move.Z()
	}
	c.Position = pos
}
