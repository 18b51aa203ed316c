// Package collision tests spheres against the walls of a level.
package collision

import (
	"github.com/go-gl/mathgl/mgl32"
)

// WallHeight is how tall every wall block stands above the floor.
const WallHeight float32 = 3.0

// AABB is an axis aligned box given by its center and half extents.
type AABB struct {
	Center mgl32.Vec3
	Half   mgl32.Vec3
}

// IntersectsSphere uses the box expanded by radius on every axis.
func (b AABB) IntersectsSphere(pos mgl32.Vec3, radius float32) bool {
	d := pos.Sub(b.Center)
	return mgl32.Abs(d.X()) <= b.Half.X()+radius &&
		mgl32.Abs(d.Y()) <= b.Half.Y()+radius &&
		mgl32.Abs(d.Z()) <= b.Half.Z()+radius
}

type Grid struct {
	boxes []AABB
}

// NewGrid builds one box per wall floor position: a unit footprint rising
// to height.
func NewGrid(walls []mgl32.Vec3, height float32) *Grid {
	g := &Grid{boxes: make([]AABB, 0, len(walls))}
	for _, w := range walls {
		g.boxes = append(g.boxes, AABB{
			Center: mgl32.Vec3{w.X(), height * 0.5, w.Z()},
			Half:   mgl32.Vec3{0.5, height * 0.5, 0.5},
		})
	}
	return g
}

func (g *Grid) Boxes() []AABB {
	return g.boxes
}

// Collides reports whether a sphere at pos touches any wall.
func (g *Grid) Collides(pos mgl32.Vec3, radius float32) bool {
	for _, b := range g.boxes {
		if b.IntersectsSphere(pos, radius) {
			return true
		}
	}
	return false
}
