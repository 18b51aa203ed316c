// Package level parses the text grid a scene is laid out on.
//
// Each line is a row. '#' is a wall, 'P' the player spawn and 'Z' a zombie
// spawn; anything else is open floor. Row 0 is the far edge: world z grows
// towards the first line of the file.
package level

import (
	"bufio"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// MaxRowLength bounds a single row of the grid in bytes.
const MaxRowLength = 1 << 20

const (
	Wall   = '#'
	Player = 'P'
	Zombie = 'Z'

	// EyeHeight is the camera height above the floor.
	EyeHeight float32 = 1.0
	// SpawnPitch tilts the spawn view down towards the floor.
	SpawnPitch float32 = -20.0
)

// Cell addresses one character of the grid.
type Cell struct {
	X, Y int
}

type Level struct {
	Grid         []string
	PlayerSpawn  Cell
	HasSpawn     bool
	ZombieSpawns []Cell
}

func Load(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open level")
	}
	defer f.Close()
	l, err := Parse(f)
	return l, errors.Wrapf(err, "level %s", path)
}

// Parse reads a grid. When several 'P' cells are present the last one wins.
func Parse(r io.Reader) (*Level, error) {
	l := &Level{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxRowLength)
	for y := 0; scanner.Scan(); y++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		for x, c := range []byte(line) {
			switch c {
			case Player:
				l.PlayerSpawn, l.HasSpawn = Cell{x, y}, true
			case Zombie:
				l.ZombieSpawns = append(l.ZombieSpawns, Cell{x, y})
			}
		}
		l.Grid = append(l.Grid, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read level")
	}
	if len(l.Grid) == 0 {
		return nil, errors.New("level is empty")
	}
	return l, nil
}

func (l *Level) Rows() int {
	return len(l.Grid)
}

// IsWall is false outside the grid.
func (l *Level) IsWall(x, y int) bool {
	if y < 0 || y >= len(l.Grid) {
		return false
	}
	if x < 0 || x >= len(l.Grid[y]) {
		return false
	}
	return l.Grid[y][x] == Wall
}

// WorldPosition is the center of cell c on the floor plane at height h.
func (l *Level) WorldPosition(c Cell, h float32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X) + 0.5,
		h,
		float32(l.Rows()-1-c.Y) + 0.5,
	}
}

// CellAt maps a world position back to the grid cell containing it.
func (l *Level) CellAt(pos mgl32.Vec3) Cell {
	return Cell{
		X: int(math.Floor(float64(pos.X()))),
		Y: l.Rows() - 1 - int(math.Floor(float64(pos.Z()))),
	}
}

// WallPositions lists the floor center of every wall in row major order.
func (l *Level) WallPositions() []mgl32.Vec3 {
	var walls []mgl32.Vec3
	for y, row := range l.Grid {
		for x := range row {
			if row[x] == Wall {
				walls = append(walls, l.WorldPosition(Cell{x, y}, 0))
			}
		}
	}
	return walls
}

// Spawn places the camera at eye height on the player cell, looking towards
// the middle of the level. ok is false when the level has no 'P'.
func (l *Level) Spawn() (pos mgl32.Vec3, yaw, pitch float32, ok bool) {
	if !l.HasSpawn {
		return mgl32.Vec3{}, 0, 0, false
	}
	pos = l.WorldPosition(l.PlayerSpawn, EyeHeight)
	centerX := float32(len(l.Grid[0])) * 0.5
	centerZ := float32(l.Rows()) * 0.5
	dx := float64(centerX - pos.X())
	dz := float64(centerZ - pos.Z())
	yaw = mgl32.RadToDeg(float32(math.Atan2(dz, dx)))
	return pos, yaw, SpawnPitch, true
}
