// Package region implements the axis-aligned N-box with subdivision
// arithmetic (§3 "Region<N>"), specialized for N=2 and N=3 the way the
// teacher kernel specializes its own geometry into d2/d3 packages.
package region

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Box3 is an axis-aligned box in R3, lower <= upper componentwise.
type Box3 struct {
	Min, Max ms3.Vec
}

// NewBox3 builds a Box3 from opposite corners, ordering them if needed.
func NewBox3(a, b ms3.Vec) Box3 {
	return Box3{
		Min: ms3.Vec{X: minf(a.X, b.X), Y: minf(a.Y, b.Y), Z: minf(a.Z, b.Z)},
		Max: ms3.Vec{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y), Z: maxf(a.Z, b.Z)},
	}
}

// Size returns the per-axis extent.
func (b Box3) Size() ms3.Vec { return ms3.Sub(b.Max, b.Min) }

// Center returns the box's midpoint.
func (b Box3) Center() ms3.Vec { return ms3.Scale(0.5, ms3.Add(b.Min, b.Max)) }

// LongestAxis returns the largest extent across the three axes.
func (b Box3) LongestAxis() float32 {
	s := b.Size()
	return maxf(s.X, maxf(s.Y, s.Z))
}

// Diagonal returns the box's space-diagonal length.
func (b Box3) Diagonal() float32 {
	s := b.Size()
	return math32.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
}

// Corner returns one of the 8 corners of the box; bit i of idx selects
// the upper half along axis i (Morton/corner order, §3).
func (b Box3) Corner(idx int) ms3.Vec {
	v := b.Min
	if idx&1 != 0 {
		v.X = b.Max.X
	}
	if idx&2 != 0 {
		v.Y = b.Max.Y
	}
	if idx&4 != 0 {
		v.Z = b.Max.Z
	}
	return v
}

// Contains reports whether p lies within the box (bounds inclusive).
func (b Box3) Contains(p ms3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp projects p onto the box.
func (b Box3) Clamp(p ms3.Vec) ms3.Vec {
	return ms3.Vec{
		X: clampf(p.X, b.Min.X, b.Max.X),
		Y: clampf(p.Y, b.Min.Y, b.Max.Y),
		Z: clampf(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Subdivide returns the 2^3 children in corner order: child i occupies
// the half of axis k selected by bit k of i.
func (b Box3) Subdivide() [8]Box3 {
	c := b.Center()
	var out [8]Box3
	for i := 0; i < 8; i++ {
		lo, hi := b.Min, c
		if i&1 != 0 {
			lo.X, hi.X = c.X, b.Max.X
		}
		if i&2 != 0 {
			lo.Y, hi.Y = c.Y, b.Max.Y
		}
		if i&4 != 0 {
			lo.Z, hi.Z = c.Z, b.Max.Z
		}
		out[i] = Box3{Min: lo, Max: hi}
	}
	return out
}

// ScaleAboutCenter returns a new box scaled about its center by factor.
func (b Box3) ScaleAboutCenter(factor float32) Box3 {
	c := b.Center()
	half := ms3.Scale(0.5*factor, b.Size())
	return Box3{Min: ms3.Sub(c, half), Max: ms3.Add(c, half)}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
