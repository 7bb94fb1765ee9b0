package region

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
)

// Box2 is an axis-aligned box in R2, lower <= upper componentwise.
type Box2 struct {
	Min, Max ms2.Vec
}

func NewBox2(a, b ms2.Vec) Box2 {
	return Box2{
		Min: ms2.Vec{X: minf(a.X, b.X), Y: minf(a.Y, b.Y)},
		Max: ms2.Vec{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y)},
	}
}

func (b Box2) Size() ms2.Vec { return ms2.Sub(b.Max, b.Min) }

func (b Box2) Center() ms2.Vec { return ms2.Scale(0.5, ms2.Add(b.Min, b.Max)) }

func (b Box2) LongestAxis() float32 {
	s := b.Size()
	return maxf(s.X, s.Y)
}

func (b Box2) Diagonal() float32 {
	s := b.Size()
	return math32.Sqrt(s.X*s.X + s.Y*s.Y)
}

// Corner returns one of the 4 corners; bit i of idx selects the upper
// half along axis i.
func (b Box2) Corner(idx int) ms2.Vec {
	v := b.Min
	if idx&1 != 0 {
		v.X = b.Max.X
	}
	if idx&2 != 0 {
		v.Y = b.Max.Y
	}
	return v
}

func (b Box2) Contains(p ms2.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func (b Box2) Clamp(p ms2.Vec) ms2.Vec {
	return ms2.Vec{X: clampf(p.X, b.Min.X, b.Max.X), Y: clampf(p.Y, b.Min.Y, b.Max.Y)}
}

// Subdivide returns the 2^2 children in corner order.
func (b Box2) Subdivide() [4]Box2 {
	c := b.Center()
	var out [4]Box2
	for i := 0; i < 4; i++ {
		lo, hi := b.Min, c
		if i&1 != 0 {
			lo.X, hi.X = c.X, b.Max.X
		}
		if i&2 != 0 {
			lo.Y, hi.Y = c.Y, b.Max.Y
		}
		out[i] = Box2{Min: lo, Max: hi}
	}
	return out
}

func (b Box2) ScaleAboutCenter(factor float32) Box2 {
	c := b.Center()
	half := ms2.Scale(0.5*factor, b.Size())
	return Box2{Min: ms2.Sub(c, half), Max: ms2.Add(c, half)}
}
