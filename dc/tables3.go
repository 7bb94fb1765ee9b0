package dc

// Cube topology, computed at init rather than hand-transcribed from a
// literature table (§4.6): corners follow region.Box3's bit convention
// (bit i of corner index selects the upper half along axis i), edges are
// the 12 corner pairs differing in exactly one bit, and faces are the 6
// axis-aligned sides, each given as its 4 corners in cyclic (not
// diagonal) order for the ambiguous-face test below.

// cubeEdges holds the 12 (loCorner, hiCorner) pairs of a cube, ordered by
// the lower corner index then by the single differing bit.
var cubeEdges [12][2]int

// cubeFaces holds, for each of the 3 axes and 2 sides, the 4 corners of
// that face in cyclic order (adjacent entries share an edge).
var cubeFaces [6][4]int

// cornersAreManifold3 [corner_mask] reports whether the cube's sign
// pattern collapses to a single manifold sheet: true unless some face
// exhibits the classic marching-cubes ambiguous (checkerboard) pattern,
// where diagonal corners agree and adjacent corners disagree (§4.4,
// [Gerstner 2000]).
var cornersAreManifold3 [256]bool

func init() {
	n := 0
	for i := 0; i < 8; i++ {
		for bit := 0; bit < 3; bit++ {
			j := i ^ (1 << bit)
			if j > i {
				cubeEdges[n] = [2]int{i, j}
				n++
			}
		}
	}

	faceOf := func(axis, side int) [4]int {
		var corners []int
		for c := 0; c < 8; c++ {
			if (c>>axis)&1 == side {
				corners = append(corners, c)
			}
		}
		// corners has 4 entries varying over the other two axes; order
		// them cyclically (00, 01, 11, 10 over the two free bits).
		other := [2]int{}
		k := 0
		for a := 0; a < 3; a++ {
			if a != axis {
				other[k] = a
				k++
			}
		}
		find := func(b0, b1 int) int {
			for _, c := range corners {
				if (c>>other[0])&1 == b0 && (c>>other[1])&1 == b1 {
					return c
				}
			}
			panic("dc: face corner not found")
		}
		return [4]int{find(0, 0), find(1, 0), find(1, 1), find(0, 1)}
	}
	idx := 0
	for axis := 0; axis < 3; axis++ {
		for side := 0; side < 2; side++ {
			cubeFaces[idx] = faceOf(axis, side)
			idx++
		}
	}

	for mask := 0; mask < 256; mask++ {
		cornersAreManifold3[mask] = !anyAmbiguousFace3(mask)
	}
}

func anyAmbiguousFace3(mask int) bool {
	signAt := func(c int) bool { return mask&(1<<c) != 0 }
	for _, f := range cubeFaces {
		a, b, c, d := signAt(f[0]), signAt(f[1]), signAt(f[2]), signAt(f[3])
		if a == c && b == d && a != b {
			return true
		}
	}
	return false
}
