package dc

// Quadtree topology, computed the same way as tables3.go: corners 0..3
// follow region.Box2's bit convention, edges are the 4 corner pairs
// differing in one bit (the square's 4 sides).
var squareEdges [4][2]int

var cornersAreManifold2 [16]bool

func init() {
	n := 0
	for i := 0; i < 4; i++ {
		for bit := 0; bit < 2; bit++ {
			j := i ^ (1 << bit)
			if j > i {
				squareEdges[n] = [2]int{i, j}
				n++
			}
		}
	}
	for mask := 0; mask < 16; mask++ {
		signAt := func(c int) bool { return mask&(1<<c) != 0 }
		a, b, c, d := signAt(0), signAt(1), signAt(2), signAt(3)
		// The only ambiguous pattern on a single square is the diagonal
		// checkerboard: 0,3 agree, 1,2 agree, and the two pairs differ.
		cornersAreManifold2[mask] = !(a == d && b == c && a != b)
	}
}
