package dc

import (
	"testing"

	"github.com/archform/dctree/region"
	"github.com/soypat/glgl/math/ms3"
)

func unitCube() region.Box3 {
	return region.Box3{Min: ms3.Vec{X: 0, Y: 0, Z: 0}, Max: ms3.Vec{X: 2, Y: 2, Z: 2}}
}

// consistentLeafKids builds 8 leaf children, each with an empty (manifold)
// corner mask and a trivial zero QEF, so collectChildren3 should be free
// to merge them into a single leaf.
func consistentLeafKids() *[8]*DCTree3 {
	var kids [8]*DCTree3
	for i := range kids {
		l := acquireLeaf3()
		l.CornerMask = 0
		t := acquireTree3()
		t.Kind = KindLeaf
		t.Leaf = l
		kids[i] = t
	}
	return &kids
}

func TestCollectChildren3MergesConsistentLeaves(t *testing.T) {
	kids := consistentLeafKids()
	cfg := &Config{MaxErr: 1e-3}
	box := unitCube()

	merged, err := collectChildren3(kids, box, 0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if merged.Kind != KindLeaf {
		t.Fatalf("Kind = %v, want KindLeaf (manifold children under MaxErr should collapse)", merged.Kind)
	}
	if merged.Leaf.CornerMask != 0 {
		t.Fatalf("CornerMask = %d, want 0", merged.Leaf.CornerMask)
	}
}

// TestCollectChildren3RejectsNonManifoldChild constructs a child whose own
// corner pattern is the classic ambiguous checkerboard (diagonal corners
// of a face agree, adjacent corners disagree): collapse must refuse to
// merge through it and fall back to a Branch, even though every child is
// individually a Leaf (§4.4 step 4c).
func TestCollectChildren3RejectsNonManifoldChild(t *testing.T) {
	kids := consistentLeafKids()
	kids[0].Leaf.CornerMask = 9 // corners 0 and 3 filled, 1 and 2 empty: z=0 face is ambiguous.
	cfg := &Config{MaxErr: 1e-3}
	box := unitCube()

	result, err := collectChildren3(kids, box, 0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != KindBranch {
		t.Fatalf("Kind = %v, want KindBranch (non-manifold child must block collapse)", result.Kind)
	}
}

// TestCollectChildren3RejectsHighResidual constructs leaf children whose
// merged QEF cannot be satisfied within cfg.MaxErr (two conflicting
// along-x constraints), and checks collapse refuses to merge even though
// every child's own corner pattern is manifold.
func TestCollectChildren3RejectsHighResidual(t *testing.T) {
	kids := consistentLeafKids()
	for _, k := range kids {
		k.Leaf.QEF.Add(ms3.Vec{X: 1}, ms3.Vec{X: 0})
		k.Leaf.QEF.Add(ms3.Vec{X: 1}, ms3.Vec{X: 1})
	}
	cfg := &Config{MaxErr: 0.01}
	box := unitCube()

	result, err := collectChildren3(kids, box, 0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != KindBranch {
		t.Fatalf("Kind = %v, want KindBranch (residual above MaxErr must block collapse)", result.Kind)
	}
}

// TestCollectChildren3AllSameTerminalCollapsesToTerminal checks the
// cheapest collapse path: 8 uniform-sign Terminal children collapse to a
// single Terminal, never touching the QEF machinery at all.
func TestCollectChildren3AllSameTerminalCollapsesToTerminal(t *testing.T) {
	var kids [8]*DCTree3
	for i := range kids {
		kids[i] = terminal3(unitCube(), SignEmpty, 1)
	}
	cfg := &Config{MaxErr: 1e-3}
	result, err := collectChildren3(&kids, unitCube(), 0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != KindTerminal || result.Sign != SignEmpty {
		t.Fatalf("result = %+v, want a SignEmpty Terminal", result)
	}
}

// TestCollectChildren3MixedTerminalWithoutLeavesStaysBranch checks the
// degenerate case where children disagree in sign but none carries a
// leaf (all Terminal): there is no QEF data to merge, so the result must
// remain a Branch rather than silently losing the surface.
func TestCollectChildren3MixedTerminalWithoutLeavesStaysBranch(t *testing.T) {
	var kids [8]*DCTree3
	kids[0] = terminal3(unitCube(), SignFilled, 1)
	for i := 1; i < 8; i++ {
		kids[i] = terminal3(unitCube(), SignEmpty, 1)
	}
	cfg := &Config{MaxErr: 1e-3}
	result, err := collectChildren3(&kids, unitCube(), 0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != KindBranch {
		t.Fatalf("Kind = %v, want KindBranch (mixed-sign terminals with no leaf data cannot collapse)", result.Kind)
	}
}
