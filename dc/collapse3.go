package dc

import (
	"github.com/archform/dctree/qef"
	"github.com/archform/dctree/region"
)

// collectChildren3 implements §4.4 for N=3: given 8 built children,
// either return their common Terminal, or attempt to collapse them into
// a single merged leaf, or keep them as a Branch.
func collectChildren3(kids *[8]*DCTree3, box region.Box3, depth int, cfg *Config) (*DCTree3, error) {
	if allSameTerminal3(kids) {
		sign := kids[0].Sign
		for _, k := range kids {
			releaseTree3(k)
		}
		return terminal3(box, sign, depth), nil
	}

	if allLeavesOrTerminal3(kids) {
		merged := mergeLeaves3(kids, box, depth)
		mask := mergedCornerMask3(kids)
		if merged != nil &&
			cornersAreManifold3[mask] &&
			leafsAreManifold3(kids) {
			unionIntersections3(merged, kids, mask)
			vertex, rank, residual := merged.QEF.Solve(box)
			if residual < cfg.MaxErr {
				merged.Verts[0] = vertex
				merged.VertexCount = 1
				merged.Rank = rank
				merged.CornerMask = mask
				merged.Level = depth + 1
				for _, k := range kids {
					if k.Kind == KindLeaf {
						releaseLeaf3(k.Leaf)
					}
					releaseTree3(k)
				}
				t := acquireTree3()
				t.Kind = KindLeaf
				t.Leaf = merged
				t.Region = box
				t.Level = depth + 1
				return t, nil
			}
		}
	}

	t := acquireTree3()
	t.Kind = KindBranch
	t.Children = kids
	t.Region = box
	t.Level = depth
	return t, nil
}

func allSameTerminal3(kids *[8]*DCTree3) bool {
	first := kids[0]
	if first.Kind != KindTerminal {
		return false
	}
	for _, k := range kids[1:] {
		if k.Kind != KindTerminal || k.Sign != first.Sign {
			return false
		}
	}
	return true
}

func allLeavesOrTerminal3(kids *[8]*DCTree3) bool {
	for _, k := range kids {
		if k.Kind == KindBranch {
			return false
		}
	}
	return true
}

// mergeLeaves3 sums the QEF accumulators of every child leaf; Terminal
// children (uniform sign, no leaf) contribute nothing. Returns nil if no
// child carries a leaf, which happens when every child is a Terminal but
// not all of the same kind (a mix of Empty and Filled).
func mergeLeaves3(kids *[8]*DCTree3, box region.Box3, depth int) *DCLeaf3 {
	merged := &DCLeaf3{region: box, Level: depth + 1}
	merged.Index[0], merged.Index[1], merged.Index[2], merged.Index[3] = -1, -1, -1, -1
	var q qef.QEF3
	any := false
	for _, k := range kids {
		if k.Kind != KindLeaf {
			continue
		}
		any = true
		q.Merge(&k.Leaf.QEF)
	}
	if !any {
		return nil
	}
	merged.QEF = q
	return merged
}

// unionIntersections3 reconstructs the merged leaf's per-edge crossing
// samples (§4.4 step 2, "union their edge intersections along the
// parent's ... boundary edges"): an octree child occupying octant i
// shares the parent's own corner i, so parent edge ei=(u,v) is exactly
// the concatenation of child u's local edge ei (corner u to the shared
// midpoint) and child v's local edge ei (midpoint to corner v) under
// the same cubeEdges index. Whichever half actually crossed the
// surface carries the sample; a merged edge that is still sign-changing
// always has at least one live half, since a Terminal child is
// uniformly signed all the way to its shared corner.
func unionIntersections3(merged *DCLeaf3, kids *[8]*DCTree3, mask uint8) {
	for ei, edge := range cubeEdges {
		u, v := edge[0], edge[1]
		if (mask>>uint(u))&1 == (mask>>uint(v))&1 {
			continue // not sign-changing on the merged cube.
		}
		if s := edgeSampleFrom3(kids[u], ei); s != nil {
			merged.Intersections[ei] = s
			continue
		}
		merged.Intersections[ei] = edgeSampleFrom3(kids[v], ei)
	}
}

func edgeSampleFrom3(k *DCTree3, ei int) *edgeSample {
	if k.Kind != KindLeaf {
		return nil
	}
	return k.Leaf.Intersections[ei]
}

// mergedCornerMask3 ORs together the corner masks of the children
// restricted to the parent's 8 corners: corner i of the parent is corner
// i of child i (the child occupying that octant owns that shared
// corner's sign).
func mergedCornerMask3(kids *[8]*DCTree3) uint8 {
	var mask uint8
	for i, k := range kids {
		var bit uint8
		switch k.Kind {
		case KindTerminal:
			if k.Sign == SignFilled {
				bit = 1
			}
		case KindLeaf:
			bit = (k.Leaf.CornerMask >> uint(i)) & 1
		}
		mask |= bit << uint(i)
	}
	return mask
}

// leafsAreManifold3 implements the §4.4 step 4c sign-consistency check
// ([Ju 2002]): collapse is safe only if no child is itself a Branch
// (already enforced by allLeavesOrTerminal3) and every child's own
// corner pattern is independently manifold, so merging cannot introduce
// a saddle the parent-level mask test would miss.
func leafsAreManifold3(kids *[8]*DCTree3) bool {
	for _, k := range kids {
		if k.Kind == KindLeaf && !cornersAreManifold3[k.Leaf.CornerMask] {
			return false
		}
	}
	return true
}
