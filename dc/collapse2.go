package dc

import (
	"github.com/archform/dctree/qef"
	"github.com/archform/dctree/region"
)

func collectChildren2(kids *[4]*DCTree2, box region.Box2, depth int, cfg *Config) (*DCTree2, error) {
	if allSameTerminal2(kids) {
		sign := kids[0].Sign
		for _, k := range kids {
			releaseTree2(k)
		}
		return terminal2(box, sign, depth), nil
	}

	if allLeavesOrTerminal2(kids) {
		merged := mergeLeaves2(kids, box, depth)
		mask := mergedCornerMask2(kids)
		if merged != nil && cornersAreManifold2[mask] && leafsAreManifold2(kids) {
			unionIntersections2(merged, kids, mask)
			vertex, rank, residual := merged.QEF.Solve(box)
			if residual < cfg.MaxErr {
				merged.Vert = vertex
				merged.Rank = rank
				merged.CornerMask = mask
				merged.Level = depth + 1
				for _, k := range kids {
					if k.Kind == KindLeaf {
						releaseLeaf2(k.Leaf)
					}
					releaseTree2(k)
				}
				t := acquireTree2()
				t.Kind = KindLeaf
				t.Leaf = merged
				t.Region = box
				t.Level = depth + 1
				return t, nil
			}
		}
	}

	t := acquireTree2()
	t.Kind = KindBranch
	t.Children = kids
	t.Region = box
	t.Level = depth
	return t, nil
}

func allSameTerminal2(kids *[4]*DCTree2) bool {
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

func allLeavesOrTerminal2(kids *[4]*DCTree2) bool {
	for _, k := range kids {
		if k.Kind == KindBranch {
			return false
		}
	}
	return true
}

func mergeLeaves2(kids *[4]*DCTree2, box region.Box2, depth int) *DCLeaf2 {
	merged := &DCLeaf2{Index: -1, region: box, Level: depth + 1}
	var q qef.QEF2
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

// unionIntersections2 is the quadtree analogue of unionIntersections3:
// child i shares the parent's corner i, so parent edge ei=(u,v) is the
// concatenation of child u's and child v's own local edge ei under the
// same squareEdges index.
func unionIntersections2(merged *DCLeaf2, kids *[4]*DCTree2, mask uint8) {
	for ei, edge := range squareEdges {
		u, v := edge[0], edge[1]
		if (mask>>uint(u))&1 == (mask>>uint(v))&1 {
			continue
		}
		if s := edgeSampleFrom2(kids[u], ei); s != nil {
			merged.Intersections[ei] = s
			continue
		}
		merged.Intersections[ei] = edgeSampleFrom2(kids[v], ei)
	}
}

func edgeSampleFrom2(k *DCTree2, ei int) *edgeSample2 {
	if k.Kind != KindLeaf {
		return nil
	}
	return k.Leaf.Intersections[ei]
}

func mergedCornerMask2(kids *[4]*DCTree2) uint8 {
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

func leafsAreManifold2(kids *[4]*DCTree2) bool {
	for _, k := range kids {
		if k.Kind == KindLeaf && !cornersAreManifold2[k.Leaf.CornerMask] {
			return false
		}
	}
	return true
}
