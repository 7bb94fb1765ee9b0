package dc

import (
	"context"
	"sync/atomic"

	"github.com/archform/dctree/region"
	"github.com/archform/dctree/tape"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Render implements the §6 exposed core API: render(tree, region,
// resolution, maxErr, threads) -> Mesh. tree is the base Tape the kernel
// walks (construction/parsing of the expression tree that produced it is
// out of scope, §1). vars binds tape variable ids to values for this
// pass; pass nil for a tape with no free variables.
func Render(base *tape.Tape, box region.Box3, cfg Config, vars map[uint32]float32) (*Mesh3, error) {
	return RenderContext(context.Background(), base, box, cfg, vars)
}

// RenderContext is Render with explicit cancellation (§5 "a single
// atomic abort flag is polled at task-entry"). Cancelling ctx surfaces
// ErrAborted; no partial mesh is ever returned alongside it.
func RenderContext(ctx context.Context, base *tape.Tape, box region.Box3, cfg Config, vars map[uint32]float32) (*Mesh3, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var abort atomic.Bool
	w := newWorker3(base)
	defer w.Close()

	root, err := build3(ctx, w, box, 0, &cfg, &abort, vars)
	if err != nil {
		return nil, err
	}
	defer releaseTreeRecursive3(root)

	leaves := collectLeaves3(root, box)
	var neighbors neighborResolver3
	if cfg.SpatialNeighborIndex {
		neighbors = BuildNeighborIndex(root, box)
	} else {
		neighbors = NewNeighbors3(root, box)
	}
	mesh := &Mesh3{
		Vertices:  make([]ms3.Vec, 0, len(leaves)),
		Triangles: make([][3]int32, 0, 2*len(leaves)),
	}
	walkDual3(leaves, neighbors, mesh)
	return mesh, nil
}

func releaseTreeRecursive3(t *DCTree3) {
	if t == nil {
		return
	}
	switch t.Kind {
	case KindBranch:
		for _, c := range *t.Children {
			releaseTreeRecursive3(c)
		}
	case KindLeaf:
		releaseLeaf3(t.Leaf)
	}
	releaseTree3(t)
}

// Render2D is the N=2 counterpart of Render, producing a polyline set
// rather than a triangle mesh (§6, §4.7).
func Render2D(base *tape.Tape, box region.Box2, cfg Config, vars map[uint32]float32) (*Mesh2, error) {
	return RenderContext2D(context.Background(), base, box, cfg, vars)
}

// RenderContext2D is Render2D with explicit cancellation.
func RenderContext2D(ctx context.Context, base *tape.Tape, box region.Box2, cfg Config, vars map[uint32]float32) (*Mesh2, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var abort atomic.Bool
	w := newWorker2(base)
	defer w.Close()

	root, err := build2(ctx, w, box, 0, &cfg, &abort, vars)
	if err != nil {
		return nil, err
	}
	defer releaseTreeRecursive2(root)

	leaves := collectLeaves2(root, box)
	neighbors := NewNeighbors2(root, box)
	mesh := &Mesh2{
		Vertices: make([]ms2.Vec, 0, len(leaves)),
		Segments: make([][2]int32, 0, len(leaves)),
	}
	walkDual2(leaves, neighbors, mesh)
	return mesh, nil
}

func releaseTreeRecursive2(t *DCTree2) {
	if t == nil {
		return
	}
	switch t.Kind {
	case KindBranch:
		for _, c := range *t.Children {
			releaseTreeRecursive2(c)
		}
	case KindLeaf:
		releaseLeaf2(t.Leaf)
	}
	releaseTree2(t)
}
