package dc

import (
	"context"
	"sync/atomic"

	"github.com/archform/dctree/eval"
	"github.com/archform/dctree/ivl"
	"github.com/archform/dctree/qef"
	"github.com/archform/dctree/region"
	"github.com/archform/dctree/tape"
	"golang.org/x/sync/errgroup"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// DCTree2 is the quadtree counterpart of DCTree3 (§3), for 2D fields
// producing a polyline set rather than a triangle mesh.
type DCTree2 struct {
	Kind     Kind
	Sign     Sign
	Leaf     *DCLeaf2
	Children *[4]*DCTree2
	Region   region.Box2
	Level    int
}

func terminal2(box region.Box2, s Sign, level int) *DCTree2 {
	t := acquireTree2()
	t.Kind = KindTerminal
	t.Sign = s
	t.Region = box
	t.Level = level
	return t
}

// worker2 reuses the 3D evaluators at z=0 rather than duplicating a
// parallel evaluator stack for 2D (see DESIGN.md): a tape built for a 2D
// field never references OpVarZ, so holding the z coordinate at 0 is
// exact, not approximate.
type worker2 struct {
	interval *eval.IntervalEvaluator
	corner   *eval.Evaluator
	grad     *eval.FeatureGradient
}

func newWorker2(base *tape.Tape) *worker2 {
	return &worker2{
		interval: eval.NewIntervalEvaluator(base),
		corner:   eval.NewEvaluator(base),
		grad:     eval.NewFeatureGradient(base),
	}
}

func (w *worker2) Close() {
	w.interval.Close()
	w.corner.Close()
	w.grad.Close()
}

func box2To3(b region.Box2) region.Box3 {
	return region.Box3{
		Min: ms3.Vec{X: b.Min.X, Y: b.Min.Y, Z: -0.5},
		Max: ms3.Vec{X: b.Max.X, Y: b.Max.Y, Z: 0.5},
	}
}

func build2(ctx context.Context, w *worker2, box region.Box2, depth int, cfg *Config, abort *atomic.Bool, vars map[uint32]float32) (*DCTree2, error) {
	if abort.Load() {
		return nil, ErrAborted
	}
	select {
	case <-ctx.Done():
		abort.Store(true)
		return nil, ErrAborted
	default:
	}

	result, pushed, err := w.interval.EvalAndPush(box2To3(box))
	if err != nil {
		abort.Store(true)
		return nil, err
	}
	popInterval := func() {
		if pushed {
			w.interval.Deck().Pop()
		}
	}

	switch result.State() {
	case ivl.Filled:
		popInterval()
		return terminal2(box, SignFilled, depth), nil
	case ivl.Empty:
		popInterval()
		return terminal2(box, SignEmpty, depth), nil
	}

	if box.LongestAxis() <= cfg.Resolution {
		activeTape := w.interval.Deck().Top()
		if pushed {
			w.corner.Deck().Push(activeTape.Retain())
			w.grad.Deck().Push(activeTape.Retain())
		}
		leaf, isTerminal, sign := evalLeaf2(w, box, depth, vars)
		if pushed {
			w.corner.Deck().Pop()
			w.grad.Deck().Pop()
		}
		popInterval()
		if isTerminal {
			return terminal2(box, sign, depth), nil
		}
		t := acquireTree2()
		t.Kind = KindLeaf
		t.Leaf = leaf
		t.Region = box
		t.Level = depth
		return t, nil
	}

	children := box.Subdivide()
	var kids [4]*DCTree2
	if depth < cfg.SplitDepth {
		g, gctx := errgroup.WithContext(ctx)
		if cfg.Threads > 0 {
			g.SetLimit(cfg.Threads)
		}
		activeTape := w.interval.Deck().Top()
		for i := 0; i < 4; i++ {
			i := i
			g.Go(func() error {
				cw := newWorker2(activeTape)
				defer cw.Close()
				kid, err := build2(gctx, cw, children[i], depth+1, cfg, abort, vars)
				if err != nil {
					return err
				}
				kids[i] = kid
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			popInterval()
			return nil, err
		}
	} else {
		for i := 0; i < 4; i++ {
			kid, err := build2(ctx, w, children[i], depth+1, cfg, abort, vars)
			if err != nil {
				popInterval()
				return nil, err
			}
			kids[i] = kid
		}
	}
	popInterval()
	return collectChildren2(&kids, box, depth, cfg)
}

func evalLeaf2(w *worker2, box region.Box2, level int, vars map[uint32]float32) (*DCLeaf2, bool, Sign) {
	var corners [4]ms2.Vec
	var values [4]float32
	var mask uint8
	for i := 0; i < 4; i++ {
		corners[i] = box.Corner(i)
		values[i] = w.corner.EvalOne(ms3.Vec{X: corners[i].X, Y: corners[i].Y}, vars)
		if values[i] < 0 {
			mask |= 1 << uint(i)
		}
	}
	if mask == 0 {
		return nil, true, SignEmpty
	}
	if mask == 0x0F {
		return nil, true, SignFilled
	}

	leaf := acquireLeaf2()
	leaf.CornerMask = mask
	leaf.Level = level
	leaf.region = box
	leaf.Manifold = cornersAreManifold2[mask]
	w.grad.Reset()

	for ei, edge := range squareEdges {
		u, v := edge[0], edge[1]
		fu, fv := values[u], values[v]
		if (fu < 0) == (fv < 0) {
			continue
		}
		pu, pv := corners[u], corners[v]
		pos, val := bisect2(w, pu, fu, pv, fv, vars)
		_, g3 := w.grad.Gradient(ms3.Vec{X: pos.X, Y: pos.Y}, vars)
		g := ms2.Vec{X: g3.X, Y: g3.Y}
		leaf.QEF.Add(g, pos)
		leaf.Intersections[ei] = &edgeSample2{Pos: pos, Normal: g, Value: val}
	}

	vertex, rank, _ := leaf.QEF.Solve(box)
	leaf.Vert = vertex
	leaf.Rank = rank
	leaf.Feature = *w.grad.Feature()
	return leaf, false, 0
}

func bisect2(w *worker2, pu ms2.Vec, fu float32, pv ms2.Vec, fv float32, vars map[uint32]float32) (ms2.Vec, float32) {
	lo, hi := pu, pv
	flo := fu
	for i := 0; i < qef.BisectIterations; i++ {
		mid := ms2.Scale(0.5, ms2.Add(lo, hi))
		fm := w.corner.EvalOne(ms3.Vec{X: mid.X, Y: mid.Y}, vars)
		if (fm < 0) == (flo < 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	mid := ms2.Scale(0.5, ms2.Add(lo, hi))
	fm := w.corner.EvalOne(ms3.Vec{X: mid.X, Y: mid.Y}, vars)
	return mid, fm
}
