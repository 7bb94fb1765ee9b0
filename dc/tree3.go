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
	"github.com/soypat/glgl/math/ms3"
)

// Kind discriminates the three DCTree3 variants (§3 "DCTree<N>: variant
// of { Branch | Leaf | Terminal }").
type Kind uint8

const (
	KindTerminal Kind = iota
	KindLeaf
	KindBranch
)

// Sign names a Terminal cell's uniform classification.
type Sign uint8

const (
	SignFilled Sign = iota
	SignEmpty
)

// DCTree3 is one node of the octree (§3). Children and Leaf are mutually
// exclusive with the Kind tag selecting which is valid.
type DCTree3 struct {
	Kind     Kind
	Sign     Sign // valid when Kind == KindTerminal
	Leaf     *DCLeaf3
	Children *[8]*DCTree3
	Region   region.Box3
	Level    int
}

func terminal3(box region.Box3, s Sign, level int) *DCTree3 {
	t := acquireTree3()
	t.Kind = KindTerminal
	t.Sign = s
	t.Region = box
	t.Level = level
	return t
}

// worker3 bundles one goroutine's thread-local evaluators (§5): each
// worker owns its own interval, point and derivative/feature evaluator,
// each with an independent tape stack.
type worker3 struct {
	interval *eval.IntervalEvaluator
	corner   *eval.Evaluator
	grad     *eval.FeatureGradient
}

func newWorker3(base *tape.Tape) *worker3 {
	return &worker3{
		interval: eval.NewIntervalEvaluator(base),
		corner:   eval.NewEvaluator(base),
		grad:     eval.NewFeatureGradient(base),
	}
}

func (w *worker3) Close() {
	w.interval.Close()
	w.corner.Close()
	w.grad.Close()
}

// build3 implements the §4.2 build() pseudocode for N=3.
func build3(ctx context.Context, w *worker3, box region.Box3, depth int, cfg *Config, abort *atomic.Bool, vars map[uint32]float32) (*DCTree3, error) {
	if abort.Load() {
		return nil, ErrAborted
	}
	select {
	case <-ctx.Done():
		abort.Store(true)
		return nil, ErrAborted
	default:
	}

	result, pushed, err := w.interval.EvalAndPush(box)
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
		return terminal3(box, SignFilled, depth), nil
	case ivl.Empty:
		popInterval()
		return terminal3(box, SignEmpty, depth), nil
	}

	if box.LongestAxis() <= cfg.Resolution {
		activeTape := w.interval.Deck().Top()
		if pushed {
			w.corner.Deck().Push(activeTape.Retain())
			w.grad.Deck().Push(activeTape.Retain())
		}
		leaf, isTerminal, sign := evalLeaf3(w, box, depth, vars)
		if pushed {
			w.corner.Deck().Pop()
			w.grad.Deck().Pop()
		}
		popInterval()
		if isTerminal {
			return terminal3(box, sign, depth), nil
		}
		t := acquireTree3()
		t.Kind = KindLeaf
		t.Leaf = leaf
		t.Region = box
		t.Level = depth
		return t, nil
	}

	children := box.Subdivide()
	var kids [8]*DCTree3
	if depth < cfg.SplitDepth {
		g, gctx := errgroup.WithContext(ctx)
		if cfg.Threads > 0 {
			g.SetLimit(cfg.Threads)
		}
		activeTape := w.interval.Deck().Top()
		for i := 0; i < 8; i++ {
			i := i
			g.Go(func() error {
				cw := newWorker3(activeTape)
				defer cw.Close()
				kid, err := build3(gctx, cw, children[i], depth+1, cfg, abort, vars)
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
		for i := 0; i < 8; i++ {
			kid, err := build3(ctx, w, children[i], depth+1, cfg, abort, vars)
			if err != nil {
				popInterval()
				return nil, err
			}
			kids[i] = kid
		}
	}
	popInterval()
	return collectChildren3(&kids, box, depth, cfg)
}

// evalLeaf3 implements §4.2 evalLeaf for N=3. It returns (leaf, false,
// _) on an ambiguous cell, or (nil, true, sign) when all 8 corners agree
// and the cell should become a Terminal after all.
func evalLeaf3(w *worker3, box region.Box3, level int, vars map[uint32]float32) (*DCLeaf3, bool, Sign) {
	var corners [8]ms3.Vec
	var values [8]float32
	var mask uint8
	for i := 0; i < 8; i++ {
		corners[i] = box.Corner(i)
		values[i] = w.corner.EvalOne(corners[i], vars)
		if values[i] < 0 {
			mask |= 1 << uint(i)
		}
	}
	if mask == 0 {
		return nil, true, SignEmpty
	}
	if mask == 0xFF {
		return nil, true, SignFilled
	}

	leaf := acquireLeaf3()
	leaf.CornerMask = mask
	leaf.Level = level
	leaf.region = box
	leaf.Manifold = cornersAreManifold3[mask]
	w.grad.Reset()

	for ei, edge := range cubeEdges {
		u, v := edge[0], edge[1]
		fu, fv := values[u], values[v]
		if (fu < 0) == (fv < 0) {
			continue // not a sign-changing edge.
		}
		pu, pv := corners[u], corners[v]
		pos, val := bisect3(w, pu, fu, pv, fv, vars)
		_, g := w.grad.Gradient(pos, vars)
		leaf.QEF.Add(g, pos)
		leaf.Intersections[ei] = &edgeSample{Pos: pos, Normal: g, Value: val}
	}

	vertex, rank, _ := leaf.QEF.Solve(box)
	leaf.Verts[0] = vertex
	leaf.VertexCount = 1
	leaf.Rank = rank
	leaf.Feature = *w.grad.Feature()
	return leaf, false, 0
}

// bisect3 finds the zero crossing of f along segment (pu,pv) with known
// opposite-sign endpoint values, by fixed-iteration bisection (§4.2,
// qef.BisectIterations).
func bisect3(w *worker3, pu ms3.Vec, fu float32, pv ms3.Vec, fv float32, vars map[uint32]float32) (ms3.Vec, float32) {
	lo, hi := pu, pv
	flo := fu
	for i := 0; i < qef.BisectIterations; i++ {
		mid := ms3.Scale(0.5, ms3.Add(lo, hi))
		fm := w.corner.EvalOne(mid, vars)
		if (fm < 0) == (flo < 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	mid := ms3.Scale(0.5, ms3.Add(lo, hi))
	fm := w.corner.EvalOne(mid, vars)
	return mid, fm
}
