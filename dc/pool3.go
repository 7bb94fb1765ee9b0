package dc

import "sync"

// leafPool3 recycles DCLeaf3 allocations across a render pass (§3
// "Lifecycles... allocated from an ObjectPool"; §5 "concurrent free-list
// with per-thread buckets"). sync.Pool already gives us a per-P free
// list without a hand-rolled one; no example in the retrieved pack
// supplies a ready-made generic concurrent pool, so this one component
// is built on the standard library (see DESIGN.md).
var leafPool3 = sync.Pool{New: func() any { return newDCLeaf3() }}

func acquireLeaf3() *DCLeaf3 {
	return leafPool3.Get().(*DCLeaf3)
}

func releaseLeaf3(l *DCLeaf3) {
	l.reset()
	leafPool3.Put(l)
}

// treePool3 recycles DCTree3 node wrappers.
var treePool3 = sync.Pool{New: func() any { return &DCTree3{} }}

func acquireTree3() *DCTree3 {
	return treePool3.Get().(*DCTree3)
}

func releaseTree3(t *DCTree3) {
	*t = DCTree3{}
	treePool3.Put(t)
}
