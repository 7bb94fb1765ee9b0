package dc

import "sync"

var leafPool2 = sync.Pool{New: func() any { return newDCLeaf2() }}

func acquireLeaf2() *DCLeaf2 {
	return leafPool2.Get().(*DCLeaf2)
}

func releaseLeaf2(l *DCLeaf2) {
	l.reset()
	leafPool2.Put(l)
}

var treePool2 = sync.Pool{New: func() any { return &DCTree2{} }}

func acquireTree2() *DCTree2 {
	return treePool2.Get().(*DCTree2)
}

func releaseTree2(t *DCTree2) {
	*t = DCTree2{}
	treePool2.Put(t)
}
