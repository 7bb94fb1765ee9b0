// Package eval implements the point, array, interval and derivative
// evaluators that walk a tape.Tape (§4.1, §4.2, §4.3). Each evaluator
// owns worker-local scratch state; none of the types in this package are
// safe for concurrent use by more than one goroutine at a time.
package eval

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// VecPool is a pool of ms3.Vec/ms2.Vec/float32 scratch slices shared by one
// worker's evaluators, grounded on the teacher's CPU evaluation buffer
// pool: acquire before a batch evaluation, release once done, and call
// AssertAllReleased between runs to catch leaks.
type VecPool struct {
	V3    bufPool[ms3.Vec]
	V2    bufPool[ms2.Vec]
	Float bufPool[float32]
}

// AssertAllReleased checks all buffers are not in use. Call after ending
// a render pass to catch evaluator leaks.
func (vp *VecPool) AssertAllReleased() error {
	if err := vp.Float.assertAllReleased(); err != nil {
		return err
	}
	if err := vp.V2.assertAllReleased(); err != nil {
		return err
	}
	if err := vp.V3.assertAllReleased(); err != nil {
		return err
	}
	return nil
}

type bufPool[T any] struct {
	ins      [][]T
	acquired []bool
}

// Acquire returns a scratch slice of length minLength, reusing a
// previously released one when available.
func (bp *bufPool[T]) Acquire(minLength int) []T {
	for i, locked := range bp.acquired {
		if !locked && len(bp.ins[i]) >= minLength {
			bp.acquired[i] = true
			return bp.ins[i][:minLength]
		}
	}
	buf := make([]T, minLength)
	bp.ins = append(bp.ins, buf)
	bp.acquired = append(bp.acquired, true)
	return buf
}

// Release returns a slice previously obtained from Acquire.
func (bp *bufPool[T]) Release(buf []T) error {
	if len(buf) == 0 {
		return errors.New("eval: release of empty buffer")
	}
	for i, instance := range bp.ins {
		if &instance[0] == &buf[0] {
			if !bp.acquired[i] {
				return errors.New("eval: release of unacquired resource")
			}
			bp.acquired[i] = false
			return nil
		}
	}
	return errors.New("eval: release of nonexistent resource")
}

func (bp *bufPool[T]) assertAllReleased() error {
	for _, locked := range bp.acquired {
		if locked {
			return fmt.Errorf("eval: locked %T resource found in bufPool.assertAllReleased, memory leak?", *new(T))
		}
	}
	return nil
}
