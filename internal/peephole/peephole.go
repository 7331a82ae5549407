// Package peephole implements a bounded-lookahead rewrite engine shared by
// the HIR and MIR optimizers.
//
// A Rewriter keeps at most width pending elements. The rule runs after every
// single admission, so a rule that only inspects the two oldest slots still
// sees each adjacent pair of the (already rewritten) stream before either
// element leaves the window. That is what lets a chain such as
// Inc(1) Inc(1) Inc(1) collapse one pairwise merge at a time.
package peephole

import (
	"iter"

	"github.com/orizon-lang/bfc/internal/errors"
)

// Window is the pending buffer handed to a Rule. Index 0 is the oldest
// element. A rule may overwrite or delete elements but never add them.
type Window[T any] struct {
	items []T
	width int
}

// Len returns the number of pending elements.
func (w *Window[T]) Len() int { return len(w.items) }

// At returns element i.
func (w *Window[T]) At(i int) T { return w.items[i] }

// Set replaces element i.
func (w *Window[T]) Set(i int, v T) { w.items[i] = v }

// Delete removes element i, shifting younger elements down.
func (w *Window[T]) Delete(i int) {
	copy(w.items[i:], w.items[i+1:])
	var zero T
	w.items[len(w.items)-1] = zero
	w.items = w.items[:len(w.items)-1]
}

func (w *Window[T]) push(v T) { w.items = append(w.items, v) }

func (w *Window[T]) shift() T {
	v := w.items[0]
	w.Delete(0)
	return v
}

func (w *Window[T]) full() bool { return len(w.items) >= w.width }

// Rule rewrites the window in place.
type Rule[T any] interface {
	Merge(w *Window[T])
}

// RuleFunc adapts a function to Rule.
type RuleFunc[T any] func(w *Window[T])

// Merge calls f(w).
func (f RuleFunc[T]) Merge(w *Window[T]) { f(w) }

// Rewriter applies one Rule over a stream through a window of fixed width.
type Rewriter[T any] struct {
	width int
	rule  Rule[T]
}

// New returns a rewriter with the given window width, which must be at least 1.
func New[T any](width int, rule Rule[T]) (*Rewriter[T], error) {
	if width < 1 {
		return nil, errors.InvalidSetting("window width", width)
	}
	return &Rewriter[T]{width: width, rule: rule}, nil
}

// MustNew is like New but panics on an invalid width.
func MustNew[T any](width int, rule Rule[T]) *Rewriter[T] {
	r, err := New(width, rule)
	if err != nil {
		panic(err)
	}
	return r
}

// Rewrite returns the lazily rewritten form of seq. Surviving elements keep
// their relative order. The returned sequence pulls from seq on demand and
// may be ranged over once per call to Rewrite.
func (r *Rewriter[T]) Rewrite(seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		next, stop := iter.Pull(seq)
		defer stop()

		w := &Window[T]{items: make([]T, 0, r.width), width: r.width}
		admit := func() bool {
			v, ok := next()
			if !ok {
				return false
			}
			w.push(v)
			r.rule.Merge(w)
			return true
		}

		for {
			for !w.full() && admit() {
			}
			if w.Len() == 0 {
				return
			}
			if !yield(w.shift()) {
				return
			}
			admit()
		}
	}
}
