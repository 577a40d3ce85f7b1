// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package coro

type state uint8

const (
	stateCreated state = iota
	stateSuspended
	stateFinished
)

type msgKind uint8

const (
	msgYield msgKind = iota
	msgReturn
	msgPanic
	msgCancel
)

type inMsg[I any] struct {
	val    I
	cancel bool
}

type outMsg[O any] struct {
	kind  msgKind
	val   O
	panic any
}

// cancelSignal is the panic value raised inside a suspended coroutine
// by Stop. It is recognized by pointer identity and never escapes.
type cancelSignal struct{}

var errCancel = &cancelSignal{}

// C is a coroutine receiving values of type I on every resumption
// and handing values of type O back to its resumer.
//
// A C is driven by one resumer at a time. Resume and Stop may be called
// from different goroutines as long as the calls are ordered.
type C[I, O any] struct {
	fn     func(I, func(O) I) O
	hasRet bool

	st   state
	cin  chan inMsg[I]
	cout chan outMsg[O]
}

// NewFn returns a coroutine running fn. The value returned by fn is
// handed to the resumer as the last successful Resume result.
func NewFn[I, O any](fn func(in I, yield func(O) I) O) *C[I, O] {
	return &C[I, O]{fn: fn, hasRet: true}
}

// NewSub returns a coroutine running fn, a subroutine without a final
// result. Once fn returns, Resume reports false.
func NewSub[I, O any](fn func(in I, yield func(O) I)) *C[I, O] {
	return &C[I, O]{fn: func(in I, yield func(O) I) (out O) {
		fn(in, yield)
		return
	}}
}

// Started reports whether the coroutine has been activated.
func (c *C[I, O]) Started() bool { return c.st != stateCreated }

// Done reports whether the coroutine has finished, either by returning,
// panicking or being stopped.
func (c *C[I, O]) Done() bool { return c.st == stateFinished }

func (c *C[I, O]) start() {
	c.cin = make(chan inMsg[I])
	c.cout = make(chan outMsg[O])
	c.st = stateSuspended

	go func() {
		var m outMsg[O]
		defer func() {
			if p := recover(); p != nil {
				if p == errCancel {
					m = outMsg[O]{kind: msgCancel}
				} else {
					m = outMsg[O]{kind: msgPanic, panic: p}
				}
			}
			c.cout <- m
		}()

		in := <-c.cin
		if in.cancel {
			m.kind = msgCancel
			return
		}
		m.val = c.fn(in.val, c.yield)
		m.kind = msgReturn
	}()
}

func (c *C[I, O]) yield(out O) I {
	c.cout <- outMsg[O]{kind: msgYield, val: out}
	in := <-c.cin
	if in.cancel {
		panic(errCancel)
	}
	return in.val
}

// Resume transfers control into the coroutine and blocks until it
// yields, returns or panics. The first call activates the coroutine
// with in as the argument of fn; later calls continue it at the
// suspended yield, which returns in.
//
// A panic raised by the coroutine is re-raised in the caller.
func (c *C[I, O]) Resume(in I) (out O, ok bool) {
	switch c.st {
	case stateFinished:
		return out, false
	case stateCreated:
		c.start()
	}

	c.cin <- inMsg[I]{val: in}
	m := <-c.cout
	switch m.kind {
	case msgYield:
		return m.val, true
	case msgReturn:
		c.st = stateFinished
		return m.val, c.hasRet
	case msgPanic:
		c.st = stateFinished
		panic(m.panic)
	default:
		c.st = stateFinished
		return out, false
	}
}

// Stop terminates a suspended coroutine by unwinding its stack from
// the pending yield. Deferred calls run; a panic raised while unwinding
// is re-raised in the caller. Stop on a coroutine that was never
// started or has already finished does nothing.
func (c *C[I, O]) Stop() {
	switch c.st {
	case stateFinished:
		return
	case stateCreated:
		c.st = stateFinished
		return
	}

	for {
		c.cin <- inMsg[I]{cancel: true}
		m := <-c.cout
		if m.kind == msgYield {
			// Yielded again while unwinding; keep cancelling.
			continue
		}
		c.st = stateFinished
		if m.kind == msgPanic {
			panic(m.panic)
		}
		return
	}
}
