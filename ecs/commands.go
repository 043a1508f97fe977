package ecs

import "sync"

// commandNode is a dummy-tail linked-list node, grounded on
// original_source/src/ecs/commands.hpp's CommandQueue: producers take only
// the tail lock; the consumer (the flush performed between stages) holds
// the head lock and takes the tail lock only briefly, to read the tail
// pointer for its emptiness check.
type commandNode struct {
	value func(*World)
	next  *commandNode
}

// commandQueue is a thread-safe, unbounded FIFO of deferred mutations.
type commandQueue struct {
	headMu sync.Mutex
	tailMu sync.Mutex
	head   *commandNode
	tail   *commandNode
	closed bool
}

func newCommandQueue() *commandQueue {
	dummy := &commandNode{}
	return &commandQueue{head: dummy, tail: dummy}
}

// push appends fn to the tail. Returns ErrEnqueueAfterShutdown if the
// queue has been closed.
func (q *commandQueue) push(fn func(*World)) error {
	node := &commandNode{}
	q.tailMu.Lock()
	defer q.tailMu.Unlock()
	if q.closed {
		return ErrEnqueueAfterShutdown
	}
	q.tail.value = fn
	q.tail.next = node
	q.tail = node
	return nil
}

// tryPop removes and returns the front value, or (nil, false) if empty.
func (q *commandQueue) tryPop() (func(*World), bool) {
	q.headMu.Lock()
	defer q.headMu.Unlock()
	if q.head == q.popSafeTail() {
		return nil, false
	}
	fn := q.head.value
	q.head = q.head.next
	return fn, true
}

// popSafeTail reads the tail pointer under the tail lock so tryPop's
// emptiness check never races a concurrent push.
func (q *commandQueue) popSafeTail() *commandNode {
	q.tailMu.Lock()
	defer q.tailMu.Unlock()
	return q.tail
}

func (q *commandQueue) empty() bool {
	q.headMu.Lock()
	defer q.headMu.Unlock()
	return q.head == q.popSafeTail()
}

// execute drains the queue, invoking each deferred mutation against w in
// FIFO order.
func (q *commandQueue) execute(w *World) {
	for {
		fn, ok := q.tryPop()
		if !ok {
			return
		}
		fn(w)
	}
}

// clear drains the queue without invoking anything.
func (q *commandQueue) clear() {
	for {
		if _, ok := q.tryPop(); !ok {
			return
		}
	}
}

func (q *commandQueue) close() {
	q.tailMu.Lock()
	q.closed = true
	q.tailMu.Unlock()
}

// Attacher supplies one typed component to a deferred Commands.Spawn.
// Obtain one with With.
type Attacher interface {
	attach(r *Registry, e Entity)
	typeID() ComponentTypeID
}

type attacherFunc struct {
	id ComponentTypeID
	fn func(r *Registry, e Entity)
}

func (f attacherFunc) attach(r *Registry, e Entity) { f.fn(r, e) }
func (f attacherFunc) typeID() ComponentTypeID      { return f.id }

// With packages a component value for Commands.Spawn.
func With[T any](value T) Attacher {
	return attacherFunc{
		id: TypeIDOf[T](),
		fn: func(r *Registry, e Entity) {
			Attach[T](r, e, value)
		},
	}
}

// Commands buffers structural mutations - spawns, destroys, attaches,
// detaches, and resource changes - so systems running concurrently inside
// a stage never mutate the Registry directly. The buffer is applied
// single-threaded once the stage that produced it has fully completed.
type Commands struct {
	queue *commandQueue
}

func newCommands() *Commands {
	return &Commands{queue: newCommandQueue()}
}

// Spawn queues creation of a new entity carrying the given components. It
// returns ErrDuplicateComponents if the same component type is supplied by
// more than one Attacher, or ErrEnqueueAfterShutdown if the owning World
// has already been closed; every other error-free call is applied at the
// next flush.
func (c *Commands) Spawn(attachers ...Attacher) error {
	seen := make(map[ComponentTypeID]struct{}, len(attachers))
	for _, a := range attachers {
		if _, dup := seen[a.typeID()]; dup {
			return ErrDuplicateComponents
		}
		seen[a.typeID()] = struct{}{}
	}

	return c.queue.push(func(w *World) {
		e := w.registry.CreateEntity()
		for _, a := range attachers {
			a.attach(w.registry, e)
		}
	})
}

// Destroy queues destruction of e.
func (c *Commands) Destroy(e Entity) error {
	return c.queue.push(func(w *World) {
		w.registry.DestroyEntity(e)
	})
}

// Defer queues an arbitrary function to run against the World at flush
// time - an escape hatch for mutations that don't fit the typed kinds
// above.
func (c *Commands) Defer(fn func(*World)) error {
	return c.queue.push(fn)
}

// AttachCommand queues attaching a component of type T to e.
func AttachCommand[T any](c *Commands, e Entity, value T) error {
	return c.queue.push(func(w *World) {
		Attach[T](w.registry, e, value)
	})
}

// DetachCommand queues removing e's component of type T.
func DetachCommand[T any](c *Commands, e Entity) error {
	return c.queue.push(func(w *World) {
		Detach[T](w.registry, e)
	})
}

// AddResourceCommand queues installing the singleton value of type T.
func AddResourceCommand[T any](c *Commands, value T) error {
	return c.queue.push(func(w *World) {
		AddResource[T](w.resources, value)
	})
}

// RemoveResourceCommand queues removing the singleton value of type T.
func RemoveResourceCommand[T any](c *Commands) error {
	return c.queue.push(func(w *World) {
		RemoveResource[T](w.resources)
	})
}
