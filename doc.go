// Package async is a single-threaded cooperative task runtime: lazily
// started coroutines (Task[T]) that suspend at Await, SleepFor/
// SleepUntil, and AsyncFile calls instead of blocking an OS thread, and
// an Executor that drives a ready queue, a timer wheel, and an I/O
// reactor to completion.
//
// Go already has goroutines for parallelism; this package is for the
// other half of the problem, running a graph of logically sequential,
// possibly-suspending steps on exactly one goroutine at a time, with
// deterministic ordering, so state that isn't safe for concurrent access
// can be touched freely from inside a task body.
//
// # Spawning and awaiting
//
// SpawnRoot starts a task and blocks the calling goroutine until it
// completes:
//
//	n, err := async.SpawnRoot(func(rt *async.Rt) (int, error) {
//		a, err := async.Await(rt, async.New(computeA))
//		if err != nil {
//			return 0, err
//		}
//		b, err := async.Await(rt, async.New(computeB))
//		if err != nil {
//			return 0, err
//		}
//		return a + b, nil
//	})
//
// A Task is constructed lazily: New allocates nothing but a suspended
// frame; the coroutine's goroutine and any channels it needs are created
// the first time it is started, either by SpawnRoot or by Await.
//
// # Concurrency within one executor
//
// All and Any start every task they are given concurrently and chain
// directly into the first of them (symmetric transfer), enqueuing the
// rest onto the ready queue so they get their first turn once the same
// executor next drains that queue - no second executor or OS thread is
// involved.
//
// # Panics
//
// A panic inside a task body does not crash the executor: it is
// recovered at the coroutine boundary and surfaces as a *PanicError from
// Await/Result, the same way any other error would.
//
// # I/O
//
// AsyncFile wraps a non-blocking file descriptor. Read, Write, and
// Connect attempt the syscall, and only suspend the calling task,
// registering with the executor's reactor, when the kernel reports it
// would block.
package async
