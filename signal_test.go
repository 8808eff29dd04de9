package async_test

import (
	"testing"

	"github.com/n0x/taskrt"
)

func TestSignal(t *testing.T) {
	t.Run("NotifyWakesAllWaiters", func(t *testing.T) {
		var sig async.Signal

		var woken int

		waiter := func() *async.Task[struct{}] {
			return async.New(func(rt *async.Rt) (struct{}, error) {
				sig.Wait(rt)
				woken++
				return struct{}{}, nil
			})
		}

		_, err := async.SpawnRoot(func(rt *async.Rt) ([]struct{}, error) {
			notifier := async.New(func(rt *async.Rt) (struct{}, error) {
				sig.Notify(rt)
				return struct{}{}, nil
			})
			return async.Await(rt, async.All(waiter(), waiter(), waiter(), notifier))
		})
		if err != nil {
			t.Fatal(err)
		}
		if woken != 3 {
			t.Fatalf("got %d woken waiters, want 3", woken)
		}
	})

	t.Run("NotifyWithNoListenersIsANoop", func(t *testing.T) {
		var sig async.Signal

		_, err := async.SpawnRoot(func(rt *async.Rt) (struct{}, error) {
			sig.Notify(rt)
			sig.Notify(rt)
			return struct{}{}, nil
		})
		if err != nil {
			t.Fatal(err)
		}
	})

	t.Run("SecondNotifyDoesNotRewakePastWaiter", func(t *testing.T) {
		var sig async.Signal

		var wakeCount int

		_, err := async.SpawnRoot(func(rt *async.Rt) (struct{}, error) {
			waiter := async.New(func(rt *async.Rt) (struct{}, error) {
				sig.Wait(rt)
				wakeCount++
				return struct{}{}, nil
			})

			notifyTwice := async.New(func(rt *async.Rt) (struct{}, error) {
				sig.Notify(rt) // wakes waiter
				sig.Notify(rt) // no listeners left; must not wake it again
				return struct{}{}, nil
			})

			_, err := async.Await(rt, async.All(waiter, notifyTwice))
			return struct{}{}, err
		})
		if err != nil {
			t.Fatal(err)
		}
		if wakeCount != 1 {
			t.Fatalf("got wakeCount %d, want 1", wakeCount)
		}
	})
}
