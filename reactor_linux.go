//go:build linux

package async

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ioDir is the direction of interest for one fd registration. Read and
// write interest are tracked separately per fd, because an AsyncFile
// registers a single resumer for a single direction at a time, and two
// concurrent operations on the same fd in the same direction are a usage
// error.
type ioDir uint8

const (
	dirRead ioDir = iota
	dirWrite
)

var errFdAlreadyArmed = errors.New("async: fd already has a pending registration for that direction")

// fdState is the per-fd bookkeeping the reactor keeps between
// registration and delivery. Armed per direction; readiness (including
// error/hangup, which complete both directions at once) clears the
// relevant resumer(s) before they are driven, enforcing a strict
// Unregistered -> Armed -> Ready|Canceled -> Unregistered cycle per
// direction.
type fdState struct {
	read  resumer
	write resumer
}

func (s *fdState) epollMask() uint32 {
	var m uint32
	if s.read != nil {
		m |= unix.EPOLLIN
	}
	if s.write != nil {
		m |= unix.EPOLLOUT
	}
	return m | unix.EPOLLONESHOT | unix.EPOLLET
}

// reactor is the I/O reactor: an epoll instance registering each watched
// fd for one-shot, edge-triggered notification (EPOLLONESHOT|EPOLLET)
// rather than level-triggered and persistent interest, so every readiness
// delivery corresponds to at most one resume. Delivery hands back a
// []resumer for the caller to drive through the executor's trampoline
// rather than invoking a callback inline.
type reactor struct {
	epfd  int
	fds   map[int]*fdState
	evbuf [128]unix.EpollEvent
}

func newReactor() (*reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("async: epoll_create1: %w", err)
	}
	return &reactor{epfd: epfd, fds: make(map[int]*fdState)}, nil
}

func (r *reactor) close() error {
	return unix.Close(r.epfd)
}

func (r *reactor) registrationCount() int { return len(r.fds) }

// register arms fd for readiness in direction dir, resuming res when it
// fires. Registering a direction that already has a pending resumer is a
// usage error.
func (r *reactor) register(fd int, dir ioDir, res resumer) error {
	st := r.fds[fd]
	op := unix.EPOLL_CTL_MOD
	if st == nil {
		st = &fdState{}
		r.fds[fd] = st
		op = unix.EPOLL_CTL_ADD
	}
	switch dir {
	case dirRead:
		if st.read != nil {
			return errFdAlreadyArmed
		}
		st.read = res
	case dirWrite:
		if st.write != nil {
			return errFdAlreadyArmed
		}
		st.write = res
	}
	ev := unix.EpollEvent{Events: st.epollMask(), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, op, fd, &ev); err != nil {
		return &OsError{Op: "epoll_ctl", Fd: fd, Err: err}
	}
	return nil
}

// unregister removes any pending registration for fd, used when an
// AsyncFile closes while a read/write/connect is parked.
func (r *reactor) unregister(fd int) {
	st, ok := r.fds[fd]
	if !ok {
		return
	}
	delete(r.fds, fd)
	_ = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	_ = st
}

// wait blocks for up to timeoutMs (-1 for indefinitely) and returns the
// resumers made ready. EINTR is retried internally, never surfaced: the
// spec models Interrupted as fully recovered within the reactor.
func (r *reactor) wait(timeoutMs int) ([]resumer, error) {
	for {
		n, err := unix.EpollWait(r.epfd, r.evbuf[:], timeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, fmt.Errorf("async: epoll_wait: %w", err)
		}
		var ready []resumer
		for i := 0; i < n; i++ {
			fd := int(r.evbuf[i].Fd)
			mask := r.evbuf[i].Events
			st, ok := r.fds[fd]
			if !ok {
				continue
			}
			hup := mask&(unix.EPOLLERR|unix.EPOLLHUP) != 0
			if (mask&unix.EPOLLIN != 0 || hup) && st.read != nil {
				ready = append(ready, st.read)
				st.read = nil
			}
			if (mask&unix.EPOLLOUT != 0 || hup) && st.write != nil {
				ready = append(ready, st.write)
				st.write = nil
			}
			if st.read == nil && st.write == nil {
				delete(r.fds, fd)
				_ = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
			} else {
				ev := unix.EpollEvent{Events: st.epollMask(), Fd: int32(fd)}
				_ = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
			}
		}
		return ready, nil
	}
}
