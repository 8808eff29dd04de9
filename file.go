package async

import "golang.org/x/sys/unix"

// AsyncFile wraps a raw, non-blocking file descriptor for use inside a
// task: Read, Write, and Connect attempt the underlying syscall first and
// only suspend the calling task when the kernel reports it would block,
// arming exactly one reactor registration before parking. On resume, Read
// and Write retry their syscall exactly once; Connect does not retry but
// queries SO_ERROR.
type AsyncFile struct {
	fd     int
	closed bool
}

// NewAsyncFile takes ownership of fd, switching it to non-blocking mode.
// The caller must not use fd through any other API afterwards.
func NewAsyncFile(fd int) (*AsyncFile, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, &OsError{Op: "set_nonblock", Fd: fd, Err: err}
	}
	return &AsyncFile{fd: fd}, nil
}

// Fd returns the underlying file descriptor.
func (f *AsyncFile) Fd() int { return f.fd }

// Read attempts a non-blocking read into buf. If the kernel reports
// EAGAIN/EWOULDBLOCK, it arms a one-shot read registration, suspends the
// calling task, and retries exactly once when resumed; a second
// would-block completes the call with ErrWouldBlock rather than looping.
func (f *AsyncFile) Read(rt *Rt, buf []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if n, err := tryRead(f.fd, buf); err != ErrWouldBlock {
		return n, err
	}
	if err := rt.loop.reactor.register(f.fd, dirRead, rt.co); err != nil {
		return 0, err
	}
	rt.loop.emit("fd-armed", f.fd)
	rt.co.park(nil)
	rt.loop.emit("fd-fired", f.fd)
	return tryRead(f.fd, buf)
}

// Write attempts a non-blocking write of buf, suspending and retrying
// exactly once under the same contract as Read.
func (f *AsyncFile) Write(rt *Rt, buf []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if n, err := tryWrite(f.fd, buf); err != ErrWouldBlock {
		return n, err
	}
	if err := rt.loop.reactor.register(f.fd, dirWrite, rt.co); err != nil {
		return 0, err
	}
	rt.loop.emit("fd-armed", f.fd)
	rt.co.park(nil)
	rt.loop.emit("fd-fired", f.fd)
	return tryWrite(f.fd, buf)
}

// Connect initiates a non-blocking connect. If it completes immediately
// it returns right away; if the kernel reports EINPROGRESS, it arms a
// one-shot write registration, suspends, and on resume inspects SO_ERROR
// to decide between success and a *ConnectError.
func (f *AsyncFile) Connect(rt *Rt, addr unix.Sockaddr) error {
	if f.closed {
		return ErrClosed
	}
	err := unix.Connect(f.fd, addr)
	if err == nil {
		return nil
	}
	if err != unix.EINPROGRESS {
		return &OsError{Op: "connect", Fd: f.fd, Err: err}
	}
	if err := rt.loop.reactor.register(f.fd, dirWrite, rt.co); err != nil {
		return err
	}
	rt.loop.emit("fd-armed", f.fd)
	rt.co.park(nil)
	rt.loop.emit("fd-fired", f.fd)

	code, gerr := unix.GetsockoptInt(f.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if gerr != nil {
		return &OsError{Op: "getsockopt(SO_ERROR)", Fd: f.fd, Err: gerr}
	}
	if code != 0 {
		return &ConnectError{Code: code, Err: unix.Errno(code)}
	}
	return nil
}

// Close tears down any pending reactor registration for the fd and
// closes it. Closing twice is a no-op.
func (f *AsyncFile) Close(rt *Rt) error {
	if f.closed {
		return nil
	}
	f.closed = true
	rt.loop.reactor.unregister(f.fd)
	if err := unix.Close(f.fd); err != nil {
		return &OsError{Op: "close", Fd: f.fd, Err: err}
	}
	return nil
}

func tryRead(fd int, buf []byte) (int, error) {
	n, err := unix.Read(fd, buf)
	if err == nil {
		return n, nil
	}
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return 0, ErrWouldBlock
	}
	return 0, &OsError{Op: "read", Fd: fd, Err: err}
}

func tryWrite(fd int, buf []byte) (int, error) {
	n, err := unix.Write(fd, buf)
	if err == nil {
		return n, nil
	}
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return 0, ErrWouldBlock
	}
	return 0, &OsError{Op: "write", Fd: fd, Err: err}
}
