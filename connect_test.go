package async_test

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/n0x/taskrt"
)

// listenTCP opens a blocking TCP listener on 127.0.0.1 with an OS-assigned
// port and returns its fd and the port actually bound.
func listenTCP(t *testing.T) (fd int, port int) {
	t.Helper()
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socket: %v", err)
	}
	t.Cleanup(func() { unix.Close(fd) })

	addr := &unix.SockaddrInet4{Addr: [4]byte{127, 0, 0, 1}}
	if err := unix.Bind(fd, addr); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := unix.Listen(fd, 1); err != nil {
		t.Fatalf("listen: %v", err)
	}
	sa, err := unix.Getsockname(fd)
	if err != nil {
		t.Fatalf("getsockname: %v", err)
	}
	return fd, sa.(*unix.SockaddrInet4).Port
}

// TestAsyncFileConnectSucceeds checks Connect's non-blocking contract: a
// connect that reports EINPROGRESS must arm for output readiness, suspend,
// and resolve to success once SO_ERROR reads zero.
func TestAsyncFileConnectSucceeds(t *testing.T) {
	listenFd, port := listenTCP(t)

	accepted := make(chan struct{})
	go func() {
		connFd, _, err := unix.Accept(listenFd)
		if err == nil {
			unix.Close(connFd)
		}
		close(accepted)
	}()

	err := runConnect(t, port)
	<-accepted
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
}

// TestAsyncFileConnectFails checks the failure half of the same contract:
// connecting to a port nothing is listening on must surface a failure, not
// hang or return success. Loopback refusals are sometimes reported
// synchronously by connect(2) itself (an *OsError here) and sometimes only
// after readiness, once SO_ERROR is queried (a *ConnectError); either
// typed failure satisfies the contract.
func TestAsyncFileConnectFails(t *testing.T) {
	// Bind a socket to reserve a port, then close it immediately so nothing
	// is listening there by the time Connect runs.
	fd, port := listenTCP(t)
	unix.Close(fd)

	err := runConnect(t, port)
	if err == nil {
		t.Fatal("Connect to a closed port returned success")
	}
	var ce *async.ConnectError
	var oe *async.OsError
	if !errors.As(err, &ce) && !errors.As(err, &oe) {
		t.Fatalf("got err %v (%T), want *async.ConnectError or *async.OsError", err, err)
	}
}

func runConnect(t *testing.T, port int) error {
	t.Helper()
	clientFd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socket: %v", err)
	}

	_, connErr := async.SpawnRoot(func(rt *async.Rt) (struct{}, error) {
		client, err := async.NewAsyncFile(clientFd)
		if err != nil {
			return struct{}{}, err
		}
		defer client.Close(rt)

		addr := &unix.SockaddrInet4{Addr: [4]byte{127, 0, 0, 1}, Port: port}
		return struct{}{}, client.Connect(rt, addr)
	})
	return connErr
}
