package sigthread

import (
	"os"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/lattice-rt/ert/internal/msgqueue"
	"github.com/stretchr/testify/require"
)

func requireLinux(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("signal thread requires Linux (signalfd)")
	}
}

func TestSignalFanIn(t *testing.T) {
	// S2: start the signal thread, raise SIGUSR1 three times, expect
	// three decoded events each carrying (SIGUSR1, our own pid), then
	// shut the thread down with SIGALRM.
	requireLinux(t)

	// Best-effort precondition: block signals on this goroutine's OS
	// thread before New spawns the signal thread, so process-directed
	// kill() below is more likely to land on a thread that already has
	// every signal masked. See BlockAllSignals for why this can't be a
	// hard guarantee in a Go process.
	require.NoError(t, BlockAllSignals())

	q := msgqueue.New(4096, nil, nil)
	th, err := New(q, nil)
	require.NoError(t, err)

	pid := os.Getpid()
	for i := 0; i < 3; i++ {
		require.NoError(t, syscall.Kill(pid, syscall.SIGUSR1))
		time.Sleep(5 * time.Millisecond)
	}

	for i := 0; i < 3; i++ {
		ev, err := q.ReadSignalEvent()
		require.NoError(t, err)
		require.Equal(t, int32(syscall.SIGUSR1), ev.Signum)
		require.Equal(t, int32(pid), ev.SenderPID)
	}

	th.Stop()
	select {
	case <-th.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("signal thread did not exit after SIGALRM")
	}
}
