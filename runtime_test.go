package ert

import (
	"testing"

	"github.com/lattice-rt/ert/internal/worker"
)

func TestRuntimeSubmitAsyncEcho(t *testing.T) {
	worker.ResetRegistry()
	workerID := worker.RegisterWorker(worker.EchoHandlers)
	defer worker.ResetRegistry()

	rt, err := NewRuntime(RuntimeConfig{WorkerPoolSize: 2})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	defer rt.Close()

	req := &worker.EchoRequest{Payload: 42}
	rt.SubmitAsync(workerID, 0, req)

	if req.Response != 42 {
		t.Fatalf("Response = %v, want 42", req.Response)
	}
}

func TestRuntimeSubmitAsyncConcurrent(t *testing.T) {
	worker.ResetRegistry()
	workerID := worker.RegisterWorker(worker.EchoHandlers)
	defer worker.ResetRegistry()

	rt, err := NewRuntime(RuntimeConfig{WorkerPoolSize: 3})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	defer rt.Close()

	const n = 10
	done := make(chan float64, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			req := &worker.EchoRequest{Payload: float64(i)}
			rt.SubmitAsync(workerID, 0, req)
			done <- req.Response
		}(i)
	}

	seen := make(map[float64]bool)
	for i := 0; i < n; i++ {
		seen[<-done] = true
	}
	for i := 0; i < n; i++ {
		if !seen[float64(i)] {
			t.Fatalf("missing response for payload %d", i)
		}
	}
}

func TestRuntimeClose(t *testing.T) {
	worker.ResetRegistry()
	worker.RegisterWorker(worker.EchoHandlers)
	defer worker.ResetRegistry()

	rt, err := NewRuntime(RuntimeConfig{WorkerPoolSize: 2})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
