// Command ertdemo exercises the substrate end to end: it registers the
// echo and fs workers, brings up a Runtime (worker pool plus, on Linux, the
// signal thread), submits one async echo request and one Stat request, and then
// waits for a shutdown signal, the direct analogue of cmd/ublk-mem's
// device-lifecycle demo for this domain.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/lattice-rt/ert"
	"github.com/lattice-rt/ert/internal/logging"
	"github.com/lattice-rt/ert/internal/worker"
)

func main() {
	var (
		verbose  = flag.Bool("v", false, "Verbose output")
		poolSize = flag.Int("workers", 4, "Worker pool size")
		signals  = flag.Bool("signals", runtime.GOOS == "linux", "Enable the signal thread")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	echoWorkerID := worker.RegisterWorker(worker.EchoHandlers)
	fsWorkerID := worker.RegisterWorker(worker.FSHandlers)
	logger.Info("registered workers", "echo", echoWorkerID, "fs", fsWorkerID)

	rt, err := ert.NewRuntime(ert.RuntimeConfig{
		WorkerPoolSize:     *poolSize,
		EnableSignalThread: *signals,
	})
	if err != nil {
		logger.Error("failed to start runtime", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("stopping runtime")
		if err := rt.Close(); err != nil {
			logger.Error("error stopping runtime", "error", err)
		} else {
			logger.Info("runtime stopped successfully")
		}
	}()

	logger.Info("runtime started", "workers", *poolSize, "signal_thread", rt.SigThread != nil)

	req := &worker.EchoRequest{Delay: 0.05, Payload: 42}
	start := time.Now()
	rt.SubmitAsync(echoWorkerID, 0, req)
	logger.Info("echo round-trip complete", "response", req.Response, "elapsed", time.Since(start))

	statReq := &worker.StatRequest{Path: os.Args[0]}
	rt.SubmitAsync(fsWorkerID, 0, statReq)
	if statReq.Err != nil {
		logger.Error("stat dispatch failed", "error", statReq.Err)
	} else {
		logger.Info("stat dispatch complete", "path", statReq.Path, "size", statReq.Size)
	}

	fmt.Printf("Runtime started with %d workers (signal thread: %v)\n", *poolSize, rt.SigThread != nil)
	fmt.Printf("Echo request: delay=%.2fs payload=%.1f -> response=%.1f\n", req.Delay, req.Payload, req.Response)
	fmt.Printf("Stat request: path=%s -> size=%d bytes\n", statReq.Path, statReq.Size)
	fmt.Printf("\nPress Ctrl+C to stop...\n")
	fmt.Printf("Send SIGUSR1 (kill -USR1 %d) to dump goroutine stacks\n", os.Getpid())

	dumpStacks := func() {
		logger.Info("=== GOROUTINE STACK TRACE DUMP ===")
		buf := make([]byte, 1024*1024)
		n := runtime.Stack(buf, true)
		fmt.Fprintf(os.Stderr, "\n=== FULL GOROUTINE STACK DUMP ===\n%s\n=== END STACK DUMP ===\n\n", buf[:n])

		filename := fmt.Sprintf("ertdemo-stacks-%d.txt", time.Now().Unix())
		if f, err := os.Create(filename); err == nil {
			fmt.Fprintf(f, "Goroutine stack dump at %s\nProcess ID: %d\n\n", time.Now().Format(time.RFC3339), os.Getpid())
			f.Write(buf[:n])
			fmt.Fprintf(f, "\n\n=== GOROUTINE PROFILE ===\n")
			pprof.Lookup("goroutine").WriteTo(f, 2)
			f.Close()
			logger.Info("stack trace written to file", "file", filename)
		}
	}

	shutdown := make(chan struct{})

	if rt.SigThread != nil {
		// The signal thread's signalfd only sees signals blocked on its
		// own OS thread; os/signal's sigaction handler cannot fire for a
		// signal masked this way, so it would never see SIGUSR1 or
		// SIGINT/SIGTERM here. Consuming decoded SignalEvents off the
		// runtime's MsgQueue is the only receiver for as long as the
		// signal thread is running - registering signal.Notify for the
		// same signals here would just compete with the signalfd for
		// delivery and get nothing.
		go func() {
			for {
				ev, err := rt.Queue.ReadSignalEvent()
				if err != nil {
					logger.Error("failed to decode signal event", "error", err)
					continue
				}
				switch syscall.Signal(ev.Signum) {
				case syscall.SIGUSR1:
					dumpStacks()
				case syscall.SIGINT, syscall.SIGTERM:
					logger.Info("received shutdown signal", "signum", ev.Signum, "from_pid", ev.SenderPID)
					close(shutdown)
					return
				}
			}
		}()
	} else {
		stackDumpCh := make(chan os.Signal, 1)
		signal.Notify(stackDumpCh, syscall.SIGUSR1)
		go func() {
			for range stackDumpCh {
				dumpStacks()
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			logger.Info("received shutdown signal")
			close(shutdown)
		}()
	}

	<-shutdown

	snap := rt.Metrics.Snapshot()
	logger.Info("final metrics",
		"dispatch_ops", snap.DispatchOps,
		"trigger_fires", snap.TriggerFires,
		"signal_events", snap.SignalEvents,
	)
}
