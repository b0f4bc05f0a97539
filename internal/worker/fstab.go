package worker

import "os"

// StatRequest/ReadFileRequest and their handlers demonstrate that the
// dispatch contract is handler-agnostic: any (worker_id, handler_id)
// pair can address any blocking operation a module wants to keep off the
// host loop. This does not reimplement the full filesystem/process
// shim tables that sit outside this package's scope - it's two handlers,
// registered as a second worker and actually dispatched to (see
// worker_test.go's TestFSWorkerStatDispatch/TestFSWorkerReadFileDispatchFailure
// and cmd/ertdemo), not just held in the registry to contrast against an
// out-of-range id.
type StatRequest struct {
	Path string
	Size int64
	Err  error
}

// Stat stats Path off the host loop, reporting the result or error back
// in place.
func Stat(requestData any) {
	req := requestData.(*StatRequest)
	info, err := os.Stat(req.Path)
	if err != nil {
		req.Err = err
		return
	}
	req.Size = info.Size()
}

// Failed reports whether Stat recorded an error, satisfying Failer so
// WorkerThread.run can report accurate dispatch outcomes to its Observer.
func (r *StatRequest) Failed() bool { return r.Err != nil }

// ReadFileRequest is the request/response struct for ReadFile.
type ReadFileRequest struct {
	Path string
	Data []byte
	Err  error
}

// ReadFile reads Path off the host loop, reporting the contents or error
// back in place.
func ReadFile(requestData any) {
	req := requestData.(*ReadFileRequest)
	data, err := os.ReadFile(req.Path)
	if err != nil {
		req.Err = err
		return
	}
	req.Data = data
}

// Failed reports whether ReadFile recorded an error, satisfying Failer.
func (r *ReadFileRequest) Failed() bool { return r.Err != nil }

// FSHandlers is the handler table for a worker exposing Stat at handler
// id 0 and ReadFile at handler id 1.
var FSHandlers = []Handler{Stat, ReadFile}
