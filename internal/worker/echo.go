package worker

import "time"

// EchoRequest is the request/response struct for the predefined echo
// handler, provided to exercise the dispatch path end-to-end: it sleeps
// for Delay seconds, then copies Payload into Response.
type EchoRequest struct {
	Delay    float64
	Payload  float64
	Response float64
}

// Echo is the predefined handler from the original worker registry,
// used by tests and the demo command to prove out the request/response
// contract without depending on any real blocking I/O.
func Echo(requestData any) {
	req := requestData.(*EchoRequest)
	if req.Delay > 0 {
		time.Sleep(time.Duration(req.Delay * float64(time.Second)))
	}
	req.Response = req.Payload
}

// EchoHandlers is the handler table for a worker exposing only Echo at
// handler id 0.
var EchoHandlers = []Handler{Echo}
