package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/rep"
	"go.nanomsg.org/mangos/v3/protocol/req"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// DefaultTimeout bounds one oracle exchange. Synthesis itself is slow; the
// deadline covers the conversation with the oracle front door, not the run.
const DefaultTimeout = 30 * time.Second

// wireReply is the envelope for one exchange. Err is set instead of the
// report fields when the serving side could not produce a slack number; the
// client maps that to ErrUnavailable so a server-side failure never reads
// as a passing slack of zero.
type wireReply struct {
	Report
	Err string `json:"err,omitempty"`
}

// NNGClient talks to an out-of-process oracle over a req/rep socket pair:
// one JSON request, one JSON reply, no retry. Any socket failure or missed
// deadline maps to ErrUnavailable.
type NNGClient struct {
	addr    string
	timeout time.Duration
}

// NewNNGClient creates a client for the oracle listening at addr
// (e.g. "tcp://127.0.0.1:7401" or "ipc:///tmp/oracle.sock").
func NewNNGClient(addr string, timeout time.Duration) *NNGClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &NNGClient{addr: addr, timeout: timeout}
}

// ReportSlack implements Client with a single synchronous exchange.
func (c *NNGClient) ReportSlack(ctx context.Context, request Request) (*Report, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: context deadline already passed", ErrUnavailable)
	}

	sock, err := req.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("%w: create socket: %v", ErrUnavailable, err)
	}
	defer sock.Close()

	if err := sock.SetOption(mangos.OptionSendDeadline, timeout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := sock.Dial(c.addr); err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrUnavailable, c.addr, err)
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal oracle request: %w", err)
	}
	if err := sock.Send(payload); err != nil {
		return nil, fmt.Errorf("%w: send: %v", ErrUnavailable, err)
	}

	reply, err := sock.Recv()
	if err != nil {
		return nil, fmt.Errorf("%w: recv: %v", ErrUnavailable, err)
	}

	var resp wireReply
	if err := json.Unmarshal(reply, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed reply: %v", ErrUnavailable, err)
	}
	if resp.Err != "" {
		return nil, fmt.Errorf("%w: oracle reported failure: %s", ErrUnavailable, resp.Err)
	}
	return &resp.Report, nil
}

// Handler produces a report for one request on the serving side.
type Handler func(Request) (Report, error)

// Server answers slack requests on a rep socket. It fronts a real synthesis
// flow in production and a scripted one in the simulator and in tests.
type Server struct {
	sock    mangos.Socket
	handler Handler

	wg        sync.WaitGroup
	running   bool
	runningMu sync.Mutex
}

// NewServer creates a server that answers with the given handler.
func NewServer(handler Handler) *Server {
	return &Server{handler: handler}
}

// Start listens on addr and serves until Stop.
func (s *Server) Start(addr string) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return fmt.Errorf("oracle server already running")
	}

	sock, err := rep.NewSocket()
	if err != nil {
		return fmt.Errorf("create rep socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.sock = sock
	s.running = true
	s.wg.Add(1)
	go s.serve()
	return nil
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		payload, err := s.sock.Recv()
		if err != nil {
			// socket closed by Stop
			return
		}

		var request Request
		var resp wireReply
		if err := json.Unmarshal(payload, &request); err != nil {
			resp.Err = fmt.Sprintf("malformed request: %v", err)
		} else if r, err := s.handler(request); err != nil {
			resp.Err = err.Error()
		} else {
			resp.Report = r
		}

		reply, err := json.Marshal(resp)
		if err != nil {
			continue
		}
		if err := s.sock.Send(reply); err != nil {
			return
		}
	}
}

// Stop closes the socket and waits for the serve loop to exit.
func (s *Server) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if !s.running {
		return
	}
	s.sock.Close()
	s.wg.Wait()
	s.running = false
}
