package doip

import (
	"net"
	"sync"
	"time"

	"github.com/arpith99/doip-uds-server/uds"
)

const defaultIdleTimeout = 15 * time.Second

// Server defines parameters for running a DoIP server. One connection, one
// UDS dispatcher; the spec's Non-goal on multi-client concurrency means
// there is no cross-connection coordination to do.
type Server struct {
	// Addr is the address to listen on, e.g. ":13400".
	Addr string
	// Identity is advertised in response to Vehicle Identification Requests.
	Identity Identity
	// IdleTimeout bounds how long a connection may sit without a complete
	// frame before it is closed. Zero disables the deadline.
	IdleTimeout time.Duration
	// Clock and Capabilities are threaded into every connection's
	// uds.Dispatcher; nil selects the system clock and all-capabilities-pass
	// defaults.
	Clock        uds.Clock
	Capabilities uds.Capabilities
	// Log receives connection lifecycle and per-frame debug output.
	Log Logger

	listener net.Listener

	mu    sync.Mutex
	conns map[net.Conn]*Connection
}

// NewServer returns a Server ready to ListenAndServe on addr.
func NewServer(addr string, identity Identity, log Logger) *Server {
	if log == nil {
		log = NewDiscardLogger()
	}
	return &Server{
		Addr:        addr,
		Identity:    identity,
		IdleTimeout: defaultIdleTimeout,
		Log:         log,
		conns:       make(map[net.Conn]*Connection),
	}
}

// ListenAndServe opens a TCP listener on srv.Addr and serves connections
// until the listener is closed. Each accepted connection runs in its own
// goroutine with its own uds.Dispatcher.
func (srv *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	srv.listener = l
	defer l.Close()

	srv.Log.Infof("doip: listening on %s", l.Addr())

	var wg sync.WaitGroup
	for {
		conn, err := l.Accept()
		if err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			srv.serve(conn)
		}()
	}
}

// Shutdown closes the listener and every tracked connection.
func (srv *Server) Shutdown() error {
	var err error
	if srv.listener != nil {
		err = srv.listener.Close()
	}
	srv.mu.Lock()
	for c := range srv.conns {
		c.Close()
	}
	srv.mu.Unlock()
	return err
}

func (srv *Server) serve(netConn net.Conn) {
	srv.Log.Infof("doip: %s: connected", netConn.RemoteAddr())
	defer srv.Log.Infof("doip: %s: disconnected", netConn.RemoteAddr())

	clock := srv.Clock
	if clock == nil {
		clock = uds.NewSystemClock()
	}
	caps := srv.Capabilities
	if caps == nil {
		caps = uds.DefaultCapabilities{}
	}
	dispatcher := uds.NewDispatcher(srv.Log, clock, caps)

	c := NewConnection(netConn, srv.Identity, dispatcher, srv.Log, srv.IdleTimeout)

	srv.mu.Lock()
	srv.conns[netConn] = c
	srv.mu.Unlock()
	defer func() {
		srv.mu.Lock()
		delete(srv.conns, netConn)
		srv.mu.Unlock()
	}()

	c.Serve()
}

// Close closes the underlying net.Conn, letting Serve's read loop return.
func (c *Connection) Close() error {
	return c.conn.Close()
}
