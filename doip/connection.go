package doip

import (
	"io"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/arpith99/doip-uds-server/uds"
)

// Connection owns one accepted TCP connection. Each Connection gets its own
// uds.Dispatcher, matching the spec's single-dispatcher-per-connection
// model: no state is ever shared across connections.
type Connection struct {
	conn             net.Conn
	dispatcher       *uds.Dispatcher
	identity         Identity
	log              Logger
	idleTimeout      time.Duration
	routingActivated bool
	clientAddr       uint16

	// correlationID ties every log line for this connection together; it
	// has no meaning on the wire.
	correlationID string
}

// NewConnection wraps an accepted net.Conn with a fresh UDS dispatcher.
func NewConnection(conn net.Conn, identity Identity, dispatcher *uds.Dispatcher, log Logger, idleTimeout time.Duration) *Connection {
	if log == nil {
		log = NewDiscardLogger()
	}
	return &Connection{
		conn:          conn,
		dispatcher:    dispatcher,
		identity:      identity,
		log:           log,
		idleTimeout:   idleTimeout,
		correlationID: uuid.New().String(),
	}
}

// Serve reads frames from the connection until it errs out or is closed by
// the peer. It never returns an error the caller needs to act on beyond
// logging; the connection is always closed on return.
func (c *Connection) Serve() {
	defer c.conn.Close()
	c.log.Debugf("doip: %s: connection %s starting", c.conn.RemoteAddr(), c.correlationID)

	for {
		header, payload, err := c.readFrame()
		if err != nil {
			if err != io.EOF {
				c.log.Debugf("doip: %s: read error: %v", c.conn.RemoteAddr(), err)
			}
			return
		}

		resp := c.handleFrame(header, payload)
		if resp == nil {
			continue
		}
		if _, err := c.conn.Write(resp); err != nil {
			c.log.Debugf("doip: %s: write error: %v", c.conn.RemoteAddr(), err)
			return
		}
	}
}

// readFrame reads one complete header+payload frame, reassembling the
// payload across multiple TCP reads per the declared header length.
func (c *Connection) readFrame() (Header, []byte, error) {
	if c.idleTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
	}

	hdr := make([]byte, HeaderSize)
	if _, err := io.ReadFull(c.conn, hdr); err != nil {
		return Header{}, nil, err
	}

	header, err := ParseHeader(hdr)
	if err != nil {
		// Malformed header: the spec calls for silently dropping the frame,
		// but we can't resynchronize a TCP stream without knowing the
		// length, so the connection is terminated.
		return Header{}, nil, err
	}

	if header.PayloadLength == 0 {
		return header, nil, nil
	}

	payload := make([]byte, header.PayloadLength)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return Header{}, nil, err
	}
	return header, payload, nil
}

// handleFrame implements the per-payload-type dispatch in full: unknown
// types, malformed bodies, and the diagnostic message / UDS handoff.
func (c *Connection) handleFrame(header Header, payload []byte) []byte {
	switch header.PayloadType {
	case PayloadVehicleIdentRequest:
		c.log.Debugf("doip: %s: vehicle identification request", c.conn.RemoteAddr())
		return BuildVehicleIdentResponse(c.identity)

	case PayloadRoutingActivationRequest:
		if len(payload) < 7 {
			return BuildNegativeResponse(header.PayloadType, NACKInvalidPayloadLength)
		}
		c.clientAddr = ParseRoutingActivationRequest(payload)
		c.routingActivated = true
		c.log.Infof("doip: %s: routing activated for client 0x%04X", c.conn.RemoteAddr(), c.clientAddr)
		return BuildRoutingActivationResponse(c.clientAddr)

	case PayloadDiagnosticMessage:
		if !c.routingActivated {
			return BuildNegativeResponse(header.PayloadType, NACKRoutingNotActive)
		}
		if len(payload) < 4 {
			return BuildNegativeResponse(header.PayloadType, NACKInvalidPayloadLength)
		}
		msg := ParseDiagnosticMessage(payload)
		respBytes := c.dispatcher.Handle(msg.UDS)
		return BuildDiagnosticMessage(msg.TargetAddr, msg.SourceAddr, respBytes)

	default:
		c.log.Debugf("doip: %s: unknown payload type 0x%04X", c.conn.RemoteAddr(), uint16(header.PayloadType))
		return BuildNegativeResponse(header.PayloadType, NACKUnknownPayloadType)
	}
}
