// Package doip implements the DoIP (ISO 13400) transport framing layer:
// an 8-byte header plus payload, dispatched by payload type. It hands
// diagnostic-message payloads to a uds.Dispatcher and frames whatever comes
// back; it never interprets UDS bytes itself.
package doip

// MsgType is a DoIP payload type (the 2-byte field at header offset 2).
type MsgType uint16

// Protocol version this server speaks. ISO 13400-2:2012 defines 0x02; the
// inverse is carried alongside it so a peer can sanity-check the header.
const (
	ProtocolVersion        byte = 0x02
	InverseProtocolVersion byte = 0xFD
)

// HeaderSize is the fixed size of a DoIP header.
const HeaderSize = 8

// MaxPayloadSize caps a single frame's payload, matching the fixed 64 KiB
// receive buffer each connection owns.
const MaxPayloadSize = 64 * 1024

// Recognized inbound/outbound payload types.
const (
	PayloadVehicleIdentRequest       MsgType = 0x0001
	PayloadVehicleIdentResponse      MsgType = 0x0004
	PayloadRoutingActivationRequest  MsgType = 0x0005
	PayloadRoutingActivationResponse MsgType = 0x0006
	PayloadDiagnosticMessage         MsgType = 0x8001
)

// negativeAckBit marks a payload type as the negative-acknowledgement of
// itself. ISO 13400 defines a dedicated 0x0000 Generic Header NACK; this
// server instead sets the high bit of the payload type it is nacking,
// matching the ECU firmware this was modeled on. diagnosticMessage already
// has that bit set, so its own NACK is carried on the same payload type.
const negativeAckBit MsgType = 0x8000

// NACK reason codes carried in the 1-byte body of a negative response.
const (
	NACKUnknownPayloadType   byte = 0x00
	NACKRoutingNotActive     byte = 0x02
	NACKInvalidPayloadLength byte = 0x04
)

// RoutingActivationSuccess is the only response code this simulator ever
// grants; it accepts every routing activation request unconditionally.
const RoutingActivationSuccess byte = 0x10

// Logger is implemented by any value the DoIP layer can log through.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

type discardLogger struct{}

func (discardLogger) Debug(v ...interface{})            {}
func (discardLogger) Debugf(f string, v ...interface{}) {}
func (discardLogger) Info(v ...interface{})             {}
func (discardLogger) Infof(f string, v ...interface{})  {}
func (discardLogger) Warn(v ...interface{})             {}
func (discardLogger) Warnf(f string, v ...interface{})  {}
func (discardLogger) Error(v ...interface{})            {}
func (discardLogger) Errorf(f string, v ...interface{}) {}

// NewDiscardLogger returns a Logger that drops everything, the same
// fallback the teacher wired to ioutil.Discard.
func NewDiscardLogger() Logger { return discardLogger{} }

// Error represents a DoIP-layer error, kept in the teacher's own shape.
type Error struct{ err string }

func (e *Error) Error() string {
	if e == nil {
		return "doip: <nil>"
	}
	return "doip: " + e.err
}

var (
	errFrameTooShort = &Error{err: "frame shorter than header"}
	errFrameTooLarge = &Error{err: "frame exceeds max payload size"}
)
