package doip

import "encoding/binary"

// Header is the fixed 8-byte DoIP frame header.
type Header struct {
	PayloadType   MsgType
	PayloadLength uint32
}

// ParseHeader reads the first HeaderSize bytes of b. It does not validate
// that the declared payload has actually arrived yet.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errFrameTooShort
	}
	if b[0] != ProtocolVersion || b[1] != InverseProtocolVersion {
		return Header{}, &Error{err: "unsupported protocol version"}
	}
	h := Header{
		PayloadType:   MsgType(binary.BigEndian.Uint16(b[2:4])),
		PayloadLength: binary.BigEndian.Uint32(b[4:8]),
	}
	if h.PayloadLength > MaxPayloadSize {
		return Header{}, errFrameTooLarge
	}
	return h, nil
}

// frame serializes a header plus payload onto the wire.
func frame(t MsgType, payload []byte) []byte {
	out := make([]byte, HeaderSize+len(payload))
	out[0] = ProtocolVersion
	out[1] = InverseProtocolVersion
	binary.BigEndian.PutUint16(out[2:4], uint16(t))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(payload)))
	copy(out[HeaderSize:], payload)
	return out
}

// BuildNegativeResponse frames the DoIP layer's own NACK: the offending
// payload type with its high bit set, carrying a single reason byte. This
// is the non-standard framing this server was modeled on; ISO 13400 instead
// defines a dedicated 0x0000 Generic Header Negative Acknowledge.
func BuildNegativeResponse(originalType MsgType, reason byte) []byte {
	return frame(originalType|negativeAckBit, []byte{reason})
}

// BuildVehicleIdentResponse frames a 0x0004 Vehicle Identification Response
// for the given identity: VIN-GID, logical address high byte, EID, VIN, and
// zero padding out to a 33-byte payload.
func BuildVehicleIdentResponse(id Identity) []byte {
	payload := make([]byte, 0, 33)
	payload = append(payload, 0x01)                     // VIN_GID
	payload = append(payload, byte(id.LogicalAddress>>8)) // logical_addr_hi
	payload = append(payload, id.EID[:]...)
	payload = append(payload, id.VIN[:]...)
	payload = append(payload, make([]byte, 33-len(payload))...)
	return frame(PayloadVehicleIdentResponse, payload)
}

// BuildRoutingActivationResponse frames a 0x0006 Routing Activation Response
// granting the client address routing activation unconditionally.
func BuildRoutingActivationResponse(clientAddr uint16) []byte {
	payload := make([]byte, 9)
	binary.BigEndian.PutUint16(payload[0:2], clientAddr)
	binary.BigEndian.PutUint16(payload[2:4], 0x0000) // external equipment address, unused
	payload[4] = RoutingActivationSuccess
	// payload[5:9] reserved, left zero
	return frame(PayloadRoutingActivationResponse, payload)
}

// ParseRoutingActivationRequest extracts the client source address from a
// 0x0005 request payload. Callers must check the payload is at least 7
// bytes before calling.
func ParseRoutingActivationRequest(payload []byte) (sourceAddr uint16) {
	return binary.BigEndian.Uint16(payload[0:2])
}

// BuildDiagnosticMessage frames a 0x8001 Diagnostic Message carrying the
// given UDS bytes, addressed from src to dst.
func BuildDiagnosticMessage(src, dst uint16, uds []byte) []byte {
	payload := make([]byte, 4+len(uds))
	binary.BigEndian.PutUint16(payload[0:2], src)
	binary.BigEndian.PutUint16(payload[2:4], dst)
	copy(payload[4:], uds)
	return frame(PayloadDiagnosticMessage, payload)
}

// DiagnosticMessage holds the parsed addressing and UDS payload of an
// inbound 0x8001 frame.
type DiagnosticMessage struct {
	SourceAddr uint16
	TargetAddr uint16
	UDS        []byte
}

// ParseDiagnosticMessage parses a 0x8001 payload. Callers must check the
// payload is at least 4 bytes before calling.
func ParseDiagnosticMessage(payload []byte) DiagnosticMessage {
	return DiagnosticMessage{
		SourceAddr: binary.BigEndian.Uint16(payload[0:2]),
		TargetAddr: binary.BigEndian.Uint16(payload[2:4]),
		UDS:        payload[4:],
	}
}
