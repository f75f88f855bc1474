package uds

// handleDiagnosticSessionControl implements service 0x10.
func handleDiagnosticSessionControl(d *Dispatcher, req []byte) []byte {
	if len(req) < 2 {
		return negativeResponse(ServiceDiagnosticSessionControl, NRCIncorrectMessageLength)
	}

	var next Session
	switch req[1] {
	case 0x01:
		next = SessionDefault
	case 0x02:
		next = SessionProgramming
	case 0x03:
		next = SessionExtended
	case 0x04:
		next = SessionSafetySystem
	default:
		return negativeResponse(ServiceDiagnosticSessionControl, NRCSubFunctionNotSupported)
	}

	d.session = next
	d.log.Infof("uds: session control -> %s", next)

	// P2server_max = 0x0032 (50ms), P2*server_max = 0x01F4 (500ms).
	return []byte{positiveSID(ServiceDiagnosticSessionControl), req[1], 0x00, 0x32, 0x01, 0xF4}
}

// handleECUReset implements service 0x11. Every reset sub-function reverts
// the session to default, same as the original firmware stub.
func handleECUReset(d *Dispatcher, req []byte) []byte {
	if len(req) < 2 {
		return negativeResponse(ServiceECUReset, NRCIncorrectMessageLength)
	}

	switch req[1] {
	case 0x01, 0x02, 0x03, 0x04, 0x05:
		// HARD, KEY_OFF_ON, SOFT, ENABLE_RAPID_POWER_SHUTDOWN, DISABLE_RAPID_POWER_SHUTDOWN
	default:
		return negativeResponse(ServiceECUReset, NRCSubFunctionNotSupported)
	}

	d.log.Infof("uds: ecu reset subfunction 0x%02X", req[1])
	d.session = SessionDefault

	return []byte{positiveSID(ServiceECUReset), req[1]}
}

// handleTesterPresent implements service 0x3E.
func handleTesterPresent(d *Dispatcher, req []byte) []byte {
	if len(req) < 2 {
		return negativeResponse(ServiceTesterPresent, NRCIncorrectMessageLength)
	}

	switch req[1] {
	case 0x00:
		d.testerPresent = true
	case 0x01:
		d.testerPresent = false
	default:
		return negativeResponse(ServiceTesterPresent, NRCRequestOutOfRange)
	}

	return []byte{positiveSID(ServiceTesterPresent), 0x00}
}
