package uds

import "encoding/binary"

// downloadContext exists iff a RequestDownload/TransferData/
// RequestTransferExit sequence is open. Its presence is the
// transferInProgress flag — there is no separate bool to drift out of sync.
type downloadContext struct {
	address uint32
	size    uint32
	counter uint8
	buf     []byte
}

// parseMemoryAddress decodes the 32-bit address + 32-bit size tuple that
// appears, big-endian, in RequestDownload and the Erase/CheckMemory
// routines. It requires at least 8 bytes.
func parseMemoryAddress(b []byte) (address, size uint32, ok bool) {
	if len(b) < 8 {
		return 0, 0, false
	}
	return binary.BigEndian.Uint32(b[0:4]), binary.BigEndian.Uint32(b[4:8]), true
}

// handleRequestDownload implements service 0x34.
func handleRequestDownload(d *Dispatcher, req []byte) []byte {
	if d.session != SessionProgramming {
		return negativeResponse(ServiceRequestDownload, NRCConditionsNotCorrect)
	}
	if len(req) < 3 {
		return negativeResponse(ServiceRequestDownload, NRCIncorrectMessageLength)
	}

	address, size, ok := parseMemoryAddress(req[3:])
	if !ok {
		return negativeResponse(ServiceRequestDownload, NRCIncorrectMessageLength)
	}

	d.download = &downloadContext{
		address: address,
		size:    size,
		counter: 0,
		buf:     make([]byte, 0, size),
	}
	d.log.Infof("uds: request download address=0x%08X size=%d", address, size)

	// maxNumberOfBlockLength = 0x0400 (1024 bytes).
	return []byte{positiveSID(ServiceRequestDownload), 0x04, 0x00}
}

// handleTransferData implements service 0x36.
func handleTransferData(d *Dispatcher, req []byte) []byte {
	if d.download == nil {
		return negativeResponse(ServiceTransferData, NRCConditionsNotCorrect)
	}
	if len(req) < 2 {
		return negativeResponse(ServiceTransferData, NRCIncorrectMessageLength)
	}

	counter := req[1]
	expected := d.download.counter + 1 // uint8 wraps 255 -> 0 for free

	if counter != expected {
		d.log.Warnf("uds: wrong block sequence counter, got 0x%02X want 0x%02X", counter, expected)
		return negativeResponse(ServiceTransferData, NRCWrongBlockSequenceCounter)
	}

	d.download.counter = counter
	d.download.buf = append(d.download.buf, req[2:]...)

	if uint32(len(d.download.buf)) >= d.download.size {
		d.download.buf = d.download.buf[:d.download.size]
		d.log.Infof("uds: download complete, %d bytes received", len(d.download.buf))
		d.download = nil
	}

	return []byte{positiveSID(ServiceTransferData), counter}
}

// handleRequestTransferExit implements service 0x37.
func handleRequestTransferExit(d *Dispatcher, req []byte) []byte {
	if d.download == nil {
		return negativeResponse(ServiceRequestTransferExit, NRCConditionsNotCorrect)
	}

	d.log.Infof("uds: transfer exit, %d bytes received", len(d.download.buf))
	d.download = nil

	return []byte{positiveSID(ServiceRequestTransferExit)}
}
