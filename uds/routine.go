package uds

import "encoding/binary"

// eraseContext exists while a 0xFF00 erase routine is in progress.
type eraseContext struct {
	address uint32
	size    uint32
}

// Routine control types (the second byte of a RoutineControl request).
const (
	routineStart          byte = 0x01
	routineStop           byte = 0x02
	routineRequestResults byte = 0x03
)

// Routine identifiers this ECU implements.
const (
	routineErase                     uint16 = 0xFF00
	routineCheckProgrammingPreconds  uint16 = 0xFF01
	routineCheckProgrammingDeps      uint16 = 0xFF02
	routineCheckMemory               uint16 = 0xFF03
)

// addressableMemoryLimit is the exclusive upper bound of the ECU's
// simulated 1 MiB address space, used by the CheckMemory routine.
const addressableMemoryLimit uint64 = 0x00100000

// handleRoutineControl implements service 0x31.
func handleRoutineControl(d *Dispatcher, req []byte) []byte {
	if len(req) < 4 {
		return negativeResponse(ServiceRoutineControl, NRCIncorrectMessageLength)
	}
	if d.session != SessionProgramming {
		return negativeResponse(ServiceRoutineControl, NRCConditionsNotCorrect)
	}

	controlType := req[1]
	switch controlType {
	case routineStart, routineStop, routineRequestResults:
	default:
		return negativeResponse(ServiceRoutineControl, NRCRequestOutOfRange)
	}

	routineID := binary.BigEndian.Uint16(req[2:4])
	data := req[4:]

	switch routineID {
	case routineErase:
		return d.handleEraseRoutine(controlType, data)
	case routineCheckProgrammingPreconds:
		return d.handleCheckPreconditionsRoutine(controlType)
	case routineCheckProgrammingDeps:
		return d.handleCheckDependenciesRoutine(controlType)
	case routineCheckMemory:
		return d.handleCheckMemoryRoutine(controlType, data)
	default:
		return negativeResponse(ServiceRoutineControl, NRCRequestOutOfRange)
	}
}

func routineResponse(controlType byte, routineID uint16, extra ...byte) []byte {
	resp := []byte{positiveSID(ServiceRoutineControl), controlType, byte(routineID >> 8), byte(routineID)}
	return append(resp, extra...)
}

// handleEraseRoutine implements RoutineControl on routine 0xFF00.
func (d *Dispatcher) handleEraseRoutine(controlType byte, data []byte) []byte {
	switch controlType {
	case routineStart:
		address, size, ok := parseMemoryAddress(data)
		if !ok {
			return negativeResponse(ServiceRoutineControl, NRCIncorrectMessageLength)
		}
		d.erase = &eraseContext{address: address, size: size}
		d.log.Infof("uds: erase start address=0x%08X size=%d", address, size)
		return routineResponse(routineStart, routineErase)

	case routineStop:
		if d.erase == nil {
			return negativeResponse(ServiceRoutineControl, NRCConditionsNotCorrect)
		}
		d.erase = nil
		d.log.Info("uds: erase stop")
		return routineResponse(routineStop, routineErase)

	case routineRequestResults:
		if d.erase == nil {
			return routineResponse(routineRequestResults, routineErase, 0x00)
		}
		return routineResponse(routineRequestResults, routineErase, 0x01)

	default:
		return negativeResponse(ServiceRoutineControl, NRCRequestOutOfRange)
	}
}

// handleCheckPreconditionsRoutine implements RoutineControl on 0xFF01.
func (d *Dispatcher) handleCheckPreconditionsRoutine(controlType byte) []byte {
	if controlType != routineStart {
		return negativeResponse(ServiceRoutineControl, NRCConditionsNotCorrect)
	}

	var result byte
	if d.caps.CheckVoltage() {
		result |= 0x01
	}
	if d.caps.CheckTemperature() {
		result |= 0x02
	}
	if d.caps.CheckSecurityAccess() {
		result |= 0x04
	}

	d.log.Infof("uds: programming preconditions result=0x%02X", result)
	return routineResponse(routineStart, routineCheckProgrammingPreconds, result)
}

// handleCheckDependenciesRoutine implements RoutineControl on 0xFF02.
func (d *Dispatcher) handleCheckDependenciesRoutine(controlType byte) []byte {
	if controlType != routineStart {
		return negativeResponse(ServiceRoutineControl, NRCConditionsNotCorrect)
	}

	var result byte
	if d.caps.CheckSoftwareVersionCompatibility() {
		result |= 0x01
	}
	if d.caps.CheckHardwareVersionCompatibility() {
		result |= 0x02
	}
	if d.caps.CheckMemoryAvailability() {
		result |= 0x04
	}

	d.log.Infof("uds: programming dependencies result=0x%02X", result)
	return routineResponse(routineStart, routineCheckProgrammingDeps, result)
}

// handleCheckMemoryRoutine implements RoutineControl on 0xFF03.
func (d *Dispatcher) handleCheckMemoryRoutine(controlType byte, data []byte) []byte {
	if controlType != routineStart {
		return negativeResponse(ServiceRoutineControl, NRCConditionsNotCorrect)
	}
	if len(data) < 8 {
		return negativeResponse(ServiceRoutineControl, NRCIncorrectMessageLength)
	}

	address, size, _ := parseMemoryAddress(data)
	if uint64(address)+uint64(size) > addressableMemoryLimit {
		return negativeResponse(ServiceRoutineControl, NRCRequestOutOfRange)
	}

	checksum := checksumOf(address, size)
	d.log.Infof("uds: check memory address=0x%08X size=%d checksum=%x", address, size, checksum)
	return routineResponse(routineStart, routineCheckMemory, checksum...)
}

// checksumOf stands in for a real memory CRC: a reduced CRC-32 over
// (address XOR size) using the reflected 0xEDB88320 polynomial, 32 bit-steps
// starting from that seed. Emitted big-endian.
func checksumOf(address, size uint32) []byte {
	crc := address ^ size
	for i := 0; i < 32; i++ {
		if crc&1 == 1 {
			crc = (crc >> 1) ^ 0xEDB88320
		} else {
			crc >>= 1
		}
	}

	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, crc)
	return buf
}
