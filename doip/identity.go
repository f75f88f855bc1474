package doip

// Identity is the vehicle/ECU identity advertised in a Vehicle
// Identification Response.
type Identity struct {
	VIN            [6]byte
	LogicalAddress uint16
	EID            [2]byte
}

// DefaultIdentity returns the simulator's built-in identity: VIN "123456",
// logical address 0x0000, EID 0xE000.
func DefaultIdentity() Identity {
	return Identity{
		VIN:            [6]byte{'1', '2', '3', '4', '5', '6'},
		LogicalAddress: 0x0000,
		EID:            [2]byte{0xE0, 0x00},
	}
}
