package uds

import "time"

// fakeClock is an injectable Clock so session-timeout tests don't sleep.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// toggleCapabilities lets a test force any of the six checks to fail.
type toggleCapabilities struct {
	voltage, temperature, security           bool
	softwareVersion, hardwareVersion, memory bool
}

func allOKCapabilities() *toggleCapabilities {
	return &toggleCapabilities{true, true, true, true, true, true}
}

func (c *toggleCapabilities) CheckVoltage() bool                      { return c.voltage }
func (c *toggleCapabilities) CheckTemperature() bool                  { return c.temperature }
func (c *toggleCapabilities) CheckSecurityAccess() bool               { return c.security }
func (c *toggleCapabilities) CheckSoftwareVersionCompatibility() bool { return c.softwareVersion }
func (c *toggleCapabilities) CheckHardwareVersionCompatibility() bool { return c.hardwareVersion }
func (c *toggleCapabilities) CheckMemoryAvailability() bool           { return c.memory }

func newTestDispatcher() (*Dispatcher, *fakeClock) {
	clk := newFakeClock()
	d := NewDispatcher(NewDiscardLogger(), clk, allOKCapabilities())
	return d, clk
}

// enterProgramming drives the dispatcher into SessionProgramming the way a
// real tester would, via service 0x10.
func enterProgramming(d *Dispatcher) {
	d.Handle([]byte{ServiceDiagnosticSessionControl, 0x02})
}
