// Package ecu provides the simulator's concrete uds.Capabilities
// implementation: hardware/security checks that always pass unless an
// operator has deliberately forced one to fail, for exercising the cleared
// result bits of the RoutineControl precondition/dependency routines.
package ecu

import "sync/atomic"

// Capabilities is a uds.Capabilities implementation whose checks default to
// passing, exactly like the ECU firmware this was modeled on, but can be
// individually forced to fail at runtime (a test harness or an operator
// console toggling simulated failure injection).
type Capabilities struct {
	voltage      atomic.Bool
	temperature  atomic.Bool
	security     atomic.Bool
	swVersion    atomic.Bool
	hwVersion    atomic.Bool
	memAvailable atomic.Bool
}

// NewCapabilities returns a Capabilities with every check passing.
func NewCapabilities() *Capabilities {
	c := &Capabilities{}
	c.ResetAll()
	return c
}

// ResetAll restores every check to passing.
func (c *Capabilities) ResetAll() {
	c.voltage.Store(true)
	c.temperature.Store(true)
	c.security.Store(true)
	c.swVersion.Store(true)
	c.hwVersion.Store(true)
	c.memAvailable.Store(true)
}

// ForceVoltageFailure makes CheckVoltage report failure until reset.
func (c *Capabilities) ForceVoltageFailure() { c.voltage.Store(false) }

// ForceTemperatureFailure makes CheckTemperature report failure until reset.
func (c *Capabilities) ForceTemperatureFailure() { c.temperature.Store(false) }

// ForceSecurityAccessFailure makes CheckSecurityAccess report failure until reset.
func (c *Capabilities) ForceSecurityAccessFailure() { c.security.Store(false) }

// ForceSoftwareVersionFailure makes CheckSoftwareVersionCompatibility report
// failure until reset.
func (c *Capabilities) ForceSoftwareVersionFailure() { c.swVersion.Store(false) }

// ForceHardwareVersionFailure makes CheckHardwareVersionCompatibility report
// failure until reset.
func (c *Capabilities) ForceHardwareVersionFailure() { c.hwVersion.Store(false) }

// ForceMemoryAvailabilityFailure makes CheckMemoryAvailability report failure
// until reset.
func (c *Capabilities) ForceMemoryAvailabilityFailure() { c.memAvailable.Store(false) }

func (c *Capabilities) CheckVoltage() bool                     { return c.voltage.Load() }
func (c *Capabilities) CheckTemperature() bool                 { return c.temperature.Load() }
func (c *Capabilities) CheckSecurityAccess() bool               { return c.security.Load() }
func (c *Capabilities) CheckSoftwareVersionCompatibility() bool { return c.swVersion.Load() }
func (c *Capabilities) CheckHardwareVersionCompatibility() bool { return c.hwVersion.Load() }
func (c *Capabilities) CheckMemoryAvailability() bool           { return c.memAvailable.Load() }
