package ecu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesDefaultAllPass(t *testing.T) {
	c := NewCapabilities()
	assert.True(t, c.CheckVoltage())
	assert.True(t, c.CheckTemperature())
	assert.True(t, c.CheckSecurityAccess())
	assert.True(t, c.CheckSoftwareVersionCompatibility())
	assert.True(t, c.CheckHardwareVersionCompatibility())
	assert.True(t, c.CheckMemoryAvailability())
}

func TestCapabilitiesForceAndReset(t *testing.T) {
	c := NewCapabilities()
	c.ForceTemperatureFailure()
	assert.False(t, c.CheckTemperature())
	assert.True(t, c.CheckVoltage())

	c.ResetAll()
	assert.True(t, c.CheckTemperature())
}
