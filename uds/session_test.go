package uds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticSessionControl(t *testing.T) {
	cases := []struct {
		name    string
		sub     byte
		want    Session
		wantErr bool
	}{
		{"default", 0x01, SessionDefault, false},
		{"programming", 0x02, SessionProgramming, false},
		{"extended", 0x03, SessionExtended, false},
		{"safety system", 0x04, SessionSafetySystem, false},
		{"unsupported", 0x05, SessionDefault, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, _ := newTestDispatcher()
			resp := d.Handle([]byte{ServiceDiagnosticSessionControl, c.sub})
			if c.wantErr {
				assert.Equal(t, []byte{0x7F, 0x10, 0x12}, resp)
				return
			}
			assert.Equal(t, []byte{0x50, c.sub, 0x00, 0x32, 0x01, 0xF4}, resp)
			assert.Equal(t, c.want, d.Session())
		})
	}
}

func TestDiagnosticSessionControlShortRequest(t *testing.T) {
	d, _ := newTestDispatcher()
	resp := d.Handle([]byte{ServiceDiagnosticSessionControl})
	assert.Equal(t, []byte{0x7F, 0x10, 0x13}, resp)
}

func TestECUResetRevertsSession(t *testing.T) {
	d, _ := newTestDispatcher()
	enterProgramming(d)

	resp := d.Handle([]byte{ServiceECUReset, 0x01})
	assert.Equal(t, []byte{0x51, 0x01}, resp)
	assert.Equal(t, SessionDefault, d.Session())
}

func TestECUResetUnsupportedSubFunction(t *testing.T) {
	d, _ := newTestDispatcher()
	resp := d.Handle([]byte{ServiceECUReset, 0x09})
	assert.Equal(t, []byte{0x7F, 0x11, 0x12}, resp)
}

func TestTesterPresentOutOfRange(t *testing.T) {
	d, _ := newTestDispatcher()
	resp := d.Handle([]byte{ServiceTesterPresent, 0x7F})
	assert.Equal(t, []byte{0x7F, 0x3E, 0x31}, resp)
}
