package uds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func requestDownloadReq(address, size uint32) []byte {
	req := []byte{ServiceRequestDownload, 0x00, 0x00}
	req = append(req, byte(address>>24), byte(address>>16), byte(address>>8), byte(address))
	req = append(req, byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	return req
}

func TestDownloadHappyPath(t *testing.T) {
	d, _ := newTestDispatcher()
	enterProgramming(d)

	resp := d.Handle(requestDownloadReq(0x00001000, 4))
	assert.Equal(t, []byte{0x74, 0x04, 0x00}, resp)
	assert.True(t, d.TransferInProgress())

	resp = d.Handle([]byte{ServiceTransferData, 0x01, 0xDE, 0xAD})
	assert.Equal(t, []byte{0x76, 0x01}, resp)
	assert.True(t, d.TransferInProgress())

	resp = d.Handle([]byte{ServiceTransferData, 0x02, 0xBE, 0xEF})
	assert.Equal(t, []byte{0x76, 0x02}, resp)
	assert.False(t, d.TransferInProgress()) // declared size reached

	resp = d.Handle([]byte{ServiceRequestTransferExit})
	assert.Equal(t, []byte{0x77}, resp)
}

func TestRequestDownloadRequiresProgrammingSession(t *testing.T) {
	d, _ := newTestDispatcher()
	resp := d.Handle(requestDownloadReq(0x1000, 4))
	assert.Equal(t, []byte{0x7F, 0x34, 0x22}, resp)
}

func TestRequestDownloadShortAddressIsIncorrectLength(t *testing.T) {
	d, _ := newTestDispatcher()
	enterProgramming(d)
	resp := d.Handle([]byte{ServiceRequestDownload, 0x00, 0x00, 0x00, 0x00})
	assert.Equal(t, []byte{0x7F, 0x34, 0x13}, resp)
}

func TestTransferDataWrongCounterFirstBlock(t *testing.T) {
	d, _ := newTestDispatcher()
	enterProgramming(d)
	d.Handle(requestDownloadReq(0x1000, 4))

	resp := d.Handle([]byte{ServiceTransferData, 0x00, 0xAA})
	assert.Equal(t, []byte{0x7F, 0x36, 0x73}, resp)
}

func TestTransferDataWrongCounterThenRecovers(t *testing.T) {
	d, _ := newTestDispatcher()
	enterProgramming(d)
	d.Handle(requestDownloadReq(0x1000, 4))

	resp := d.Handle([]byte{ServiceTransferData, 0x02, 0xAA})
	assert.Equal(t, []byte{0x7F, 0x36, 0x73}, resp)
	assert.True(t, d.TransferInProgress())

	resp = d.Handle([]byte{ServiceTransferData, 0x01, 0xAA})
	assert.Equal(t, []byte{0x76, 0x01}, resp)
}

func TestTransferDataWithoutDownloadContext(t *testing.T) {
	d, _ := newTestDispatcher()
	enterProgramming(d)
	resp := d.Handle([]byte{ServiceTransferData, 0x01, 0xAA})
	assert.Equal(t, []byte{0x7F, 0x36, 0x22}, resp)
}

func TestTransferDataCounterWrapsModulo256(t *testing.T) {
	d, _ := newTestDispatcher()
	enterProgramming(d)
	d.Handle(requestDownloadReq(0x1000, 1<<20)) // large enough that 256 blocks won't finish it

	counter := byte(1)
	for i := 0; i < 260; i++ {
		resp := d.Handle([]byte{ServiceTransferData, counter, 0xAA})
		assert.Equal(t, []byte{0x76, counter}, resp, "block %d", i)
		counter++ // wraps at 256 back to 0, matching the expected sequence
	}
}

func TestRequestTransferExitWithoutDownloadContext(t *testing.T) {
	d, _ := newTestDispatcher()
	resp := d.Handle([]byte{ServiceRequestTransferExit})
	assert.Equal(t, []byte{0x7F, 0x37, 0x22}, resp)
}

func TestRequestDownloadThenExitWithNoTransferLeavesStateUntouched(t *testing.T) {
	d, _ := newTestDispatcher()
	enterProgramming(d)

	d.Handle(requestDownloadReq(0x1000, 4))
	assert.True(t, d.TransferInProgress())

	resp := d.Handle([]byte{ServiceRequestTransferExit})
	assert.Equal(t, []byte{0x77}, resp)
	assert.False(t, d.TransferInProgress())
}
