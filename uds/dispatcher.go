package uds

import "time"

// Dispatcher holds all mutable diagnostic state for a single tester
// connection: the active session, the download and erase sub-machines, and
// the bookkeeping the session timer needs. One Dispatcher belongs to
// exactly one DoIP connection; it is never shared.
type Dispatcher struct {
	log  Logger
	clk  Clock
	caps Capabilities

	session      Session
	lastActivity time.Time
	testerPresent bool

	download *downloadContext
	erase    *eraseContext

	handlers map[byte]func(*Dispatcher, []byte) []byte
}

// NewDispatcher builds a dispatcher starting in SessionDefault, as happens
// for every freshly accepted DoIP connection.
func NewDispatcher(log Logger, clk Clock, caps Capabilities) *Dispatcher {
	if log == nil {
		log = NewDiscardLogger()
	}
	if clk == nil {
		clk = NewSystemClock()
	}
	if caps == nil {
		caps = DefaultCapabilities{}
	}

	d := &Dispatcher{
		log:          log,
		clk:          clk,
		caps:         caps,
		session:      SessionDefault,
		lastActivity: clk.Now(),
	}

	d.handlers = map[byte]func(*Dispatcher, []byte) []byte{
		ServiceDiagnosticSessionControl: handleDiagnosticSessionControl,
		ServiceECUReset:                 handleECUReset,
		ServiceTesterPresent:            handleTesterPresent,
		ServiceRequestDownload:          handleRequestDownload,
		ServiceTransferData:             handleTransferData,
		ServiceRequestTransferExit:      handleRequestTransferExit,
		ServiceRoutineControl:           handleRoutineControl,
	}

	return d
}

// Handle turns one UDS request into one UDS response. It never blocks and
// always returns a response — positive or negative.
func (d *Dispatcher) Handle(request []byte) []byte {
	now := d.clk.Now()
	if now.Sub(d.lastActivity) > d.session.Timeout() {
		d.log.Debugf("uds: session %s timed out, reverting to default", d.session)
		d.session = SessionDefault
	}
	d.lastActivity = now

	if len(request) == 0 {
		d.log.Warn("uds: empty request, general reject")
		return negativeResponse(0x00, NRCGeneralReject)
	}

	sid := request[0]
	handler, ok := d.handlers[sid]
	if !ok {
		d.log.Warnf("uds: service 0x%02X not supported", sid)
		return negativeResponse(sid, NRCServiceNotSupported)
	}

	d.log.Debugf("uds: dispatching service 0x%02X in session %s", sid, d.session)
	return handler(d, request)
}

// Session reports the dispatcher's current diagnostic session.
func (d *Dispatcher) Session() Session { return d.session }

// TesterPresent reports whether the tester last declared itself present.
func (d *Dispatcher) TesterPresent() bool { return d.testerPresent }

// TransferInProgress reports whether a download sequence is open. It
// mirrors the invariant transferInProgress ⇔ download context present.
func (d *Dispatcher) TransferInProgress() bool { return d.download != nil }
