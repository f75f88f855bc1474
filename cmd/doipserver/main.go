// Command doipserver runs the DoIP/UDS ECU simulator.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arpith99/doip-uds-server/doip"
	"github.com/arpith99/doip-uds-server/internal/config"
	"github.com/arpith99/doip-uds-server/internal/ecu"
	"github.com/arpith99/doip-uds-server/internal/logging"
)

var configFile = flag.String("config", "", "path to a YAML config file (optional, built-in defaults if omitted)")

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Printf("doipserver: failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log := logging.New(cfg.Logger)
	log.Infof("doipserver: starting, listen=%s vin=%s", cfg.Server.ListenAddr, cfg.Identity.VIN)

	identity := identityFromConfig(cfg.Identity)
	srv := doip.NewServer(cfg.Server.ListenAddr, identity, log)
	srv.IdleTimeout = time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second
	srv.Capabilities = ecu.NewCapabilities()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Errorf("doipserver: listener exited: %v", err)
		os.Exit(1)
	case s := <-sig:
		log.Infof("doipserver: received %s, shutting down", s)
		srv.Shutdown()
	}
}

func identityFromConfig(c config.IdentityConfig) doip.Identity {
	id := doip.DefaultIdentity()
	id.LogicalAddress = c.LogicalAddress
	id.EID = [2]byte{byte(c.EntityID >> 8), byte(c.EntityID)}

	vin := []byte(c.VIN)
	for i := 0; i < len(id.VIN) && i < len(vin); i++ {
		id.VIN[i] = vin[i]
	}
	return id
}
