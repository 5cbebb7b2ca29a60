// command ninaprobe is a bring-up tool for a NINA Wi-Fi coprocessor
// wired to a host SPI bus and four GPIO control lines.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"ninadrv.dev/nina"
	"ninadrv.dev/periphspi"
)

var (
	spiPort = flag.String("spi", "", "SPI port name (empty selects the first available)")
	csPin   = flag.String("cs", "GPIO5", "chip-select GPIO pin name")
	rstPin  = flag.String("rst", "GPIO6", "reset GPIO pin name")
	bootPin = flag.String("gpio0", "GPIO9", "boot-mode (GPIO0) GPIO pin name")
	ackPin  = flag.String("ack", "GPIO10", "ready/ack GPIO pin name")
	resolve = flag.String("resolve", "", "if set, resolve this hostname after connecting")
	verbose = flag.Bool("v", false, "log every non-fatal protocol diagnostic")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ninaprobe: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	h, err := periphspi.Open(*spiPort, *csPin, *rstPin, *bootPin, *ackPin)
	if err != nil {
		return err
	}
	defer h.Close()

	control := &nina.ControlLines{
		CS:       h.Pins.CS,
		Boot:     h.Pins.Boot,
		Rst:      h.Pins.Rst,
		ReadyAck: h.Pins.Ack,
		Delay:    h.Delay,
	}
	if err := control.Init(); err != nil {
		return err
	}
	log.Print("resetting coprocessor")
	if err := control.Reset(); err != nil {
		return err
	}

	engine := &nina.Engine{Bus: h.Bus, Control: control}
	if *verbose {
		engine.Logf = log.Printf
	}

	version, err := nina.GetFwVersion(engine)
	if err != nil {
		return fmt.Errorf("get firmware version: %w", err)
	}
	log.Printf("firmware version: %s", version)

	status, err := nina.GetConnStatus(engine)
	if err != nil {
		return fmt.Errorf("get connection status: %w", err)
	}
	log.Printf("connection status: %s", status)

	if *resolve != "" {
		ip, err := nina.Resolve(engine, *resolve)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", *resolve, err)
		}
		log.Printf("%s resolves to %s", *resolve, ip)
	}
	return nil
}
