// Command motoplugasd drives a three-position linear actuator from real
// GPIO pins, running the same controller.Supervisor that cmd/bench and
// cmd/panel exercise against the simulated HAL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/periph/host"

	"github.com/Miceuz/motoplugas/controller"
	"github.com/Miceuz/motoplugas/hal/periphhal"
)

func defaultNames() periphhal.Names {
	return periphhal.Names{
		Up:           "GPIO5",
		Down:         "GPIO6",
		Program:      "GPIO13",
		ModeSelector: "GPIO19",
		ModePullDown: "GPIO26",
		Hall:         "GPIO21",
		LedTop:       "GPIO16",
		LedMid:       "GPIO20",
		LedBot:       "GPIO12",
		RelayUp:      "GPIO23",
		RelayDown:    "GPIO24",
		SpeedSelect:  "GPIO25",
	}
}

func tickPeriod(hz int) time.Duration {
	if hz <= 0 {
		hz = 100
	}
	return time.Second / time.Duration(hz)
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	nvramPath := flag.String("nvram", "/var/lib/motoplugasd/thresholds.bin", "path to the threshold store")
	tickHz := flag.Int("tick-hz", 100, "supervisor tick rate in Hz")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}

	pins, err := periphhal.Resolve(defaultNames())
	if err != nil {
		return fmt.Errorf("resolve pins: %w", err)
	}
	if err := periphhal.Setup(pins); err != nil {
		return fmt.Errorf("setup pins: %w", err)
	}

	nvram, err := periphhal.NewNVRAM(*nvramPath)
	if err != nil {
		return fmt.Errorf("open nvram: %w", err)
	}

	clock := periphhal.NewClock(tickPeriod(*tickHz))
	defer clock.Stop()
	pulses := periphhal.NewPulseSource(pins.Hall)

	sup := controller.NewSupervisor(pins, nvram, clock, pulses, controller.DefaultConfig())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("motoplugasd: starting, mode=%s position=%s", sup.Mode(), func() string { c, _ := sup.Position(); return c.String() }())
	sup.Run(ctx)
	log.Printf("motoplugasd: shutting down")
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "motoplugasd: %s.\n", err)
		os.Exit(1)
	}
}
