// Command tangoserve hosts or joins a two-peer netplay session headlessly:
// it loads a ROM and an optional save state, builds a Match, and runs the
// primary/pump loops until the connection drops or the match is cancelled.
// There is no graphical shell here (spec.md §1's out-of-scope UI); input is
// not sampled from anywhere real either, since the physical-input
// collaborator is out of scope too (spec.md §6) — tangoserve exists to
// exercise the netplay core end to end, the way cmd/dendy/server.go does
// for the single-process teacher.
package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/maxpoletaev/tango/emu/fakecore"
	"github.com/maxpoletaev/tango/hooks"
	_ "github.com/maxpoletaev/tango/hooks/bn3like"
	_ "github.com/maxpoletaev/tango/hooks/bn6like"
	"github.com/maxpoletaev/tango/match"
	"github.com/maxpoletaev/tango/transport"
)

const (
	sendQueueLen  = 1024
	sendRateLimit = 240 // messages/sec, generous headroom over one per tick
)

type opts struct {
	listenAddr string
	connectAddr string
	romPath     string
	savePath    string
	offerer     bool
	localPlayer uint
	delay       uint
	remoteDelay uint
	maxQueue    int
	seed        int64
	matchType   uint
}

func parseOpts() *opts {
	o := &opts{}

	flag.StringVar(&o.listenAddr, "listen", "", "listen address, e.g. :8080 (mutually exclusive with -connect)")
	flag.StringVar(&o.connectAddr, "connect", "", "peer address to connect to, e.g. 127.0.0.1:8080")
	flag.StringVar(&o.romPath, "rom", "", "path to the ROM image")
	flag.StringVar(&o.savePath, "save", "", "optional save-state path to preload")
	flag.BoolVar(&o.offerer, "offerer", false, "this peer is the handshake offerer (server is offerer by default)")
	flag.UintVar(&o.localPlayer, "player", 0, "local player index (0 or 1)")
	flag.UintVar(&o.delay, "delay", 3, "local input delay in ticks")
	flag.UintVar(&o.remoteDelay, "remote-delay", 3, "remote input delay in ticks")
	flag.IntVar(&o.maxQueue, "queue", 16, "max queue length (must be >= delay+2)")
	flag.Int64Var(&o.seed, "seed", 0, "RNG handshake seed; 0 derives one from a random session id")
	flag.UintVar(&o.matchType, "match-type", 0, "match type byte passed to the cartridge")

	flag.Parse()

	return o
}

func main() {
	o := parseOpts()

	if (o.listenAddr == "") == (o.connectAddr == "") {
		log.Fatal("[ERROR] exactly one of -listen or -connect is required")
	}

	rom, err := os.ReadFile(o.romPath)
	if err != nil {
		log.Fatalf("[ERROR] failed to read rom: %v", err)
	}

	romID, err := parseROMID(rom)
	if err != nil {
		log.Fatalf("[ERROR] failed to parse rom header: %v", err)
	}

	game, err := hooks.Lookup(romID)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	sessionID := uuid.New()
	log.Printf("[INFO] session %s: rom=%s", sessionID, romID)

	conn, isOfferer := dialOrListen(o)

	tr := transport.New(conn, sendQueueLen, sendRateLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr.Start(ctx)

	seed := o.seed
	if seed == 0 {
		seed = int64(binary.LittleEndian.Uint64(sessionID[:8]))
	}

	cfg := match.Config{
		LocalPlayerIndex: uint8(o.localPlayer),
		IsOfferer:        isOfferer,
		MatchType:        uint8(o.matchType),
		LocalDelay:       uint8(o.delay),
		RemoteDelay:      uint8(o.remoteDelay),
		MaxQueueLength:   o.maxQueue,
		RNGSeed:          seed,
	}

	primaryCore := fakecore.New(nil)
	shadowCore := fakecore.New(nil)
	ffCore := fakecore.New(nil)

	for _, c := range []*fakecore.Core{primaryCore, shadowCore, ffCore} {
		if err := c.LoadROM(rom); err != nil {
			log.Fatalf("[ERROR] failed to load rom into core: %v", err)
		}
	}

	if o.savePath != "" {
		if err := loadState(primaryCore, o.savePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("[ERROR] failed to load save state: %v", err)
		}
	}

	m := match.New(cfg, game, primaryCore, shadowCore, ffCore, tr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Printf("[INFO] shutting down...")
		cancel()
	}()

	pumpErrCh := make(chan error, 1)
	go func() { pumpErrCh <- m.Pump(ctx) }()

	runErr := m.RunPrimary(ctx)

	if o.savePath != "" {
		if err := saveState(primaryCore, o.savePath); err != nil {
			log.Printf("[ERROR] failed to save state: %v", err)
		} else {
			log.Printf("[INFO] state saved: %s", o.savePath)
		}
	}

	for _, res := range m.LastResults() {
		log.Printf("[INFO] round result: %s", res)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Printf("[ERROR] match ended: %v", runErr)
	}

	<-pumpErrCh
}

func dialOrListen(o *opts) (net.Conn, bool) {
	if o.listenAddr != "" {
		ln, err := net.Listen("tcp", o.listenAddr)
		if err != nil {
			log.Fatalf("[ERROR] failed to listen on %s: %v", o.listenAddr, err)
		}

		log.Printf("[INFO] waiting for peer on %s...", o.listenAddr)

		conn, err := ln.Accept()
		if err != nil {
			log.Fatalf("[ERROR] failed to accept connection: %v", err)
		}

		log.Printf("[INFO] peer connected: %s", conn.RemoteAddr())

		return conn, true
	}

	conn, err := net.Dial("tcp", o.connectAddr)
	if err != nil {
		log.Fatalf("[ERROR] failed to connect to %s: %v", o.connectAddr, err)
	}

	log.Printf("[INFO] connected to %s", o.connectAddr)

	return conn, false
}

// parseROMID reads the GBA cartridge header's game code and software
// version fields (offsets 0xAC and 0xBC respectively).
func parseROMID(rom []byte) (hooks.ROMID, error) {
	const (
		codeOffset    = 0xAC
		versionOffset = 0xBC
	)

	if len(rom) < versionOffset+1 {
		return hooks.ROMID{}, fmt.Errorf("rom too short to contain a header (%d bytes)", len(rom))
	}

	var id hooks.ROMID
	copy(id.Code[:], rom[codeOffset:codeOffset+4])
	id.Revision = rom[versionOffset]

	return id, nil
}

func loadState(c *fakecore.Core, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return c.LoadState(b)
}

func saveState(c *fakecore.Core, path string) error {
	state, err := c.SaveState()
	if err != nil {
		return err
	}

	return os.WriteFile(path, state, 0o644)
}
