// Command tangoreplay plays back a recorded match file (see replay.Recorder)
// headlessly and reports the round result, exercising the same Replayer
// role a live Match uses for rollback but over a file instead of a live
// fast-forward (spec.md §2, §8).
package main

import (
	"flag"
	"log"
	"os"

	"github.com/maxpoletaev/tango/emu/fakecore"
	"github.com/maxpoletaev/tango/hooks"
	_ "github.com/maxpoletaev/tango/hooks/bn3like"
	_ "github.com/maxpoletaev/tango/hooks/bn6like"
	"github.com/maxpoletaev/tango/replay"
)

func main() {
	var (
		romPath     string
		recPath     string
		savePath    string
		romCode     string
		romRevision uint
	)

	flag.StringVar(&romPath, "rom", "", "path to the ROM image")
	flag.StringVar(&recPath, "rec", "", "path to the recorded match file")
	flag.StringVar(&savePath, "save", "", "optional path to write the final state to")
	flag.StringVar(&romCode, "code", "", "4-character game code, overrides the rom header's")
	flag.UintVar(&romRevision, "revision", 0, "cartridge revision, overrides the rom header's")

	flag.Parse()

	if romPath == "" || recPath == "" {
		log.Fatal("[ERROR] both -rom and -rec are required")
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		log.Fatalf("[ERROR] failed to read rom: %v", err)
	}

	id, err := romID(rom, romCode, romRevision)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	game, err := hooks.Lookup(id)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	recFile, err := os.Open(recPath)
	if err != nil {
		log.Fatalf("[ERROR] failed to open recording: %v", err)
	}
	defer recFile.Close()

	r := replay.NewReader(recFile)

	header, err := r.ReadHeader()
	if err != nil {
		log.Fatalf("[ERROR] failed to read recording header: %v", err)
	}

	log.Printf("[INFO] round %d, local player %d, match type %d, opponent %q", header.RoundNumber, header.LocalPlayerIndex, header.MatchType, header.OpponentName)

	core := fakecore.New(nil)

	if err := core.LoadROM(rom); err != nil {
		log.Fatalf("[ERROR] failed to load rom: %v", err)
	}

	player := replay.NewPlayer(core, game)

	res, err := player.Play(header, r)
	if err != nil {
		log.Fatalf("[ERROR] playback failed: %v", err)
	}

	log.Printf("[INFO] round result: %s", res.RoundResult)

	if savePath != "" {
		if err := os.WriteFile(savePath, res.FinalState, 0o644); err != nil {
			log.Fatalf("[ERROR] failed to write final state: %v", err)
		}

		log.Printf("[INFO] final state written: %s", savePath)
	}
}

func romID(rom []byte, code string, revision uint) (hooks.ROMID, error) {
	const (
		codeOffset    = 0xAC
		versionOffset = 0xBC
	)

	var id hooks.ROMID

	switch {
	case code != "":
		copy(id.Code[:], code)
		id.Revision = uint8(revision)
	case len(rom) >= versionOffset+1:
		copy(id.Code[:], rom[codeOffset:codeOffset+4])
		id.Revision = rom[versionOffset]
	default:
		return hooks.ROMID{}, os.ErrInvalid
	}

	return id, nil
}
