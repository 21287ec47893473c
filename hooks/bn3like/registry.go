package bn3like

import "github.com/maxpoletaev/tango/hooks"

// Known BN3-family cartridge revisions, named after bn3.rs's lazy_static
// registrations (MEGA_EXE3_BLA3XE_00, MEGA_EXE3_WHA6BE_00,
// ROCK_EXE3_BKA3XJ_01, ROCKMAN_EXE3A6BJ_01). Representative codes, not
// real GBA header bytes.
func init() {
	for _, id := range []hooks.ROMID{
		{Code: [4]byte{'A', '3', 'X', 'E'}, Revision: 0}, // MEGA_EXE3_BLA3XE_00
		{Code: [4]byte{'A', '6', 'B', 'E'}, Revision: 0}, // MEGA_EXE3_WHA6BE_00
		{Code: [4]byte{'A', '3', 'X', 'J'}, Revision: 1}, // ROCK_EXE3_BKA3XJ_01
		{Code: [4]byte{'A', '6', 'B', 'J'}, Revision: 1}, // ROCKMAN_EXE3A6BJ_01
	} {
		hooks.Register(New(id))
	}
}
