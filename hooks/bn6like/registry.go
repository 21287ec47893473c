package bn6like

import "github.com/maxpoletaev/tango/hooks"

// Known BN6-family cartridge revisions, named after bn6.rs's lazy_static
// registrations (MEGAMAN6_FXX, MEGAMAN6_GXX, ROCKEXE6_RXX, ROCKEXE6_GXX).
// The game codes are representative, not the real GBA header bytes (see
// offsets.go's note on the memory layout).
func init() {
	for _, id := range []hooks.ROMID{
		{Code: [4]byte{'B', 'R', '5', 'E'}, Revision: 0}, // MEGAMAN6_FXX
		{Code: [4]byte{'B', 'R', '6', 'E'}, Revision: 0}, // MEGAMAN6_GXX
		{Code: [4]byte{'B', 'R', '5', 'J'}, Revision: 1}, // ROCKEXE6_RXX
		{Code: [4]byte{'B', 'R', '6', 'J'}, Revision: 1}, // ROCKEXE6_GXX
	} {
		hooks.Register(New(id))
	}
}
