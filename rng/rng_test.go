package rng

import "testing"

func TestStepRNGDeterministic(t *testing.T) {
	seed := uint32(0)

	for i := 0; i < 16; i++ {
		seed = StepRNG(seed)
	}

	again := uint32(0)
	for i := 0; i < 16; i++ {
		again = StepRNG(again)
	}

	if seed != again {
		t.Fatalf("StepRNG is not deterministic: %x != %x", seed, again)
	}
}

func TestSharedDerivationAgreesAcrossPeers(t *testing.T) {
	const seed = 0x0123456789ABCDEF

	offererShared := NewShared(seed)
	offererRNG1Offerer := GenerateRNG1State(offererShared)
	offererRNG1Answerer := GenerateRNG1State(offererShared)
	offererRNG2 := GenerateRNG2State(offererShared)

	answererShared := NewShared(seed)
	answererRNG1Offerer := GenerateRNG1State(answererShared)
	answererRNG1Answerer := GenerateRNG1State(answererShared)
	answererRNG2 := GenerateRNG2State(answererShared)

	if offererRNG1Offerer != answererRNG1Offerer {
		t.Fatalf("offerer rng1 candidate diverged: %x != %x", offererRNG1Offerer, answererRNG1Offerer)
	}

	if offererRNG1Answerer != answererRNG1Answerer {
		t.Fatalf("answerer rng1 candidate diverged: %x != %x", offererRNG1Answerer, answererRNG1Answerer)
	}

	if offererRNG2 != answererRNG2 {
		t.Fatalf("rng2 diverged: %x != %x", offererRNG2, answererRNG2)
	}
}
