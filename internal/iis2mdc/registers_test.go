// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package iis2mdc

import (
	"testing"
	"time"
)

func TestBitHelpers(t *testing.T) {
	if got := setBits(0x00, maskRate, shiftRate, byte(Rate100Hz)); got != 0x0C {
		t.Errorf("setBits ODR: got 0x%02X, want 0x0C", got)
	}
	if got := setBits(0xFF, maskRate, shiftRate, byte(Rate10Hz)); got != 0xF3 {
		t.Errorf("setBits must clear the field first: got 0x%02X, want 0xF3", got)
	}
	// A value wider than the field must not leak into sibling bits.
	if got := setBits(0x00, maskSelfTest, shiftSelfTest, 0xFF); got != maskSelfTest {
		t.Errorf("setBits overflow: got 0x%02X, want 0x%02X", got, maskSelfTest)
	}
	if got := getBits(0x8C, maskRate, shiftRate); got != byte(Rate100Hz) {
		t.Errorf("getBits ODR: got %d, want %d", got, Rate100Hz)
	}
	if got := getBits(0x8C, maskTempComp, shiftTempComp); got != 1 {
		t.Errorf("getBits COMP_TEMP_EN: got %d, want 1", got)
	}
}

func newTestDev(t *testing.T, sim *simTransport) *Dev {
	t.Helper()
	d, err := New(sim, Opts{Sleep: func(time.Duration) {}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

// Setter-then-getter round-trips for every enum value, with the register
// pre-seeded so unrelated bits are provably untouched.
func TestDataRateRoundTrip(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	for _, r := range []DataRate{Rate10Hz, Rate20Hz, Rate50Hz, Rate100Hz} {
		sim.regs[RegCfgA] = 0x93 // LP, COMP_TEMP_EN and MD bits set
		if err := d.SetDataRate(r); err != nil {
			t.Fatalf("SetDataRate(%v): %v", r, err)
		}
		got, err := d.DataRate()
		if err != nil {
			t.Fatalf("DataRate: %v", err)
		}
		if got != r {
			t.Errorf("round trip: got %v, want %v", got, r)
		}
		if sim.regs[RegCfgA]&^maskRate != 0x93&^byte(maskRate) {
			t.Errorf("rate %v clobbered sibling bits: reg=0x%02X", r, sim.regs[RegCfgA])
		}
	}
}

func TestModeRoundTrip(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	for _, m := range []Mode{ModeContinuous, ModeSingle, ModeIdle} {
		sim.regs[RegCfgA] = 0x9C // ODR, LP, COMP_TEMP_EN set, MD clear
		if err := d.SetMode(m); err != nil {
			t.Fatalf("SetMode(%v): %v", m, err)
		}
		got, err := d.Mode()
		if err != nil {
			t.Fatalf("Mode: %v", err)
		}
		if got != m {
			t.Errorf("round trip: got %v, want %v", got, m)
		}
		if sim.regs[RegCfgA]&^maskMode != 0x9C {
			t.Errorf("mode %v clobbered sibling bits: reg=0x%02X", m, sim.regs[RegCfgA])
		}
	}
}

func TestModeDecodesBothIdleEncodings(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	sim.regs[RegCfgA] = 0x03 // MD=0b11, the power-on default
	m, err := d.Mode()
	if err != nil {
		t.Fatalf("Mode: %v", err)
	}
	if m != ModeIdle {
		t.Errorf("MD=0b11: got %v, want ModeIdle", m)
	}
}

func TestSetResetModeRoundTrip(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	for _, m := range []SetResetMode{SetResetEveryODRDiv63, SetResetEveryODR, SetResetPowerOnOnly} {
		sim.regs[RegCfgB] = 0x19 // LPF, INT_ON_DATAOFF, OFF_CANC_ONE_SHOT set
		if err := d.SetSetResetMode(m); err != nil {
			t.Fatalf("SetSetResetMode(%v): %v", m, err)
		}
		got, err := d.SetResetModeGet()
		if err != nil {
			t.Fatalf("SetResetModeGet: %v", err)
		}
		if got != m {
			t.Errorf("round trip: got %v, want %v", got, m)
		}
		if sim.regs[RegCfgB]&^maskSetReset != 0x19 {
			t.Errorf("set/reset %v clobbered sibling bits: reg=0x%02X", m, sim.regs[RegCfgB])
		}
	}
}

func TestFlagRoundTrips(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)

	sim.regs[RegCfgC] = 0x41 // DRDY_ON_PIN and INT_ON_PIN set
	if err := d.SetBlockDataUpdate(true); err != nil {
		t.Fatalf("SetBlockDataUpdate: %v", err)
	}
	if on, _ := d.BlockDataUpdate(); !on {
		t.Error("BDU round trip: got false, want true")
	}
	if err := d.SetSelfTest(true); err != nil {
		t.Fatalf("SetSelfTest: %v", err)
	}
	if on, _ := d.SelfTestEnabled(); !on {
		t.Error("self-test round trip: got false, want true")
	}
	if sim.regs[RegCfgC]&^byte(maskBDU|maskSelfTest) != 0x41 {
		t.Errorf("CFG_REG_C sibling bits clobbered: reg=0x%02X", sim.regs[RegCfgC])
	}

	if err := d.SetTemperatureCompensation(true); err != nil {
		t.Fatalf("SetTemperatureCompensation: %v", err)
	}
	if on, _ := d.TemperatureCompensation(); !on {
		t.Error("temp comp round trip: got false, want true")
	}
	if err := d.SetTemperatureCompensation(false); err != nil {
		t.Fatalf("SetTemperatureCompensation(false): %v", err)
	}
	if on, _ := d.TemperatureCompensation(); on {
		t.Error("temp comp round trip: got true, want false")
	}
}

func TestSetModeAndRateIsOneWrite(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	sim.regs[RegCfgA] = 0x83 // COMP_TEMP_EN set, MD=idle
	sim.writes = 0
	if err := d.SetModeAndRate(ModeContinuous, Rate100Hz); err != nil {
		t.Fatalf("SetModeAndRate: %v", err)
	}
	if sim.writes != 1 {
		t.Errorf("mode+rate update took %d writes, want 1", sim.writes)
	}
	if sim.regs[RegCfgA] != 0x8C {
		t.Errorf("CFG_REG_A: got 0x%02X, want 0x8C", sim.regs[RegCfgA])
	}
}

func TestRateForHz(t *testing.T) {
	for hz, want := range map[int]DataRate{10: Rate10Hz, 20: Rate20Hz, 50: Rate50Hz, 100: Rate100Hz} {
		got, ok := RateForHz(hz)
		if !ok || got != want {
			t.Errorf("RateForHz(%d) = %v, %v; want %v, true", hz, got, ok, want)
		}
	}
	if _, ok := RateForHz(75); ok {
		t.Error("RateForHz(75) accepted an unsupported rate")
	}
}
