// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package iis2mdc

import (
	"errors"
	"math"
	"testing"
)

func TestNewChecksIdentity(t *testing.T) {
	sim := newSimTransport()
	if _, err := New(sim, Opts{}); err != nil {
		t.Fatalf("New with matching WHO_AM_I: %v", err)
	}

	sim.whoAmI = 0x3D
	_, err := New(sim, Opts{})
	if !errors.Is(err, ErrIdentityMismatch) {
		t.Fatalf("New with wrong WHO_AM_I: got %v, want ErrIdentityMismatch", err)
	}
}

func TestNewPropagatesTransportError(t *testing.T) {
	sim := newSimTransport()
	sim.failReg = RegWhoAmI
	_, err := New(sim, Opts{})
	if !errors.Is(err, errSimBus) {
		t.Fatalf("got %v, want wrapped bus error", err)
	}
}

func TestRawMagneticFieldLittleEndian(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	sim.field = [3]int16{0x1234, -2, -32768}
	raw, err := d.RawMagneticField()
	if err != nil {
		t.Fatalf("RawMagneticField: %v", err)
	}
	if raw != [3]int16{0x1234, -2, -32768} {
		t.Errorf("got %v", raw)
	}
}

func TestFieldConversionLinearity(t *testing.T) {
	if got := FieldMilligauss(0); got != 0 {
		t.Errorf("f(0) = %v, want 0", got)
	}
	for _, raw := range []int16{1, -1, 100, -273, 16000} {
		f1 := FieldMilligauss(raw)
		f2 := FieldMilligauss(2 * raw)
		if math.Abs(f2-2*f1) > 1e-9 {
			t.Errorf("linearity broken at %d: f(2x)=%v, 2*f(x)=%v", raw, f2, 2*f1)
		}
	}
	if got := FieldMilligauss(100); got != 150 {
		t.Errorf("sensitivity: f(100) = %v, want 150", got)
	}
}

func TestTempConversion(t *testing.T) {
	if got := TempCelsius(0); got != 25 {
		t.Errorf("t(0) = %v, want the 25°C reference", got)
	}
	if got := TempCelsius(8); got != 26 {
		t.Errorf("t(8) = %v, want 26", got)
	}
	prev := math.Inf(-1)
	for raw := -200; raw <= 200; raw += 10 {
		c := TempCelsius(int16(raw))
		if c <= prev {
			t.Fatalf("not monotonic at raw=%d: %v <= %v", raw, c, prev)
		}
		prev = c
	}
}

func TestTemperatureCelsius(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	sim.temp = -40 // 8 LSB/°C below the 25°C reference
	c, err := d.TemperatureCelsius()
	if err != nil {
		t.Fatalf("TemperatureCelsius: %v", err)
	}
	if c != 20 {
		t.Errorf("got %v, want 20", c)
	}
}

// A fresh read consumes the only pending sample; with no new data the
// second data-ready poll must report not-ready.
func TestDataReadyFlushSemantics(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	sim.refill = false
	sim.pending = true

	ready, err := d.DataReady()
	if err != nil || !ready {
		t.Fatalf("first poll: ready=%v err=%v, want true", ready, err)
	}
	if _, err := d.RawMagneticField(); err != nil {
		t.Fatalf("RawMagneticField: %v", err)
	}
	ready, err = d.DataReady()
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if ready {
		t.Error("second poll after consuming the sample: got ready, want not-ready")
	}
}

func TestSoftResetCompletes(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	if err := d.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	pending, err := d.ResetInProgress()
	if err != nil {
		t.Fatalf("ResetInProgress: %v", err)
	}
	if !pending {
		t.Fatal("reset should still be pending right after Reset")
	}
	// The production poll is unbounded; the test bounds its own loop so a
	// stuck simulation fails instead of hanging.
	for i := 0; pending; i++ {
		if i > 10 {
			t.Fatal("reset bit never cleared")
		}
		pending, err = d.ResetInProgress()
		if err != nil {
			t.Fatalf("ResetInProgress: %v", err)
		}
	}
}

func TestOffsetsRoundTrip(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	want := [3]int16{-120, 45, 3000}
	if err := d.SetOffsets(want); err != nil {
		t.Fatalf("SetOffsets: %v", err)
	}
	got, err := d.Offsets()
	if err != nil {
		t.Fatalf("Offsets: %v", err)
	}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInterruptThresholdRoundTrip(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	if err := d.SetInterruptThreshold(1234); err != nil {
		t.Fatalf("SetInterruptThreshold: %v", err)
	}
	got, err := d.InterruptThreshold()
	if err != nil {
		t.Fatalf("InterruptThreshold: %v", err)
	}
	if got != 1234 {
		t.Errorf("got %d, want 1234", got)
	}
}

func TestTransportErrorsPropagate(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)

	sim.failReg = RegOutXL
	if _, err := d.RawMagneticField(); !errors.Is(err, errSimBus) {
		t.Errorf("RawMagneticField: got %v, want bus error", err)
	}
	sim.failReg = RegStatus
	if _, err := d.DataReady(); !errors.Is(err, errSimBus) {
		t.Errorf("DataReady: got %v, want bus error", err)
	}
	sim.failReg = RegCfgA
	if err := d.SetDataRate(Rate50Hz); !errors.Is(err, errSimBus) {
		t.Errorf("SetDataRate: got %v, want bus error", err)
	}
}

func TestHaltPowersDown(t *testing.T) {
	sim := newSimTransport()
	d := newTestDev(t, sim)
	if err := d.Halt(); err != nil {
		t.Fatalf("Halt: %v", err)
	}
	m, err := d.Mode()
	if err != nil {
		t.Fatalf("Mode: %v", err)
	}
	if m != ModeIdle {
		t.Errorf("mode after Halt: got %v, want ModeIdle", m)
	}
}
