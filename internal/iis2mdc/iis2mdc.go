// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package iis2mdc drives the ST IIS2MDC 3-axis magnetometer over I²C or
// SPI. The driver owns its transport for its whole lifetime and is meant
// to be used from a single goroutine; it assumes it is the only bus master
// talking to the device.
package iis2mdc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrIdentityMismatch is returned when WHO_AM_I does not read back the
// expected DeviceID. Whether that is fatal is the caller's call.
var ErrIdentityMismatch = errors.New("iis2mdc: device identity mismatch")

// Sensitivity constants from the datasheet.
const (
	sensitivityMG  = 1.5  // mG per LSB
	tempLSBPerDegC = 8.0  // LSB per °C
	tempReferenceC = 25.0 // °C at a raw reading of 0
)

// Opts holds construction options.
type Opts struct {
	// Sleep is the delay provider used for stabilization waits. Defaults
	// to time.Sleep; tests inject a no-op.
	Sleep func(time.Duration)
}

// Dev is a handle to one IIS2MDC.
type Dev struct {
	t     Transport
	sleep func(time.Duration)
}

// New verifies the device identity over the given transport and returns a
// handle. A WHO_AM_I mismatch returns an error wrapping
// ErrIdentityMismatch.
func New(t Transport, opts Opts) (*Dev, error) {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	d := &Dev{t: t, sleep: sleep}
	id, err := d.ID()
	if err != nil {
		return nil, fmt.Errorf("iis2mdc: read WHO_AM_I: %w", err)
	}
	if id != DeviceID {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrIdentityMismatch, id, DeviceID)
	}
	return d, nil
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return "IIS2MDC"
}

// Halt powers the sensor down.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return d.SetMode(ModeIdle)
}

// ID reads the WHO_AM_I register.
func (d *Dev) ID() (byte, error) {
	return d.ReadRegister(RegWhoAmI)
}

// ReadRegister reads a single register byte. Exposed for the register
// debug tooling; normal use goes through the typed accessors.
func (d *Dev) ReadRegister(reg byte) (byte, error) {
	var b [1]byte
	if err := d.t.ReadRegister(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteRegister writes a single register byte. Exposed for the register
// debug tooling.
func (d *Dev) WriteRegister(reg, val byte) error {
	return d.t.WriteRegister(reg, []byte{val})
}

// updateRegister read-modify-writes one bitfield, preserving all sibling
// bits in the register byte.
func (d *Dev) updateRegister(reg, mask, shift, val byte) error {
	cur, err := d.ReadRegister(reg)
	if err != nil {
		return err
	}
	return d.WriteRegister(reg, setBits(cur, mask, shift, val))
}

func boolBit(on bool) byte {
	if on {
		return 1
	}
	return 0
}

// SetDataRate sets the output data rate.
func (d *Dev) SetDataRate(r DataRate) error {
	return d.updateRegister(RegCfgA, maskRate, shiftRate, byte(r))
}

// DataRate reads back the output data rate.
func (d *Dev) DataRate() (DataRate, error) {
	b, err := d.ReadRegister(RegCfgA)
	return DataRate(getBits(b, maskRate, shiftRate)), err
}

// SetMode sets the operating mode.
func (d *Dev) SetMode(m Mode) error {
	return d.updateRegister(RegCfgA, maskMode, shiftMode, byte(m))
}

// Mode reads back the operating mode.
func (d *Dev) Mode() (Mode, error) {
	b, err := d.ReadRegister(RegCfgA)
	m := Mode(getBits(b, maskMode, shiftMode))
	if m > ModeIdle {
		m = ModeIdle
	}
	return m, err
}

// SetModeAndRate updates the operating mode and the output data rate in a
// single read-modify-write of CFG_REG_A. Both fields live in the same
// register byte; merging the update avoids an intermediate state where one
// field is new and the other stale.
func (d *Dev) SetModeAndRate(m Mode, r DataRate) error {
	cur, err := d.ReadRegister(RegCfgA)
	if err != nil {
		return err
	}
	cur = setBits(cur, maskMode, shiftMode, byte(m))
	cur = setBits(cur, maskRate, shiftRate, byte(r))
	return d.WriteRegister(RegCfgA, cur)
}

// SetSetResetMode sets the set/reset pulse policy.
func (d *Dev) SetSetResetMode(m SetResetMode) error {
	return d.updateRegister(RegCfgB, maskSetReset, shiftSetReset, byte(m))
}

// SetResetModeGet reads back the set/reset pulse policy.
func (d *Dev) SetResetModeGet() (SetResetMode, error) {
	b, err := d.ReadRegister(RegCfgB)
	return SetResetMode(getBits(b, maskSetReset, shiftSetReset)), err
}

// SetBlockDataUpdate enables or disables block data update. With it off, a
// multi-byte output read can straddle an in-progress sample update and
// tear the value; calibrated reads are only meaningful with it on.
func (d *Dev) SetBlockDataUpdate(on bool) error {
	return d.updateRegister(RegCfgC, maskBDU, shiftBDU, boolBit(on))
}

// BlockDataUpdate reads back the block data update flag.
func (d *Dev) BlockDataUpdate() (bool, error) {
	b, err := d.ReadRegister(RegCfgC)
	return getBits(b, maskBDU, shiftBDU) == 1, err
}

// SetTemperatureCompensation enables the hardware temperature
// compensation of the magnetic output.
func (d *Dev) SetTemperatureCompensation(on bool) error {
	return d.updateRegister(RegCfgA, maskTempComp, shiftTempComp, boolBit(on))
}

// TemperatureCompensation reads back the temperature compensation flag.
func (d *Dev) TemperatureCompensation() (bool, error) {
	b, err := d.ReadRegister(RegCfgA)
	return getBits(b, maskTempComp, shiftTempComp) == 1, err
}

// SetSelfTest enables or disables the built-in self-test stimulus.
func (d *Dev) SetSelfTest(on bool) error {
	return d.updateRegister(RegCfgC, maskSelfTest, shiftSelfTest, boolBit(on))
}

// SelfTestEnabled reads back the self-test flag.
func (d *Dev) SelfTestEnabled() (bool, error) {
	b, err := d.ReadRegister(RegCfgC)
	return getBits(b, maskSelfTest, shiftSelfTest) == 1, err
}

// SetLowPower switches between high-resolution and low-power modes.
func (d *Dev) SetLowPower(on bool) error {
	return d.updateRegister(RegCfgA, maskLowPower, shiftLowPower, boolBit(on))
}

// SetLowPassFilter enables the digital low-pass filter (bandwidth ODR/4
// instead of ODR/2).
func (d *Dev) SetLowPassFilter(on bool) error {
	return d.updateRegister(RegCfgB, maskLPF, shiftLPF, boolBit(on))
}

// Reset requests a soft reset of the configuration registers. The reset is
// asynchronous in hardware: poll ResetInProgress until it reads false, or
// use WaitForReset.
func (d *Dev) Reset() error {
	return d.updateRegister(RegCfgA, maskSoftRst, shiftSoftRst, 1)
}

// ResetInProgress reports whether a soft reset is still pending.
func (d *Dev) ResetInProgress() (bool, error) {
	b, err := d.ReadRegister(RegCfgA)
	return getBits(b, maskSoftRst, shiftSoftRst) == 1, err
}

// WaitForReset polls until the soft reset bit clears. The poll is
// unbounded, matching the documented device behavior; a device that never
// clears the bit is a hardware fault.
func (d *Dev) WaitForReset() error {
	for {
		pending, err := d.ResetInProgress()
		if err != nil {
			return err
		}
		if !pending {
			return nil
		}
	}
}

// SetOffsets writes the hard-iron offset registers for the three axes.
func (d *Dev) SetOffsets(off [3]int16) error {
	var buf [6]byte
	for i, v := range off {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}
	return d.t.WriteRegister(RegOffsetXL, buf[:])
}

// Offsets reads back the hard-iron offset registers.
func (d *Dev) Offsets() ([3]int16, error) {
	var buf [6]byte
	if err := d.t.ReadRegister(RegOffsetXL, buf[:]); err != nil {
		return [3]int16{}, err
	}
	var off [3]int16
	for i := range off {
		off[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	return off, nil
}

// SetInterruptThreshold writes the interrupt generator threshold.
func (d *Dev) SetInterruptThreshold(ths int16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(ths))
	return d.t.WriteRegister(RegIntThsL, buf[:])
}

// InterruptThreshold reads back the interrupt generator threshold.
func (d *Dev) InterruptThreshold() (int16, error) {
	var buf [2]byte
	if err := d.t.ReadRegister(RegIntThsL, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

// DataReady reports whether a new XYZ sample is available (STATUS_REG
// ZYXDA bit).
func (d *Dev) DataReady() (bool, error) {
	b, err := d.ReadRegister(RegStatus)
	return b&maskZYXDA != 0, err
}

// RawMagneticField burst-reads the three axis output registers as signed
// 16-bit little-endian counts.
func (d *Dev) RawMagneticField() ([3]int16, error) {
	var buf [6]byte
	if err := d.t.ReadRegister(RegOutXL, buf[:]); err != nil {
		return [3]int16{}, err
	}
	var raw [3]int16
	for i := range raw {
		raw[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	return raw, nil
}

// RawTemperature reads the raw temperature output.
func (d *Dev) RawTemperature() (int16, error) {
	var buf [2]byte
	if err := d.t.ReadRegister(RegTempOutL, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

// MagneticFieldMG reads one sample and converts it to milligauss.
func (d *Dev) MagneticFieldMG() ([3]float64, error) {
	raw, err := d.RawMagneticField()
	if err != nil {
		return [3]float64{}, err
	}
	var mg [3]float64
	for i, v := range raw {
		mg[i] = FieldMilligauss(v)
	}
	return mg, nil
}

// TemperatureCelsius reads the temperature and converts it to °C.
func (d *Dev) TemperatureCelsius() (float64, error) {
	raw, err := d.RawTemperature()
	if err != nil {
		return 0, err
	}
	return TempCelsius(raw), nil
}

// FieldMilligauss converts a raw axis count to milligauss.
func FieldMilligauss(raw int16) float64 {
	return float64(raw) * sensitivityMG
}

// TempCelsius converts a raw temperature count to °C.
func TempCelsius(raw int16) float64 {
	return float64(raw)/tempLSBPerDegC + tempReferenceC
}
