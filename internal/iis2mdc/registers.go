// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package iis2mdc

// Register map for the IIS2MDC (datasheet table 26). Addresses and bit
// positions must match the datasheet exactly.
const (
	RegOffsetXL  = 0x45 // X hard-iron offset, low byte
	RegOffsetXH  = 0x46
	RegOffsetYL  = 0x47
	RegOffsetYH  = 0x48
	RegOffsetZL  = 0x49
	RegOffsetZH  = 0x4A
	RegWhoAmI    = 0x4F
	RegCfgA      = 0x60
	RegCfgB      = 0x61
	RegCfgC      = 0x62
	RegIntCtrl   = 0x63
	RegIntSource = 0x64
	RegIntThsL   = 0x65
	RegIntThsH   = 0x66
	RegStatus    = 0x67
	RegOutXL     = 0x68 // X, Y, Z output, 6 consecutive bytes, little-endian
	RegOutXH     = 0x69
	RegOutYL     = 0x6A
	RegOutYH     = 0x6B
	RegOutZL     = 0x6C
	RegOutZH     = 0x6D
	RegTempOutL  = 0x6E
	RegTempOutH  = 0x6F
)

// DeviceID is the fixed WHO_AM_I value.
const DeviceID = 0x40

// CFG_REG_A fields.
const (
	maskMode      = 0x03
	shiftMode     = 0
	maskRate      = 0x0C
	shiftRate     = 2
	maskLowPower  = 0x10
	shiftLowPower = 4
	maskSoftRst   = 0x20
	shiftSoftRst  = 5
	maskReboot    = 0x40
	shiftReboot   = 6
	maskTempComp  = 0x80
	shiftTempComp = 7
)

// CFG_REG_B fields.
const (
	maskLPF       = 0x01
	shiftLPF      = 0
	maskSetReset  = 0x06
	shiftSetReset = 1
)

// CFG_REG_C fields.
const (
	maskDRDYPin   = 0x01
	shiftDRDYPin  = 0
	maskSelfTest  = 0x02
	shiftSelfTest = 1
	maskBLE       = 0x08
	shiftBLE      = 3
	maskBDU       = 0x10
	shiftBDU      = 4
	maskI2CDis    = 0x20
	shiftI2CDis   = 5
	maskIntPin    = 0x40
	shiftIntPin   = 6
)

// STATUS_REG fields.
const (
	maskXDA   = 0x01
	maskYDA   = 0x02
	maskZDA   = 0x04
	maskZYXDA = 0x08
	maskZYXOR = 0x80
)

// getBits extracts a bitfield from a register byte.
func getBits(reg, mask, shift byte) byte {
	return (reg & mask) >> shift
}

// setBits merges a bitfield value into a register byte, leaving all bits
// outside mask untouched.
func setBits(reg, mask, shift, val byte) byte {
	return (reg &^ mask) | ((val << shift) & mask)
}

// DataRate selects the output data rate (CFG_REG_A ODR bits).
type DataRate byte

const (
	Rate10Hz  DataRate = 0
	Rate20Hz  DataRate = 1
	Rate50Hz  DataRate = 2
	Rate100Hz DataRate = 3
)

// RateForHz maps an integer rate in Hz to the matching DataRate code.
func RateForHz(hz int) (DataRate, bool) {
	switch hz {
	case 10:
		return Rate10Hz, true
	case 20:
		return Rate20Hz, true
	case 50:
		return Rate50Hz, true
	case 100:
		return Rate100Hz, true
	}
	return 0, false
}

// Hz returns the rate in Hz.
func (r DataRate) Hz() int {
	return []int{10, 20, 50, 100}[r&0x03]
}

// Mode selects the operating mode (CFG_REG_A MD bits).
type Mode byte

const (
	ModeContinuous Mode = 0
	ModeSingle     Mode = 1
	// ModeIdle powers the sensor down. The hardware treats both 0b10 and
	// 0b11 as idle; reads of either decode to ModeIdle.
	ModeIdle Mode = 2
)

// SetResetMode selects how often the internal set/reset pulse cancels the
// sensor offset drift (CFG_REG_B OFF_CANC + SET_FREQ bits).
type SetResetMode byte

const (
	SetResetEveryODRDiv63 SetResetMode = 0
	SetResetEveryODR      SetResetMode = 1
	SetResetPowerOnOnly   SetResetMode = 2
)
