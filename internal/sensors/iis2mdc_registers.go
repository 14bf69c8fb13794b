// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// BitField describes one named field within a register.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterInfo carries register metadata for the debug tooling.
type RegisterInfo struct {
	Address     string     `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// getIIS2MDCRegisterMap returns metadata for all IIS2MDC registers.
// This provides register names, descriptions, access types, and bit field definitions.
func getIIS2MDCRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		// Hard-iron offset registers
		{Address: "0x45", Name: "OFFSET_X_REG_L", Description: "X-Axis Hard-Iron Offset Low Byte", Access: "RW", Default: "0x00"},
		{Address: "0x46", Name: "OFFSET_X_REG_H", Description: "X-Axis Hard-Iron Offset High Byte", Access: "RW", Default: "0x00"},
		{Address: "0x47", Name: "OFFSET_Y_REG_L", Description: "Y-Axis Hard-Iron Offset Low Byte", Access: "RW", Default: "0x00"},
		{Address: "0x48", Name: "OFFSET_Y_REG_H", Description: "Y-Axis Hard-Iron Offset High Byte", Access: "RW", Default: "0x00"},
		{Address: "0x49", Name: "OFFSET_Z_REG_L", Description: "Z-Axis Hard-Iron Offset Low Byte", Access: "RW", Default: "0x00"},
		{Address: "0x4A", Name: "OFFSET_Z_REG_H", Description: "Z-Axis Hard-Iron Offset High Byte", Access: "RW", Default: "0x00"},

		// Device Identification
		{Address: "0x4F", Name: "WHO_AM_I", Description: "Device ID (should be 0x40)", Access: "R", Default: "0x40"},

		// Configuration Registers
		{Address: "0x60", Name: "CFG_REG_A", Description: "Configuration Register A", Access: "RW", Default: "0x03",
			BitFields: []BitField{
				{Bits: "7", Name: "COMP_TEMP_EN", Description: "Temperature compensation", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "REBOOT", Description: "Reboot memory content", Values: "1=Reboot"},
				{Bits: "5", Name: "SOFT_RST", Description: "Soft reset", Values: "1=Reset configuration and user registers"},
				{Bits: "4", Name: "LP", Description: "Low-power mode", Values: "0=High resolution, 1=Low power"},
				{Bits: "3:2", Name: "ODR", Description: "Output data rate", Values: "0=10Hz, 1=20Hz, 2=50Hz, 3=100Hz"},
				{Bits: "1:0", Name: "MD", Description: "Operating mode", Values: "0=Continuous, 1=Single, 2/3=Idle"},
			}},
		{Address: "0x61", Name: "CFG_REG_B", Description: "Configuration Register B", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "4", Name: "OFF_CANC_ONE_SHOT", Description: "Offset cancellation in single mode", Values: "0=Disabled, 1=Enabled"},
				{Bits: "3", Name: "INT_on_DataOFF", Description: "Interrupt check after offset correction", Values: "0=Disabled, 1=Enabled"},
				{Bits: "2:1", Name: "SET_RST", Description: "Set/reset pulse frequency", Values: "0=Every 63 ODR, 1=Every ODR, 2=Power-on only"},
				{Bits: "0", Name: "LPF", Description: "Digital low-pass filter", Values: "0=ODR/2 bandwidth, 1=ODR/4 bandwidth"},
			}},
		{Address: "0x62", Name: "CFG_REG_C", Description: "Configuration Register C", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "6", Name: "INT_on_PIN", Description: "Interrupt signal on INT/DRDY pin", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "I2C_DIS", Description: "I2C interface disable", Values: "0=Enabled, 1=SPI only"},
				{Bits: "4", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Output not updated until MSB+LSB read"},
				{Bits: "3", Name: "BLE", Description: "Big/little endian data selection", Values: "0=LSB at lower address, 1=MSB at lower address"},
				{Bits: "1", Name: "SELF_TEST", Description: "Self-test stimulus", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "DRDY_on_PIN", Description: "Data-ready signal on INT/DRDY pin", Values: "0=Disabled, 1=Enabled"},
			}},

		// Interrupt Configuration
		{Address: "0x63", Name: "INT_CTRL_REG", Description: "Interrupt Control Register", Access: "RW", Default: "0xE0",
			BitFields: []BitField{
				{Bits: "7", Name: "XIEN", Description: "X-axis interrupt enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "YIEN", Description: "Y-axis interrupt enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "ZIEN", Description: "Z-axis interrupt enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "2", Name: "IEA", Description: "Interrupt polarity", Values: "0=Active low, 1=Active high"},
				{Bits: "1", Name: "IEL", Description: "Interrupt latching", Values: "0=Pulsed, 1=Latched"},
				{Bits: "0", Name: "IEN", Description: "Interrupt enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x64", Name: "INT_SOURCE_REG", Description: "Interrupt Source Register", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "P_TH_S_X", Description: "X exceeds positive threshold", Values: ""},
				{Bits: "6", Name: "P_TH_S_Y", Description: "Y exceeds positive threshold", Values: ""},
				{Bits: "5", Name: "P_TH_S_Z", Description: "Z exceeds positive threshold", Values: ""},
				{Bits: "4", Name: "N_TH_S_X", Description: "X exceeds negative threshold", Values: ""},
				{Bits: "3", Name: "N_TH_S_Y", Description: "Y exceeds negative threshold", Values: ""},
				{Bits: "2", Name: "N_TH_S_Z", Description: "Z exceeds negative threshold", Values: ""},
				{Bits: "1", Name: "MROI", Description: "Internal measurement range overflow", Values: ""},
				{Bits: "0", Name: "INT", Description: "Interrupt occurred", Values: ""},
			}},
		{Address: "0x65", Name: "INT_THS_L_REG", Description: "Interrupt Threshold Low Byte", Access: "RW", Default: "0x00"},
		{Address: "0x66", Name: "INT_THS_H_REG", Description: "Interrupt Threshold High Byte", Access: "RW", Default: "0x00"},

		// Status
		{Address: "0x67", Name: "STATUS_REG", Description: "Status Register", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "Zyxor", Description: "XYZ data overrun", Values: ""},
				{Bits: "6", Name: "zor", Description: "Z data overrun", Values: ""},
				{Bits: "5", Name: "yor", Description: "Y data overrun", Values: ""},
				{Bits: "4", Name: "xor", Description: "X data overrun", Values: ""},
				{Bits: "3", Name: "Zyxda", Description: "XYZ new data available", Values: "0=No new set, 1=New data set ready"},
				{Bits: "2", Name: "zda", Description: "Z new data available", Values: ""},
				{Bits: "1", Name: "yda", Description: "Y new data available", Values: ""},
				{Bits: "0", Name: "xda", Description: "X new data available", Values: ""},
			}},

		// Output Registers (Read-Only)
		{Address: "0x68", Name: "OUTX_L_REG", Description: "X-Axis Output Low Byte", Access: "R"},
		{Address: "0x69", Name: "OUTX_H_REG", Description: "X-Axis Output High Byte", Access: "R"},
		{Address: "0x6A", Name: "OUTY_L_REG", Description: "Y-Axis Output Low Byte", Access: "R"},
		{Address: "0x6B", Name: "OUTY_H_REG", Description: "Y-Axis Output High Byte", Access: "R"},
		{Address: "0x6C", Name: "OUTZ_L_REG", Description: "Z-Axis Output Low Byte", Access: "R"},
		{Address: "0x6D", Name: "OUTZ_H_REG", Description: "Z-Axis Output High Byte", Access: "R"},
		{Address: "0x6E", Name: "TEMP_OUT_L_REG", Description: "Temperature Output Low Byte", Access: "R"},
		{Address: "0x6F", Name: "TEMP_OUT_H_REG", Description: "Temperature Output High Byte", Access: "R"},
	}
}
