// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package iis2mdc

import (
	"encoding/binary"
	"errors"
)

var errSimBus = errors.New("simulated bus failure")

// simTransport emulates the IIS2MDC register file well enough to exercise
// the codec, the measurement pipeline and the self-test sequence without
// hardware: data-ready/flush semantics, soft-reset completion after a few
// polls, and a field bias while the self-test bit is set.
type simTransport struct {
	regs [0x70]byte

	field    [3]int16 // counts reported in normal operation
	stBias   [3]int16 // added while CFG_REG_C self-test bit is set
	temp     int16
	whoAmI   byte
	pending  bool // a sample is waiting to be read
	refill   bool // a new sample "arrives" after each consumed one
	resetTTL int  // CFG_REG_A reads until SOFT_RST self-clears

	failReg byte // register whose access fails, 0 = never
	reads   int
	writes  int
}

func newSimTransport() *simTransport {
	return &simTransport{whoAmI: DeviceID, refill: true, pending: true}
}

func (s *simTransport) ReadRegister(reg byte, buf []byte) error {
	if s.failReg != 0 && reg == s.failReg {
		return errSimBus
	}
	s.reads++
	switch {
	case reg == RegWhoAmI:
		buf[0] = s.whoAmI
	case reg == RegStatus:
		if s.pending {
			buf[0] = maskZYXDA | maskXDA | maskYDA | maskZDA
		} else {
			buf[0] = 0
			if s.refill {
				s.pending = true
			}
		}
	case reg == RegOutXL && len(buf) == 6:
		out := s.field
		if s.regs[RegCfgC]&maskSelfTest != 0 {
			for i := range out {
				out[i] += s.stBias[i]
			}
		}
		for i, v := range out {
			binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
		}
		s.pending = false
	case reg == RegTempOutL && len(buf) == 2:
		binary.LittleEndian.PutUint16(buf, uint16(s.temp))
	case reg == RegCfgA:
		if s.regs[RegCfgA]&maskSoftRst != 0 {
			if s.resetTTL > 0 {
				s.resetTTL--
			} else {
				s.regs[RegCfgA] &^= maskSoftRst
			}
		}
		buf[0] = s.regs[RegCfgA]
	default:
		for i := range buf {
			buf[i] = s.regs[int(reg)+i]
		}
	}
	return nil
}

func (s *simTransport) WriteRegister(reg byte, buf []byte) error {
	if s.failReg != 0 && reg == s.failReg {
		return errSimBus
	}
	s.writes++
	for i, b := range buf {
		s.regs[int(reg)+i] = b
	}
	if reg == RegCfgA && buf[0]&maskSoftRst != 0 {
		s.resetTTL = 2
	}
	return nil
}
