// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package iis2mdc

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultAddr is the fixed 7-bit I²C address of the IIS2MDC.
const DefaultAddr uint16 = 0x1E

// Transport moves register-addressed bytes to and from the device. Both
// methods are blocking; errors from the underlying bus are returned
// unmodified. Multi-byte transfers rely on the device's register address
// auto-increment and are only used for the axis, offset and temperature
// register blocks.
type Transport interface {
	ReadRegister(reg byte, buf []byte) error
	WriteRegister(reg byte, buf []byte) error
}

type i2cTransport struct {
	dev i2c.Dev
}

// NewI2C binds the driver to an I²C bus. addr is the 7-bit device address;
// pass 0 for the default.
//
// A read is a write of the register address followed by a repeated-start
// read; a write is a single transaction of address byte plus payload. Both
// map directly onto i2c.Dev.Tx.
func NewI2C(bus i2c.Bus, addr uint16) Transport {
	if addr == 0 {
		addr = DefaultAddr
	}
	return &i2cTransport{dev: i2c.Dev{Bus: bus, Addr: addr}}
}

func (t *i2cTransport) ReadRegister(reg byte, buf []byte) error {
	return t.dev.Tx([]byte{reg}, buf)
}

func (t *i2cTransport) WriteRegister(reg byte, buf []byte) error {
	w := make([]byte, 0, 1+len(buf))
	w = append(w, reg)
	w = append(w, buf...)
	return t.dev.Tx(w, nil)
}

// spiReadBit is OR-ed into the address byte for SPI reads; writes keep it
// cleared.
const spiReadBit = 0x80

type spiTransport struct {
	conn spi.Conn
}

// NewSPI binds the driver to a 4-wire SPI port. The port's chip select is
// asserted for the duration of each transfer and released on every exit
// path, including transport errors; that scoping is owned by the periph
// spi.Conn obtained here.
func NewSPI(port spi.Port) (Transport, error) {
	c, err := port.Connect(10*physic.MegaHertz, spi.Mode3, 8)
	if err != nil {
		return nil, fmt.Errorf("iis2mdc: SPI connect: %w", err)
	}
	return &spiTransport{conn: c}, nil
}

func (t *spiTransport) ReadRegister(reg byte, buf []byte) error {
	w := make([]byte, 1+len(buf))
	w[0] = reg | spiReadBit
	r := make([]byte, 1+len(buf))
	if err := t.conn.Tx(w, r); err != nil {
		return err
	}
	copy(buf, r[1:])
	return nil
}

func (t *spiTransport) WriteRegister(reg byte, buf []byte) error {
	w := make([]byte, 0, 1+len(buf))
	w = append(w, reg&^byte(spiReadBit))
	w = append(w, buf...)
	return t.conn.Tx(w, nil)
}
