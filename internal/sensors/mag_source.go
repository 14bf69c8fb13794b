// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/iis2mdc"
	"github.com/relabs-tech/mag_computer/internal/mag"
)

// ErrNoSample is returned by Read when the sensor has not produced a new
// sample since the last read.
var ErrNoSample = errors.New("no new sample ready")

// MagManager owns the single IIS2MDC device. All access goes through the
// singleton so the producer and the register debug tool never race on the
// bus from separate device handles.
type MagManager struct {
	mu  sync.Mutex
	dev *iis2mdc.Dev
}

var (
	magManager *MagManager
	magOnce    sync.Once
	magInitErr error
)

// GetMagManager returns the process-wide magnetometer manager.
func GetMagManager() *MagManager {
	magOnce.Do(func() {
		magManager = &MagManager{}
	})
	return magManager
}

// Init opens the configured bus, verifies the device identity and brings
// the sensor up in continuous mode. Safe to call more than once; later
// calls return the first outcome.
func (m *MagManager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev != nil || magInitErr != nil {
		return magInitErr
	}
	magInitErr = m.init()
	return magInitErr
}

func (m *MagManager) init() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("mag: periph host init: %w", err)
	}

	var tr iis2mdc.Transport
	switch cfg.MagTransport {
	case "spi":
		port, err := spireg.Open(cfg.MagSPIDevice)
		if err != nil {
			return fmt.Errorf("mag: SPI open (%s): %w", cfg.MagSPIDevice, err)
		}
		tr, err = iis2mdc.NewSPI(port)
		if err != nil {
			return fmt.Errorf("mag: SPI transport: %w", err)
		}
		log.Printf("mag: using SPI transport on %s", cfg.MagSPIDevice)
	default:
		bus, err := i2creg.Open(cfg.MagI2CBus)
		if err != nil {
			return fmt.Errorf("mag: I2C open (%s): %w", cfg.MagI2CBus, err)
		}
		tr = iis2mdc.NewI2C(bus, cfg.MagI2CAddr)
		log.Printf("mag: using I2C transport on bus %q addr 0x%02X", cfg.MagI2CBus, cfg.MagI2CAddr)
	}

	dev, err := iis2mdc.New(tr, iis2mdc.Opts{})
	if err != nil {
		return fmt.Errorf("mag: device creation: %w", err)
	}
	log.Printf("mag: IIS2MDC identified (WHO_AM_I=0x%02X)", iis2mdc.DeviceID)

	if err := m.configure(dev, cfg); err != nil {
		return err
	}
	m.dev = dev
	return nil
}

// configure restores defaults and applies the configured measurement
// setup, mirroring the datasheet power-up sequence.
func (m *MagManager) configure(dev *iis2mdc.Dev, cfg *config.Config) error {
	if err := dev.Reset(); err != nil {
		return fmt.Errorf("mag: soft reset: %w", err)
	}
	if err := dev.WaitForReset(); err != nil {
		return fmt.Errorf("mag: reset poll: %w", err)
	}
	if err := dev.SetBlockDataUpdate(true); err != nil {
		return fmt.Errorf("mag: enable BDU: %w", err)
	}
	if err := dev.SetSetResetMode(iis2mdc.SetResetMode(cfg.MagSetResetMode)); err != nil {
		return fmt.Errorf("mag: set/reset mode: %w", err)
	}
	if err := dev.SetTemperatureCompensation(true); err != nil {
		return fmt.Errorf("mag: temperature compensation: %w", err)
	}
	rate, ok := iis2mdc.RateForHz(cfg.MagODRHz)
	if !ok {
		return fmt.Errorf("mag: unsupported output data rate %d Hz", cfg.MagODRHz)
	}
	if err := dev.SetModeAndRate(iis2mdc.ModeContinuous, rate); err != nil {
		return fmt.Errorf("mag: mode and rate: %w", err)
	}
	// Wait for a stable output after power up.
	time.Sleep(20 * time.Millisecond)
	log.Printf("mag: configured: continuous mode, %d Hz, BDU on, set/reset mode %d",
		cfg.MagODRHz, cfg.MagSetResetMode)
	return nil
}

// Read returns the next calibrated sample, or ErrNoSample when no fresh
// data is ready yet.
func (m *MagManager) Read() (mag.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return mag.Sample{}, errors.New("mag: manager not initialized")
	}

	ready, err := m.dev.DataReady()
	if err != nil {
		return mag.Sample{}, fmt.Errorf("mag: data ready poll: %w", err)
	}
	if !ready {
		return mag.Sample{}, ErrNoSample
	}

	raw, err := m.dev.RawMagneticField()
	if err != nil {
		return mag.Sample{}, fmt.Errorf("mag: field read: %w", err)
	}
	tempC, err := m.dev.TemperatureCelsius()
	if err != nil {
		return mag.Sample{}, fmt.Errorf("mag: temperature read: %w", err)
	}

	mx := iis2mdc.FieldMilligauss(raw[0])
	my := iis2mdc.FieldMilligauss(raw[1])
	mz := iis2mdc.FieldMilligauss(raw[2])
	return mag.Sample{
		Mx:     raw[0],
		My:     raw[1],
		Mz:     raw[2],
		MxMG:   mx,
		MyMG:   my,
		MzMG:   mz,
		NormMG: math.Sqrt(mx*mx + my*my + mz*mz),
		TempC:  tempC,
		Time:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// SelfTest runs the built-in self-test sequence. The device is left
// powered down; call Reconfigure before resuming measurements.
func (m *MagManager) SelfTest() (iis2mdc.SelfTestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return iis2mdc.SelfTestResult{}, errors.New("mag: manager not initialized")
	}
	return m.dev.SelfTest()
}

// Reconfigure reapplies the measurement configuration, e.g. after a
// self-test run powered the device down.
func (m *MagManager) Reconfigure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return errors.New("mag: manager not initialized")
	}
	return m.configure(m.dev, config.Get())
}

// GetRegisterMap returns the IIS2MDC register metadata for the debug tooling.
func (m *MagManager) GetRegisterMap() []RegisterInfo {
	return getIIS2MDCRegisterMap()
}

// ReadAllRegisters reads every documented register and returns address to
// value. Stops at the first bus error.
func (m *MagManager) ReadAllRegisters() (map[byte]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return nil, errors.New("mag: manager not initialized")
	}
	out := make(map[byte]byte)
	for _, info := range getIIS2MDCRegisterMap() {
		var addr byte
		if _, err := fmt.Sscanf(info.Address, "0x%X", &addr); err != nil {
			continue
		}
		val, err := m.dev.ReadRegister(addr)
		if err != nil {
			return nil, fmt.Errorf("mag: read 0x%02X: %w", addr, err)
		}
		out[addr] = val
	}
	return out, nil
}

// ReadRegister reads one raw register byte for the debug tooling.
func (m *MagManager) ReadRegister(addr byte) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return 0, errors.New("mag: manager not initialized")
	}
	return m.dev.ReadRegister(addr)
}

// WriteRegister writes one raw register byte for the debug tooling.
func (m *MagManager) WriteRegister(addr, val byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return errors.New("mag: manager not initialized")
	}
	return m.dev.WriteRegister(addr, val)
}
