// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package iis2mdc

import (
	"fmt"
	"math"
	"time"
)

// Self-test parameters from the datasheet application note.
const (
	// SelfTestSamples is the number of fresh samples averaged per regime.
	SelfTestSamples = 50
	// SelfTestMinMG and SelfTestMaxMG bound the acceptance band for the
	// per-axis delta between self-test and normal means.
	SelfTestMinMG = 15.0
	SelfTestMaxMG = 500.0

	powerUpSettle  = 20 * time.Millisecond
	selfTestSettle = 60 * time.Millisecond
)

// SelfTestResult holds the outcome of one complete self-test run. Values
// are per axis in X, Y, Z order; field units are milligauss.
type SelfTestResult struct {
	NormalMean   [3]float64
	SelfTestMean [3]float64
	Delta        [3]float64
	Pass         [3]bool
}

// Passed reports whether all three axes passed.
func (r SelfTestResult) Passed() bool {
	return r.Pass[0] && r.Pass[1] && r.Pass[2]
}

// selfTestState enumerates the strict linear progression of the self-test
// sequence. There is no branching back; any transport error aborts the run.
type selfTestState int

const (
	stateIdle selfTestState = iota
	stateNormalConfig
	stateNormalSample
	stateSelfTestConfig
	stateSelfTestSample
	stateEvaluate
	stateCleanup
)

// SelfTest runs the built-in self-test procedure: reset and configure for
// continuous 100 Hz output, average 50 fresh samples, enable the self-test
// stimulus, average 50 more, and classify the per-axis delta against
// [SelfTestMinMG, SelfTestMaxMG]. The device is left powered down with
// self-test disabled.
//
// The first transport error aborts the whole sequence; no partial verdict
// is reported. The sequence is repeatable since cleanup returns the device
// to a known idle state.
func (d *Dev) SelfTest() (SelfTestResult, error) {
	var res SelfTestResult
	for state := stateNormalConfig; state != stateIdle; {
		var err error
		switch state {
		case stateNormalConfig:
			err = d.selfTestNormalConfig()
			state = stateNormalSample
		case stateNormalSample:
			res.NormalMean, err = d.collectMean(SelfTestSamples)
			state = stateSelfTestConfig
		case stateSelfTestConfig:
			err = d.selfTestConfig()
			state = stateSelfTestSample
		case stateSelfTestSample:
			res.SelfTestMean, err = d.collectMean(SelfTestSamples)
			state = stateEvaluate
		case stateEvaluate:
			res.Delta, res.Pass = EvaluateSelfTest(res.NormalMean, res.SelfTestMean)
			state = stateCleanup
		case stateCleanup:
			err = d.selfTestCleanup()
			state = stateIdle
		}
		if err != nil {
			return SelfTestResult{}, fmt.Errorf("iis2mdc: self-test aborted: %w", err)
		}
	}
	return res, nil
}

// EvaluateSelfTest classifies the per-axis difference between the
// self-test and normal means against the acceptance band. Pure function,
// exported so the verdict logic is testable without hardware or timing.
func EvaluateSelfTest(normal, selfTest [3]float64) (delta [3]float64, pass [3]bool) {
	for i := 0; i < 3; i++ {
		delta[i] = math.Abs(selfTest[i] - normal[i])
		pass[i] = delta[i] >= SelfTestMinMG && delta[i] <= SelfTestMaxMG
	}
	return delta, pass
}

// selfTestNormalConfig restores the default configuration and brings the
// device up in continuous mode at 100 Hz.
func (d *Dev) selfTestNormalConfig() error {
	if err := d.Reset(); err != nil {
		return err
	}
	if err := d.WaitForReset(); err != nil {
		return err
	}
	if err := d.SetBlockDataUpdate(true); err != nil {
		return err
	}
	if err := d.SetSetResetMode(SetResetEveryODR); err != nil {
		return err
	}
	if err := d.SetTemperatureCompensation(true); err != nil {
		return err
	}
	if err := d.SetModeAndRate(ModeContinuous, Rate100Hz); err != nil {
		return err
	}
	d.sleep(powerUpSettle)
	return nil
}

// selfTestConfig enables the self-test stimulus and waits for the output
// to stabilize.
func (d *Dev) selfTestConfig() error {
	if err := d.SetSelfTest(true); err != nil {
		return err
	}
	d.sleep(selfTestSettle)
	return nil
}

// selfTestCleanup powers the device down and disables the stimulus.
func (d *Dev) selfTestCleanup() error {
	if err := d.SetMode(ModeIdle); err != nil {
		return err
	}
	return d.SetSelfTest(false)
}

// collectMean discards one stale sample if one is immediately ready, then
// blocks until n fresh samples have been read and returns the per-axis
// mean in milligauss. Polling is a tight loop on DataReady with no
// backoff, as on the reference firmware.
func (d *Dev) collectMean(n int) ([3]float64, error) {
	if err := d.flushSample(); err != nil {
		return [3]float64{}, err
	}
	var sum [3]float64
	for i := 0; i < n; {
		ready, err := d.DataReady()
		if err != nil {
			return [3]float64{}, err
		}
		if !ready {
			continue
		}
		raw, err := d.RawMagneticField()
		if err != nil {
			return [3]float64{}, err
		}
		for axis, v := range raw {
			sum[axis] += FieldMilligauss(v)
		}
		i++
	}
	var mean [3]float64
	for axis := range sum {
		mean[axis] = sum[axis] / float64(n)
	}
	return mean, nil
}

// flushSample consumes one pending sample so stale pre-reconfiguration
// data never enters an average.
func (d *Dev) flushSample() error {
	ready, err := d.DataReady()
	if err != nil {
		return err
	}
	if ready {
		if _, err := d.RawMagneticField(); err != nil {
			return err
		}
	}
	return nil
}
