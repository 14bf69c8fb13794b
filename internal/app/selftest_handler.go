// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/iis2mdc"
	"github.com/relabs-tech/mag_computer/internal/mag"
	"github.com/relabs-tech/mag_computer/internal/sensors"
)

// RunSelfTest executes the magnetometer built-in self-test, logs the
// per-axis verdicts and publishes the report over MQTT.
func RunSelfTest() error {
	log.Println("starting magnetometer self-test")

	cfg := config.Get()

	mgr := sensors.GetMagManager()
	if err := mgr.Init(); err != nil {
		log.Printf("failed to initialize mag manager: %v", err)
		return err
	}

	result, err := mgr.SelfTest()
	if err != nil {
		log.Printf("self-test aborted: %v", err)
		return err
	}

	report := buildSelfTestReport(result)
	logSelfTestResult(result, report.Pass)

	if cfg.TopicSelfTest == "" {
		return nil
	}

	clientID := cfg.MQTTClientIDSelfTest
	if clientID == "" {
		clientID = "mag-selftest"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("MQTT connect error: %v", token.Error())
		return token.Error()
	}
	defer client.Disconnect(250)

	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if token := client.Publish(cfg.TopicSelfTest, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("MQTT publish error (selftest): %v", token.Error())
		return token.Error()
	}
	log.Printf("self-test report published to %s", cfg.TopicSelfTest)
	return nil
}

func buildSelfTestReport(result iis2mdc.SelfTestResult) mag.SelfTestReport {
	axes := []string{"X", "Y", "Z"}
	report := mag.SelfTestReport{
		Pass: result.Passed(),
		Time: time.Now().UTC().Format(time.RFC3339),
	}
	for i, name := range axes {
		report.Axes = append(report.Axes, mag.AxisSelfTest{
			Axis:         name,
			NormalMean:   result.NormalMean[i],
			SelfTestMean: result.SelfTestMean[i],
			Delta:        result.Delta[i],
			Pass:         result.Pass[i],
		})
	}
	return report
}

func logSelfTestResult(result iis2mdc.SelfTestResult, pass bool) {
	axes := []string{"X", "Y", "Z"}
	for i, name := range axes {
		verdict := "FAILED"
		if result.Pass[i] {
			verdict = "PASSED"
		}
		log.Printf("selftest %s: normal=%8.1f mG  stim=%8.1f mG  delta=%8.1f mG  [%.0f..%.0f]  %s",
			name,
			result.NormalMean[i], result.SelfTestMean[i], result.Delta[i],
			iis2mdc.SelfTestMinMG, iis2mdc.SelfTestMaxMG, verdict,
		)
	}
	if pass {
		log.Println("selftest: PASSED on all axes")
	} else {
		log.Println("selftest: FAILED")
	}
}
