// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/heading"
	"github.com/relabs-tech/mag_computer/internal/sensors"
)

// RunMagProducer reads the magnetometer on a fixed tick and publishes
// calibrated samples plus the derived heading over MQTT.
func RunMagProducer() error {
	log.Println("starting mag_computer field/heading producer")

	cfg := config.Get()

	mgr := sensors.GetMagManager()
	if err := mgr.Init(); err != nil {
		log.Printf("failed to initialize mag manager: %v", err)
		return err
	}

	clientID := cfg.MQTTClientIDProducer
	if clientID == "" {
		clientID = "mag-producer"
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

	topicMag := cfg.TopicMag
	if topicMag == "" {
		topicMag = "mag/sample"
	}
	topicHeading := cfg.TopicHeading
	if topicHeading == "" {
		topicHeading = "mag/heading"
	}

	log.Println("connected to MQTT, starting publish loop")

	ticker := time.NewTicker(time.Duration(cfg.MagSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	ticks := 0
	for t := range ticker.C {
		sample, err := mgr.Read()
		if err != nil {
			if errors.Is(err, sensors.ErrNoSample) {
				continue
			}
			log.Printf("mag read error: %v", err)
			continue
		}

		payload, err := json.Marshal(sample)
		if err != nil {
			log.Printf("json marshal error (sample): %v", err)
			continue
		}
		if token := client.Publish(topicMag, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (mag): %v", token.Error())
			continue
		}

		h := heading.Heading{
			Degrees: heading.FromField(sample.MxMG, sample.MyMG, cfg.HeadingDeclinationDeg),
			Time:    sample.Time,
		}
		if payload, err := json.Marshal(h); err != nil {
			log.Printf("json marshal error (heading): %v", err)
		} else if token := client.Publish(topicHeading, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (heading): %v", token.Error())
		}

		// Log roughly once a second regardless of the tick rate.
		ticks++
		perSecond := int(time.Second / (time.Duration(cfg.MagSampleInterval) * time.Millisecond))
		if perSecond < 1 {
			perSecond = 1
		}
		if ticks%perSecond == 0 {
			log.Printf("%s tick: mag mx=%d my=%d mz=%d | |B|=%.1f mG | temp=%.1fC | hdg=%.1f",
				t.Format(time.RFC3339),
				sample.Mx, sample.My, sample.Mz,
				sample.NormMG, sample.TempC, h.Degrees,
			)
		}
	}
	return nil
}
