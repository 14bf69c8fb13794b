package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/heading"
)

// nmeaSentence formats a talker sentence with its XOR checksum, e.g.
// "$HCHDM,123.4,M*2A\r\n". The checksum covers everything between '$'
// and '*'.
func nmeaSentence(body string) string {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", body, sum)
}

// headingSentences renders the HDM (magnetic) and HDT (true) sentences
// for one heading. degTrue already includes the declination; degMag is
// the raw magnetic heading.
func headingSentences(degMag, degTrue float64) []string {
	return []string{
		nmeaSentence(fmt.Sprintf("HCHDM,%.1f,M", degMag)),
		nmeaSentence(fmt.Sprintf("HCHDT,%.1f,T", degTrue)),
	}
}

// RunHeadingNMEA subscribes to the heading topic and re-emits each
// heading as NMEA 0183 compass sentences on a serial port.
func RunHeadingNMEA() error {
	cfg := config.Get()

	if cfg.NMEASerialPort == "" {
		return fmt.Errorf("NMEA_SERIAL_PORT is required for the NMEA output")
	}
	baud := cfg.NMEABaudRate
	if baud == 0 {
		baud = 4800
	}

	// ---- 1) Open the output serial port ----
	serialOpts := serial.OpenOptions{
		PortName:              cfg.NMEASerialPort,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Printf("NMEA serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	// ---- 2) Connect to MQTT broker ----
	clientID := cfg.MQTTClientIDNMEA
	if clientID == "" {
		clientID = "mag-nmea-output"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("NMEA output connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 3) Re-emit every heading as HDM/HDT sentences ----
	done := make(chan error, 1)
	token := client.Subscribe(cfg.TopicHeading, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var h heading.Heading
		if err := json.Unmarshal(msg.Payload(), &h); err != nil {
			log.Printf("NMEA: heading unmarshal error: %v", err)
			return
		}

		// The published heading is true heading; recover the magnetic
		// heading by removing the configured declination.
		degMag := h.Degrees - cfg.HeadingDeclinationDeg
		for degMag < 0 {
			degMag += 360
		}
		for degMag >= 360 {
			degMag -= 360
		}

		for _, s := range headingSentences(degMag, h.Degrees) {
			if _, err := port.Write([]byte(s)); err != nil {
				log.Printf("NMEA serial write error: %v", err)
				done <- err
				return
			}
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("NMEA output subscribed to %s", cfg.TopicHeading)

	err = <-done
	client.Disconnect(250)
	return err
}
