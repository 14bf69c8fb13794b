package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/mag_computer/internal/config"
	"github.com/relabs-tech/mag_computer/internal/heading"
	"github.com/relabs-tech/mag_computer/internal/mag"
)

// RunConsole subscribes to the field, heading and self-test topics and
// prints everything it receives until interrupted.
func RunConsole() error {
	cfg := config.Get()

	clientID := cfg.MQTTClientIDConsole
	if clientID == "" {
		clientID = "mag-console-subscriber"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to field samples
	magToken := client.Subscribe(cfg.TopicMag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s mag.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: mag unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[MAG ]  mx=%8.1f my=%8.1f mz=%8.1f  |B|=%8.1f mG  temp=%5.1fC\n",
			s.MxMG, s.MyMG, s.MzMG, s.NormMG, s.TempC,
		)
	})
	magToken.Wait()
	if magToken.Error() != nil {
		return magToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicMag)

	// Subscribe to heading
	hdgToken := client.Subscribe(cfg.TopicHeading, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var h heading.Heading
		if err := json.Unmarshal(msg.Payload(), &h); err != nil {
			log.Printf("console: heading unmarshal error: %v", err)
			return
		}

		fmt.Printf("[HDG ]  %6.1f°\n", h.Degrees)
	})
	hdgToken.Wait()
	if hdgToken.Error() != nil {
		return hdgToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicHeading)

	// Subscribe to self-test reports
	if cfg.TopicSelfTest != "" {
		stToken := client.Subscribe(cfg.TopicSelfTest, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var r mag.SelfTestReport
			if err := json.Unmarshal(msg.Payload(), &r); err != nil {
				log.Printf("console: selftest unmarshal error: %v", err)
				return
			}

			verdict := "FAILED"
			if r.Pass {
				verdict = "PASSED"
			}
			fmt.Printf("[TEST]  %s at %s\n", verdict, r.Time)
			for _, a := range r.Axes {
				fmt.Printf("[TEST]    %s: delta=%8.1f mG pass=%v\n", a.Axis, a.Delta, a.Pass)
			}
		})
		stToken.Wait()
		if stToken.Error() != nil {
			return stToken.Error()
		}
		log.Printf("console: subscribed to %s", cfg.TopicSelfTest)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
