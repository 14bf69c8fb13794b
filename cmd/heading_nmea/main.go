package main

import (
	"log"

	"github.com/relabs-tech/mag_computer/internal/app"
	"github.com/relabs-tech/mag_computer/internal/config"
)

func main() {
	log.Println("starting mag-computer NMEA output (MQTT → serial)")

	if err := config.InitGlobal("mag_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunHeadingNMEA(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
