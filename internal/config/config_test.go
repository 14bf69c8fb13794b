package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mag_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `# mag_computer configuration
MQTT_BROKER=tcp://localhost:1883
MAG_TRANSPORT=i2c
MAG_I2C_BUS=1
MAG_I2C_ADDR=0x1E
MAG_ODR_HZ=100
MAG_SET_RESET_MODE=1
MAG_SAMPLE_INTERVAL=100
HEADING_DECLINATION_DEG=4.5
TOPIC_MAG=mag/sample
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MagI2CAddr != 0x1E {
		t.Errorf("MagI2CAddr: got 0x%02X, want 0x1E", cfg.MagI2CAddr)
	}
	if cfg.MagODRHz != 100 {
		t.Errorf("MagODRHz: got %d, want 100", cfg.MagODRHz)
	}
	if cfg.MagSetResetMode != 1 {
		t.Errorf("MagSetResetMode: got %d, want 1", cfg.MagSetResetMode)
	}
	if cfg.HeadingDeclinationDeg != 4.5 {
		t.Errorf("HeadingDeclinationDeg: got %v, want 4.5", cfg.HeadingDeclinationDeg)
	}
	if cfg.TopicMag != "mag/sample" {
		t.Errorf("TopicMag: got %q", cfg.TopicMag)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, validConfig+"BOGUS_KEY=1\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Fatalf("got %v, want unknown key error", err)
	}
}

func TestLoadRejectsBadODR(t *testing.T) {
	bad := strings.Replace(validConfig, "MAG_ODR_HZ=100", "MAG_ODR_HZ=75", 1)
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatal("accepted an unsupported output data rate")
	}
}

func TestLoadRequiresSPIDevice(t *testing.T) {
	bad := strings.Replace(validConfig, "MAG_TRANSPORT=i2c", "MAG_TRANSPORT=spi", 1)
	_, err := Load(writeConfig(t, bad))
	if err == nil || !strings.Contains(err.Error(), "MAG_SPI_DEVICE") {
		t.Fatalf("got %v, want MAG_SPI_DEVICE requirement", err)
	}
}

func TestLoadRequiresBroker(t *testing.T) {
	bad := strings.Replace(validConfig, "MQTT_BROKER=tcp://localhost:1883\n", "", 1)
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatal("accepted a config without MQTT_BROKER")
	}
}
