package mag

// Sample represents a single calibrated magnetometer reading suitable for
// JSON and MQTT.
type Sample struct {
	Mx int16 `json:"mx"` // raw counts
	My int16 `json:"my"`
	Mz int16 `json:"mz"`

	MxMG float64 `json:"mx_mg"` // milligauss
	MyMG float64 `json:"my_mg"`
	MzMG float64 `json:"mz_mg"`

	NormMG float64 `json:"norm_mg"` // field magnitude
	TempC  float64 `json:"temp_c"`  // °C
	Time   string  `json:"time"`    // RFC3339
}

// AxisSelfTest is the self-test outcome for one axis.
type AxisSelfTest struct {
	Axis         string  `json:"axis"` // "X", "Y" or "Z"
	NormalMean   float64 `json:"normal_mean_mg"`
	SelfTestMean float64 `json:"selftest_mean_mg"`
	Delta        float64 `json:"delta_mg"`
	Pass         bool    `json:"pass"`
}

// SelfTestReport is a full self-test run suitable for JSON and MQTT.
type SelfTestReport struct {
	Pass bool           `json:"pass"` // all axes
	Axes []AxisSelfTest `json:"axes"`
	Time string         `json:"time"` // RFC3339
}
