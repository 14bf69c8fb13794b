// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package heading

import (
	"time"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock heading source that sweeps slowly through
// the compass rose.
func NewMockSource() Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (Heading, error) {
	elapsed := time.Since(m.start).Seconds()

	deg := elapsed * 12.0 // full circle every 30 s
	for deg >= 360 {
		deg -= 360
	}
	return Heading{
		Degrees: deg,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}
