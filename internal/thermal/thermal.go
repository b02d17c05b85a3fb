// Package thermal reads device temperatures from sysfs thermal zones.
package thermal

import (
	"math"
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/thermalogd/internal/errors"
)

// DefaultZonePath is the kernel's first thermal zone, which on most boards
// is the CPU/SoC sensor.
const DefaultZonePath = "/sys/class/thermal/thermal_zone0/temp"

// Reading is a single temperature sample. Sysfs reports milli-Celsius.
type Reading struct {
	MilliCelsius int
}

func (r Reading) Celsius() float64 {
	return float64(r.MilliCelsius) / 1000
}

func (r Reading) Fahrenheit() float64 {
	return r.Celsius()*1.8 + 32
}

// CelsiusString renders the reading rounded to three decimals, e.g.
// "52.616°C".
func (r Reading) CelsiusString() string {
	return formatDegrees(r.Celsius()) + "°C"
}

func (r Reading) FahrenheitString() string {
	return formatDegrees(r.Fahrenheit()) + "°F"
}

func formatDegrees(v float64) string {
	rounded := math.Round(v*1000) / 1000
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// SysfsSensor reads a thermal zone's temp node.
type SysfsSensor struct {
	path string
}

// NewSysfsSensor wraps the given temp node path; an empty path selects
// DefaultZonePath.
func NewSysfsSensor(path string) *SysfsSensor {
	if path == "" {
		path = DefaultZonePath
	}
	return &SysfsSensor{path: path}
}

func (s *SysfsSensor) Read() (Reading, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Reading{}, errFactory.Wrap(ErrZoneUnavailable, err)
		}
		return Reading{}, errFactory.Wrap(ErrReadFailed, err)
	}

	milli, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return Reading{}, errFactory.Wrap(ErrParseFailed, err)
	}

	return Reading{MilliCelsius: milli}, nil
}

func (s *SysfsSensor) Source() string {
	return s.path
}
