// Package config loads server settings from environment variables.
//
// Every variable is optional; unset or empty variables keep the defaults.
// Malformed values are reported as errors rather than ignored.
//
//	TRACE_MCP_LOG_LEVEL            "debug" enables debug logging
//	TRACE_MCP_TOLERANCE_GENERAL    detection.Config.GeneralTolerance
//	TRACE_MCP_TOLERANCE_CIRCLE     detection.Config.CircleTolerance
//	TRACE_MCP_TOLERANCE_LINE_PX    detection.Config.LineTolerancePx
//	TRACE_MCP_ELLIPSE_CENTRUM_PX   detection.Config.EllipseCentrumTolerancePx
//	TRACE_MCP_TOLERANCE_ELLIPSE    detection.Config.EllipseTolerance
//	TRACE_MCP_FRAMERATE_FPS        capture.Config.FrameRate
//	TRACE_MCP_END_TIMEOUT_CYCLES   capture.Config.EndTimeout
//	TRACE_MCP_HISTORY_LIMIT        maximum history entries (0 = unlimited)
//	TRACE_MCP_SERIAL_PORT          serial pointer device for live capture
//	TRACE_MCP_SERIAL_BAUD          baud rate of the serial device
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/trace-shapes-mcp/internal/capture"
	"github.com/ironsheep/trace-shapes-mcp/internal/detection"
)

// Environment variable names.
const (
	EnvLogLevel         = "TRACE_MCP_LOG_LEVEL"
	EnvToleranceGeneral = "TRACE_MCP_TOLERANCE_GENERAL"
	EnvToleranceCircle  = "TRACE_MCP_TOLERANCE_CIRCLE"
	EnvToleranceLinePx  = "TRACE_MCP_TOLERANCE_LINE_PX"
	EnvEllipseCentrumPx = "TRACE_MCP_ELLIPSE_CENTRUM_PX"
	EnvToleranceEllipse = "TRACE_MCP_TOLERANCE_ELLIPSE"
	EnvFrameRate        = "TRACE_MCP_FRAMERATE_FPS"
	EnvEndTimeout       = "TRACE_MCP_END_TIMEOUT_CYCLES"
	EnvHistoryLimit     = "TRACE_MCP_HISTORY_LIMIT"
	EnvSerialPort       = "TRACE_MCP_SERIAL_PORT"
	EnvSerialBaud       = "TRACE_MCP_SERIAL_BAUD"
)

// DefaultHistoryLimit caps the in-memory history.
const DefaultHistoryLimit = 1000

// Settings holds everything the server reads at startup.
type Settings struct {
	Debug        bool
	Classifier   detection.Config
	Capture      capture.Config
	HistoryLimit int

	// SerialPort is empty when no live pointer device is configured.
	SerialPort string
	Serial     capture.SerialOptions
}

// Defaults returns the settings used when no variable is set.
func Defaults() Settings {
	return Settings{
		Classifier:   detection.DefaultConfig(),
		Capture:      capture.DefaultConfig(),
		HistoryLimit: DefaultHistoryLimit,
	}
}

// FromEnv reads settings from the process environment.
func FromEnv() (Settings, error) {
	return Load(os.Getenv)
}

// Load reads settings through getenv and validates them.
func Load(getenv func(string) string) (Settings, error) {
	s := Defaults()
	s.Debug = strings.EqualFold(strings.TrimSpace(getenv(EnvLogLevel)), "debug")
	s.SerialPort = strings.TrimSpace(getenv(EnvSerialPort))

	floats := []struct {
		name string
		dst  *float64
	}{
		{EnvToleranceGeneral, &s.Classifier.GeneralTolerance},
		{EnvToleranceCircle, &s.Classifier.CircleTolerance},
		{EnvToleranceLinePx, &s.Classifier.LineTolerancePx},
		{EnvToleranceEllipse, &s.Classifier.EllipseTolerance},
	}
	for _, f := range floats {
		if err := parseFloat(getenv, f.name, f.dst); err != nil {
			return Settings{}, err
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvEllipseCentrumPx, &s.Classifier.EllipseCentrumTolerancePx},
		{EnvFrameRate, &s.Capture.FrameRate},
		{EnvEndTimeout, &s.Capture.EndTimeout},
		{EnvHistoryLimit, &s.HistoryLimit},
		{EnvSerialBaud, &s.Serial.BaudRate},
	}
	for _, i := range ints {
		if err := parseInt(getenv, i.name, i.dst); err != nil {
			return Settings{}, err
		}
	}

	if err := s.Classifier.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.Capture.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid capture config: %w", err)
	}
	if s.Serial.BaudRate < 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %d", EnvSerialBaud, s.Serial.BaudRate)
	}
	return s, nil
}

func parseFloat(getenv func(string) string, name string, dst *float64) error {
	raw := strings.TrimSpace(getenv(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = v
	return nil
}

func parseInt(getenv func(string) string, name string, dst *int) error {
	raw := strings.TrimSpace(getenv(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = v
	return nil
}
