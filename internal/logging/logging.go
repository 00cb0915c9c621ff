package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"time"
)

// Format represents the logging output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Logger wraps the standard logger with format options
type Logger struct {
	format Format
	writer io.Writer
}

// Global logger instance
var defaultLogger = &Logger{
	format: FormatText,
	writer: os.Stderr,
}

// SetFormat sets the logging format globally
func SetFormat(format Format) {
	defaultLogger.format = format
}

// SetWriter sets the output writer
func SetWriter(w io.Writer) {
	defaultLogger.writer = w
	log.SetOutput(w)
}

// LogEntry represents a structured log entry for JSON output
type LogEntry struct {
	Timestamp string      `json:"timestamp"`
	Level     string      `json:"level"`
	Component string      `json:"component"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
}

// DetectionLogEntry represents a detection result log entry
type DetectionLogEntry struct {
	Timestamp string  `json:"timestamp"`
	Level     string  `json:"level"`
	Component string  `json:"component"`
	Session   string  `json:"session"`
	PeakCount int     `json:"peak_count"`
	AvgHR     float64 `json:"avg_hr"`
	SDNN      float64 `json:"sdnn_ms"`
}

// Info logs an info message
func Info(component, message string, data interface{}) {
	if defaultLogger.format == FormatJSON {
		entry := LogEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     "info",
			Component: component,
			Message:   message,
			Data:      data,
		}
		jsonBytes, _ := json.Marshal(entry)
		defaultLogger.writer.Write(append(jsonBytes, '\n'))
	} else {
		log.Printf("[%s] %s", component, message)
	}
}

// DetectionResult logs one detection pass for a session
func DetectionResult(session string, peakCount int, avgHR, sdnn float64) {
	if defaultLogger.format == FormatJSON {
		entry := DetectionLogEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     "info",
			Component: "Monitor",
			Session:   session,
			PeakCount: peakCount,
			AvgHR:     avgHR,
			SDNN:      sdnn,
		}
		jsonBytes, _ := json.Marshal(entry)
		defaultLogger.writer.Write(append(jsonBytes, '\n'))
	} else {
		if avgHR > 0 {
			log.Printf("[Monitor] %s: %d beats, %.1f BPM, SDNN %.1fms", session, peakCount, avgHR, sdnn)
		} else {
			log.Printf("[Monitor] %s: acquiring signal (%d beats)", session, peakCount)
		}
	}
}

// Error logs an error message
func Error(component, message string, err error) {
	errStr := ""
	if err != nil {
		errStr = err.Error()
	}

	if defaultLogger.format == FormatJSON {
		entry := LogEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     "error",
			Component: component,
			Message:   message,
			Data:      map[string]string{"error": errStr},
		}
		jsonBytes, _ := json.Marshal(entry)
		defaultLogger.writer.Write(append(jsonBytes, '\n'))
	} else {
		if err != nil {
			log.Printf("[%s] %s: %v", component, message, err)
		} else {
			log.Printf("[%s] %s", component, message)
		}
	}
}

// GetFormat returns the current logging format
func GetFormat() Format {
	return defaultLogger.format
}
