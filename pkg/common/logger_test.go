package common

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "github.com/kalaiprof897-eng/management/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestLoggingCaptureWithNameAndCategory(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLoggerWith(LoggerNameDashboard, zap.String(LoggerFieldCategory, LoggerCategoryReconcile))
	logger.Debug("dropped below level")
	logger.Info("Reconciliation finished", zap.String("state", "ready"))

	logs := ParseLogs(&buf)
	if len(logs) != 1 {
		t.Fatalf("expected exactly one captured entry, got %d", len(logs))
	}
	if !HasLog(logs, map[string]any{
		"logger":   LoggerNameDashboard,
		"category": LoggerCategoryReconcile,
		"msg":      "Reconciliation finished",
		"state":    "ready",
	}) {
		t.Errorf("expected reconcile entry, got: %v", logs)
	}
}
