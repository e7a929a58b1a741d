package log_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rohankumardubey/scidb/libs/log"
)

func TestLoggerIncludesMsgAndKeyvals(t *testing.T) {
	var buf bytes.Buffer

	logger := log.NewLogger(&buf)
	logger.Info("connection established", "peer", 42)
	msg := strings.TrimSpace(buf.String())
	if !strings.Contains(msg, "connection established") {
		t.Errorf("expected log output to contain the message, got %s", msg)
	}
	if !strings.Contains(msg, "42") {
		t.Errorf("expected log output to contain the peer id, got %s", msg)
	}
}

func TestWithPrependsContext(t *testing.T) {
	var buf bytes.Buffer

	logger := log.NewJSONLoggerNoTS(&buf).With("module", "network")
	logger.Error("socket failed")

	msg := buf.String()
	if !strings.Contains(msg, `"module":"network"`) {
		t.Errorf("expected contextual key in output, got %s", msg)
	}
	if !strings.Contains(msg, "socket failed") {
		t.Errorf("expected message in output, got %s", msg)
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := log.NewNopLogger()
	logger.Info("nothing", "key", "value")
	logger.Error("nothing")
	logger.Debug("nothing")
	if logger.With("a", "b") == nil {
		t.Error("With must return a logger")
	}
}
