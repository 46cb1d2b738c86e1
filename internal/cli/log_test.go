package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatal("debug output at info level")
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Error("debug output missing after SetLogLevel")
	}
}
