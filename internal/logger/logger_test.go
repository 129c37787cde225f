package logger

import (
	"testing"

	"traderlens/internal/config"
)

func TestNewToleratesEmptyConfig(t *testing.T) {
	log, err := New(config.LogConfig{})
	if err != nil {
		t.Fatalf("empty config must build: %v", err)
	}
	log.Info("hello")
}

func TestNewFallsBackOnBadLevel(t *testing.T) {
	log, err := New(config.LogConfig{Level: "shouting", Encoding: "console"})
	if err != nil {
		t.Fatalf("bad level must fall back to info: %v", err)
	}
	log.Debug("suppressed at info")
}
