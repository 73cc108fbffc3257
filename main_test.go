package main

import "testing"

func TestNewLoggerInteractiveDefaultsToNil(t *testing.T) {
	if logger := newLogger(false, true); logger != nil {
		t.Error("interactive non-verbose mode should return nil so packages substitute a no-op logger")
	}
}

func TestNewLoggerVerbose(t *testing.T) {
	if logger := newLogger(true, true); logger == nil {
		t.Error("verbose mode should always return a logger")
	}
}

func TestNewLoggerServe(t *testing.T) {
	if logger := newLogger(false, false); logger == nil {
		t.Error("non-interactive mode should log to stderr")
	}
}
