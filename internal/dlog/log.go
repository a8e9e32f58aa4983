// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dlog centralizes the slog backend and per-subsystem loggers
// every internal package logs through: one backend, written to stdout
// and (once InitLogRotator is called) a rotated log file, with each
// subsystem's verbosity independently adjustable via SetLogLevel.
package dlog

import (
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter fans writes out to stdout and, once set, the rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	logRotator *rotator.Rotator
	backendLog = slog.NewBackend(logWriter{})

	// EnginLog, PhnxLog, MoonLog, PrvrLog, and StatLog are the
	// per-subsystem loggers the engine, Phoenix builder, Moonlight
	// builder, prover gateway, and state gateway log through.
	EnginLog = backendLog.Logger("ENGN")
	PhnxLog  = backendLog.Logger("PHNX")
	MoonLog  = backendLog.Logger("MOON")
	PrvrLog  = backendLog.Logger("PRVR")
	StatLog  = backendLog.Logger("STAT")
)

// subsystems maps each subsystem tag to its logger, used by
// SetLogLevel and SetLogLevels to look loggers up by name.
var subsystems = map[string]slog.Logger{
	"ENGN": EnginLog,
	"PHNX": PhnxLog,
	"MOON": MoonLog,
	"PRVR": PrvrLog,
	"STAT": StatLog,
}

func init() {
	for _, l := range subsystems {
		l.SetLevel(slog.LevelInfo)
	}
}

// InitLogRotator opens logFile for writing, rotating it once it grows
// past 10 MiB and keeping the most recent 3 rotated files, mirroring
// the teacher's jrick/logrotate setup. Must be called at most once,
// before any subsystem logs.
func InitLogRotator(logFile string) error {
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return err
	}
	logRotator = r
	return nil
}

// SetLogLevel sets the verbosity of a single subsystem tag ("ENGN",
// "PHNX", "MOON", "PRVR", "STAT"). Unknown tags are ignored.
func SetLogLevel(subsystemID string, level slog.Level) {
	if l, ok := subsystems[subsystemID]; ok {
		l.SetLevel(level)
	}
}

// SetLogLevels sets every subsystem's verbosity to level.
func SetLogLevels(level slog.Level) {
	for _, l := range subsystems {
		l.SetLevel(level)
	}
}
