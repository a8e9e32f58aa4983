// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dlog_test

import (
	"testing"

	"github.com/decred/slog"

	"github.com/dusk-network/dusk-deploy-cli/internal/dlog"
)

func TestSetLogLevelAffectsOnlyNamedSubsystem(t *testing.T) {
	t.Parallel()

	dlog.SetLogLevel("ENGN", slog.LevelDebug)
	if dlog.EnginLog.Level() != slog.LevelDebug {
		t.Fatalf("got ENGN level %v, want Debug", dlog.EnginLog.Level())
	}
	if dlog.PhnxLog.Level() == slog.LevelDebug {
		t.Fatal("setting ENGN's level also changed PHNX's level")
	}

	dlog.SetLogLevel("does-not-exist", slog.LevelDebug)
}

func TestSetLogLevelsAffectsEverySubsystem(t *testing.T) {
	dlog.SetLogLevels(slog.LevelWarn)

	for _, l := range []slog.Logger{dlog.EnginLog, dlog.PhnxLog, dlog.MoonLog, dlog.PrvrLog, dlog.StatLog} {
		if l.Level() != slog.LevelWarn {
			t.Fatalf("got level %v, want Warn", l.Level())
		}
	}

	// Restore default verbosity so other tests in the suite aren't
	// affected by this test's level changes on the shared loggers.
	dlog.SetLogLevels(slog.LevelInfo)
}
