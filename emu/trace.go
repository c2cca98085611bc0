// Package emu provides functional RV32I emulation.
package emu

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LevelTrace is the slog level of per-instruction retire records.
const LevelTrace slog.Level = slog.LevelDebug - 4

// ParseLevel maps a level name to a slog level. It accepts "trace" in
// addition to the names slog understands.
func ParseLevel(name string) (slog.Level, error) {
	if strings.EqualFold(name, "trace") {
		return LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", name, err)
	}

	return level, nil
}

// Trace logs msg at LevelTrace. Arguments are only evaluated by the handler
// when the level is enabled.
func Trace(logger *slog.Logger, msg string, args ...any) {
	ctx := context.Background()
	if !logger.Enabled(ctx, LevelTrace) {
		return
	}
	logger.Log(ctx, LevelTrace, msg, args...)
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}
