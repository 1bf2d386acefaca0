package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide logger: JSON records on stdout at INFO.
// main swaps in a multi handler once the database is up so errors also land
// in the system_logs table.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
