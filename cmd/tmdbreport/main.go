// Command tmdbreport prepares a TMDb movie export and turns it into an
// HTML report, tabular exports, a console preview or a local explorer.
package main

import (
	"context"
	"log/slog"
	"os"

	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/infrastructure"
)

func main() {
	if err := newCLI(os.Stdout).root().ExecuteContext(context.Background()); err != nil {
		infrastructure.GetLogger().Error("command failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
		_ = infrastructure.CloseLogFile()
		os.Exit(1)
	}
	_ = infrastructure.CloseLogFile()
}
