package pipeline_test

import (
	"io"
	"log/slog"

	"gfontapi/internal/logging"
)

func testLogger(w io.Writer) *slog.Logger {
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Writer: w})
	if err != nil {
		panic(err)
	}
	return logger
}
