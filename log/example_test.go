package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/htmldsl/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("template rendered", slog.Int("bytes", 42))
	logger.Debug("not shown")
	// Output:
	// level=INFO msg="template rendered" bytes=42
}

func Example_with() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger = logger.With(slog.String("component", "lexer"))
	logger.Warn("unterminated comment", slog.String("pos", "3:7"))
	// Output:
	// {"level":"WARN","msg":"unterminated comment","component":"lexer","pos":"3:7"}
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.ParseLevel("trace")),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Trace("parse start")
	logger.Error("parse failed")
	// Output:
	// level=TRACE msg="parse start"
	// level=ERROR msg="parse failed"
}
