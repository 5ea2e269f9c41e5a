package engine

import (
	"io"
	"log/slog"
	"testing"

	"go.uber.org/goleak"

	"github.com/daryltucker/flexsweep/internal/output"
)

func TestMain(m *testing.M) {
	output.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	goleak.VerifyTestMain(m)
}
