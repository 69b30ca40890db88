package iceberg

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidShape is wrapped by New when logSlots or a tuning option would
// produce a table whose shape can't be built.
var ErrInvalidShape = errors.New("iceberg: invalid table shape")

// invariantf logs an unrecoverable invariant violation (spec.md §7: "indicate
// a programming error and are treated as unrecoverable; implementations
// should assert or panic at the detection point") and then panics. Logging
// first mirrors the teacher's persistent.go, which logs via slog before
// giving up on its own unrecoverable (fire-and-forget) path.
func invariantf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Error("iceberg: invariant violation", "detail", msg)
	panic("iceberg: " + msg)
}
