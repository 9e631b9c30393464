package todolist

import "github.com/charmbracelet/log"

// LogReport writes rep to the operator log. Raised errors are logged at
// error level, store rejections and dropped items at warn level. A clean
// report logs nothing.
func LogReport(l *log.Logger, rep Report) {
	if l == nil {
		return
	}
	for _, it := range rep.Dropped {
		l.Warn("dropped item without title", "id", it.ID)
	}
	f := rep.Failure
	if f == nil {
		return
	}
	kv := []any{"op", string(f.Op)}
	if f.ID != "" {
		kv = append(kv, "id", f.ID)
	}
	kv = append(kv, "err", f.Err)
	if f.Rejected() {
		l.Warn("store rejected request", kv...)
		return
	}
	l.Error("store request failed", kv...)
}
