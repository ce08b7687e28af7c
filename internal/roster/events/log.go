package events

import (
	"context"
	"log/slog"

	"scoutnet/pkg/logger"
)

type LogObserver struct {
	log *logger.Logger
}

func NewLogObserver(log *logger.Logger) *LogObserver {
	if log == nil {
		log = logger.Nop()
	}
	return &LogObserver{log: log.Component("roster")}
}

func (o *LogObserver) Observe(ctx context.Context, e Event) {
	attrs := make([]any, 0, 12)
	if e.ListID != 0 {
		attrs = append(attrs, "list_id", e.ListID)
	}
	if e.MemberNo != 0 {
		attrs = append(attrs, "member_no", e.MemberNo)
	}
	if e.Title != "" {
		attrs = append(attrs, "title", e.Title)
	}
	if e.Count != 0 {
		attrs = append(attrs, "count", e.Count)
	}
	if e.Reason != "" {
		attrs = append(attrs, "reason", e.Reason)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}

	o.log.Log(ctx, levelFor(e.Type), string(e.Type), attrs...)
}

func levelFor(t Type) slog.Level {
	switch t {
	case MemberRejected:
		return slog.LevelWarn
	case ListIncluded, ListExcluded, ListFetched:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
