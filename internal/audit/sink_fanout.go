package audit

import (
	"context"
	"log/slog"
)

// FanoutSink writes to a primary store and mirrors to secondary sinks.
// Only the primary write decides success; mirror failures are logged and
// dropped so a broker outage never blocks the audit trail.
type FanoutSink struct {
	primary Sink
	mirrors []Sink
	logger  *slog.Logger
}

func NewFanoutSink(primary Sink, logger *slog.Logger, mirrors ...Sink) *FanoutSink {
	return &FanoutSink{primary: primary, mirrors: mirrors, logger: logger}
}

func (s *FanoutSink) Append(ctx context.Context, entry Entry) error {
	if err := s.primary.Append(ctx, entry); err != nil {
		return err
	}

	for _, mirror := range s.mirrors {
		if err := mirror.Append(ctx, entry); err != nil {
			s.logger.WarnContext(ctx, "audit mirror write failed",
				"audit_id", entry.AuditID.String(),
				"error", err,
			)
		}
	}
	return nil
}
