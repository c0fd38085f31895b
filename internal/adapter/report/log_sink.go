// Package report delivers resolution reports. The production sink writes
// structured log lines; a richer transport (chat, webhook) would slot in
// behind the same port.
package report

import (
	"context"

	"github.com/rs/zerolog"

	"grindstone/internal/app/ports"
)

type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Deliver(_ context.Context, r ports.Report) error {
	evt := s.log.Info().Str("owner_id", r.OwnerID)
	if len(r.Attachments) > 0 {
		evt = evt.Strs("attachments", r.Attachments)
	}
	evt.Msg(r.Text)
	return nil
}
