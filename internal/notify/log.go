package notify

import (
	"context"

	"github.com/damsole-chat/server/internal/agent/model"
	logx "github.com/damsole-chat/server/pkg/logger"
)

// LogNotifier records leads in the log only. It stands in when no mail
// credentials are configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, lead *model.Lead) error {
	ev := logx.Warn().
		Str("reference", lead.Reference).
		Str("session_id", lead.SessionID)
	for label, v := range lead.Record.Map() {
		ev = ev.Str(label, v)
	}
	ev.Msg("email credentials not configured, lead logged only")
	return nil
}

var _ model.Notifier = LogNotifier{}
