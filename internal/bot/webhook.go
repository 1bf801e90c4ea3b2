package bot

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Buay-SS/slipbot/internal/line"
)

// Callback handles POST /callback deliveries from the LINE platform. The
// platform retries on non-2xx, so event-level failures still answer 200.
func (b *Bot) Callback(w http.ResponseWriter, r *http.Request) {
	events, err := line.ParseRequest(b.settings.ChannelSecret, r)
	if err != nil {
		if errors.Is(err, line.ErrInvalidSignature) {
			b.log.Warn("webhook signature mismatch")
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		b.log.Warn("webhook payload", zap.Error(err))
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	b.HandleEvents(r.Context(), events)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Health answers liveness probes.
func (b *Bot) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
