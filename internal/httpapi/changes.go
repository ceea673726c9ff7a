package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Changes streams change notifications for the whole collection as
// server-sent events until the client goes away.
func (h *productHandler) Changes(w http.ResponseWriter, r *http.Request) {
	sub, err := h.provider.Subscribe(types.CollectionURI, true)
	if err != nil {
		respondWithErr(w, err)
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Debug("clearing write deadline", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Debug("streaming unsupported", zap.Error(err))
		return
	}

	h.logger.Debug("change stream opened", zap.String("subscription", sub.ID.String()))
	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("change stream closed", zap.String("subscription", sub.ID.String()))
			return
		case c, ok := <-sub.C():
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", c.Op, c.URI); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
