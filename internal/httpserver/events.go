// internal/httpserver/events.go
//
// GET /duel/events upgrades to a WebSocket and streams notify.Events for the
// authenticated player. The stream is one-way: anything the client sends is
// discarded. When the hub drops a slow listener the socket is closed with
// StatusTryAgainLater so the client can reconnect and re-sync via /duel/mine.

package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/duel-server/internal/auth"
)

const eventWriteTimeout = 5 * time.Second

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	logger := hlog.FromRequest(r).With().Str("user", p.ID).Logger()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.ClientOrigin),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected exit")

	events, cancel := s.Hub.Subscribe(p.ID)
	defer cancel()
	logger.Debug().Msg("events subscribed")

	// CloseRead drains client frames and cancels ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("events client gone")
			return
		case ev, ok := <-events:
			if !ok {
				logger.Info().Msg("events listener dropped")
				conn.Close(websocket.StatusTryAgainLater, "too slow")
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, eventWriteTimeout)
			err := wsjson.Write(wctx, conn, ev)
			wcancel()
			if err != nil {
				logger.Debug().Err(err).Msg("events write")
				return
			}
		}
	}
}

// originPatterns turns the configured client origin into the host pattern
// websocket.Accept expects. Same-host requests are always accepted.
func originPatterns(origin string) []string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
