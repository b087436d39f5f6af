// internal/handlers/events_ws.go

// Package handlers exposes the small HTTP surface of the bot process: a
// health probe and a websocket feed of engine events for the presentation
// layer to render.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/iamnolimit/tg-uno-bot/internal/middleware"
	"github.com/iamnolimit/tg-uno-bot/internal/session"
)

// EventsWSHandler streams every engine event to the connected client as one
// JSON object per message.
func EventsWSHandler(logger *logrus.Logger, manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.WithError(err).Warn("websocket accept failed")
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		events, cancel := manager.Subscribe()
		defer cancel()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, ctx.Err())
				c.Close(websocket.StatusNormalClosure, "")
				return
			case ev, ok := <-events:
				if !ok {
					c.Close(websocket.StatusNormalClosure, "")
					return
				}
				data, err := json.Marshal(ev)
				if err != nil {
					logger.WithError(err).WithField("type", ev.Type).Warn("marshal event")
					continue
				}
				writeCtx, cancelWrite := context.WithTimeout(ctx, 3*time.Second)
				err = c.Write(writeCtx, websocket.MessageText, data)
				cancelWrite()
				if err != nil {
					middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
					return
				}
			}
		}
	}
}

// HealthHandler reports process liveness.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
