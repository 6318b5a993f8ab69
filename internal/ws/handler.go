// Package ws exposes the live feeds over websocket. Each connection carries
// exactly one subscription; closing the connection cancels it.
package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"violation-ledger/internal/feed"
	"violation-ledger/internal/model"
	"violation-ledger/internal/repository"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Handler struct {
	violations *feed.Broker
	complaints *feed.ComplaintBroker
	log        zerolog.Logger
}

func NewHandler(violations *feed.Broker, complaints *feed.ComplaintBroker, log zerolog.Logger) *Handler {
	return &Handler{
		violations: violations,
		complaints: complaints,
		log:        log,
	}
}

// Violations streams full violation snapshots matching the query-parameter
// filter (status CSV, plate, location prefix, RFC3339 date_from/date_to).
func (h *Handler) Violations(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := h.violations.Subscribe(filter)
	go readUntilClosed(conn, sub.Cancel)

	h.writeLoop(conn, func() (interface{}, string, bool) {
		select {
		case snapshot, open := <-sub.C:
			return snapshot, "snapshot", open
		case err := <-sub.Errs:
			return err.Error(), "error", true
		}
	}, sub.Cancel)
}

// ActiveCount streams the count of escalated and pending violations.
func (h *Handler) ActiveCount(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := h.violations.SubscribeActiveCount()
	go readUntilClosed(conn, sub.Cancel)

	h.writeLoop(conn, func() (interface{}, string, bool) {
		select {
		case count, open := <-sub.C:
			return count, "count", open
		case err := <-sub.Errs:
			return err.Error(), "error", true
		}
	}, sub.Cancel)
}

// Complaints streams complaint snapshots, optionally narrowed by ?status=.
func (h *Handler) Complaints(c *gin.Context) {
	var status *model.ComplaintStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed := model.ComplaintStatus(strings.ToLower(raw))
		if !parsed.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint status"})
			return
		}
		status = &parsed
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := h.complaints.Subscribe(status)
	go readUntilClosed(conn, sub.Cancel)

	h.writeLoop(conn, func() (interface{}, string, bool) {
		select {
		case snapshot, open := <-sub.C:
			return snapshot, "snapshot", open
		case err := <-sub.Errs:
			return err.Error(), "error", true
		}
	}, sub.Cancel)
}

// writeLoop pushes feed payloads and pings until the feed closes or the
// connection dies.
func (h *Handler) writeLoop(conn *websocket.Conn, next func() (interface{}, string, bool), cancel func()) {
	defer func() {
		cancel()
		conn.Close()
	}()

	payloads := make(chan message)
	done := make(chan struct{})
	go func() {
		defer close(payloads)
		for {
			data, kind, open := next()
			if !open {
				return
			}
			select {
			case payloads <- message{Type: kind, Data: data}:
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, open := <-payloads:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readUntilClosed drains client frames so pongs are processed, cancelling
// the subscription when the peer goes away.
func readUntilClosed(conn *websocket.Conn, cancel func()) {
	defer cancel()
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func parseFilter(c *gin.Context) (repository.ViolationFilter, error) {
	var filter repository.ViolationFilter

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range strings.Split(statusParam, ",") {
			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}
			filter.Statuses = append(filter.Statuses, model.ViolationStatus(strings.ToLower(val)))
		}
	}
	filter.PlateNumber = c.Query("plate")
	filter.LocationPrefix = c.Query("location")

	if dateFrom := strings.TrimSpace(c.Query("date_from")); dateFrom != "" {
		ts, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &ts
	}
	if dateTo := strings.TrimSpace(c.Query("date_to")); dateTo != "" {
		ts, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &ts
	}
	return filter, nil
}
