package api

import (
	"net/http"
	"time"

	"ViralGen/internal/opslog"
	applogger "ViralGen/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard may be served from another origin; the route itself is
	// behind the master key.
	CheckOrigin: func(*http.Request) bool { return true },
}

// LogStreamHandler pushes journal entries to a websocket client: the current
// backlog oldest-first, then every new entry as it is written.
type LogStreamHandler struct {
	journal *opslog.Journal
	log     *applogger.Logger
}

func NewLogStreamHandler(journal *opslog.Journal, log *applogger.Logger) *LogStreamHandler {
	if log == nil {
		log = applogger.Nop()
	}
	return &LogStreamHandler{journal: journal, log: log.Component("logstream")}
}

func (h *LogStreamHandler) Stream(c echo.Context) error {
	// Subscribe before reading the backlog so nothing falls in between.
	entries, cancel := h.journal.Subscribe(sendBuffer)
	defer cancel()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", applogger.Error(err))
		return nil
	}
	defer conn.Close()

	backlog := h.journal.Entries()
	var lastID int64
	for i := len(backlog) - 1; i >= 0; i-- {
		if err := writeJSON(conn, backlog[i]); err != nil {
			return nil
		}
		lastID = backlog[i].ID
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return nil
		case <-c.Request().Context().Done():
			return nil
		case e, ok := <-entries:
			if !ok {
				return nil
			}
			if e.ID <= lastID {
				continue
			}
			if err := writeJSON(conn, e); err != nil {
				h.log.Debug("websocket write failed", applogger.Error(err))
				return nil
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
