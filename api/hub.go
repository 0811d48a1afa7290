package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"showcase/logger"
	"showcase/showcase"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// frame is the server-to-viewer message.
type frame struct {
	Type      string         `json:"type"` // view or error
	SessionID string         `json:"session_id,omitempty"`
	View      *showcase.View `json:"view,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// client pumps frames to one websocket. Views are coalesced: a viewer that falls behind
// only receives the most recent one.
type client struct {
	conn      *websocket.Conn
	sessionID string
	views     chan showcase.View
	errs      chan string
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:  conn,
		views: make(chan showcase.View, 1),
		errs:  make(chan string, 8),
		done:  make(chan struct{}),
	}
}

// pushView is called from a single session loop and never blocks.
func (c *client) pushView(v showcase.View) {
	for {
		select {
		case c.views <- v:
			return
		default:
		}
		select {
		case <-c.views:
		default:
		}
	}
}

func (c *client) pushError(msg string) {
	select {
	case c.errs <- msg:
	default:
		logger.Debug("dropping error frame", logger.FieldKV("remote_addr", c.conn.RemoteAddr().String()))
	}
}

func (c *client) start(sessionID string) {
	c.sessionID = sessionID
	c.wg.Add(1)
	go c.writeLoop()
}

func (c *client) writeLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		var f frame
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case v := <-c.views:
			f = frame{Type: "view", SessionID: c.sessionID, View: &v}
		case msg := <-c.errs:
			f = frame{Type: "error", SessionID: c.sessionID, Error: msg}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Error("websocket ping failed", err, logger.FieldKV("remote_addr", c.conn.RemoteAddr().String()))
				return
			}
			continue
		}
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(f); err != nil {
			logger.Error("websocket write error", err, logger.FieldKV("remote_addr", c.conn.RemoteAddr().String()))
			return
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
	c.wg.Wait()
	_ = c.conn.Close()
}
