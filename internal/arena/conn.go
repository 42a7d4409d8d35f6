package arena

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// PlayerConn wraps a websocket connection with a write mutex. Gorilla
// connections allow only one concurrent writer; every send in the service
// goes through SendJSON so broadcasts from timers, the adjudicator and the
// read loop never interleave frames.
type PlayerConn struct {
	UserID string
	conn   *websocket.Conn
	mu     sync.Mutex
}

func NewPlayerConn(userID string, conn *websocket.Conn) *PlayerConn {
	return &PlayerConn{UserID: userID, conn: conn}
}

// SendJSON writes one frame under a write deadline. A stalled peer fails
// the write instead of blocking broadcast callers such as the round timer.
func (p *PlayerConn) SendJSON(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(model.WebsocketWriteTimeout))
	return p.conn.WriteJSON(v)
}

func (p *PlayerConn) Close() error {
	return p.conn.Close()
}
