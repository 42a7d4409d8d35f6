package wss

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/arena"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/global"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/middleware"
	wsstypes "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WsHandler authenticates the upgrade request, registers the connection
// and pumps messages into the dispatcher until the socket dies.
func WsHandler(dispatcher *Dispatcher, state *global.State, auth *middleware.AuthMiddleware) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = r.Header.Get("Authorization")
		}
		claims, err := auth.Authenticate(token)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("[WS] upgrade error:", err)
			return
		}

		pc := arena.NewPlayerConn(claims.UserID, conn)
		state.Manager.RegisterConn(claims.UserID, pc)
		log.Printf("[WS] connection established for user %s", claims.UserID)

		defer cleanupConnection(state, claims.UserID, pc)

		for {
			conn.SetReadDeadline(time.Now().Add(model.WebsocketReadTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Printf("[WS] read error for user %s: %v", claims.UserID, err)
				return
			}

			var wsMsg wsstypes.WsMessage
			if err := json.Unmarshal(msg, &wsMsg); err != nil {
				log.Println("[WS] invalid message format:", err)
				continue
			}

			ctx := &wsstypes.WsContext{
				PC:       pc,
				Payload:  wsMsg.Payload,
				UserID:   claims.UserID,
				Username: claims.Username,
				State:    state,
			}

			if err := dispatcher.Dispatch(wsMsg.Type, ctx); err != nil {
				log.Printf("[Dispatch] error handling %s: %v", wsMsg.Type, err)
			}
		}
	}
}

// cleanupConnection removes the player from the queue and the connection
// registry. A live match is left alone: the player may reconnect, and the
// reaper eventually ends matches nobody comes back to.
func cleanupConnection(state *global.State, userID string, pc *arena.PlayerConn) {
	log.Printf("[WS] cleaning up connection for user %s", userID)

	if state.Queue.Leave(context.Background(), userID) {
		log.Printf("[WS] user %s removed from queue on disconnect", userID)
	}
	state.Manager.UnregisterConn(userID, pc)
	pc.Close()
}
