package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/global"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss"
	wsshandler "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/handlers"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/wss/middleware"
)

// StartServer wires the REST routes and the WebSocket endpoint and serves
// until the listener fails.
func StartServer(addr string, state *global.State) error {
	dispatcher := wss.NewDispatcher()
	registerWsHandlers(dispatcher)

	auth := middleware.NewAuthMiddleware(state.JwtManager)
	arenaHandler := NewArenaHandler(state)

	r := gin.Default()

	r.GET("/ws", gin.WrapF(wss.WsHandler(dispatcher, state, auth)))

	r.GET("/health", arenaHandler.Health)
	api := r.Group("/arena")
	{
		api.GET("/stats/:userId", arenaHandler.GetStats)
		api.GET("/leaderboard", arenaHandler.GetLeaderboard)
		api.GET("/matches/:matchId", arenaHandler.GetMatch)
		api.GET("/matches/:matchId/submissions", arenaHandler.GetMatchSubmissions)
		api.GET("/matches", arenaHandler.ListMatches)
	}

	log.Printf("Starting arena server on %s", addr)
	return r.Run(addr)
}

func registerWsHandlers(d *wss.Dispatcher) {
	d.Register(model.EvJoinQueue, wsshandler.JoinQueueHandler)
	d.Register(model.EvLeaveQueue, wsshandler.LeaveQueueHandler)
	d.Register(model.EvReady, wsshandler.ReadyHandler)
	d.Register(model.EvSubmit, wsshandler.SubmitHandler)
	d.Register(model.EvGetMatch, wsshandler.GetMatchHandler)
	d.Register(model.EvPing, wsshandler.PingHandler)
}
