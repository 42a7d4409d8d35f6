package main

import (
	"log"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/arena"
	configs "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/config"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/db"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/execution"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/global"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/handlers"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/jwt"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/problems"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/queue"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/reaper"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/repo"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/stats"
)

func main() {
	cfg := configs.LoadConfig()

	gormDB, err := db.InitDB(&cfg)
	if err != nil {
		log.Fatalf("Postgres init failed: %v", err)
	}
	mongoClient, err := db.InitMongo(&cfg)
	if err != nil {
		log.Fatalf("Mongo init failed: %v", err)
	}
	redisClient := db.NewRedisClient(&cfg)

	psqlRepo := repo.NewPSQLRepository(gormDB)
	mongoRepo := repo.NewMongoRepository(mongoClient, cfg.MongoDBName)
	redisRepo := repo.NewRedisRepo(redisClient)

	manager := arena.NewManager()
	aggregator := stats.NewAggregator(psqlRepo)
	problemSvc := problems.NewClient(cfg.ProblemServiceURL)
	runner := execution.NewClient(cfg.ExecutionServiceURL)

	matchDeps := arena.Deps{
		Store:   redisRepo,
		Archive: mongoRepo,
		Stats:   aggregator,
		Sender:  manager,
		OnEnd:   manager.RemoveMatch,
	}

	state := &global.State{
		Queue:       queue.NewQueue(redisRepo),
		Manager:     manager,
		Factory:     arena.NewMatchFactory(problemSvc),
		Adjudicator: arena.NewAdjudicator(manager, runner, problemSvc, psqlRepo),
		Redis:       redisRepo,
		Mongo:       mongoRepo,
		Psql:        psqlRepo,
		JwtManager:  jwt.NewJWTManager(cfg.JWTSecret),
		MatchDeps:   matchDeps,
	}

	r := reaper.New(manager, redisRepo, model.ReaperInterval)
	r.Start()
	defer r.Stop()

	addr := ":" + cfg.ArenaHTTPPort
	if err := handlers.StartServer(addr, state); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
