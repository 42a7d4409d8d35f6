package global

import (
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/arena"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/jwt"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/queue"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/repo"
)

// State bundles the long-lived service dependencies handed to handlers.
// Built once in main and shared read-only afterwards.
type State struct {
	Queue       *queue.Queue
	Manager     *arena.Manager
	Factory     *arena.MatchFactory
	Adjudicator *arena.Adjudicator
	Redis       *repo.RedisRepo
	Mongo       *repo.MongoRepository
	Psql        *repo.PSQLRepository
	JwtManager  *jwt.JWTManager

	// MatchDeps is the collaborator set wired into every new match actor.
	MatchDeps arena.Deps
}
