package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/global"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/repo"
)

// ArenaHandler serves the read-only REST surface over the arena state.
type ArenaHandler struct {
	state *global.State
}

func NewArenaHandler(state *global.State) *ArenaHandler {
	return &ArenaHandler{state: state}
}

// GetStats returns a player's aggregate stats
func (h *ArenaHandler) GetStats(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		WriteJSONError(c, "Missing userId", http.StatusBadRequest)
		return
	}

	stats, err := h.state.Psql.GetStats(userID)
	if err != nil {
		if errors.Is(err, repo.ErrStatsNotFound) {
			WriteJSONError(c, "Player has no recorded matches", http.StatusNotFound)
			return
		}
		log.Printf("[HTTP] Stats lookup failed for %s: %v", userID, err)
		WriteJSONError(c, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	WriteJSONResponse(c, stats, http.StatusOK)
}

// GetLeaderboard returns the top players by win rate
func (h *ArenaHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	rows, err := h.state.Psql.TopByWinRate(limit)
	if err != nil {
		log.Printf("[HTTP] Leaderboard query failed: %v", err)
		WriteJSONError(c, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}
	WriteJSONResponse(c, rows, http.StatusOK)
}

// GetMatch returns one match, live or archived
func (h *ArenaHandler) GetMatch(c *gin.Context) {
	matchID := c.Param("matchId")
	if matchID == "" {
		WriteJSONError(c, "Missing matchId", http.StatusBadRequest)
		return
	}

	if actor := h.state.Manager.GetActor(matchID); actor != nil {
		WriteJSONResponse(c, actor.Snapshot(), http.StatusOK)
		return
	}

	m, err := h.state.Mongo.GetMatch(c.Request.Context(), matchID)
	if err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			WriteJSONError(c, "Match not found", http.StatusNotFound)
			return
		}
		log.Printf("[HTTP] Match lookup failed for %s: %v", matchID, err)
		WriteJSONError(c, "Failed to load match", http.StatusInternalServerError)
		return
	}
	WriteJSONResponse(c, m, http.StatusOK)
}

// ListMatches returns archived matches, paginated. With a userId it serves
// that player's history; without one it lists recent completed matches.
func (h *ArenaHandler) ListMatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var (
		matches []model.Match
		err     error
	)
	if userID := c.Query("userId"); userID != "" {
		matches, err = h.state.Mongo.GetUserMatches(c.Request.Context(), userID, page, pageSize)
	} else {
		matches, err = h.state.Mongo.GetRecentMatches(c.Request.Context(), page, pageSize)
	}
	if err != nil {
		log.Printf("[HTTP] Match history query failed: %v", err)
		WriteJSONError(c, "Failed to load matches", http.StatusInternalServerError)
		return
	}
	WriteJSONResponse(c, gin.H{
		"matches":  matches,
		"page":     page,
		"pageSize": pageSize,
	}, http.StatusOK)
}

// GetMatchSubmissions returns the audit trail for a match, oldest first
func (h *ArenaHandler) GetMatchSubmissions(c *gin.Context) {
	matchID := c.Param("matchId")
	if matchID == "" {
		WriteJSONError(c, "Missing matchId", http.StatusBadRequest)
		return
	}

	rows, err := h.state.Psql.GetSubmissionRecords(matchID)
	if err != nil {
		log.Printf("[HTTP] Submission audit query failed for %s: %v", matchID, err)
		WriteJSONError(c, "Failed to load submissions", http.StatusInternalServerError)
		return
	}
	WriteJSONResponse(c, rows, http.StatusOK)
}

// Health reports liveness and the live match count
func (h *ArenaHandler) Health(c *gin.Context) {
	WriteJSONResponse(c, gin.H{
		"status":        "ok",
		"activeMatches": h.state.Manager.ActiveMatchCount(),
	}, http.StatusOK)
}
