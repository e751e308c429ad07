package http

import (
	"net/http"
)

type snakeScoreRequest struct {
	Difficulty string `json:"difficulty"`
	Score      int64  `json:"score"`
}

func (s *Server) handleGetSnakeScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.games.SnakeScores(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", snakeScoresToDTO(scores))
}

func (s *Server) handleSubmitSnakeScore(w http.ResponseWriter, r *http.Request) {
	var req snakeScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	scores, err := s.games.SubmitSnakeScore(r.Context(), userID(r), req.Difficulty, req.Score)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "score recorded", snakeScoresToDTO(scores))
}
