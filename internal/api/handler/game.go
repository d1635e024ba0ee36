package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictactoe-go/internal/api/middleware"
	"github.com/mcoot/tictactoe-go/internal/api/request"
	"github.com/mcoot/tictactoe-go/internal/api/response"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/game"
	"github.com/mcoot/tictactoe-go/internal/sse"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	controller *game.Controller
	hubManager *sse.HubManager
}

// NewGameHandler creates a new game handler. hubManager may be nil, which
// disables the event stream.
func NewGameHandler(controller *game.Controller, hubManager *sse.HubManager) *GameHandler {
	return &GameHandler{
		controller: controller,
		hubManager: hubManager,
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateGameRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	var opts game.Options
	if req.HumanMark != "" {
		mark, err := model.ParseMark(req.HumanMark)
		if err != nil {
			WriteError(w, err)
			return
		}
		opts.HumanMark = mark
	}
	if req.Difficulty != "" {
		d, err := model.ParseDifficulty(req.Difficulty)
		if err != nil {
			WriteError(w, err)
			return
		}
		opts.Difficulty = d
	}
	opts.Strategy = req.Strategy

	g, err := h.controller.CreateGame(r.Context(), player.ID, opts)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	games, err := h.controller.ListGames(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.controller.GetGame(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.controller.DeleteGame(r.Context(), gameID(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Move handles POST /api/v1/games/{id}/moves
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.MoveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Cell == nil {
		WriteError(w, NewInvalidRequestError("cell is required"))
		return
	}

	g, moves, err := h.controller.PlayMove(r.Context(), gameID(r), player.ID, *req.Cell)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MoveResponse{
		Game:  response.GameFromModel(g),
		Moves: response.MovesFromModel(moves),
	})
}

// NewRound handles POST /api/v1/games/{id}/rounds
func (h *GameHandler) NewRound(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.controller.NewRound(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// UpdateSettings handles PATCH /api/v1/games/{id}/settings
func (h *GameHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.UpdateSettingsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	var update game.SettingsUpdate
	if req.Difficulty != nil {
		d, err := model.ParseDifficulty(*req.Difficulty)
		if err != nil {
			WriteError(w, err)
			return
		}
		update.Difficulty = &d
	}
	if req.HumanMark != nil {
		m, err := model.ParseMark(*req.HumanMark)
		if err != nil {
			WriteError(w, err)
			return
		}
		update.HumanMark = &m
	}
	update.Strategy = req.Strategy

	g, err := h.controller.UpdateSettings(r.Context(), gameID(r), player.ID, update)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// ResetScores handles DELETE /api/v1/games/{id}/scores
func (h *GameHandler) ResetScores(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.controller.ResetScores(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Hint handles GET /api/v1/games/{id}/hint
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	analysis, err := h.controller.Hint(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HintFromAnalysis(analysis))
}

// Events handles GET /api/v1/games/{id}/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := gameID(r)

	if h.hubManager == nil {
		http.Error(w, "event stream disabled", http.StatusNotImplemented)
		return
	}

	if _, err := h.controller.GetGame(r.Context(), id, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id), player.ID)
}
