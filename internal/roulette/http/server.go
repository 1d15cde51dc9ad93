package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/roulette/bet"
	"github.com/radieske/roulette-table/internal/roulette/dto"
	"github.com/radieske/roulette-table/internal/roulette/game"
	"github.com/radieske/roulette-table/internal/roulette/layout"
	"github.com/radieske/roulette-table/internal/roulette/payout"
	"github.com/radieske/roulette-table/internal/roulette/stats"
)

// Server expõe a mesa de roleta via REST
type Server struct {
	log   *zap.Logger
	game  *game.Controller
	stats stats.Reader
	// agregado sem histórico, normalmente servido pelo Redis
	summary stats.Reader
	ws      http.Handler // opcional
}

func NewServer(log *zap.Logger, g *game.Controller, sr stats.Reader, ws http.Handler) *Server {
	return &Server{log: log, game: g, stats: sr, summary: sr, ws: ws}
}

// WithSummary troca a fonte de GET /stats/summary.
func (s *Server) WithSummary(r stats.Reader) *Server {
	s.summary = r
	return s
}

// Router retorna o roteador HTTP com os endpoints REST
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/bets", s.listBets)
	r.Post("/bets", s.placeBet)
	r.Put("/bets", s.updateBet)
	r.Delete("/bets", s.removeBet)
	r.Delete("/bets/all", s.clearBets)
	r.Post("/rounds/play", s.play)
	r.Post("/rounds/spin", s.spin)
	r.Get("/rounds/state", s.roundState)
	r.Get("/rounds/last", s.lastRound)
	r.Get("/stats", s.getStats)
	r.Get("/stats/summary", s.getSummary)
	if s.ws != nil {
		r.Get("/ws", s.ws.ServeHTTP)
	}
	return r
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledgerView())
}

// placeBet valida o formato da aposta no tapete antes de chegar ao ledger
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	if len(req.Chips) > 0 {
		amount, err := chipsAmount(req.Chips, req.Amount)
		if err != nil {
			s.fail(w, err)
			return
		}
		req.Amount = amount
	}
	if len(req.Numbers) == 0 {
		if def, ok := layout.DefaultNumbers(req.BetType); ok {
			req.Numbers = def
		}
	}
	if len(req.Numbers) > 0 {
		if err := layout.CheckShape(req.BetType, req.Numbers); err != nil {
			s.fail(w, err)
			return
		}
	}
	if err := s.game.PlaceBet(req.BetType, req.Numbers, req.Amount); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.ledgerView())
}

// chipsAmount soma count*denomination das fichas. Um amount explícito precisa bater com a soma.
func chipsAmount(chips []dto.Chip, amount int64) (int64, error) {
	var total int64
	for _, c := range chips {
		if c.Denomination <= 0 || c.Count < 0 {
			return 0, &bet.ValidationError{Field: "chips", Reason: fmt.Sprintf("invalid chip %d x %d", c.Count, c.Denomination)}
		}
		if c.Count > 0 && c.Denomination > (math.MaxInt64-total)/c.Count {
			return 0, &bet.ValidationError{Field: "chips", Reason: "total overflows"}
		}
		total += c.Count * c.Denomination
	}
	if amount != 0 && amount != total {
		return 0, &bet.ValidationError{Field: "amount", Reason: fmt.Sprintf("amount %d does not match chips total %d", amount, total)}
	}
	return total, nil
}

func (s *Server) updateBet(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	id := bet.Identity{Type: req.BetType, Numbers: req.Numbers}
	if err := s.game.UpdateBet(id, req.Amount); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledgerView())
}

func (s *Server) removeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.RemoveBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	if err := s.game.RemoveBet(&bet.Identity{Type: req.BetType, Numbers: req.Numbers}); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledgerView())
}

func (s *Server) clearBets(w http.ResponseWriter, r *http.Request) {
	if err := s.game.ClearBets(); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledgerView())
}

// play trava a rodada e já consulta a roleta
func (s *Server) play(w http.ResponseWriter, r *http.Request) {
	if _, err := s.game.Play(); err != nil {
		s.fail(w, err)
		return
	}
	s.spin(w, r)
}

// spin permite repetir o sorteio se a roleta falhou depois do play
func (s *Server) spin(w http.ResponseWriter, r *http.Request) {
	res, err := s.game.Spin(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) roundState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.RoundStateResponse{
		State:   string(s.game.State()),
		RoundID: s.game.RoundID(),
		Balance: s.game.Balance(),
	})
}

func (s *Server) lastRound(w http.ResponseWriter, r *http.Request) {
	res, ok := s.game.LastResult()
	if !ok {
		writeError(w, http.StatusNotFound, "no round settled yet")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeError(w, http.StatusNotFound, "statistics disabled")
		return
	}
	st, err := s.stats.Statistics(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	if s.summary == nil {
		writeError(w, http.StatusNotFound, "statistics disabled")
		return
	}
	st, err := s.summary.Statistics(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	st.GameHistory = nil
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) ledgerView() dto.LedgerResponse {
	l := s.game.Ledger()
	bets := l.Bets()
	return dto.LedgerResponse{
		Bets:       bets,
		Count:      len(bets),
		TotalStake: l.TotalStake(),
		CanPlay:    len(bets) > 0 && s.game.State() == game.StateOpen,
	}
}

// fail traduz erros de domínio em status HTTP
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bet.ErrValidation), errors.Is(err, payout.ErrInvalidWinningNumber):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrRoundLocked), errors.Is(err, game.ErrNoRoundInProgress),
		errors.Is(err, game.ErrNoBets), errors.Is(err, game.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
