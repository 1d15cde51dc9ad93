package wheel

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/roulette/layout"
	spindto "github.com/radieske/roulette-table/internal/roulette/outcome/dto"
)

// Spinner sorteia uma posição da roda.
type Spinner interface {
	SpinIndex() (index, pocket int)
}

// Server simula a roda física: cada POST /spin devolve um pocket.
type Server struct {
	log     *zap.Logger
	spinner Spinner

	spins   prometheus.Counter
	pockets *prometheus.CounterVec
}

// NewServer registra as métricas do simulador em reg.
func NewServer(log *zap.Logger, sp Spinner, reg prometheus.Registerer) *Server {
	s := &Server{
		log:     log,
		spinner: sp,
		spins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wheel_spins_total",
			Help: "Total de giros simulados",
		}),
		pockets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wheel_pocket_color_total",
			Help: "Giros por cor do pocket",
		}, []string{"color"}),
	}
	reg.MustRegister(s.spins, s.pockets)
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/spin", s.spinHandler)
	return mux
}

func (s *Server) spinHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req spindto.SpinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	idx, n := s.spinner.SpinIndex()
	s.spins.Inc()
	s.pockets.WithLabelValues(string(layout.ColorOf(n))).Inc()
	s.log.Debug("wheel spun", zap.String("round_id", req.RoundID), zap.Int("pocket", n), zap.Int("index", idx))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(spindto.SpinResponse{RoundID: req.RoundID, WinningNumber: n, WheelIndex: idx})
}
