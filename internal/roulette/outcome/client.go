package outcome

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/radieske/roulette-table/internal/roulette/bet"
	"github.com/radieske/roulette-table/internal/roulette/layout"
	spindto "github.com/radieske/roulette-table/internal/roulette/outcome/dto"
)

// Client consulta o wheel-simulator para obter o número vencedor.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

func (c *Client) Spin(ctx context.Context, roundID string) (int, error) {
	body, _ := json.Marshal(spindto.SpinRequest{RoundID: roundID})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/spin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return 0, fmt.Errorf("wheel spin http %d", res.StatusCode)
	}
	var out spindto.SpinResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	if out.WinningNumber < bet.MinPocket || out.WinningNumber > bet.MaxPocket {
		return 0, fmt.Errorf("wheel returned pocket %d out of range", out.WinningNumber)
	}
	return out.WinningNumber, nil
}

// RandomSource sorteia localmente um pocket da roda. Não é um RNG auditável.
type RandomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rnd: rand.New(rand.NewSource(seed))}
}

// SpinIndex devolve a posição na roda e o pocket correspondente.
func (r *RandomSource) SpinIndex() (index, pocket int) {
	r.mu.Lock()
	index = r.rnd.Intn(len(layout.WheelOrder))
	r.mu.Unlock()
	return index, layout.WheelOrder[index]
}

func (r *RandomSource) Spin(_ context.Context, _ string) (int, error) {
	_, n := r.SpinIndex()
	return n, nil
}
