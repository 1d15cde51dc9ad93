package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// FileStore persiste UserStatistics num arquivo JSON local.
type FileStore struct {
	path string
	log  *zap.Logger

	mu    sync.Mutex
	stats UserStatistics
}

// OpenFileStore carrega o arquivo se existir. Arquivo corrompido vira estatística nova.
func OpenFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	fs := &FileStore{path: path, log: log}
	fs.load()
	return fs
}

func (f *FileStore) load() {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.log.Info("no saved statistics found, starting fresh", zap.String("path", f.path))
		return
	}
	if err != nil {
		f.log.Error("read statistics", zap.String("path", f.path), zap.Error(err))
		return
	}
	var s UserStatistics
	if err := json.Unmarshal(b, &s); err != nil {
		f.log.Error("decode statistics, starting fresh", zap.String("path", f.path), zap.Error(err))
		return
	}
	f.stats = s
	f.log.Info("statistics loaded", zap.String("path", f.path), zap.Int("games", s.TotalGamesPlayed))
}

// Record adiciona a rodada e regrava o arquivo inteiro.
// A memória só muda depois que o arquivo foi gravado.
func (f *FileStore) Record(_ context.Context, r GameResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.cloneLocked()
	next.Add(r)
	if err := f.save(next); err != nil {
		return err
	}
	f.stats = next
	return nil
}

func (f *FileStore) cloneLocked() UserStatistics {
	out := f.stats
	out.GameHistory = slices.Clone(f.stats.GameHistory)
	return out
}

func (f *FileStore) save(s UserStatistics) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create statistics dir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace statistics: %w", err)
	}
	return nil
}

// Statistics devolve uma cópia do agregado.
func (f *FileStore) Statistics(_ context.Context) (UserStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cloneLocked(), nil
}
