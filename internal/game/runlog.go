package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dungeoncrawl/internal/engine"

	"go.uber.org/zap"
)

// RunLog records statistics gathered during one session.
type RunLog struct {
	Started    time.Time `json:"started"`
	Ended      time.Time `json:"ended"`
	Games      int       `json:"games"`
	Turns      uint64    `json:"turns"`
	Saves      int       `json:"saves"`
	Loads      int       `json:"loads"`
	PlayerDied bool      `json:"player_died"`
}

func newRunLog() RunLog {
	return RunLog{Started: time.Now()}
}

// observe folds the outcome of one tick into the log. before and choice
// are the run state and menu selection the tick started from.
func (l *RunLog) observe(s *engine.State, before engine.RunState, choice engine.MenuSelection) {
	after := s.RunState()
	switch {
	case before == engine.MainMenu && after == engine.Running:
		if choice == engine.MenuLoadGame {
			l.Loads++
		} else {
			l.Games++
		}
	case before != engine.MainMenu && after == engine.MainMenu:
		l.Saves++
	}
	if !s.InGame() {
		return
	}
	l.Turns = max(l.Turns, s.Turn())
	if s.PlayerDead() {
		l.PlayerDied = true
	}
}

// finish stamps the end time and appends the log to runs.jsonl. A disk
// problem is logged and never ends the session with an error.
func (s *Session) finish(logger *zap.Logger) {
	s.stats.Ended = time.Now()
	if err := saveRunLog(s.stats); err != nil {
		logger.Warn("run log not written", zap.Error(err))
		return
	}
	logger.Info("session finished",
		zap.Int("games", s.stats.Games),
		zap.Uint64("turns", s.stats.Turns),
		zap.Bool("player_died", s.stats.PlayerDied),
	)
}

// saveRunLog appends the completed run as a single JSON line to runs.jsonl.
func saveRunLog(log RunLog) error {
	dir, err := runLogDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// runLogDir returns the directory where run logs are stored.
// Follows the XDG Base Directory layout: $XDG_DATA_HOME/dungeoncrawl,
// defaulting to ~/.local/share/dungeoncrawl.
func runLogDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "dungeoncrawl"), nil
}
