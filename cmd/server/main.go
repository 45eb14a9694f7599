// dungeon-server serves the dungeon crawl over SSH. Every connection gets
// its own single-player game and its own save file. Build:
//
//	go build -o dungeon-server ./cmd/server
//
// Usage:
//
//	./dungeon-server [--port 2222] [--key host_key]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	mathrand "math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/engine"
	"dungeoncrawl/internal/factory"
	"dungeoncrawl/internal/game"
	"dungeoncrawl/internal/input"
	internalssh "dungeoncrawl/internal/ssh"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	"go.uber.org/zap"
	xssh "golang.org/x/crypto/ssh"
)

// maxNameBytes bounds user names used in save file names and logs.
const maxNameBytes = 16

// allowedTerms lists the TERM values we will hand to terminfo.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
}

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	port := flag.Int("port", cfg.Server.Port, "SSH server port")
	keyFile := flag.String("key", cfg.Server.HostKeyPath, "Path to the PEM-encoded host key (generated if absent)")
	flag.Parse()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	tpl, err := factory.LoadTemplates(cfg.Game.Templates)
	if err != nil {
		logger.Fatal("load templates", zap.Error(err))
	}
	signer, err := loadOrCreateHostKey(*keyFile, logger)
	if err != nil {
		logger.Fatal("host key", zap.Error(err))
	}

	h := &handler{cfg: cfg, tpl: tpl, logger: logger}
	srv := &gossh.Server{
		Addr:        fmt.Sprintf(":%d", *port),
		Handler:     h.handleSession,
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		HostSigners: []gossh.Signer{signer},
	}

	logger.Info("listening", zap.Int("port", *port))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

type handler struct {
	cfg    *config.Config
	tpl    *factory.Templates
	logger *zap.Logger
}

// handleSession runs one player's game for the lifetime of the connection.
func (h *handler) handleSession(s gossh.Session) {
	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "This game requires a PTY. Connect with: ssh -t -p <port> <host>")
		return
	}

	term := pty.Term
	if !allowedTerms[term] {
		term = "xterm-256color"
	}
	name := sanitizeName(s.User())
	if name == "" {
		name = "guest"
	}
	log := h.logger.With(zap.String("user", name), zap.String("remote", s.RemoteAddr().String()))

	tty := internalssh.NewSessionTty(s, pty, winCh)
	defer tty.Close()
	screen, err := newScreen(tty, term)
	if err != nil {
		log.Warn("terminal setup failed", zap.Error(err))
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	defer screen.Fini()

	cfg := *h.cfg
	cfg.Save.Path = savePath(h.cfg.Save.Path, name)
	state := engine.New(&cfg, h.tpl, mathrand.New(mathrand.NewSource(time.Now().UnixNano())), log)
	sess := game.NewSession(state, input.NewGate(cfg.Input.MinDelayFrames, cfg.Input.RepeatDelayFrames))

	log.Info("session started")
	frame := time.Duration(cfg.Input.FrameMS) * time.Millisecond
	if err := game.Run(s.Context(), screen, sess, frame, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("session ended with error", zap.Error(err))
	}
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

func newScreen(tty tcell.Tty, term string) (tcell.Screen, error) {
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// sanitizeName strips control characters and truncates to maxNameBytes
// without splitting a rune.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if b.Len()+len(string(r)) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// savePath puts each user's save next to the configured one, keyed by name.
func savePath(base, user string) string {
	ext := filepath.Ext(base)
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, user)
	return strings.TrimSuffix(base, ext) + "-" + safe + ext
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent.
func loadOrCreateHostKey(path string, logger *zap.Logger) (gossh.Signer, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		signer, err := xssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		logger.Info("loaded host key", zap.String("path", path))
		return signer, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	logger.Info("generating host key", zap.String("path", path))
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	pemBlock, err := xssh.MarshalPrivateKey(key, "dungeoncrawl server")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600); err != nil {
		logger.Warn("host key not persisted", zap.Error(err))
	}
	return signer, nil
}
