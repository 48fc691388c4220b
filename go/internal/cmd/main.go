package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DanRCM/bingo/go/internal/bingo"
	"github.com/DanRCM/bingo/go/internal/client"
	"github.com/DanRCM/bingo/go/internal/transport"
)

// sessionHolder points the long-lived state server at whichever session
// is current; reload swaps the session underneath it.
type sessionHolder struct {
	mu      sync.RWMutex
	session *client.Session
}

func (h *sessionHolder) set(s *client.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = s
}

func (h *sessionHolder) View() client.View {
	h.mu.RLock()
	s := h.session
	h.mu.RUnlock()
	if s == nil {
		return client.View{}
	}
	return s.View()
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	config, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if config.PlayerName == "" {
		log.Fatal().Msg("player name is required (BINGO_PLAYER_NAME)")
	}

	log.Info().
		Str("server_url", config.ServerURL).
		Str("player", config.PlayerName).
		Str("state_addr", config.StateAddr).
		Msg("starting bingo client")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	holder := &sessionHolder{}
	server := setupStateServer(config, holder)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("state server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("state server failed")
		}
	}()

	// Forward interrupt signals into the context.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	// Each pass is one session; a lost connection recovers by rebuilding
	// everything from scratch and re-registering.
	for {
		if !runSession(ctx, config, holder) {
			break
		}
		log.Info().Msg("reloading session")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("state server shutdown failed")
	}

	log.Info().Msg("bingo client shutdown complete")
}

// runSession builds and runs one session until the process is stopped or
// the transport schedules a reload. Returns true when a reload should
// rebuild a fresh session.
func runSession(ctx context.Context, config Config, holder *sessionHolder) bool {
	clock := clockwork.NewRealClock()
	clientID := uuid.New().String()
	url := fmt.Sprintf("%s/ws/%s", strings.TrimRight(config.ServerURL, "/"), clientID)

	reloadCh := make(chan struct{}, 1)

	var session *client.Session
	conn := transport.NewConn(
		transport.DefaultConfig(url),
		clock,
		func(frame []byte) { session.HandleFrame(frame) },
		func() {
			select {
			case reloadCh <- struct{}{}:
			default:
			}
		},
	)
	session = client.NewSession(ctx, clientID, conn, clock, client.DefaultPaceDelay)
	holder.set(session)

	session.Register(config.PlayerName)

	if config.CardFile != "" {
		data, err := os.ReadFile(config.CardFile)
		if err != nil {
			log.Error().Err(err).Str("path", config.CardFile).Msg("failed to read card file")
		} else {
			cards := bingo.ParseCards(string(data))
			if len(cards) == 0 {
				log.Warn().Str("path", config.CardFile).Msg("no cards loaded")
			} else {
				log.Info().Int("cards", len(cards)).Msg("cards loaded from file")
				session.AddCards(cards)
			}
		}
	}

	if config.AutoPlay {
		session.Play()
	}

	select {
	case <-ctx.Done():
		session.Close()
		return false
	case <-reloadCh:
		session.Close()
		return true
	}
}

func setupStateServer(config Config, holder *sessionHolder) *http.Server {
	mux := http.NewServeMux()

	handler := client.NewStateHandler(holder)
	handler.RegisterStateRoutes(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:         config.StateAddr,
		Handler:      c.Handler(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
