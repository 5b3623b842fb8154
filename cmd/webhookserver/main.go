// Command webhookserver receives Twilio webhooks, verifies their signatures,
// records the events, and answers with TwiML.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	twilio "twilio-go"
	"twilio-go/internal/config"
	"twilio-go/internal/database"
	"twilio-go/internal/logging"
	"twilio-go/internal/middleware"
	"twilio-go/internal/server"
	"twilio-go/twiml"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	os.Setenv("LOG_LEVEL", cfg.LogLevel)
	logging.InitGlobalLogger()
	defer logging.MustSync()

	db, err := database.Init(cfg.DatabasePath)
	if err != nil {
		logging.Error("failed to initialize database", err,
			logging.String("path", cfg.DatabasePath),
		)
		os.Exit(1)
	}
	defer db.Close()

	client := twilio.NewClient(cfg.AccountSID, cfg.AuthToken)

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Logging)

	router.Handle("/message", client.RespondToMessageWebhook(func(msg *twilio.Message) *twiml.Response {
		if err := db.InsertInboundMessage(&database.InboundMessage{
			MessageSid: msg.Sid,
			From:       msg.From,
			To:         msg.To,
			Body:       msg.Body,
		}); err != nil {
			logging.Error("failed to record inbound message", err)
		}

		resp := twiml.New()
		resp.Add(&twiml.Message{Text: fmt.Sprintf("You told me: '%s'", msg.Body)})
		return resp
	})).Methods(http.MethodGet, http.MethodPost)

	router.Handle("/voice", client.RespondToCallWebhook(func(call *twilio.Call) *twiml.Response {
		if err := db.InsertCallEvent(&database.CallEvent{
			CallSid: call.Sid,
			From:    call.From,
			To:      call.To,
			Status:  call.Status.String(),
		}); err != nil {
			logging.Error("failed to record call event", err)
		}

		resp := twiml.New()
		resp.Add(&twiml.Say{
			Text:     "Thanks for calling. Goodbye!",
			Voice:    twiml.Woman,
			Language: "en",
		})
		return resp
	})).Methods(http.MethodGet, http.MethodPost)

	// Delivery-status callbacks carry MessageSid and MessageStatus; the
	// expected reply is an empty TwiML document.
	router.Handle("/status", client.RespondToMessageWebhook(func(msg *twilio.Message) *twiml.Response {
		if msg.Sid != "" && msg.Status != nil {
			if err := db.InsertDeliveryUpdate(&database.DeliveryUpdate{
				MessageSid: msg.Sid,
				Status:     msg.Status.String(),
			}); err != nil {
				logging.Error("failed to record delivery update", err)
			}
		}
		return twiml.New()
	})).Methods(http.MethodPost)

	router.HandleFunc("/health", healthHandler(db)).Methods(http.MethodGet)

	srv := server.New(router, cfg.Port, cfg.TLSCertFile, cfg.TLSKeyFile)
	errCh := srv.Start()

	logging.Info("webhook server listening",
		logging.String("port", cfg.Port),
		logging.Bool("tls", cfg.TLSCertFile != ""),
		logging.String("public_base_url", cfg.PublicBaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		logging.Error("server failed", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	logging.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("forced shutdown", err)
	}
}

func healthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}

		stats, err := db.GetStats()
		if err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"stats":  stats,
		})
	}
}
