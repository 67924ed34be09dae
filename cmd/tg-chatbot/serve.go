package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aliqajarian/tg-chatbot/bot"
	"github.com/aliqajarian/tg-chatbot/internal/logutil"
	"github.com/aliqajarian/tg-chatbot/telegram"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type updateHandler interface {
	HandleUpdate(ctx context.Context, u *telegram.Update)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			api, err := botAPIFromViper()
			if err != nil {
				return err
			}
			store, err := allowlistFromViper()
			if err != nil {
				return err
			}
			completer := completerFromViper(openRouterFromViper())
			router := bot.NewRouter(bot.NewAPIGateway(api, logger), store, completer, logger)

			bind := strings.TrimSpace(flagOrViperString(cmd, "server-bind", "server.bind"))
			if bind == "" {
				bind = "127.0.0.1"
			}
			port := flagOrViperInt(cmd, "server-port", "server.port")
			if port <= 0 {
				port = 8787
			}
			webhookPath := strings.TrimSpace(flagOrViperString(cmd, "webhook-path", "server.webhook_path"))
			if webhookPath == "" || !strings.HasPrefix(webhookPath, "/") {
				webhookPath = "/webhook"
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"ok":   true,
					"time": time.Now().Format(time.RFC3339Nano),
				})
			})
			mux.Handle(webhookPath, newWebhookHandler(router, logger))

			if flagOrViperBool(cmd, "admin", "server.admin_enabled") {
				mux.Handle("/admin/groups", newAdminHandler(store, logger))
			}

			addr := bind + ":" + strconv.Itoa(port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			logger.Info("server_start", "addr", addr, "webhook_path", webhookPath)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().String("server-bind", "127.0.0.1", "Bind address (default: 127.0.0.1).")
	cmd.Flags().Int("server-port", 8787, "HTTP port to listen on.")
	cmd.Flags().String("webhook-path", "/webhook", "Path the Telegram webhook posts to.")
	cmd.Flags().Bool("admin", false, "Enable the /admin/groups management page.")

	return cmd
}

func newWebhookHandler(h updateHandler, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var update telegram.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logger.Warn("webhook_bad_payload", "error", err)
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		traceID := uuid.NewString()
		logger.Debug("webhook_received", "trace_id", traceID, "update_id", update.UpdateID)

		// Telegram retries on non-2xx; processing happens before the
		// response so a crash mid-handling triggers redelivery.
		h.HandleUpdate(r.Context(), &update)

		w.WriteHeader(http.StatusOK)
	}
}
