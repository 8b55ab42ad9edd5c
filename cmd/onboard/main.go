// Command onboard drives the registration flows against a running API. The
// bearer token comes from the identity provider; --token or ONBOARD_TOKEN.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/salon-onboarding/internal/identity"
	"github.com/BruksfildServices01/salon-onboarding/internal/profileclient"
	"github.com/BruksfildServices01/salon-onboarding/internal/session"
)

var (
	apiURL   string
	token    string
	jsonOut  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Salon marketplace onboarding client",
	Long: `Register clients and hairdressers and run admin tasks against the
onboarding API.

Examples:
  onboard register client --first-name Marie --last-name Ngo --phone +237699000000 --accept-terms
  onboard register hairdresser --first-name Awa --last-name Bello --phone +237677000000 \
      --accept-terms --hairstyle 1:10000 --payment-method orange-money --payment-reference TR-1
  onboard profile
  onboard admin approve <user-id>`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", envOr("ONBOARD_API_URL", "http://localhost:8080"), "onboarding API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ONBOARD_TOKEN"), "identity provider access token")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of text")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func getClient() (*profileclient.Client, error) {
	if token == "" {
		return nil, errors.New("no access token: pass --token or set ONBOARD_TOKEN")
	}
	return profileclient.New(apiURL), nil
}

// startSession signs in with the configured token and waits for the
// profile to load. Callers must Close the manager.
func startSession(ctx context.Context) (*session.Manager, *profileclient.Client, error) {
	client, err := getClient()
	if err != nil {
		return nil, nil, err
	}

	log := newLogger()
	provider := identity.NewTokenProvider()
	mgr := session.NewManager(session.Deps{
		Provider: provider,
		Profiles: client,
		Logins:   client,
		Logger:   log,
	})
	if err := mgr.Initialize(ctx); err != nil {
		mgr.Close()
		return nil, nil, err
	}
	if err := provider.Establish(token); err != nil {
		mgr.Close()
		return nil, nil, fmt.Errorf("sign in: %w", err)
	}
	return mgr, client, nil
}
