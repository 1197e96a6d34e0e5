package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inspecthub/internal/auth/session"
	"inspecthub/internal/auth/store/tokens"
	"inspecthub/internal/auth/token"
	"inspecthub/internal/client"
	"inspecthub/internal/platform/config"
	"inspecthub/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:   "inspectl",
	Short: "inspectl manages inspecthub sessions from the command line",
	Long: `inspectl is the command-line client for the inspecthub platform.
It keeps a persistent session (tokens survive between invocations) and
refreshes access tokens automatically when they near expiry.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// printNavigator surfaces redirect signals as CLI hints instead of browser
// navigations.
type printNavigator struct{}

func (printNavigator) NavigateTo(url string) {
	fmt.Fprintf(os.Stderr, "session requires login (%s): run `inspectl login`\n", url)
}

// printNotifier renders transient warnings on stderr.
type printNotifier struct{}

func (printNotifier) Notify(message string) {
	fmt.Fprintln(os.Stderr, message)
}

// buildSession assembles the full client stack: durable token store,
// authorization pipeline, API client, and session manager.
func buildSession() (*session.Manager, *client.Client, func()) {
	cfg := config.ClientFromEnv()
	log := logger.New()

	store := tokens.OpenOrUnavailable(cfg.StorePath, log)

	prefix := token.DefaultPlaceholderPrefix
	if !cfg.AllowPlaceholderTokens {
		prefix = ""
	}
	codec := token.NewCodec(token.WithPlaceholderPrefix(prefix))

	transport := client.NewTransport(store, client.WithTransportLogger(log))
	api := client.New(cfg.APIBaseURL, transport, client.WithLogger(log))

	manager := session.NewManager(api, store, codec,
		session.WithLogger(log),
		session.WithNavigator(printNavigator{}),
		session.WithNotifier(printNotifier{}),
		session.WithMonitorPeriod(cfg.MonitorPeriod),
		session.WithWarningThreshold(cfg.WarningThreshold),
		session.WithCriticalThreshold(cfg.CriticalThreshold),
	)
	transport.SetRefresher(manager)

	cleanup := func() {
		manager.Close()
		if closer, ok := store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
	return manager, api, cleanup
}
