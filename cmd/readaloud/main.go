package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/readaloud/internal/app"
)

// Version is set at build time.
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "readaloud: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "readaloud",
		Short:         "Terminal control panel for the ReadAloud TTS server",
		Long:          "readaloud edits the TTS server configuration, triggers reading actions\nand starts or stops the inference service from the terminal.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "panel config file (default ~/.config/readaloud/panel.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "UI preferences file")
	flags.StringVar(&opts.APIBase, "api", "", "server address, host:port or URL")
	flags.DurationVar(&opts.PollEvery, "poll", 0, "status refresh interval (default 10s)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newStatusCmd(&opts),
		newSayCmd(&opts),
		newStopCmd(&opts),
		newConfigCmd(&opts),
	)
	return root
}
