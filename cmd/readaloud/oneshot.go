package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/readaloud/internal/app"
	"github.com/five82/readaloud/internal/logging"
	"github.com/five82/readaloud/internal/readaloud"
)

// oneShotClient builds a client for a single round-trip. Logs go to stderr
// since there is no TUI to disturb.
func oneShotClient(cmd *cobra.Command, opts *app.Options) (*readaloud.Client, error) {
	cfg, err := app.LoadConfig(*opts)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return app.NewClient(cfg, logger)
}

func newStatusCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print server connectivity, engine availability and service state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := oneShotClient(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			status, err := client.Status(cmd.Context())
			if err != nil {
				fmt.Fprintln(out, "connected: no")
				return fmt.Errorf("status: %w", err)
			}
			printStatus(out, status)
			return nil
		},
	}
}

func printStatus(w io.Writer, status *readaloud.StatusResponse) {
	engine := "not available"
	if status.HiggsAudio {
		engine = "available"
	}
	service := "unknown"
	if status.Service != nil {
		service = status.Service.State().String()
	}
	fmt.Fprintln(w, "connected: yes")
	fmt.Fprintf(w, "higgs:     %s\n", engine)
	fmt.Fprintf(w, "service:   %s\n", service)
}

func newSayCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "say <text>",
		Short: "Speak text with the configured engine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return errors.New("text required")
			}
			return act(cmd, opts, readaloud.ActionRequest{Action: readaloud.ActionTest, Text: text}, "Test completed")
		},
	}
}

func newStopCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop audio playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return act(cmd, opts, readaloud.ActionRequest{Action: readaloud.ActionStop}, "Stop completed")
		},
	}
}

func act(cmd *cobra.Command, opts *app.Options, req readaloud.ActionRequest, fallback string) error {
	client, err := oneShotClient(cmd, opts)
	if err != nil {
		return err
	}
	reply, err := client.Act(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("%s: %w", req.Action, err)
	}
	if !reply.OK() {
		msg := reply.Message
		if msg == "" {
			msg = "server reported " + reply.Status
		}
		return fmt.Errorf("%s: %s", req.Action, msg)
	}
	msg := reply.Message
	if msg == "" {
		msg = fallback
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func newConfigCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the server configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := oneShotClient(cmd, opts)
			if err != nil {
				return err
			}
			settings, err := client.GetConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			encoded, err := json.MarshalIndent(settings, "", "  ")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
}
