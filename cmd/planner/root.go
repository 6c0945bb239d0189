package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tripcrew/internal/models/request_models"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "Plan a group trip itinerary from shared interests",
		Long: `planner turns a group's interests, a destination and a date range into a
day-by-day itinerary using a staged LLM research pipeline.

Model and search credentials are read from the environment or a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(), newContextCmd(), newTokenCmd(), newVersionCmd())
	return root
}

// Execute runs the root command, cancelling on SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRootCmd().ExecuteContext(ctx)
}

// readGroup decodes a group request from path, or stdin when path is "-".
func readGroup(cmd *cobra.Command, path string) (request_models.GroupRequest, error) {
	var req request_models.GroupRequest

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("open group file: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decode group file %s: %w", path, err)
	}
	return req, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
