package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"photo-triage/infrastructure/triageapi"
	"photo-triage/interfaces/tui"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/triage"
)

type options struct {
	APIURL     string
	GalleryID  string
	Token      string
	AccessCode string
	LogDir     string
	Timeout    time.Duration
	Retries    int
	MaxBatch   int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "triage",
		Short:        "Review a photo gallery from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Photographer session
  triage --gallery 6f1c... --token $TRIAGE_TOKEN

  # Client session using the gallery's access code
  triage --gallery 6f1c... --access-code sunflower

  # Print counts without opening the board
  triage stats --gallery 6f1c... --token $TRIAGE_TOKEN
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.GalleryID == "" {
				return fmt.Errorf("--gallery is required")
			}
			if opts.Token == "" && opts.AccessCode == "" {
				return fmt.Errorf("one of --token or --access-code is required")
			}
			if err := logger.Init(opts.LogDir, false); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to initialize logger: %v\n", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd.Context(), opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.APIURL, "api", envOr("TRIAGE_API", "http://localhost:8080"), "API base URL")
	f.StringVar(&opts.GalleryID, "gallery", "", "gallery id")
	f.StringVar(&opts.Token, "token", os.Getenv("TRIAGE_TOKEN"), "bearer token")
	f.StringVar(&opts.AccessCode, "access-code", "", "exchange a client access code for a token")
	f.StringVar(&opts.LogDir, "log-dir", "logs", "directory for log files")
	f.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout for writes")
	f.IntVar(&opts.Retries, "retries", 2, "retries for transient write failures")
	f.IntVar(&opts.MaxBatch, "max-batch", triageapi.DefaultMaxBatch, "most photo ids per write request (match the server's TRIAGE_MAX_BATCH_SIZE)")

	cmd.AddCommand(newStatsCmd(opts))
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print review counts for the gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			stats, err := client.GetStats(cmd.Context(), opts.GalleryID)
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}
}

func printStats(w io.Writer, s *triageapi.Stats) error {
	_, err := fmt.Fprintf(w, "total %d  selected %d  rejected %d  untouched %d  highlighted %d\n",
		s.Total, s.Selected, s.Rejected, s.Untouched, s.Highlighted)
	return err
}

// connect builds an API client, trading the access code for a client
// token when one was given.
func connect(ctx context.Context, opts *options) (*triageapi.Client, error) {
	client := triageapi.NewClient(opts.APIURL, opts.Token)
	client.SetMaxBatch(opts.MaxBatch)
	if opts.AccessCode != "" {
		expires, err := client.GrantAccess(ctx, opts.GalleryID, opts.AccessCode)
		if err != nil {
			return nil, fmt.Errorf("access code rejected: %w", err)
		}
		logger.Auth("client_access", "Gallery access granted", map[string]interface{}{
			"gallery_id": opts.GalleryID,
			"expires_at": expires,
		})
	}
	return client, nil
}

func runBoard(ctx context.Context, opts *options) error {
	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}
	photos, err := client.LoadPhotos(ctx, opts.GalleryID)
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}

	store := triage.NewStore(opts.GalleryID, photos, client,
		triage.WithTimeout(opts.Timeout),
		triage.WithRetry(opts.Retries, 500*time.Millisecond),
		triage.WithOnPhotosUpdated(func(st triage.Stats) {
			logger.Triage("batch_saved", "Review batch saved", map[string]interface{}{
				"gallery_id": opts.GalleryID,
				"selected":   st.Selected,
				"rejected":   st.Rejected,
				"untouched":  st.Untouched,
			})
		}),
	)
	defer store.Close()

	logger.Triage("session_started", "Triage session started", map[string]interface{}{
		"gallery_id": opts.GalleryID,
		"photos":     len(photos),
	})
	reload := func(ctx context.Context) ([]triage.Photo, error) {
		return client.LoadPhotos(ctx, opts.GalleryID)
	}
	err = tui.Run(ctx, store, "Gallery "+shortID(opts.GalleryID), reload)
	store.Wait()
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
