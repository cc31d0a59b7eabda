package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"eventadmin/config"
	"eventadmin/internal/adapters/ical"
	"eventadmin/internal/adapters/storage"
	"eventadmin/internal/domain"
	"eventadmin/internal/services"
)

// OutputFormat selects how events are written.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and modify the persisted event collection",
	}
	cmd.AddCommand(newEventsListCmd(), newEventsImportCmd(), newEventsExportCmd(), newEventsClearCmd())
	return cmd
}

// openEventService wires the configured storage slot into an EventService.
// The returned function releases the storage.
func openEventService(cfg *config.Config, logger *slog.Logger) (domain.EventService, func() error, error) {
	slot, closeSlot, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	store := services.NewEventStore(slot, logger)
	return services.NewEventService(store, logger, cfg.RequestTimeout), closeSlot, nil
}

// withEventService runs fn against a freshly opened EventService and closes it afterwards.
func withEventService(fn func(svc domain.EventService) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	svc, closeSlot, err := openEventService(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSlot()
	return fn(svc)
}

func parseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = "'" + string(a) + "'"
	}
	return "", fmt.Errorf("invalid format: %s (must be %s)", s, strings.Join(names, " or "))
}

func newEventsListCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every stored event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, FormatText, FormatJSON)
			if err != nil {
				return err
			}
			return withEventService(func(svc domain.EventService) error {
				events, _, err := svc.List(cmd.Context(), domain.PaginationParams{})
				if err != nil {
					return err
				}
				return writeEvents(cmd.OutOrStdout(), events, f)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", string(FormatText), "Output format: text or json")
	return cmd
}

func newEventsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace the stored collection with a JSON array of events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			var events []domain.Event
			if err := json.Unmarshal(data, &events); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			return withEventService(func(svc domain.EventService) error {
				if err := svc.ReplaceAll(cmd.Context(), events); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events.\n", len(events))
				return nil
			})
		},
	}
}

func newEventsExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored collection as JSON or iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, FormatJSON, FormatICS)
			if err != nil {
				return err
			}
			return withEventService(func(svc domain.EventService) error {
				events, _, err := svc.List(cmd.Context(), domain.PaginationParams{})
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if out != "" {
					file, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("creating %s: %w", out, err)
					}
					defer file.Close()
					w = file
				}
				return writeEvents(w, events, f)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", string(FormatJSON), "Output format: json or ics")
	cmd.Flags().StringVar(&out, "out", "", "Write to this file instead of stdout")
	return cmd
}

func newEventsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Store an empty collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEventService(func(svc domain.EventService) error {
				if err := svc.ReplaceAll(cmd.Context(), nil); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all events.")
				return nil
			})
		},
	}
}

func writeEvents(w io.Writer, events []domain.Event, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case FormatICS:
		return ical.Encode(w, events, time.Now())
	default:
		return writeEventsText(w, events)
	}
}

func writeEventsText(w io.Writer, events []domain.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No events.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTS\tTITLE\tVENUE\tCAPACITY")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", e.ID, e.StartsAt.Format(time.RFC3339), e.Title, e.Venue, e.Capacity)
	}
	return tw.Flush()
}
