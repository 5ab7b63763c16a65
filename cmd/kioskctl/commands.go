package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/dto"
	"github.com/noah-isme/kiosk-api/internal/repository"
	"github.com/noah-isme/kiosk-api/internal/service"
	"github.com/noah-isme/kiosk-api/pkg/clock"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

type cliOptions struct {
	schedule     string
	replacements string
	bells        string
	at           string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "kioskctl",
		Short:         "Inspect kiosk schedule and substitution files offline",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.schedule, "schedule", "schedule.json", "schedule JSON file")
	flags.StringVar(&opts.replacements, "replacements", "replacements.docx", "substitution bulletin (.docx)")
	flags.StringVar(&opts.bells, "bells", "", "bell timetable CSV; built-in timetable when empty")
	flags.StringVar(&opts.at, "at", "", "evaluation instant (RFC3339); defaults to now")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log source parsing details to stderr")

	root.AddCommand(
		newClassesCmd(opts),
		newStateCmd(opts),
		newAgendaCmd(opts),
		newSubstitutionsCmd(opts),
	)
	return root
}

func newClassesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List classes found in the schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kiosk, err := opts.kiosk(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), kiosk.Classes())
		},
	}
}

func newStateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state <class>",
		Short: "Evaluate the lesson or break state of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kiosk, err := opts.kiosk(cmd.Context())
			if err != nil {
				return err
			}
			info, at := kiosk.State(args[0], time.Time{})
			formatted := service.FormatRemaining(info.CurrentState.TimeRemaining)
			return writeJSON(cmd.OutOrStdout(), dto.NewClassStateResponse(args[0], at, info, formatted))
		},
	}
}

func newAgendaCmd(opts *cliOptions) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "agenda <class>",
		Short: "Print the lesson and break timeline for one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kiosk, err := opts.kiosk(cmd.Context())
			if err != nil {
				return err
			}
			weekday := kiosk.Now().Weekday()
			if day != "" {
				parsed, ok := service.ParseWeekday(day)
				if !ok {
					return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", day))
				}
				weekday = parsed
			}
			items, err := kiosk.Agenda(cmd.Context(), args[0], weekday)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.AgendaResponse{
				ClassName: args[0],
				Day:       strings.ToLower(weekday.String()),
				DayName:   service.DayName(weekday),
				Items:     items,
			})
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "weekday (monday, пн, 1..7); defaults to the evaluation day")
	return cmd
}

func newSubstitutionsCmd(opts *cliOptions) *cobra.Command {
	var grouped bool
	cmd := &cobra.Command{
		Use:   "substitutions",
		Short: "Print the parsed substitution bulletin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kiosk, err := opts.kiosk(cmd.Context())
			if err != nil {
				return err
			}
			if !grouped {
				return writeJSON(cmd.OutOrStdout(), kiosk.Bulletin())
			}
			bulletin, err := kiosk.GroupedBulletin(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), bulletin)
		},
	}
	cmd.Flags().BoolVar(&grouped, "grouped", false, "group records by class")
	return cmd
}

// kiosk loads the configured files into a fresh snapshot store, evaluated at a fixed instant.
func (o *cliOptions) kiosk(ctx context.Context) (*service.KioskService, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	at := time.Now()
	if o.at != "" {
		parsed, err := time.Parse(time.RFC3339, o.at)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "--at must be RFC3339")
		}
		at = parsed
	}

	logr := zap.NewNop()
	if o.verbose {
		dev, err := zap.NewDevelopment()
		if err == nil {
			logr = dev
		}
	}

	bells, err := repository.NewBellCSVRepository(o.bells).Load()
	if err != nil {
		return nil, err
	}
	store := repository.NewSnapshotStore(bells)
	clk := clock.Fixed{At: at}

	refresh := service.NewRefreshService(
		repository.NewScheduleFileRepository(o.schedule, logr),
		repository.NewSubstitutionDocxRepository(o.replacements, clk.Now, logr),
		store, nil, nil, nil, clk, service.RefreshConfig{}, logr,
	)
	if _, err := refresh.Reload(ctx); err != nil {
		return nil, err
	}
	return service.NewKioskService(store, clk, nil, nil, nil, logr), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
