package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"icassist/lib/campus"
	"icassist/lib/gradestore"
	"icassist/lib/platforms/infinitecampus"
	"icassist/lib/restyutil"
	"icassist/lib/telemetry"
	"icassist/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	format     string
	school     string
	verbose    bool

	config Config
	out    io.Writer
	tel    telemetry.API
	portal *campus.Portal
}

func (a *app) setup(cmd *cobra.Command) error {
	err := checkFormat(a.format)
	if err != nil {
		return err
	}
	telemetry.InitSlog(a.verbose)

	a.config, err = LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("read config %s: %w", a.configPath, err)
	}
	err = timezone.SetLocation(a.config.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	if a.school == "" {
		a.school = a.config.SchoolID
	}
	a.out = cmd.OutOrStdout()
	if a.tel == nil {
		a.tel = telemetry.SlogAPI{}
	}
	return nil
}

// session logs in on first use.
func (a *app) session(ctx context.Context) (*campus.Portal, error) {
	if a.portal != nil {
		return a.portal, nil
	}

	opts := infinitecampus.Options{
		SearchURL:         a.config.SearchURL,
		RequestsPerSecond: a.config.RequestsPerSecond,
		CloudflareBypass:  a.config.CloudflareBypass,
	}
	if a.config.HTTPDumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(a.config.HTTPDumpDir)
		if err != nil {
			return nil, err
		}
		opts.Dump = output
	}

	portal, err := campus.Login(ctx, a.config.Credentials(), campus.Options{
		Client:    opts,
		Legacy:    a.config.Legacy,
		Telemetry: a.tel,
		OnMultiSchool: func(warning campus.MultiSchoolWarning) {
			slog.Warn(
				"reading the first school, pass --school or set school_id to pick another",
				"chosen", warning.Chosen.ID,
				"schools", len(warning.Available),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	a.portal = portal
	return portal, nil
}

func (a *app) store() (gradestore.Store, func(), error) {
	db, err := a.config.Gradestore.OpenDB()
	if err != nil {
		return gradestore.Store{}, nil, fmt.Errorf("open grade store: %w", err)
	}
	return gradestore.NewStore(db), func() { db.Close() }, nil
}

func (a *app) render(value any, fill func(t table.Writer)) error {
	return render(a.out, a.format, value, fill)
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "campus-cli",
		Short:        "campus-cli reads grades, assignments and notifications from an Infinite Campus portal.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "campus.json5", "The config file, a bare name is searched for in the parent directories.")
	flags.StringVarP(&a.format, "format", "f", formatTable, "The output format: table, json or yaml.")
	flags.StringVar(&a.school, "school", "", "The id of the school to read, overrides school_id.")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output.")

	cmd.AddCommand(
		termsCmd(a),
		coursesCmd(a),
		rosterCmd(a),
		assignmentsCmd(a),
		notificationsCmd(a),
		snapshotCmd(a),
		historyCmd(a),
		digestCmd(a),
		watchCmd(a),
	)
	return cmd
}

func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
