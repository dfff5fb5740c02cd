package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/app"
	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database/migrations"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp loads the environment config and wires the services. The caller must
// defer a.Close().
func newApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "attendctl",
	Short:        "Administer the staff attendance dashboard",
	SilenceUsage: true,
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the document store schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateUp(stdlib.OpenDBFromPool(db.Pool)); err != nil {
			return err
		}
		fmt.Println("Migrations applied.")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		status, err := migrations.GetStatus(stdlib.OpenDBFromPool(db.Pool))
		if err != nil {
			return err
		}
		fmt.Printf("current: %d\nlatest:  %d\ndirty:   %t\n", status.Current, status.Latest, status.Dirty)
		if !status.UpToDate() {
			fmt.Println("Run 'attendctl migrate up' to apply pending migrations.")
		}
		return nil
	},
}

// user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a dashboard account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.Auth.Register(cmd.Context(), auth.RegisterRequest{
			Username:        args[0],
			Password:        password,
			ConfirmPassword: confirm,
			Role:            role,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created %s account %q.\n", u.Role, u.Username)
		return nil
	},
}

// readPassword prompts without echo when stdin is a terminal.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return line, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

// staff command
var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Inspect the staff roster",
}

var staffListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff members",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		members, err := a.Staff.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(members) == 0 {
			fmt.Println("No staff members.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDEPARTMENT\tPOSITION\tEMAIL")
		for _, m := range members {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, m.Department, m.Position, m.Email)
		}
		return w.Flush()
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export attendance records to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		staffName, _ := cmd.Flags().GetString("staff")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		archive, _ := cmd.Flags().GetBool("archive")

		req := report.ExportRequest{
			ReportFilter: report.ReportFilter{
				Period:    report.Period(period),
				StartDate: start,
				EndDate:   end,
				StaffName: staffName,
			},
			Format: report.ExportFormat(strings.ToLower(format)),
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if archive {
			res, err := a.Report.Archive(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Archived %d rows to %s\n%s\n", res.Rows, res.Key, res.URL)
			return nil
		}

		file, err := a.Report.Export(cmd.Context(), req)
		if err != nil {
			return err
		}
		if output == "" {
			output = file.Filename
		}
		if output == "-" {
			_, err := os.Stdout.Write(file.Data)
			return err
		}
		if err := os.WriteFile(output, file.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", file.Rows, output)
		return nil
	},
}

// settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the effective dashboard settings as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		settings, err := config.LoadSettings(cfg.App.SettingsFile)
		if err != nil {
			return err
		}
		return config.WriteSettings(os.Stdout, settings)
	},
}

// jobs command
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run background jobs by hand",
}

var jobsRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Archive the previous day and probe the store once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		loc, err := a.Settings.Location()
		if err != nil {
			return err
		}
		scheduler := cron.NewScheduler()
		cron.NewDashboardJobs(a.Report, a.System, loc).RegisterJobs(scheduler, cron.Intervals{
			Archive: 24 * time.Hour,
			Probe:   time.Minute,
		})
		scheduler.RunOnce(cmd.Context())
		fmt.Printf("Ran %d jobs.\n", scheduler.Len())
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	userCmd.AddCommand(userAddCmd)
	userAddCmd.Flags().String("role", "staff", "Account role (admin or staff)")

	staffCmd.AddCommand(staffListCmd)

	exportCmd.Flags().StringP("period", "p", string(report.PeriodLast7Days), "today, last_7_days, last_30_days or custom")
	exportCmd.Flags().String("start", "", "Start date (YYYY-MM-DD) for a custom period")
	exportCmd.Flags().String("end", "", "End date (YYYY-MM-DD) for a custom period")
	exportCmd.Flags().String("staff", "", "Limit to one staff member")
	exportCmd.Flags().StringP("format", "f", "csv", "csv or xlsx")
	exportCmd.Flags().StringP("output", "o", "", "Output file, - for stdout (defaults to the generated name)")
	exportCmd.Flags().Bool("archive", false, "Upload to export storage instead of writing locally")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(staffCmd)
	rootCmd.AddCommand(exportCmd)

	jobsCmd.AddCommand(jobsRunCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(jobsCmd)
}
