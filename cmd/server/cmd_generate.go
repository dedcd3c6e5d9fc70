package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/warp/roster-engine/api"
	"github.com/warp/roster-engine/config"
	"github.com/warp/roster-engine/export"
	"github.com/warp/roster-engine/logging"
	"github.com/warp/roster-engine/store"
)

type generateOptions struct {
	year              int
	month             int
	employees         []string
	total             int
	shiftsPerDay      int
	openingHour       int
	hoursPerShift     int
	employeesPerShift int
	threshold         float64
	holidays          []string
	allowUnderstaffed bool
	format            string
	sheet             string
	defaultsFile      string
	db                string
	save              bool
	verbose           bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one monthly roster and print it",
		Long: `Generate a monthly roster without starting the server.

Staff come from --employees, else --total ("Employee 1".."Employee N"),
else the employee directory of --db.

Examples:
  # November 2025, four synthetic employees, JSON
  roster-engine generate --year 2025 --month 10 --total 4

  # Hours sheet as CSV, one closed day
  roster-engine generate --month 10 --employees Ana,Ben,Cy,Dee \
      --holiday 2025-11-27 --format csv --sheet hours

  # From a database directory, saving the result
  roster-engine generate --month 0 --db roster.db --save
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.year, "year", 0, "Calendar year (default: current year)")
	f.IntVar(&opts.month, "month", 0, "Month index, 0 = January .. 11 = December")
	f.StringSliceVar(&opts.employees, "employees", nil, "Comma separated employee names in priority order")
	f.IntVar(&opts.total, "total", 0, `Number of synthetic employees ("Employee 1".."Employee N")`)
	f.IntVar(&opts.shiftsPerDay, "shifts-per-day", 0, "Shifts per day")
	f.IntVar(&opts.openingHour, "opening-hour", 0, "Hour the first shift starts (0-23)")
	f.IntVar(&opts.hoursPerShift, "hours-per-shift", 0, "Length of each shift in hours")
	f.IntVar(&opts.employeesPerShift, "employees-per-shift", 0, "Employees per shift")
	f.Float64Var(&opts.threshold, "threshold", 0, "Weekly hours above which an employee is flagged")
	f.StringArrayVar(&opts.holidays, "holiday", nil, "Closed day YYYY-MM-DD (repeatable)")
	f.BoolVar(&opts.allowUnderstaffed, "allow-understaffed", false, "Generate even when staff cannot cover a full day")
	f.StringVar(&opts.format, "format", string(export.FormatJSON), "Output format: json or csv")
	f.StringVar(&opts.sheet, "sheet", "schedule", "CSV sheet: schedule or hours")
	f.StringVar(&opts.defaultsFile, "defaults", "", "YAML file with roster defaults")
	f.StringVar(&opts.db, "db", "", "Database to read staff and holidays from")
	f.BoolVar(&opts.save, "save", false, "Save the roster to --db")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts *generateOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.sheet != "schedule" && opts.sheet != "hours" {
		return fmt.Errorf("unknown sheet %q (want schedule or hours)", opts.sheet)
	}

	genLogger := zerolog.Nop()
	if opts.verbose {
		genLogger = logging.SetupWithWriter("development", os.Stderr)
	}

	defaults := config.DefaultRosterDefaults()
	if opts.defaultsFile != "" {
		defaults, err = config.LoadDefaultsFile(opts.defaultsFile)
		if err != nil {
			return err
		}
	}

	var st store.Store
	if opts.db != "" {
		st, err = openStore(&config.Config{DBPath: opts.db})
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	req := opts.request(cmd)
	gen := api.NewGenerator(st, defaults, nil, genLogger)
	result, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	if format == export.FormatCSV {
		if opts.sheet == "hours" {
			return export.WriteHoursCSV(out, export.HoursSheetOf(result.Result.Summary))
		}
		return export.WriteScheduleCSV(out, export.ScheduleRows(result.Result.Assignments))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Response)
}

// request maps the flags the user actually set onto a GenerateRequest,
// leaving the rest to the roster defaults.
func (o *generateOptions) request(cmd *cobra.Command) api.GenerateRequest {
	f := cmd.Flags()
	set := func(name string, v int) *int {
		if !f.Changed(name) {
			return nil
		}
		return &v
	}

	month := o.month
	req := api.GenerateRequest{
		Month:             &month,
		Year:              set("year", o.year),
		TotalEmployee:     set("total", o.total),
		ShiftsPerDay:      set("shifts-per-day", o.shiftsPerDay),
		OpeningHour:       set("opening-hour", o.openingHour),
		HoursPerShift:     set("hours-per-shift", o.hoursPerShift),
		EmployeesPerShift: set("employees-per-shift", o.employeesPerShift),
		Employees:         o.employees,
		Holidays:          o.holidays,
		AllowUnderstaffed: o.allowUnderstaffed,
		Save:              o.save,
	}
	if f.Changed("threshold") {
		threshold := o.threshold
		req.WeeklyHourThreshold = &threshold
	}
	return req
}
