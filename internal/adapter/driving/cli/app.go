package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/bigrivercalc-go/internal/adapter/driving/formatter"
	"github.com/diillson/bigrivercalc-go/internal/application/usecase"
	"github.com/diillson/bigrivercalc-go/internal/clock"
	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/diillson/bigrivercalc-go/internal/domain/repository"
	"github.com/diillson/bigrivercalc-go/internal/domain/service"
	"github.com/diillson/bigrivercalc-go/internal/shared/types"
	"github.com/diillson/bigrivercalc-go/pkg/version"
	"github.com/spf13/cobra"
)

// BillingService é implementado por usecase.BillingUseCase.
type BillingService interface {
	FetchBilling(ctx context.Context, period *entity.Period, accountID, ouID string) ([]entity.LineItem, error)
	FetchBillingByOU(ctx context.Context, period *entity.Period) ([]entity.OUResult, error)
	ResolveAccountID(ctx context.Context, accountID string) (string, error)
}

// ServiceFactory builds the billing service once profile and region are known.
type ServiceFactory func(cfg *types.Config) BillingService

// Dependencies groups what the CLI needs from the outside world.
type Dependencies struct {
	NewService ServiceFactory
	ConfigRepo repository.ConfigRepository
	ExportRepo repository.ExportRepository
	Console    types.ConsoleInterface
	Clock      clock.Clock
	// ErrOut recebe o banner; nil usa stderr.
	ErrOut io.Writer
	// IsTerminal reports whether stdout is an interactive terminal.
	IsTerminal func() bool
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	deps    Dependencies
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(deps Dependencies) *CLIApp {
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = func() bool { return false }
	}

	app := &CLIApp{deps: deps}

	rootCmd := &cobra.Command{
		Use:           "bigriver",
		Short:         "AWS billing report by service",
		Long:          "Queries AWS Cost Explorer and prints monthly costs per service as Markdown or a terminal table.",
		Version:       version.FormatVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}
	rootCmd.SetVersionTemplate(`{{printf "bigriver version: %s\n" .Version}}`)

	flags := rootCmd.Flags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("period", "P", "", "Billing period: current, last-month or YYYY-MM (default: current month)")
	flags.StringP("account-id", "a", "", "Linked account to report on; \"self\" uses the caller's account")
	flags.StringP("ou-id", "o", "", "Organizational unit whose active accounts are reported")
	flags.Bool("by-ou", false, "Report every top-level organizational unit separately")
	flags.StringP("format", "f", types.DefaultFormat, "Output format: markdown or terminal")
	flags.Bool("no-color", false, "Disable colored terminal output")
	flags.StringP("profile", "p", "", "AWS profile to use")
	flags.StringP("region", "r", "", "AWS region for the credential chain")
	flags.StringP("report-name", "n", "", "Base name for exported report files (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Export report types: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with the given context and arguments.
func (app *CLIApp) ExecuteContext(ctx context.Context, args []string) error {
	if args == nil {
		args = []string{}
	}
	app.rootCmd.SetArgs(args)
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()
	configFile, _ := flags.GetString("config-file")
	period, _ := flags.GetString("period")
	accountID, _ := flags.GetString("account-id")
	ouID, _ := flags.GetString("ou-id")
	byOU, _ := flags.GetBool("by-ou")
	format, _ := flags.GetString("format")
	noColor, _ := flags.GetBool("no-color")
	profile, _ := flags.GetString("profile")
	region, _ := flags.GetString("region")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	return &types.CLIArgs{
		ConfigFile: configFile,
		Profile:    profile,
		Region:     region,
		Format:     format,
		Period:     period,
		AccountID:  accountID,
		OUID:       ouID,
		ByOU:       byOU,
		NoColor:    noColor,
		ReportName: reportName,
		ReportType: reportType,
		Dir:        dir,
	}, nil
}

// loadConfig aplica, em ordem: arquivo, variáveis BIGRIVER_*, flags alteradas e defaults.
func (app *CLIApp) loadConfig(args *types.CLIArgs) (*types.Config, error) {
	cfg := &types.Config{}

	configFile := args.ConfigFile
	if configFile == "" {
		configFile = os.Getenv(types.EnvConfigFile)
	}
	if configFile != "" {
		loaded, err := app.deps.ConfigRepo.LoadConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	changed := app.rootCmd.Flags().Changed
	if changed("profile") {
		cfg.Profile = args.Profile
	}
	if changed("region") {
		cfg.Region = args.Region
	}
	if changed("format") || cfg.Format == "" {
		cfg.Format = strings.ToLower(args.Format)
	}
	if changed("period") {
		cfg.Period = args.Period
	}
	if changed("account-id") {
		cfg.AccountID = args.AccountID
	}
	if changed("ou-id") {
		cfg.OUID = args.OUID
	}
	if changed("by-ou") {
		cfg.ByOU = args.ByOU
	}
	if args.NoColor {
		disabled := false
		cfg.Color = &disabled
	}
	if changed("report-name") {
		cfg.ReportName = args.ReportName
	}
	if changed("report-type") || len(cfg.ReportType) == 0 {
		cfg.ReportType = args.ReportType
	}
	if changed("dir") || cfg.Dir == "" {
		cfg.Dir = args.Dir
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, _ []string) error {
	args, err := app.parseArgs()
	if err != nil {
		return err
	}

	cfg, err := app.loadConfig(args)
	if err != nil {
		return err
	}

	interactive := app.deps.IsTerminal()
	colored := interactive && cfg.ColorEnabled()
	if interactive {
		displayWelcomeBanner(app.deps.ErrOut, colored)
	}

	f, err := formatter.New(cfg.Format, colored)
	if err != nil {
		return err
	}

	period := service.ResolvePeriod(cfg.Period, app.deps.Clock.Now())
	if period == nil && strings.TrimSpace(cfg.Period) != "" {
		app.deps.Console.LogWarning("Unrecognized period %q, using the current month", cfg.Period)
	}

	if cfg.ByOU && (cfg.AccountID != "" || cfg.OUID != "") {
		return entity.NewInputError("--by-ou cannot be combined with --account-id or --ou-id")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	billing := app.deps.NewService(cfg)
	report, err := app.fetchReport(ctx, billing, cfg, period)
	if err != nil {
		return err
	}

	if !reportHasItems(report) {
		app.deps.Console.LogWarning("No billing data found.")
		return nil
	}

	if report.IsGrouped() {
		app.deps.Console.Println(f.FormatByOU(report.ByOU, report.Period))
	} else {
		app.deps.Console.Println(f.Format(report.Items, report.AccountID, report.Period))
	}

	if cfg.ReportName != "" {
		return app.exportReport(*report, cfg)
	}
	return nil
}

func (app *CLIApp) fetchReport(ctx context.Context, billing BillingService, cfg *types.Config, period *entity.Period) (*entity.BillingReport, error) {
	status := app.deps.Console.Status("Fetching billing data from Cost Explorer...")
	defer status.Stop()

	if cfg.ByOU {
		results, err := billing.FetchBillingByOU(ctx, period)
		if err != nil {
			return nil, err
		}
		return &entity.BillingReport{Period: usecase.OUPeriodLabel(results, period), ByOU: results}, nil
	}

	accountID, err := billing.ResolveAccountID(ctx, cfg.AccountID)
	if err != nil {
		return nil, err
	}
	if accountID != cfg.AccountID {
		status.Update(fmt.Sprintf("Fetching billing data for account %s...", accountID))
	}

	items, err := billing.FetchBilling(ctx, period, accountID, cfg.OUID)
	if err != nil {
		return nil, err
	}
	return &entity.BillingReport{
		AccountID: accountID,
		OUID:      cfg.OUID,
		Period:    usecase.PeriodLabel(items, period),
		Items:     items,
	}, nil
}

func (app *CLIApp) exportReport(report entity.BillingReport, cfg *types.Config) error {
	for _, reportType := range cfg.ReportType {
		var (
			path string
			err  error
		)
		switch strings.ToLower(strings.TrimSpace(reportType)) {
		case "csv":
			path, err = app.deps.ExportRepo.ExportToCSV(report, cfg.ReportName, cfg.Dir)
		case "json":
			path, err = app.deps.ExportRepo.ExportToJSON(report, cfg.ReportName, cfg.Dir)
		case "pdf":
			path, err = app.deps.ExportRepo.ExportToPDF(report, cfg.ReportName, cfg.Dir)
		default:
			return fmt.Errorf("%w: %s", types.ErrUnsupportedReportType, reportType)
		}
		if err != nil {
			return fmt.Errorf("failed to export %s report: %w", reportType, err)
		}
		app.deps.Console.LogSuccess("%s report saved to %s", strings.ToUpper(reportType), path)
	}
	return nil
}

func reportHasItems(report *entity.BillingReport) bool {
	if len(report.Items) > 0 {
		return true
	}
	for _, result := range report.ByOU {
		if len(result.Items) > 0 {
			return true
		}
	}
	return false
}
