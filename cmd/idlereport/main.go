package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/younsl/idlereport/internal/app"
	"github.com/younsl/idlereport/internal/config"
	"github.com/younsl/idlereport/internal/logger"
	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/internal/version"
	"github.com/younsl/idlereport/pkg/formatter"
	"github.com/younsl/idlereport/pkg/scanner"
	"github.com/younsl/idlereport/pkg/utils"
)

// Output formats for the scan result
const (
	outputTable = "table"
	outputCSV   = "csv"
)

var (
	showVersion bool
	listKinds   bool
	dryRun      bool
	kinds       []string
	output      string
)

// startScanSpinner creates and starts a spinner on stderr so CSV output stays clean
func startScanSpinner(region string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" Scanning unused resources in %s ...", region)
	s.Start()
	return s
}

func main() {
	v := config.NewViper()
	// Interactive runs read better with console logs
	v.SetDefault(config.KeyLogFormat, logger.FormatConsole)

	rootCmd := &cobra.Command{
		Use:   "idlereport",
		Short: "Report unused AWS resources",
		Long: `idlereport scans one AWS region for unused resources, prints the findings,
and optionally stores a CSV report in S3 and sends a summary to an SNS topic.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If version flag is set, print version info and exit
			if showVersion {
				fmt.Println(version.Get())
				return nil
			}

			if listKinds {
				printKinds()
				return nil
			}

			if output != outputTable && output != outputCSV {
				return fmt.Errorf("unsupported output format %q (table, csv)", output)
			}

			return run(cmd.Context(), v)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flags.BoolVarP(&listKinds, "list-kinds", "l", false, "List available resource kinds")
	flags.BoolVar(&dryRun, "dry-run", false, "Scan and print only; skip S3, SNS and CloudWatch")
	flags.StringSliceVarP(&kinds, "kinds", "k", nil, "Resource kinds to scan (comma separated, default: all registered)")
	flags.StringVarP(&output, "output", "o", outputTable, "Output format: table or csv")

	flags.Int("ec2-days", models.DefaultThresholds().EC2UnusedDays, "Days a stopped EC2 instance must be idle (EC2_UNUSED_DAYS)")
	flags.Int("ebs-days", models.DefaultThresholds().EBSUnusedDays, "Days an unattached EBS volume must exist (EBS_UNUSED_DAYS)")
	flags.String("bucket", "", "S3 bucket for the CSV report (S3_BUCKET_NAME)")
	flags.String("topic", "", "SNS topic ARN for the summary (SNS_TOPIC_ARN)")
	flags.StringP("region", "r", utils.GetDefaultRegion(), "AWS region to scan (AWS_REGION)")
	flags.Int("concurrency", scanner.DefaultConcurrency, "Number of resource kinds scanned at once (SCAN_CONCURRENCY)")
	flags.Duration("probe-timeout", scanner.DefaultProbeTimeout, "Deadline for each resource kind (PROBE_TIMEOUT)")
	flags.String("extra-kinds", "", "Optional resource kinds to add, comma separated (EXTRA_KINDS)")
	flags.String("metrics-namespace", "", "CloudWatch namespace for scan metrics (METRICS_NAMESPACE)")
	flags.String("log-level", "info", "Log level (LOG_LEVEL)")
	flags.String("log-format", logger.FormatConsole, "Log format: json or console (LOG_FORMAT)")

	if err := bindFlags(v, flags); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bindFlags lets each flag override its environment variable
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		config.KeyEC2UnusedDays:    "ec2-days",
		config.KeyEBSUnusedDays:    "ebs-days",
		config.KeyBucketName:       "bucket",
		config.KeyTopicARN:         "topic",
		config.KeyRegion:           "region",
		config.KeyConcurrency:      "concurrency",
		config.KeyProbeTimeout:     "probe-timeout",
		config.KeyExtraKinds:       "extra-kinds",
		config.KeyMetricsNamespace: "metrics-namespace",
		config.KeyLogLevel:         "log-level",
		config.KeyLogFormat:        "log-format",
	}

	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// run scans once and prints the result
func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, err := logger.Stderr(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	ctx = log.WithContext(ctx)

	a, err := app.Build(ctx, cfg, app.BuildOptions{
		Kinds:  config.ParseKinds(strings.Join(kinds, ",")),
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	s := startScanSpinner(cfg.Region)
	out, err := a.Run(ctx)
	s.Stop()
	if err != nil {
		return err
	}

	switch output {
	case outputCSV:
		if _, err := os.Stdout.Write(out.Rendered.Document); err != nil {
			return fmt.Errorf("error writing CSV: %w", err)
		}
	default:
		formatter.PrintFindingsTable(os.Stdout, out.Result.Report, out.Result.Duration)
		formatter.PrintKindStats(os.Stdout, out.Result.Stats)
		if out.StorageLocation != "" {
			fmt.Printf("\nReport saved to %s\n", out.StorageLocation)
		}
	}

	return nil
}

// printKinds lists every kind with its description, default kinds first
func printKinds() {
	var infos []formatter.KindInfo
	for _, k := range append(append([]models.ResourceKind{}, scanner.DefaultKinds...), scanner.OptionalKinds...) {
		infos = append(infos, formatter.KindInfo{
			Kind:        k,
			Description: scanner.Describe(k),
			Default:     !scanner.IsOptional(k),
		})
	}

	formatter.PrintKinds(os.Stdout, infos)

	fmt.Println("\nExample usage:")
	fmt.Printf("  %s --kinds %s,%s\n", os.Args[0], scanner.DefaultKinds[0], scanner.DefaultKinds[1])
	fmt.Printf("  %s --extra-kinds %s\n", os.Args[0], scanner.OptionalKinds[0])
}
