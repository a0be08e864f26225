package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/ci"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/config"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
)

func exitWithError(message string, err error) {
	if err != nil {
		logrus.Fatalf("%s: %s", message, err.Error())
	} else {
		logrus.Fatal(message)
	}
}

func main() {
	exitCode, err := execute(os.Args[1:])
	if err != nil {
		exitWithError(errorContext(err), err)
	}
	os.Exit(exitCode)
}

// execute runs the root command with args and returns the exit code the
// process should end with.
func execute(args []string) (int, error) {
	var (
		configFile string
		verbose    bool
		exitCode   int
	)

	rootCmd := &cobra.Command{
		Use:   "insights-cfn-scan",
		Short: "Scan a CloudFormation template with Cloud Conformity and gate the pipeline on the results",
		Long: `insights-cfn-scan submits a CloudFormation template to the Cloud Conformity
template scanner and fails the pipeline when findings at or above CC_RISK_LEVEL are reported.

Required environment variables: CC_API_KEY, CC_REGION, CFN_TEMPLATE_FILE_LOCATION.
Optional: CC_RISK_LEVEL (default LOW), CC_PROFILE_ID, FAIL_PIPELINE, FAIL_PIPELINE_CFN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging("info", verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logrus.Info("Obtaining required environment variables...")
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			setupLogging(cfg.Options.LogLevel, verbose)

			decision, err := ci.NewCIScan(cfg, nil, nil).Run(cmd.Context())
			if err != nil {
				return err
			}
			exitCode = decision.ExitCode
			return nil
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "Optional YAML file with the same keys as the environment variables")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	rootCmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1, err
	}
	return exitCode, nil
}

func errorContext(err error) string {
	switch models.KindOf(err) {
	case models.ConfigurationError:
		return "Invalid configuration"
	case models.FileError:
		return "Error while reading the template"
	case models.UnsupportedFormatError:
		return "Error while checking the template for FailConformityPipeline"
	case models.ProtocolError:
		return "Error while scanning the template with Conformity"
	}
	return "Error while running the scan"
}

func setupLogging(level string, verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
