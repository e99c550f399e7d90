package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/census/pkg/census/checksum"
	"github.com/jamesainslie/census/pkg/census/config"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/scanner"
	"github.com/jamesainslie/census/pkg/census/types"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "census [flags] ROOT...",
		Short: "Generate a delimited dataset describing files in directories",
		Long: `Census scans one or more directory roots and emits a comma-separated
dataset describing every regular file found: name, size, extension,
timestamps, owner, path, permissions, checksum, and a bounded content
preview. The stream has no header row and a fixed ten-column order, and
is meant to be fed to a tabular-import pipeline.

Examples:
  census /var/data                     # Scan one root to stdout
  census -o files.csv /srv/a /srv/b    # Two roots into a file
  census --no-content /var/data        # Skip the content column
  census --import-options opts.json -o files.csv /var/data`,
		Args: cobra.ArbitraryArgs,
		RunE: runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/census/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", `dataset destination path ("-" for stdout)`)
	rootCmd.PersistentFlags().Bool("no-content", false, "leave the fileContent column empty")
	rootCmd.PersistentFlags().Int("max-depth", 0, "directory levels to visit below each root (default 1)")
	rootCmd.PersistentFlags().Int("preview-bytes", 0, "content preview budget per file in bytes")
	rootCmd.PersistentFlags().String("checksum", "", "checksum algorithm: sha256, sha1, md5")
	rootCmd.PersistentFlags().String("import-options", "", "write the importer option block to this path")
	rootCmd.PersistentFlags().Bool("progress", false, "report scan progress on stderr")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("no_content", rootCmd.PersistentFlags().Lookup("no-content"))
	_ = viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	_ = viper.BindPFlag("preview_bytes", rootCmd.PersistentFlags().Lookup("preview-bytes"))
	_ = viper.BindPFlag("checksum", rootCmd.PersistentFlags().Lookup("checksum"))
	_ = viper.BindPFlag("import_options", rootCmd.PersistentFlags().Lookup("import-options"))
	_ = viper.BindPFlag("progress", rootCmd.PersistentFlags().Lookup("progress"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, config.DefaultConfigDirName))
		}
		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", config.DefaultConfigDirName))
		}
	}

	viper.SetEnvPrefix("CENSUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// runScan executes the scan with the merged flag/config settings.
func runScan(cmd *cobra.Command, args []string) error {
	roots := args
	if len(roots) == 0 {
		roots = viper.GetStringSlice("roots")
	}
	if len(roots) == 0 {
		return fmt.Errorf("no roots given: pass directory paths or set roots in the config file")
	}

	logLevel := "info"
	if getVerbose() {
		logLevel = "debug"
	}
	if err := logging.Init(logging.Config{
		Level:   logLevel,
		Path:    viper.GetString("logging.path"),
		Console: !getQuiet(),
	}); err != nil {
		printError("failed to initialize logging: %v", err)
		return err
	}
	defer func() { _ = logging.Close() }()

	algo, err := checksum.ParseAlgorithm(viper.GetString("checksum"))
	if err != nil {
		printError("%v", err)
		return err
	}

	opts := scanner.Options{
		Roots:             roots,
		Output:            viper.GetString("output"),
		MaxDepth:          viper.GetInt("max_depth"),
		PreviewBytes:      viper.GetInt("preview_bytes"),
		Checksum:          algo,
		IncludeContent:    viper.GetBool("content") && !viper.GetBool("no_content"),
		ImportOptionsPath: viper.GetString("import_options"),
	}
	if viper.GetBool("progress") {
		opts.OnProgress = printProgress
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := scanner.NewRunner(opts).Run(ctx)
	if viper.GetBool("progress") {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		printError("scan incomplete: %v", err)
	}

	printSummary(stats)

	return err
}

// printProgress renders a one-line progress update on stderr.
func printProgress(p scanner.Progress) {
	if p.FilesExpected > 0 {
		fmt.Fprintf(os.Stderr, "\r\033[K%d/%d files  %s", p.FilesWritten, p.FilesExpected, p.CurrentPath)
		return
	}
	fmt.Fprintf(os.Stderr, "\r\033[K%d files  %s", p.FilesWritten, p.CurrentPath)
}

// printSummary reports the run outcome unless quiet mode is on.
func printSummary(stats types.Stats) {
	printInfo("%d files, %s written in %s (%d roots ok, %d failed, %d files skipped)",
		stats.FilesWritten,
		types.FormatSize(stats.BytesWritten),
		stats.Elapsed.Round(time.Millisecond),
		stats.RootsScanned,
		stats.RootsFailed,
		stats.FilesSkipped)
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message to stderr if quiet mode is not enabled.
// The dataset may be going to stdout, so human output never does.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
