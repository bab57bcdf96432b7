package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leoagomes/ctrq"
	"github.com/leoagomes/ctrq/config"
	"github.com/leoagomes/ctrq/logger"
	"github.com/leoagomes/ctrq/version"
)

var rootCmd = &cobra.Command{
	Use:   "ctrq",
	Short: "Minimal HTTP request tool",
	Long: `ctrq - minimal HTTP request tool

Issues GET/POST/PUT/DELETE requests through the ctrq request layer and
prints the response status, headers, and body.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return initService(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctrq.Terminate()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringArrayP("header", "H", nil, "Extra header (repeatable, e.g., -H 'Accept: application/json')")
	rootCmd.PersistentFlags().Int("proxy", 0, "Proxy slot from configuration (0 = environment default)")
	rootCmd.PersistentFlags().Bool("verify-tls", false, "Verify server certificates")
	rootCmd.PersistentFlags().Bool("no-keep-alive", false, "Disable connection keep-alive")
	rootCmd.PersistentFlags().BoolP("include", "i", false, "Include response headers in output")
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug enables request tracing)")
}

// initService loads configuration, initializes logging, and sets up
// the package-level request service.
func initService(cmd *cobra.Command) error {
	var cfg config.Config

	opts := []config.LoaderOption{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.Load(&cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	return ctrq.Initialize(cfg.HTTP)
}

// requestOptions translates command flags into request options.
func requestOptions(cmd *cobra.Command) ([]ctrq.Option, error) {
	opts := []ctrq.Option{}

	headers, _ := cmd.Flags().GetStringArray("header")
	parsed, err := parseHeaders(headers)
	if err != nil {
		return nil, err
	}
	if len(parsed) > 0 {
		opts = append(opts, ctrq.WithHeaders(parsed))
	}

	if proxy, _ := cmd.Flags().GetInt("proxy"); proxy != 0 {
		opts = append(opts, ctrq.WithProxy(proxy))
	}
	if verify, _ := cmd.Flags().GetBool("verify-tls"); verify {
		opts = append(opts, ctrq.WithSSLVerification())
	}
	if noKeepAlive, _ := cmd.Flags().GetBool("no-keep-alive"); noKeepAlive {
		opts = append(opts, ctrq.WithoutKeepAlive())
	}
	return opts, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ctrq %s\n", version.Get())
	},
}
