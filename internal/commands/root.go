package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evalgo.org/zabbixctl/internal/config"
	"evalgo.org/zabbixctl/internal/version"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "zabbixctl",
	Short: "Reconcile monitoring objects against a Zabbix server",
	Long: `zabbixctl converges hosts, host groups and templates on a Zabbix
server towards a desired state described on the command line or in a
YAML manifest.

Each operation reads the current state over the JSON-RPC API, compares
it to the desired state and issues the minimal set of create, update
and delete calls. Operations are idempotent: running them twice changes
nothing the second time.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "server base URL (e.g. https://zabbix.example.com)")
	rootCmd.PersistentFlags().String("user", "", "API login user")
	rootCmd.PersistentFlags().String("password", "", "API login password")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json, console)")

	rootCmd.AddCommand(hostgroupCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override every other configuration source.
	flags := rootCmd.PersistentFlags()
	if v, _ := flags.GetString("server"); v != "" {
		cfg.Server.URL = v
	}
	if v, _ := flags.GetString("user"); v != "" {
		cfg.Auth.User = v
	}
	if v, _ := flags.GetString("password"); v != "" {
		cfg.Auth.Password = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Println(info.String())

		if cmd.Flag("verbose").Changed {
			fmt.Printf("\nDetails:\n")
			fmt.Printf("  Version:    %s\n", info.Version)
			fmt.Printf("  Git Commit: %s\n", info.GitCommit)
			fmt.Printf("  Built:      %s\n", info.BuildTime)
			fmt.Printf("  Go Version: %s\n", info.GoVersion)
			fmt.Printf("  Platform:   %s\n", info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "verbose version output")
}
