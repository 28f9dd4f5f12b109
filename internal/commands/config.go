package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	shown := *cfg
	if shown.Auth.Password != "" {
		shown.Auth.Password = "********"
	}

	data, err := yaml.Marshal(shown)
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	defaultConfig := `# zabbixctl Configuration

server:
  url: https://zabbix.example.com
  timeout: 30s

auth:
  user: Admin
  password: ""
  legacy: false

logging:
  level: info
  format: console
`

	if err := os.WriteFile("config.yaml", []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Println("✓ Created config.yaml")
	return nil
}
