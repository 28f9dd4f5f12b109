package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the server's API version",
	Long:  `Query the server's API version. The call needs no credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}

		client, err := newClient(logger)
		if err != nil {
			return err
		}

		version, err := client.APIVersion(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%s: API version %s\n", cfg.Server.URL, version)
		return nil
	},
}
