package commands

import (
	"github.com/spf13/cobra"

	"evalgo.org/zabbixctl/internal/reconcile"
)

var hostgroupCmd = &cobra.Command{
	Use:     "hostgroup",
	Aliases: []string{"group"},
	Short:   "Manage host groups",
}

var hostgroupApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Ensure a host group exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logger, err := connect(cmd.Context())
		if err != nil {
			return err
		}

		res, err := reconcile.NewHostGroup(client, logger).Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

var hostgroupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Ensure a host group is absent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logger, err := connect(cmd.Context())
		if err != nil {
			return err
		}

		res, err := reconcile.NewHostGroup(client, logger).Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

func init() {
	hostgroupCmd.AddCommand(hostgroupApplyCmd)
	hostgroupCmd.AddCommand(hostgroupDeleteCmd)
}
