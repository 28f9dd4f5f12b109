package commands

import (
	"github.com/spf13/cobra"

	"evalgo.org/zabbixctl/internal/reconcile"
	"evalgo.org/zabbixctl/internal/validation"
	"evalgo.org/zabbixctl/models"
)

var (
	hostVisible   string
	hostGroups    string
	hostTemplates string
	hostStatus    string
	hostDNS       string
	hostIP        string
	hostPort      string
	hostMain      int
	hostType      string
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Manage hosts",
}

var hostApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Converge a host to the desired state",
	Long: `Converge a host to the state given by the flags.

A missing host is created with its interface, group and template links.
An existing host is compared field by field (group and template links as
sets) and updated only when something differs; the entity fields and the
interface are pushed in two separate calls.

Examples:
  # Agent-monitored host reachable by DNS name
  zabbixctl host apply host1 --groups "Linux servers" --dns host1.example.com

  # SNMP device by IP, unmonitored for now
  zabbixctl host apply switch1 --groups Network --ip 10.0.0.5 --type SNMP --status unmonitored`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &models.HostParams{
			Name:      args[0],
			Visible:   hostVisible,
			Groups:    hostGroups,
			Templates: hostTemplates,
			Status:    hostStatus,
			DNS:       hostDNS,
			IP:        hostIP,
			Port:      hostPort,
			Main:      &hostMain,
			Type:      hostType,
		}

		client, logger, err := connect(cmd.Context())
		if err != nil {
			return err
		}

		r, err := reconcile.NewHost(client, validation.New(), logger, params)
		if err != nil {
			return err
		}

		res, err := r.Create(cmd.Context())
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

var hostDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Ensure a host is absent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logger, err := connect(cmd.Context())
		if err != nil {
			return err
		}

		r, err := reconcile.NewHost(client, validation.New(), logger, &models.HostParams{Name: args[0]})
		if err != nil {
			return err
		}

		res, err := r.Delete(cmd.Context())
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

func init() {
	hostApplyCmd.Flags().StringVar(&hostVisible, "visible", "", "visible display name")
	hostApplyCmd.Flags().StringVar(&hostGroups, "groups", "", "comma-separated host group names (required)")
	hostApplyCmd.Flags().StringVar(&hostTemplates, "templates", "", "comma-separated template names to link")
	hostApplyCmd.Flags().StringVar(&hostStatus, "status", "monitored", "monitoring status (monitored, unmonitored, yes, no)")
	hostApplyCmd.Flags().StringVar(&hostDNS, "dns", "", "interface DNS name (mutually exclusive with --ip)")
	hostApplyCmd.Flags().StringVar(&hostIP, "ip", "", "interface IP address (mutually exclusive with --dns)")
	hostApplyCmd.Flags().StringVar(&hostPort, "port", "", "interface port (default depends on --type)")
	hostApplyCmd.Flags().IntVar(&hostMain, "main", 1, "mark the interface as the default one (0 or 1)")
	hostApplyCmd.Flags().StringVar(&hostType, "type", "agent", "interface type (agent, SNMP, IPMI, JMX)")

	hostCmd.AddCommand(hostApplyCmd)
	hostCmd.AddCommand(hostDeleteCmd)
}
