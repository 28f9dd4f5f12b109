package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evalgo.org/zabbixctl/internal/reconcile"
	"evalgo.org/zabbixctl/internal/validation"
	"evalgo.org/zabbixctl/models"
)

var templateJSONFile string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage templates",
}

var templateApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Converge a template to the desired state",
	Long: `Converge a template to the desired state.

Without --json-file the template is created if missing and left alone
otherwise. With --json-file the desired export document is compared
against a fresh export (ignoring the volatile date field) and imported
when the two differ.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &models.TemplateParams{Name: args[0]}
		if templateJSONFile != "" {
			data, err := os.ReadFile(templateJSONFile)
			if err != nil {
				return fmt.Errorf("reading desired document: %w", err)
			}
			params.JSON = string(data)
		}

		client, logger, err := connect(cmd.Context())
		if err != nil {
			return err
		}

		r, err := reconcile.NewTemplate(client, validation.New(), logger, params)
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

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Ensure a template is absent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logger, err := connect(cmd.Context())
		if err != nil {
			return err
		}

		r, err := reconcile.NewTemplate(client, validation.New(), logger, &models.TemplateParams{Name: args[0]})
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

var templateDumpCmd = &cobra.Command{
	Use:   "dump <name>",
	Short: "Export a template's configuration document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logger, err := connect(cmd.Context())
		if err != nil {
			return err
		}

		r, err := reconcile.NewTemplate(client, validation.New(), logger, &models.TemplateParams{Name: args[0]})
		if err != nil {
			return err
		}

		res, err := r.Dump(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

func init() {
	templateApplyCmd.Flags().StringVar(&templateJSONFile, "json-file", "", "file holding the desired export document")

	templateCmd.AddCommand(templateApplyCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateDumpCmd)
}
