package client

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question",
		Long:  "Asks a question against the uploaded documents and prints the extracted answer with its sources.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			question := strings.Join(args, " ")

			api := NewAPIClientWithCmd(cmd)
			resp, err := api.Ask(cmd.Context(), question)
			if err != nil {
				return err
			}
			if err := printAnswer(cmd.OutOrStdout(), resp, outputJSON); err != nil {
				return err
			}
			if strings.HasPrefix(resp.Answer, "Error: ") {
				return fmt.Errorf("%s", strings.TrimPrefix(resp.Answer, "Error: "))
			}
			return nil
		},
	}

	return cmd
}
