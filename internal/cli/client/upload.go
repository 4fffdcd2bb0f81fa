package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// UploadCmd creates the upload command.
func UploadCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document",
		Long:  "Uploads a PDF, DOCX, CSV or TXT file. Each extracted chunk is embedded and stored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api := NewAPIClientWithCmd(cmd)

			var onProgress ProgressFunc
			if !quiet && !outputJSON {
				onProgress = func(current, total int64) {
					if total > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "\rreading %d/%d bytes", current, total)
					}
				}
			}

			resp, err := api.UploadFile(cmd.Context(), args[0], onProgress)
			if onProgress != nil {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}
			return printIngest(cmd.OutOrStdout(), resp, outputJSON)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not report read progress")

	return cmd
}

// UploadCMSCmd creates the upload-cms command.
func UploadCMSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload-cms <file.json>",
		Short: "Upload CMS content",
		Long:  `Uploads a JSON array of {"title": ..., "content": ...} records. Use "-" to read from stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			records, err := readCMSRecords(cmd, args[0])
			if err != nil {
				return err
			}

			api := NewAPIClientWithCmd(cmd)
			resp, err := api.UploadCMS(cmd.Context(), records)
			if err != nil {
				return err
			}
			return printIngest(cmd.OutOrStdout(), resp, outputJSON)
		},
	}

	return cmd
}

func readCMSRecords(cmd *cobra.Command, path string) ([]CMSRecord, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []CMSRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: expected a JSON array of {title, content}: %w", path, err)
	}
	return records, nil
}
