package client

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successText = color.New(color.FgGreen).SprintFunc()
	failedText  = color.New(color.FgRed).SprintFunc()
	sourceText  = color.New(color.FgCyan).SprintFunc()
	dimText     = color.New(color.Faint).SprintFunc()
)

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printIngest renders an upload result. A body-level error is returned as
// an error so the process exits non-zero.
func printIngest(w io.Writer, resp *IngestResponse, outputJSON bool) error {
	if outputJSON {
		if err := printJSON(w, resp); err != nil {
			return err
		}
	} else if resp.Status == "success" {
		fmt.Fprintf(w, "%s %s\n", successText("✓"), resp.Message)
	}

	if resp.Status != "success" {
		if !outputJSON {
			fmt.Fprintf(w, "%s %s\n", failedText("✗"), resp.Message)
		}
		return fmt.Errorf("upload failed: %s", resp.Message)
	}
	return nil
}

func printAnswer(w io.Writer, resp *AskResponse, outputJSON bool) error {
	if outputJSON {
		return printJSON(w, resp)
	}

	fmt.Fprintln(w, resp.Answer)
	if len(resp.Sources) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, dimText("Sources:"))
	for _, s := range resp.Sources {
		fmt.Fprintf(w, "  %s %s\n", sourceText(s.Source), dimText(fmt.Sprintf("#%d", s.Chunk)))
	}
	return nil
}
