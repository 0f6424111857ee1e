package controller

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "islet.dev/pkg/islet/internal/model"
)

// NewUI picks the display implementation: a live TUI on interactive
// terminals, plain text otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(_ context.Context) {}

// SuiteStarted prints the discovery count.
func (s *SimpleUI) SuiteStarted(ctx context.Context, files []m.Path) {
	if ctx.Err() != nil {
		return
	}

	s.cmd.Printf("Running %d test file(s)\n", len(files))
}

// FileStarted is a no-op for SimpleUI; results print on completion.
func (s *SimpleUI) FileStarted(_ context.Context, _ m.Path) {}

// FileFinished prints one line per finished file plus failure details.
func (s *SimpleUI) FileFinished(ctx context.Context, result m.FileResult) {
	if ctx.Err() != nil {
		return
	}

	marker := "ok"
	if result.Failed() {
		marker = "FAIL"
	}

	s.cmd.Printf("%-4s %s (%d block(s), %v)\n", marker, result.File, len(result.Blocks), result.Elapsed)

	for _, block := range result.Blocks {
		if block.Status != m.Failed {
			continue
		}

		s.cmd.Printf("     block %q:\n%s\n", block.Name, indent(block.Message))
	}

	if result.Fatal != "" {
		s.cmd.Printf("     fatal: %s\n", result.Fatal)
	}
}

// DisplaySummary renders the aggregate table after the last file.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cmd.Printf("\n%s", renderSummaryTable(summary))

	total, passed, failed := summary.Totals()
	s.cmd.Printf("\n%d block(s): %d passed, %d failed; %d of %d file(s) failed\n",
		total, passed, failed, summary.FailedFiles(), len(summary.Files))

	return nil
}

func renderSummaryTable(summary m.RunSummary) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Blocks", "Passed", "Failed", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, file := range summary.Files {
		blocks := len(file.Blocks)
		passed := 0

		for _, block := range file.Blocks {
			if block.Status == m.Passed {
				passed++
			}
		}

		status := "ok"
		if file.Failed() {
			status = "FAIL"
		}

		table.Append([]string{
			string(file.File),
			fmt.Sprintf("%d", blocks),
			fmt.Sprintf("%d", passed),
			fmt.Sprintf("%d", blocks-passed),
			status,
		})
	}

	total, passed, failed := summary.Totals()
	table.SetFooter([]string{
		fmt.Sprintf("%d file(s)", len(summary.Files)),
		fmt.Sprintf("%d", total),
		fmt.Sprintf("%d", passed),
		fmt.Sprintf("%d", failed),
		"",
	})

	table.Render()

	return buf.String()
}

func indent(s string) string {
	var buf bytes.Buffer

	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		buf.WriteString("       ")
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	return buf.String()
}
