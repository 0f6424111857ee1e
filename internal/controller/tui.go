package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	m "islet.dev/pkg/islet/internal/model"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUI implements UI with a live Bubble Tea progress display. The runner
// stays strictly sequential; the program goroutine only renders the event
// stream the runner emits.
type TUI struct {
	output  io.Writer
	program *tea.Program
	group   errgroup.Group
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the display program.
func (t *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.program = tea.NewProgram(newRunModel(), tea.WithOutput(t.output))

	t.group.Go(func() error {
		_, err := t.program.Run()
		return err
	})

	return nil
}

// Close stops the program and waits for the final frame.
func (t *TUI) Close(_ context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()

	if err := t.group.Wait(); err != nil {
		fmt.Fprintf(t.output, "display error: %v\n", err)
	}
}

// SuiteStarted announces the discovered files.
func (t *TUI) SuiteStarted(_ context.Context, files []m.Path) {
	t.program.Send(suiteStartedMsg{count: len(files)})
}

// FileStarted marks the file currently executing.
func (t *TUI) FileStarted(_ context.Context, file m.Path) {
	t.program.Send(fileStartedMsg{file: file})
}

// FileFinished appends one finished file to the display.
func (t *TUI) FileFinished(_ context.Context, result m.FileResult) {
	t.program.Send(fileFinishedMsg{result: result})
}

// DisplaySummary shows the aggregate result and ends the program.
func (t *TUI) DisplaySummary(_ context.Context, summary m.RunSummary) error {
	t.program.Send(summaryMsg{summary: summary})
	return nil
}

type suiteStartedMsg struct{ count int }

type fileStartedMsg struct{ file m.Path }

type fileFinishedMsg struct{ result m.FileResult }

type summaryMsg struct{ summary m.RunSummary }

// runModel is the Bubble Tea model for a live run.
type runModel struct {
	spin     spinner.Model
	total    int
	current  m.Path
	finished []m.FileResult
	summary  *m.RunSummary
}

func newRunModel() runModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return runModel{spin: spin}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spin.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case suiteStartedMsg:
		rm.total = msg.count
		return rm, nil
	case fileStartedMsg:
		rm.current = msg.file
		return rm, nil
	case fileFinishedMsg:
		rm.current = ""
		rm.finished = append(rm.finished, msg.result)

		return rm, nil
	case summaryMsg:
		rm.summary = &msg.summary
		return rm, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return rm, tea.Quit
		}

		return rm, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		rm.spin, cmd = rm.spin.Update(msg)

		return rm, cmd
	}

	return rm, nil
}

func (rm runModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "islet - %d test file(s)\n\n", rm.total)

	for _, result := range rm.finished {
		marker := passStyle.Render("✓")
		if result.Failed() {
			marker = failStyle.Render("✗")
		}

		fmt.Fprintf(&b, " %s %s %s\n",
			marker,
			fileStyle.Render(string(result.File)),
			detailStyle.Render(fmt.Sprintf("(%d block(s), %v)", len(result.Blocks), result.Elapsed)),
		)

		for _, block := range result.Blocks {
			if block.Status != m.Failed {
				continue
			}

			fmt.Fprintf(&b, "   %s %s\n", failStyle.Render("block"), block.Name)
		}

		if result.Fatal != "" {
			fmt.Fprintf(&b, "   %s %s\n", failStyle.Render("fatal"), result.Fatal)
		}
	}

	if rm.current != "" {
		fmt.Fprintf(&b, " %s %s\n", rm.spin.View(), fileStyle.Render(string(rm.current)))
	}

	if rm.summary != nil {
		total, passed, failed := rm.summary.Totals()

		verdict := passStyle.Render("PASS")
		if !rm.summary.Ok() {
			verdict = failStyle.Render("FAIL")
		}

		fmt.Fprintf(&b, "\n%s  %d block(s): %d passed, %d failed\n", verdict, total, passed, failed)
	}

	return b.String()
}
