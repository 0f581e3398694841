package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/h0rv/reltriage/internal/report"
	"github.com/h0rv/reltriage/internal/store"
	"github.com/h0rv/reltriage/internal/tui"
)

var viewMe string

var viewCmd = &cobra.Command{
	Use:   "view [digest]",
	Short: "Browse a digest in the terminal",
	Long: `Opens a digest written by 'reltriage run' in an interactive board with
one column per assignee. Without an argument the configured output file is
opened.

Keys: h/l and j/k move, / filters, a shows only your issues, u shows only
issues close to their release date, o opens the issue in a browser, enter
shows details, r reloads the file, ? lists every key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&viewMe, "me", "", "Login for the 'only mine' filter (defaults to the first language owner)")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := digestPath(cfg, args)

	load := func() ([]report.Row, error) {
		return report.ParseFile(path)
	}
	rows, err := load()
	if err != nil {
		return err
	}

	s := store.New()
	s.SetSource(path)
	me := viewMe
	if me == "" && len(cfg.LanguageOwners) > 0 {
		me = cfg.LanguageOwners[0]
	}
	s.SetViewerLogin(me)
	s.Load(rows)
	if s.Len() == 0 {
		logger.Warn("digest has no rows", zap.String("path", path))
	}

	app := tui.NewAppModel(s, load, browser.OpenURL)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
