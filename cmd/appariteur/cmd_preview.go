package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/kyokomi/emoji/v2"
	"github.com/zeebo/clingy"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/inbtp/appariteur/pkg/config"
	"github.com/inbtp/appariteur/pkg/fancy"
	"github.com/inbtp/appariteur/pkg/roster"
	"github.com/inbtp/appariteur/pkg/student"
)

type cmdPreview struct {
	common
	path string
}

func (cmd *cmdPreview) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.path = stringArg(params, "FILE", "The roster file (.csv or .xlsx)")
}

func (cmd *cmdPreview) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	cfg, err := config.Load(cmd.config)
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}
	defaults := cfg.Import.Defaults()
	if cmd.promotion != "" {
		defaults.PromotionID = cmd.promotion
	}
	if cmd.annee != "" {
		defaults.AnneeID = cmd.annee
	}

	candidates, err := loadCandidates(cmd.path, cfg.Import.MaxFileSize, defaults)
	if err != nil {
		return err
	}

	if cmd.verbose {
		log := openConsoleLog()
		defer func() { _ = log.Sync() }()
		log.Info("Roster validated",
			zap.String("path", cmd.path),
			zap.Int("rows", len(candidates)),
			zap.String("promotion", defaults.PromotionID),
			zap.String("annee", defaults.AnneeID),
		)
	}

	printCandidates(stdout, candidates)
	printDefectSummary(stdout, candidates)
	return nil
}

// loadCandidates reads and validates a roster file.
func loadCandidates(path string, maxSize int64, defaults student.Defaults) ([]student.Candidate, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read roster: %w", err)
	}
	if maxSize > 0 && fi.Size() > maxSize {
		return nil, fmt.Errorf("roster is %d bytes; the limit is %d", fi.Size(), maxSize)
	}

	rows, err := roster.Load(path)
	if err != nil {
		return nil, err
	}
	return student.ValidateAll(rows, defaults), nil
}

func printCandidates(w io.Writer, candidates []student.Candidate) {
	for _, c := range candidates {
		mark := ":white_check_mark:"
		switch {
		case c.HasError:
			mark = ":x:"
		case !c.Selected:
			mark = ":white_circle:"
		}
		id := fmt.Sprintf("#%d", c.TempID)
		if c.TempID == 0 {
			id = fmt.Sprintf("L%d", c.Line)
		}
		_, _ = emoji.Fprintf(w, "%s %5s %-40s %s %s\n", mark, id, c.FullName(), orDash(c.Sexe), orDash(c.Placement.PromotionID))
		for _, defect := range c.Errors {
			_, _ = emoji.Fprintf(w, "         :warning: %s\n", defect)
		}
	}
}

func printDefectSummary(w io.Writer, candidates []student.Candidate) {
	defects := make(map[string]int)
	var withErrors, selected int
	for _, c := range candidates {
		if c.HasError {
			withErrors++
		}
		if c.Selected {
			selected++
		}
		for _, defect := range c.Errors {
			defects[defect]++
		}
	}

	fancy.Finfoln(w)
	fancy.Finfof(w, "Rows........................: %d\n", len(candidates))
	fancy.Fprintf(w, successIfPositive(selected), "Selected....................: %d\n", selected)
	fancy.Fprintf(w, errorIfNonZero(withErrors), "With errors.................: %d\n", withErrors)

	keys := maps.Keys(defects)
	slices.Sort(keys)
	for _, defect := range keys {
		fancy.Fwarnf(w, "  %s%s: %d\n", defect, strings.Repeat(".", max(0, 26-len(defect))), defects[defect])
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
