package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kyokomi/emoji/v2"
	"github.com/manifoldco/promptui"
	"github.com/zeebo/clingy"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/inbtp/appariteur/pkg/commit"
	"github.com/inbtp/appariteur/pkg/fancy"
	"github.com/inbtp/appariteur/pkg/receipts"
	"github.com/inbtp/appariteur/pkg/report"
	"github.com/inbtp/appariteur/pkg/session"
	"github.com/inbtp/appariteur/pkg/student"
)

type cmdImport struct {
	common
	path         string
	yes          bool
	receiptsPath string
}

func (cmd *cmdImport) Setup(params clingy.Parameters) {
	cmd.common.setup(params)
	cmd.yes = toggleFlag(params, "yes", "Commit the rows selected by validation without prompting", false)
	cmd.receiptsPath = stringFlag(params, "receipts", "Also write a CSV receipt of every row to this path", "")
	cmd.path = stringArg(params, "FILE", "The roster file (.csv or .xlsx)")
}

func (cmd *cmdImport) Execute(ctx context.Context) error {
	stdout := clingy.Stdout(ctx)

	e, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	candidates, err := loadCandidates(cmd.path, e.cfg.Import.MaxFileSize, e.cfg.Import.Defaults())
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return errors.New("the roster has no rows")
	}

	sess, err := session.New(e.log, candidates)
	if err != nil {
		return err
	}
	log := e.log.With(zap.String("session", sess.ID()), zap.String("path", cmd.path))
	log.Info("Roster loaded",
		zap.Int("rows", sess.Total()),
		zap.Int("selected", sess.SelectedCount()),
		zap.Int("errors", sess.ErrorCount()),
	)

	if cmd.yes {
		printCandidates(stdout, sess.Candidates())
		printDefectSummary(stdout, sess.Candidates())
	} else if err := curate(stdout, sess); err != nil {
		return err
	}

	selected := sess.Selected()
	if len(selected) == 0 {
		return errors.New("no students selected")
	}

	if !cmd.yes {
		if err := promptConfirm(fmt.Sprintf("Import %d students", len(selected))); err != nil {
			return err
		}
	}

	committer, err := commit.New(commit.Config{
		Log:     log,
		Creator: e.client,
		UI:      &importUI{stdout: stdout},
		Session: sess.ID(),
	})
	if err != nil {
		return err
	}

	result, runErr := committer.Run(ctx, selected)
	if result == nil {
		return runErr
	}

	if err := cmd.writeResults(stdout, string(e.cfg.Import.ReportDir), result); err != nil {
		return errs.Combine(runErr, err)
	}

	printResultSummary(stdout, result)

	// Committed rows are never assumed to be in the cached rosters.
	var touched []string
	for _, c := range selected {
		touched = append(touched, c.Placement.PromotionID)
	}
	if err := refreshRosters(ctx, stdout, e.store, touched); err != nil {
		log.Warn("Unable to reload rosters", zap.Error(err))
		fancy.Fwarnf(stdout, "Unable to reload rosters: %v\n", err)
	}

	return runErr
}

func (cmd *cmdImport) writeResults(w io.Writer, reportDir string, result *commit.BatchResult) error {
	if reportDir == "" {
		reportDir = "."
	}
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return errs.Wrap(err)
	}

	f, err := report.Result(result, result.Finished)
	if err != nil {
		return err
	}
	reportPath := filepath.Join(reportDir, report.ResultFilename(result.Finished))
	if err := report.Save(f, reportPath); err != nil {
		return err
	}
	fancy.Finfof(w, "Result report written to %s\n", reportPath)

	if cmd.receiptsPath != "" {
		var buf receipts.Buffer
		for _, o := range result.Outcomes {
			buf.Emit(o)
		}
		fancy.Finfof(w, "Writing receipts to %s...\n", cmd.receiptsPath)
		if err := os.WriteFile(cmd.receiptsPath, buf.Finalize(), 0644); err != nil {
			return errs.Wrap(err)
		}
	}
	return nil
}

func printResultSummary(w io.Writer, result *commit.BatchResult) {
	fancy.Finfoln(w)
	fancy.Finfof(w, "Import complete in %s.\n", result.Finished.Sub(result.Started).Round(time.Millisecond))
	fancy.Finfof(w, "Total.......................: %d\n", result.Total)
	fancy.Fprintf(w, successIfPositive(result.Succeeded), "Created.....................: %d\n", result.Succeeded)
	fancy.Fprintf(w, errorIfNonZero(result.Failed), "Failed......................: %d\n", result.Failed)
	if result.NotAttempted > 0 {
		fancy.Fwarnf(w, "Not attempted...............: %d\n", result.NotAttempted)
	}
}

type importUI struct {
	stdout io.Writer
}

func (u *importUI) Started(evt commit.StartedEvent) {
	u.printf(":rocket: Importing %d students...\n", evt.Total)
}

func (u *importUI) RowCommitted(evt commit.RowCommittedEvent) {
	o := evt.Outcome
	switch o.Status {
	case commit.Created:
		u.printf("[%3d%%] :white_check_mark: %s (%s)\n", evt.Progress, o.Candidate.FullName(), o.ID)
	case commit.Failed:
		u.printf("[%3d%%] :x: %s: %s\n", evt.Progress, o.Candidate.FullName(), o.Error)
	default:
		u.printf("[%3d%%] :pause_button: %s: not attempted\n", evt.Progress, o.Candidate.FullName())
	}
}

func (u *importUI) Finished(evt commit.FinishedEvent) {
	if evt.Err != nil {
		u.printf(":warning: Import interrupted: %v\n", evt.Err)
	}
}

func (u *importUI) printf(format string, args ...any) {
	_, _ = emoji.Fprintf(u.stdout, format, args...)
}

const (
	actionCommit      = "Commit the selected rows"
	actionShow        = "Show rows"
	actionToggle      = "Toggle a row"
	actionSelectAll   = "Select all"
	actionDeselectAll = "Deselect all"
	actionEdit        = "Edit a field"
	actionRevalidate  = "Revalidate a row"
	actionRemove      = "Remove a row"
	actionAbort       = "Abort"
)

var curateActions = []string{
	actionCommit, actionShow, actionToggle, actionSelectAll, actionDeselectAll,
	actionEdit, actionRevalidate, actionRemove, actionAbort,
}

// curate lets the operator adjust the session until they choose to commit
// or abort.
func curate(w io.Writer, sess *session.Session) error {
	printCandidates(w, sess.Candidates())
	for {
		fancy.Finfof(w, "%d rows, %d selected, %d with errors\n", sess.Total(), sess.SelectedCount(), sess.ErrorCount())

		_, action, err := (&promptui.Select{
			Label: "Action",
			Items: curateActions,
			Size:  len(curateActions),
		}).Run()
		if err != nil {
			return errors.New("aborted")
		}

		switch action {
		case actionCommit:
			return nil
		case actionAbort:
			return errors.New("aborted")
		case actionShow:
			printCandidates(w, sess.Candidates())
		case actionSelectAll:
			sess.SelectAll(true)
		case actionDeselectAll:
			sess.SelectAll(false)
		case actionToggle:
			withRow(w, sess, sess.ToggleSelect)
		case actionRemove:
			withRow(w, sess, sess.Remove)
		case actionRevalidate:
			withRow(w, sess, func(id uint64) bool {
				if !sess.Revalidate(id) {
					return false
				}
				c, _ := sess.Get(id)
				printCandidates(w, []student.Candidate{c})
				return true
			})
		case actionEdit:
			withRow(w, sess, func(id uint64) bool {
				return editRow(w, sess, id)
			})
		}
	}
}

func withRow(w io.Writer, sess *session.Session, fn func(id uint64) bool) {
	id, err := promptRowID()
	if err != nil {
		return
	}
	if !fn(id) {
		fancy.Fwarnf(w, "No row #%d\n", id)
	}
}

func promptRowID() (uint64, error) {
	s, err := (&promptui.Prompt{
		Label: "Row #",
		Validate: func(s string) error {
			_, err := strconv.ParseUint(s, 10, 64)
			return err
		},
	}).Run()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(s, 10, 64)
}

func editRow(w io.Writer, sess *session.Session, id uint64) bool {
	c, ok := sess.Get(id)
	if !ok {
		return false
	}

	_, key, err := (&promptui.Select{
		Label: "Field",
		Items: student.Keys,
		Size:  len(student.Keys),
	}).Run()
	if err != nil {
		return true
	}

	value, err := (&promptui.Prompt{
		Label:     key,
		Default:   c.Field(key),
		AllowEdit: true,
	}).Run()
	if err != nil {
		return true
	}

	patch, _ := session.FieldPatch(key, value)
	sess.Update(id, patch)
	fancy.Finfoln(w, "Updated; revalidate the row to refresh its errors.")
	return true
}
