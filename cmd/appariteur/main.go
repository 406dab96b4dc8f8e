package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/zeebo/clingy"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ok, err := clingy.Environment{}.Run(ctx, func(cmds clingy.Commands) {
		cmds.New("template", "Writes the roster import template", new(cmdTemplate))
		cmds.New("preview", "Reads and validates a roster without importing it", new(cmdPreview))
		cmds.New("import", "Imports the students of a roster", new(cmdImport))
		cmds.New("add", "Creates a single student", new(cmdAdd))
		cmds.New("rm", "Removes a student", new(cmdRemove))
		cmds.New("promotions", "Lists promotions and academic years", new(cmdPromotions))
		cmds.New("roster", "Exports the students of a promotion", new(cmdRoster))
		cmds.New("overview", "Prints student statistics", new(cmdOverview))
		cmds.Group("minerval", "Tuition fee commands", func() {
			cmds.New("show", "Shows the minerval of a promotion", new(cmdMinervalShow))
			cmds.New("create", "Creates the minerval of a promotion", new(cmdMinervalCreate))
		})
		cmds.Group("tranche", "Tuition fee installment commands", func() {
			cmds.New("add", "Adds an installment to a minerval", new(cmdTrancheAdd))
			cmds.New("rm", "Removes an installment from a minerval", new(cmdTrancheRemove))
		})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed: %+v\n", err)
		return err
	}
	if !ok {
		return errors.New("usage error")
	}
	return nil
}
