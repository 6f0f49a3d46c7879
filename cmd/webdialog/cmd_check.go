package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-webdialog/pkg/orchestrator"
)

// CheckCmd renders every dialog in every locale with the DOM contract check
// enabled.
type CheckCmd struct {
	Dialogs []string `arg:"" optional:"" help:"Dialogs to check; all when omitted."`
}

// Run executes the check command
func (c *CheckCmd) Run(cli *CLI, rt *runtime) error {
	a, err := cli.bootstrap(rt, true)
	if err != nil {
		return err
	}
	ctx := context.Background()

	names := c.Dialogs
	if len(names) == 0 {
		names = a.orch.Dialogs().List()
	}

	var failures []error
	for _, name := range names {
		for _, locale := range a.catalog.Locales() {
			_, err := a.orch.Render(ctx, orchestrator.Request{
				Dialog:   name,
				Locale:   locale,
				Renderer: "page",
			})
			if err != nil {
				fmt.Fprintf(rt.stdout, "FAIL %s (%s): %v\n", name, locale, err)
				failures = append(failures, err)
				continue
			}
			fmt.Fprintf(rt.stdout, "ok   %s (%s)\n", name, locale)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d check(s) failed: %w", len(failures), errors.Join(failures...))
	}
	return nil
}
