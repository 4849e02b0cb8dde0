package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadsite/pkg/form"
	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/notify"
	"github.com/goliatone/go-leadsite/pkg/render"
	"github.com/goliatone/go-leadsite/pkg/renderers/tui"
	"github.com/goliatone/go-leadsite/pkg/schema"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

var intakeYes bool

var intakeCmd = &cobra.Command{
	Use:   "intake <contact|schedule>",
	Short: "Record a lead from the terminal",
	Long: `Prompt for a contact or tour request, validate every answer with the
same rules as the website, and submit it through the configured mailer.

Useful for leasing staff taking requests over the phone.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{model.FormKindContact.String(), model.FormKindSchedule.String()},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseFormKind(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg, cmd.ErrOrStderr())
		ctx := commandContext(cmd)

		store, err := schema.LoadDefault()
		if err != nil {
			return err
		}
		fm, err := store.Form(kind)
		if err != nil {
			return err
		}
		loc := validation.WithLocation(cfg.Location())
		validator, err := validation.NewFormValidator(fm, loc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderer := tui.New(
			tui.WithPromptDriver(newPromptDriver(out)),
			tui.WithValidationOptions(loc),
		)
		values, err := renderer.Collect(ctx, fm, render.RenderOptions{})
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			return err
		}

		if !intakeYes {
			ok, err := renderer.Driver().Confirm(ctx, tui.ConfirmConfig{
				Message: fmt.Sprintf("Send this %s request?", kind),
				Default: true,
			})
			if err != nil {
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Discarded.")
				return nil
			}
		}

		m := newMailer(cfg, log)
		ctrl, err := form.New(validator, m,
			form.WithValues(values),
			form.WithSink(notify.Multi(
				notify.NewConsole(out),
				notify.SinkFunc(func(t notify.Toast) {
					log.WithField("form", kind).WithField("variant", t.Variant).Debug(t.Title)
				}),
			)),
		)
		if err != nil {
			return err
		}
		result, err := ctrl.Submit(ctx)
		if errors.Is(err, form.ErrInvalid) {
			var lines []string
			for _, issue := range validator.Issues(ctrl.State().Errors) {
				lines = append(lines, issue.Field+": "+issue.Message)
			}
			return fmt.Errorf("%w: %s", err, strings.Join(lines, "; "))
		}
		if err != nil {
			return err
		}
		log.WithField("form", kind).WithField("submission_id", result.SubmissionID).WithField("mailer", m.Mode()).Info("lead submitted")
		if !result.IsSuccess() {
			return fmt.Errorf("delivery failed: %s", result.Message)
		}
		return nil
	},
}

func init() {
	intakeCmd.Flags().BoolVarP(&intakeYes, "yes", "y", false, "submit without asking for confirmation")
	rootCmd.AddCommand(intakeCmd)
}
