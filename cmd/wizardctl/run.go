package main

import (
	"time"

	"github.com/spf13/cobra"

	"insured-registration/internal/models"
	"insured-registration/internal/rules"
	"insured-registration/internal/wizard"
)

var timeNow = time.Now

func runCmd(a *app) *cobra.Command {
	var answersPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walk the registration wizard with a prepared answers file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := wizard.LoadAnswers(answersPath)
			if err != nil {
				return err
			}

			w := wizard.New(wizard.Options{
				Gateway:  a.gateway,
				Rules:    a.ruleOptions(),
				Recorder: a.recorder(),
				Logger:   a.log,
			})

			confirmation, err := wizard.Run(cmd.Context(), w, answers)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{
				"id":           confirmation.ID,
				"registeredAt": confirmation.RegisteredAt,
				"registration": w.Summary(),
			})
		},
	}

	cmd.Flags().StringVarP(&answersPath, "answers", "a", "answers.yaml", "Answers file (YAML)")
	return cmd
}

func (a *app) ruleOptions() rules.Options {
	tiers := make([]models.PasswordTier, 0, len(a.cfg.Registration.AllowedPasswordTiers))
	for _, t := range a.cfg.Registration.AllowedPasswordTiers {
		tiers = append(tiers, models.PasswordTier(t))
	}
	return rules.Options{
		AllowedTiers: tiers,
		PhoneRegion:  a.cfg.Registration.PhoneRegion,
		Concurrency:  a.cfg.Registration.ValidationConcurrency,
		Logger:       a.log,
	}
}

func (a *app) recorder() wizard.Recorder {
	if a.obs == nil {
		return nil
	}
	return a.obs
}
