package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"insured-registration/internal/models"
	"insured-registration/internal/rules"
)

func lookupCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "provinces",
			Short: "List provinces",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				provinces, err := a.gateway.Provinces(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, provinces)
			},
		},
		{
			Use:   "cities <province-id>",
			Short: "List the municipalities of a province",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cities, err := a.gateway.Cities(cmd.Context(), models.Province{ID: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd, cities)
			},
		},
		{
			Use:   "brands",
			Short: "List vehicle brands",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				brands, err := a.gateway.Brands(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, brands)
			},
		},
		{
			Use:   "years",
			Short: "List selectable model years",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				years, err := a.gateway.Years(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, years)
			},
		},
		{
			Use:   "models <brand> <year>",
			Short: "List the models of a brand and year",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				codes, err := parseCodes(args)
				if err != nil {
					return err
				}
				result, err := a.gateway.Models(cmd.Context(), models.VehicleBrand{Code: codes[0]}, models.VehicleYear(codes[1]))
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			},
		},
		{
			Use:   "versions <brand> <year> <model>",
			Short: "List the versions of a model",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				codes, err := parseCodes(args)
				if err != nil {
					return err
				}
				versions, err := a.gateway.Versions(cmd.Context(),
					models.VehicleBrand{Code: codes[0]}, models.VehicleYear(codes[1]), models.VehicleModel{Code: codes[2]})
				if err != nil {
					return err
				}
				return printJSON(cmd, versions)
			},
		},
		{
			Use:   "coverages",
			Short: "List coverage plans",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				coverages, err := a.gateway.Coverages(cmd.Context(), models.RegistrationDraft{})
				if err != nil {
					return err
				}
				return printJSON(cmd, coverages)
			},
		},
		{
			Use:   "username-exists <username>",
			Short: "Check whether a username is already registered",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				exists, err := a.gateway.UsernameExists(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]interface{}{"username": args[0], "exists": exists})
			},
		},
		{
			Use:   "password-strength <password>",
			Short: "Grade a password",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				strength, err := a.gateway.CheckPasswordStrength(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, strength)
			},
		},
		{
			Use:   "birth-date-bounds",
			Short: "Print the earliest and latest accepted birth dates",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printJSON(cmd, rules.BirthDateBounds(timeNow()))
			},
		},
	}
}

func parseCodes(args []string) ([]int, error) {
	codes := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		codes[i] = n
	}
	return codes, nil
}
