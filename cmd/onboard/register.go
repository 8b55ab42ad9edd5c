package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/salon-onboarding/internal/authz"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/registration"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Complete a registration flow",
}

var registerClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Register as a client (personal info, terms)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRegister(cmd, onboarding.UserTypeClient)
	},
}

var registerHairdresserCmd = &cobra.Command{
	Use:   "hairdresser",
	Short: "Register as a hairdresser (personal info, terms, hairstyles, payment)",
	Long: `Register as a hairdresser.

Hairstyles are given as <catalog-id>[:<price>]; without a price the catalog
price is used. The registration fee is paid with orange-money or mtn-money.

Examples:
  onboard register hairdresser --first-name Awa --last-name Bello \
      --phone +237677000000 --accept-terms \
      --hairstyle 1:10000 --hairstyle 3 \
      --payment-method orange-money --payment-reference TR-1`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRegister(cmd, onboarding.UserTypeHairdresser)
	},
}

func init() {
	for _, c := range []*cobra.Command{registerClientCmd, registerHairdresserCmd} {
		c.Flags().String("first-name", "", "first name")
		c.Flags().String("last-name", "", "last name")
		c.Flags().String("phone", "", "phone number")
		c.Flags().String("profile-image-url", "", "profile image URL printed by onboard upload")
		c.Flags().Bool("accept-terms", false, "accept the terms and conditions")
		c.Flags().Bool("require-approval", false, "hold unapproved hairdressers on the pending page even if the server does not")
	}
	registerHairdresserCmd.Flags().StringArray("hairstyle", nil, "hairstyle as <id>[:<price>], repeatable")
	registerHairdresserCmd.Flags().String("payment-method", "", "orange-money or mtn-money")
	registerHairdresserCmd.Flags().String("payment-reference", "", "mobile-money transaction reference")
	registerHairdresserCmd.Flags().Int64("fee", onboarding.DefaultRegistrationFee, "registration fee in FCFA")

	registerCmd.AddCommand(registerClientCmd)
	registerCmd.AddCommand(registerHairdresserCmd)
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, role onboarding.UserType) error {
	ctx := context.Background()
	flags := cmd.Flags()

	mgr, client, err := startSession(ctx)
	if err != nil {
		printError(err)
		return err
	}
	defer mgr.Close()

	fee, _ := flags.GetInt64("fee")
	wf, err := registration.New(role, client, mgr, registration.Options{
		RegistrationFee: fee,
		Logger:          newLogger(),
	})
	if err != nil {
		return err
	}
	defer wf.Close()

	info := onboarding.PersonalInfo{}
	info.FirstName, _ = flags.GetString("first-name")
	info.LastName, _ = flags.GetString("last-name")
	info.PhoneNumber, _ = flags.GetString("phone")
	info.ProfileImageURL, _ = flags.GetString("profile-image-url")
	accepted, _ := flags.GetBool("accept-terms")

	steps := []func() error{
		func() error { return wf.SubmitPersonalInfo(ctx, info) },
		func() error { return wf.SubmitTerms(ctx, accepted) },
	}

	if role == onboarding.UserTypeHairdresser {
		items, _ := flags.GetStringArray("hairstyle")
		sel, err := parseHairstyles(items)
		if err != nil {
			printError(err)
			return err
		}
		method, _ := flags.GetString("payment-method")
		reference, _ := flags.GetString("payment-reference")

		steps = append(steps,
			func() error { return wf.SubmitHairstyles(ctx, sel) },
			func() error { return wf.SubmitPayment(ctx, onboarding.PaymentMethod(method), reference) },
		)
	}

	for _, step := range steps {
		current := wf.CurrentStep()
		if err := step(); err != nil {
			fmt.Printf("Step %s failed\n", current)
			printError(err)
			return err
		}
		fmt.Printf("Step %s done\n", current)
	}

	home, err := wf.Finish()
	if err != nil {
		return err
	}

	requireApproval, _ := flags.GetBool("require-approval")
	if p := mgr.Profile(); p != nil && p.RequiresApproval {
		requireApproval = true
	}
	d := authz.Gate{RequireApproval: requireApproval}.ForManager(mgr, role)
	if !d.Allowed {
		home = d.RedirectTo
	}

	if jsonOut {
		return printJSON(map[string]any{
			"profile": mgr.Profile(),
			"home":    home,
		})
	}
	fmt.Printf("Registration complete. Continue at %s\n", home)
	return nil
}

// parseHairstyles reads <id>[:<price>] items. A missing price is left zero
// so the workflow fills in the catalog price.
func parseHairstyles(items []string) ([]onboarding.HairstyleSelection, error) {
	out := make([]onboarding.HairstyleSelection, 0, len(items))
	verr := &onboarding.ValidationError{}
	for _, item := range items {
		idPart, pricePart, hasPrice := strings.Cut(strings.TrimSpace(item), ":")
		id, err := strconv.ParseUint(idPart, 10, 32)
		if err != nil || id == 0 {
			verr.Add("hairstyles", "invalid_hairstyle_id")
			continue
		}
		sel := onboarding.HairstyleSelection{HairstyleID: uint(id)}
		if hasPrice {
			price, err := strconv.ParseInt(pricePart, 10, 64)
			if err != nil || price <= 0 {
				verr.Add("price", "must_be_positive")
				continue
			}
			sel.Price = price
		}
		out = append(out, sel)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
