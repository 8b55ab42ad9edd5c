package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the signed-in profile, or another user's with --user (admin)",
	RunE:  runProfile,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the hairstyle catalog",
	RunE:  runCatalog,
}

func init() {
	profileCmd.Flags().String("user", "", "user id to show (admin only)")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	mgr, client, err := startSession(ctx)
	if err != nil {
		printError(err)
		return err
	}
	defer mgr.Close()

	profile := mgr.Profile()
	if raw, _ := cmd.Flags().GetString("user"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		profile, err = client.FetchProfile(ctx, mgr.AccessToken(), id)
		if err != nil {
			printError(err)
			return err
		}
	}

	if profile == nil {
		fmt.Println("Not registered yet. Run `onboard register client` or `onboard register hairdresser`.")
		return nil
	}
	if jsonOut {
		return printJSON(profile)
	}

	u := profile.User
	fmt.Printf("ID:         %s\n", u.ID)
	fmt.Printf("Name:       %s %s\n", u.FirstName, u.LastName)
	fmt.Printf("Email:      %s\n", u.Email)
	fmt.Printf("Phone:      %s\n", orDash(u.PhoneNumber))
	fmt.Printf("Type:       %s\n", u.UserType)
	fmt.Printf("Approved:   %t\n", u.IsApproved)
	if p := profile.ClientProfile; p != nil {
		fmt.Printf("Terms:      %t\n", p.HasAcceptedTerms)
	}
	if p := profile.HairdresserProfile; p != nil {
		fmt.Printf("Terms:      %t\n", p.HasAcceptedTerms)
		fmt.Printf("Paid:       %t (%s)\n", p.HasPaidRegistration, orDash(p.PaymentMethod))
		fmt.Printf("Hairstyles: %d\n", len(profile.Hairstyles))
	}
	fmt.Printf("Complete:   %t\n", profile.Capabilities.RegistrationComplete)
	return nil
}

func runCatalog(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	list, err := client.Catalog(context.Background(), token)
	if err != nil {
		printError(err)
		return err
	}
	if jsonOut {
		return printJSON(list)
	}

	w := newTable()
	printTableHeader(w, "ID", "NAME", "PRICE (FCFA)")
	for _, h := range list {
		fmt.Fprintf(w, "%d\t%s\t%d\n", h.ID, h.Name, h.Price)
	}
	return w.Flush()
}
