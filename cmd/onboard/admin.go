package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin tasks (requires an admin token)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE:  runAdminUsers,
}

var adminApproveCmd = &cobra.Command{
	Use:   "approve <user-id>",
	Short: "Approve a hairdresser",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminApprove,
}

var adminTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List recorded transactions, newest first",
	RunE:  runAdminTransactions,
}

var adminAppointmentCmd = &cobra.Command{
	Use:   "appointment-payment",
	Short: "Record a settled appointment payment (40% platform fee)",
	RunE:  runAdminAppointment,
}

func init() {
	adminUsersCmd.Flags().String("type", "", "filter by user type (client, hairdresser, admin)")
	adminUsersCmd.Flags().String("approved", "", "filter by approval (true, false)")

	adminTransactionsCmd.Flags().String("type", "", "filter by type (registration, appointment)")
	adminTransactionsCmd.Flags().Int("page", 1, "page number")
	adminTransactionsCmd.Flags().Int("limit", 50, "page size (max 200)")

	adminAppointmentCmd.Flags().String("user", "", "hairdresser user id")
	adminAppointmentCmd.Flags().Uint("appointment", 0, "appointment id")
	adminAppointmentCmd.Flags().Int64("amount", 0, "amount in FCFA")
	adminAppointmentCmd.Flags().String("method", "", "orange-money or mtn-money")
	adminAppointmentCmd.Flags().String("reference", "", "payment reference")
	_ = adminAppointmentCmd.MarkFlagRequired("user")
	_ = adminAppointmentCmd.MarkFlagRequired("appointment")
	_ = adminAppointmentCmd.MarkFlagRequired("amount")

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminApproveCmd)
	adminCmd.AddCommand(adminTransactionsCmd)
	adminCmd.AddCommand(adminAppointmentCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminUsers(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	typ, _ := cmd.Flags().GetString("type")
	var approved *bool
	if raw, _ := cmd.Flags().GetString("approved"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid --approved: %w", err)
		}
		approved = &b
	}

	users, err := client.ListUsers(context.Background(), token, onboarding.UserType(typ), approved)
	if err != nil {
		printError(err)
		return err
	}
	if jsonOut {
		return printJSON(map[string]any{"users": users, "count": len(users)})
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	w := newTable()
	printTableHeader(w, "ID", "NAME", "EMAIL", "TYPE", "APPROVED", "CREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%t\t%s\n",
			u.ID, u.FirstName, u.LastName, u.Email, u.UserType, u.IsApproved,
			u.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func runAdminApprove(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	user, err := client.ApproveHairdresser(context.Background(), token, id)
	if err != nil {
		printError(err)
		return err
	}
	if jsonOut {
		return printJSON(user)
	}
	fmt.Printf("Approved %s %s (%s)\n", user.FirstName, user.LastName, user.ID)
	return nil
}

func runAdminTransactions(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	typ, _ := cmd.Flags().GetString("type")
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")

	out, err := client.ListTransactions(context.Background(), token, onboarding.TransactionType(typ), page, limit)
	if err != nil {
		printError(err)
		return err
	}
	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Page %d (%d per page), %d total\n", out.Page, out.Limit, out.Total)
	w := newTable()
	printTableHeader(w, "ID", "TYPE", "USER", "AMOUNT", "FEE", "METHOD", "REFERENCE", "CREATED")
	for _, t := range out.Transactions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			t.ID, t.TransactionType, t.UserID, t.Amount, t.PlatformFee,
			t.PaymentMethod, t.PaymentReference, t.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func runAdminAppointment(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	req := dto.AppointmentPaymentRequest{}
	req.UserID, _ = flags.GetString("user")
	req.AppointmentID, _ = flags.GetUint("appointment")
	req.Amount, _ = flags.GetInt64("amount")
	req.PaymentMethod, _ = flags.GetString("method")
	req.PaymentReference, _ = flags.GetString("reference")

	t, err := client.RecordAppointmentPayment(context.Background(), token, req)
	if err != nil {
		printError(err)
		return err
	}
	if jsonOut {
		return printJSON(t)
	}
	fmt.Printf("Recorded transaction %d: amount %d, platform fee %d, hairdresser share %d\n",
		t.ID, t.Amount, t.PlatformFee, t.Amount-t.PlatformFee)
	return nil
}
