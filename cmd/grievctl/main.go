package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "grievctl",
		Short: "CLI client for the grievance service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Grievance service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", os.Getenv("DAKSEVA_TOKEN"), "Bearer token (defaults to DAKSEVA_TOKEN)")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			id, _ := cmd.Flags().GetString("id")
			password, _ := cmd.Flags().GetString("password")
			return runLogin(apiFlag, role, id, password, os.Stdout)
		},
	}
	loginCmd.Flags().StringP("role", "r", "citizen", "Login role (citizen or official)")
	loginCmd.Flags().StringP("id", "i", "", "Customer ID or employee ID (required)")
	loginCmd.Flags().StringP("password", "p", "", "Password (required)")
	_ = loginCmd.MarkFlagRequired("id")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)

	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "File a portal complaint",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("text")
			subject, _ := cmd.Flags().GetString("subject")
			kind, _ := cmd.Flags().GetString("type")
			orderID, _ := cmd.Flags().GetString("order")
			return runSubmit(apiFlag, tokenFlag, text, subject, kind, orderID, os.Stdout)
		},
	}
	submitCmd.Flags().String("text", "", "Complaint text (required)")
	submitCmd.Flags().String("subject", "", "Subject line (required)")
	submitCmd.Flags().String("type", "Complaint", "Submission type (Complaint or Feedback)")
	submitCmd.Flags().String("order", "", "Optional linked order ID")
	_ = submitCmd.MarkFlagRequired("text")
	_ = submitCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(submitCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List visible complaint records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(apiFlag, tokenFlag, "/api/complaints", os.Stdout)
		},
	}
	rootCmd.AddCommand(listCmd)

	selectCmd := &cobra.Command{
		Use:   "select <complaint-id>",
		Short: "Run the staged analysis on a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(apiFlag, tokenFlag, "/api/complaints/"+args[0]+"/select", nil, os.Stdout)
		},
	}
	rootCmd.AddCommand(selectCmd)

	dispatchCmd := &cobra.Command{
		Use:   "dispatch <complaint-id>",
		Short: "Dispatch the formal draft for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(apiFlag, tokenFlag, "/api/complaints/"+args[0]+"/dispatch", nil, os.Stdout)
		},
	}
	rootCmd.AddCommand(dispatchCmd)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull new complaints from the external mailbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(apiFlag, tokenFlag, "/api/sync", nil, os.Stdout)
		},
	}
	rootCmd.AddCommand(syncCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(apiFlag, tokenFlag, "/api/stats", os.Stdout)
		},
	}
	rootCmd.AddCommand(statsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
