package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

// Swappable for tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "finboard-cli",
		Short: "Finboard CLI tool",
		Long:  `A command line interface for interacting with the Finboard API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Finboard API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "JWT bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(balancesCmd(), transferCmd(), consistencyCmd())
	rootCmd.AddCommand(ledgerCmd, hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show derived bucket balances",
		Run: func(cmd *cobra.Command, args []string) {
			body, status := apiRequest(http.MethodGet, "/api/v1/balances", nil)
			if status != http.StatusOK {
				fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
				os.Exit(1)
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}
			printJSON(result)
		},
	}
}

func transferCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "transfer <source> <target> <amount>",
		Short: "Move cash between buckets",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]string{
				"source": args[0],
				"target": args[1],
				"amount": args[2],
				"date":   date,
			}
			reqBody, _ := json.Marshal(payload)

			body, status := apiRequest(http.MethodPost, "/api/v1/transfers", reqBody)
			if status != http.StatusCreated {
				fmt.Printf("Transfer failed (Status: %d)\nResponse: %s\n", status, string(body))
				os.Exit(1)
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Transfer created")
			printJSON(result)
		},
	}

	cmd.Flags().StringVar(&date, "date", time.Now().UTC().Format(time.RFC3339), "Transfer date (RFC3339)")
	return cmd
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check double-entry consistency",
		Run: func(cmd *cobra.Command, args []string) {
			body, status := apiRequest(http.MethodGet, "/api/v1/consistency", nil)
			if status != http.StatusOK {
				fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
				os.Exit(1)
			}

			var result struct {
				Consistent bool     `json:"consistent"`
				Violations []string `json:"violations"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}

			if result.Consistent {
				fmt.Println("Consistency check PASSED")
				return
			}

			fmt.Println("Consistency check FAILED")
			for _, v := range result.Violations {
				fmt.Printf("  - %s\n", v)
			}
			os.Exit(1)
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password with bcrypt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func apiRequest(method, path string, body []byte) ([]byte, int) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return respBody, resp.StatusCode
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
