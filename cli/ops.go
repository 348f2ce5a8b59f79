// Package cli holds the command line tools mounted on the server binary.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ordertracker/services"
)

// DefaultServerURL is used when neither --url nor ORDERTRACKER_URL is set.
const DefaultServerURL = "http://127.0.0.1:8090"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	idStyle      = lipgloss.NewStyle().Faint(true)
)

var errOperationFailed = errors.New("operation failed")

func defaultURL() string {
	if v := os.Getenv("ORDERTRACKER_URL"); v != "" {
		return v
	}
	return DefaultServerURL
}

// NewOpsCommand returns the "ops" command: order listing and the scale,
// merge and subtract operations against a running server's JSON API.
func NewOpsCommand() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Scale, merge and subtract orders on a running server",
	}
	cmd.PersistentFlags().StringVar(&baseURL, "url", defaultURL(), "base URL of the order tracker server")

	client := func() *services.OrdersClient {
		return services.NewOrdersClient(baseURL, nil)
	}

	cmd.AddCommand(
		newListCmd(client),
		newScaleCmd(client),
		newMergeCmd(client),
		newSubtractCmd(client),
	)
	return cmd
}

func newListCmd(client func() *services.OrdersClient) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := client().ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(orders) == 0 {
				fmt.Fprintln(out, idStyle.Render("no orders"))
				return nil
			}
			for _, o := range orders {
				fmt.Fprintln(out, o.Label())
			}
			return nil
		},
	}
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid order id %q", a)
		}
		ids[i] = n
	}
	return ids, nil
}

// report prints a result message and turns a failed one into an error so
// the process exits non-zero.
func report(cmd *cobra.Command, r services.Result) error {
	style := successStyle
	if !r.Success {
		style = errorStyle
	}
	fmt.Fprintln(cmd.OutOrStdout(), style.Render(r.Text))
	if !r.Success {
		cmd.SilenceErrors = true
		return errOperationFailed
	}
	return nil
}

func newScaleCmd(client func() *services.OrdersClient) *cobra.Command {
	return &cobra.Command{
		Use:   "scale <order> <factor>",
		Short: "Multiply every quantity of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[:1])
			if err != nil {
				return err
			}
			factor, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid scale factor %q", args[1])
			}
			cmd.SilenceUsage = true
			s := services.NewSelector(client())
			return report(cmd, s.SubmitScale(cmd.Context(), ids[0], factor))
		},
	}
}

func newMergeCmd(client func() *services.OrdersClient) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <source> <target>",
		Short: "Add the items of the source order into the target order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			s := services.NewSelector(client())
			return report(cmd, s.SubmitMerge(cmd.Context(), ids[0], ids[1]))
		},
	}
}

func newSubtractCmd(client func() *services.OrdersClient) *cobra.Command {
	return &cobra.Command{
		Use:   "subtract <from> <what>",
		Short: "Lower the quantities of one order by those of another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			s := services.NewSelector(client())
			return report(cmd, s.SubmitSubtract(cmd.Context(), ids[0], ids[1]))
		},
	}
}
