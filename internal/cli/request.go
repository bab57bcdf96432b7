package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leoagomes/ctrq"
)

var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Perform a GET request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, args[0], func(ctx context.Context, url string, opts []ctrq.Option) *ctrq.Response {
			return ctrq.Get(ctx, url, opts...)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete URL",
	Short: "Perform a DELETE request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, args[0], func(ctx context.Context, url string, opts []ctrq.Option) *ctrq.Response {
			return ctrq.Delete(ctx, url, opts...)
		})
	},
}

var postCmd = &cobra.Command{
	Use:   "post URL",
	Short: "Perform a POST request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := requestBody(cmd)
		if err != nil {
			return err
		}
		return runRequest(cmd, args[0], func(ctx context.Context, url string, opts []ctrq.Option) *ctrq.Response {
			return ctrq.Post(ctx, url, body, opts...)
		})
	},
}

var putCmd = &cobra.Command{
	Use:   "put URL",
	Short: "Perform a PUT request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := requestBody(cmd)
		if err != nil {
			return err
		}
		return runRequest(cmd, args[0], func(ctx context.Context, url string, opts []ctrq.Option) *ctrq.Response {
			return ctrq.Put(ctx, url, body, opts...)
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{postCmd, putCmd} {
		cmd.Flags().StringP("data", "d", "", "Raw request body")
		cmd.Flags().StringArrayP("form", "f", nil, "Form parameter (repeatable, e.g., -f name=value)")
	}
	rootCmd.AddCommand(getCmd, postCmd, putCmd, deleteCmd)
}

// runRequest executes one verb and prints the outcome.
func runRequest(cmd *cobra.Command, url string, do func(context.Context, string, []ctrq.Option) *ctrq.Response) error {
	opts, err := requestOptions(cmd)
	if err != nil {
		return err
	}

	res := do(cmd.Context(), url, opts)
	defer res.Close()

	if res.HasFailed() {
		return fmt.Errorf("request failed at %s: %w", res.Failure, res.Result)
	}

	if include, _ := cmd.Flags().GetBool("include"); include {
		fmt.Printf("HTTP %d\n", res.Status)
		for _, name := range displayHeaders {
			if v := res.Header(name); v != "" {
				fmt.Printf("%s: %s\n", name, v)
			}
		}
		fmt.Println()
	}

	os.Stdout.Write(res.Body())
	return nil
}

// displayHeaders are the response headers printed with --include.
var displayHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Date",
	"Server",
	"Location",
}

// requestBody builds the body value from --data / --form flags.
func requestBody(cmd *cobra.Command) (any, error) {
	data, _ := cmd.Flags().GetString("data")
	form, _ := cmd.Flags().GetStringArray("form")

	if data != "" && len(form) > 0 {
		return nil, fmt.Errorf("--data and --form are mutually exclusive")
	}
	if data != "" {
		return data, nil
	}
	if len(form) > 0 {
		params := make(ctrq.Form, len(form))
		for _, pair := range form {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid form parameter %q (want name=value)", pair)
			}
			params[k] = v
		}
		return params, nil
	}
	return nil, nil
}

// parseHeaders converts repeated "Name: Value" flags into a header map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q (want 'Name: Value')", h)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}
