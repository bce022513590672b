// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/netascode/go-gemfire"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version of the gemfire command
const Version = "0.1.0"

// app carries the configuration and the client shared by all subcommands
type app struct {
	root   *cobra.Command
	v      *viper.Viper
	client *gemfire.Client
}

func newApp() *app {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "gemfire",
		Short: "GemFire REST API client",
		Long: fmt.Sprintf(`gemfire (v%s)

Reads and writes GemFire regions, runs OQL queries and executes
functions through the REST gateway (/gemfire-api/v1).`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: a.connect,
	}

	flags := root.PersistentFlags()
	flags.String("url", "http://localhost:7070", "gateway URL; /gemfire-api/v1 is added if no path is given")
	flags.String("username", "", "basic auth username")
	flags.String("password", "", "basic auth password")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.Duration("timeout", gemfire.DefaultOperationTimeout, "timeout of each request")
	flags.Int("retries", 0, "retries for transient failures (429, 502, 503, 504, transport errors)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error, none)")
	flags.Bool("pretty", false, "pretty print JSON bodies in debug logs")
	flags.Bool("metrics", false, "print request metrics after the command")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix("gemfire")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newVersionCmd(),
		newRegionsCmd(a),
		newPingCmd(a),
		newKeysCmd(a),
		newGetCmd(a),
		newGetAllCmd(a),
		newPutCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newCASCmd(a),
		newDeleteCmd(a),
		newClearCmd(a),
		newQueryCmd(a),
		newFunctionCmd(a),
	)
	a.root = root
	return a
}

// execute runs the command line and releases the client, also when the
// command failed
func (a *app) execute() error {
	err := a.root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of gemfire",
		Args:  cobra.NoArgs,
		// version needs no client
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gemfire v%s\n", Version)
		},
	}
}

// connect loads the env files and creates the client from the merged configuration
func (a *app) connect(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	level, err := gemfire.ParseLogLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	opts := []func(*gemfire.Client){
		gemfire.WithLogger(gemfire.NewDefaultLogger(level)),
		gemfire.WithPrettyPrintLogs(a.v.GetBool("pretty")),
		gemfire.VerifyCertificate(!a.v.GetBool("insecure")),
		gemfire.OperationTimeout(a.v.GetDuration("timeout")),
		gemfire.MaxRetries(a.v.GetInt("retries")),
	}
	if u := a.v.GetString("username"); u != "" {
		opts = append(opts, gemfire.Username(u))
	}
	if p := a.v.GetString("password"); p != "" {
		opts = append(opts, gemfire.Password(p))
	}

	a.client, err = gemfire.NewClient(a.v.GetString("url"), opts...)
	return err
}

// close prints the metrics if requested and releases the client
func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	if a.v.GetBool("metrics") {
		a.client.WriteMetrics(a.root.ErrOrStderr())
	}
	return a.client.Close()
}

// region resolves a region handle, looking up its type on the gateway
func (a *app) region(cmd *cobra.Command, name string) (*gemfire.Region, error) {
	return a.client.Region(cmd.Context(), name)
}

// parseValue treats arguments that are valid JSON as JSON and anything else as a string
func parseValue(arg string) any {
	if json.Valid([]byte(arg)) {
		return json.RawMessage(arg)
	}
	return arg
}

// parseKeys converts key arguments for the batch operations
func parseKeys(args []string) []any {
	keys := make([]any, len(args))
	for i, k := range args {
		keys[i] = k
	}
	return keys
}

// printBody writes a response body followed by a newline
func printBody(cmd *cobra.Command, body string) {
	if body == "" {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), body)
}
