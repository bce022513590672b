// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "Lists the regions served by the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := a.client.ListRegions(cmd.Context())
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", info.Name, info.Type)
			}
			return nil
		},
	}
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Checks that the gateway is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pong")
			return nil
		},
	}
}

func newKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys [region]",
		Short: "Lists the keys of a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			keys, err := r.Keys(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [region] [key...]",
		Short: "Reads the values for one or more keys",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := r.Get(cmd.Context(), parseKeys(args[1:]))
			if err != nil {
				return err
			}
			printBody(cmd, res.Body)
			return nil
		},
	}
}

func newGetAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-all [region]",
		Short: "Reads every value of a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := r.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			printBody(cmd, res.Payload())
			return nil
		},
	}
}

func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put [region] [key] [value]",
		Short: "Sets the value for a key",
		Long:  "Sets the value for a key. Values that parse as JSON are stored as JSON, anything else as a string.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := r.Put(cmd.Context(), args[1], parseValue(args[2])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "put successfully")
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create [region] [key] [value]",
		Short: "Sets the value for a key if the key is not already set",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := r.Create(cmd.Context(), args[1], parseValue(args[2])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "create successfully")
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update [region] [key] [value]",
		Short: "Replaces the value for a key if the key is set",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := r.Update(cmd.Context(), args[1], parseValue(args[2])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "update successfully")
			return nil
		},
	}
}

func newCASCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cas [region] [key] [old] [new]",
		Short: "Replaces the value for a key if it equals old",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := r.CompareAndSet(cmd.Context(), args[1], parseValue(args[2]), parseValue(args[3])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cas successfully")
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [region] [key...]",
		Short: "Deletes one or more keys",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := r.Delete(cmd.Context(), parseKeys(args[1:])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "delete successfully")
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [region]",
		Short: "Removes every entry of a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.region(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := r.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "clear successfully")
			return nil
		},
	}
}

func newQueryCmd(a *app) *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Manages and runs OQL queries",
	}

	queryCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Lists the stored queries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				queries, err := a.client.ListQueries(cmd.Context())
				if err != nil {
					return err
				}
				for _, q := range queries {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", q.ID, q.OQL)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "new [id] [oql]",
			Short: "Stores a query under an id",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.client.NewQuery(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "query created")
				return nil
			},
		},
		&cobra.Command{
			Use:   "run [id] [arg...]",
			Short: "Runs a stored query with positional arguments",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var params []any
				for _, p := range args[1:] {
					params = append(params, parseValue(p))
				}
				res, err := a.client.RunQuery(cmd.Context(), args[0], params)
				if err != nil {
					return err
				}
				printBody(cmd, res.Body)
				return nil
			},
		},
		&cobra.Command{
			Use:   "adhoc [oql]",
			Short: "Runs a query without storing it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client.AdhocQuery(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printBody(cmd, res.Body)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete [id]",
			Short: "Deletes a stored query",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.client.DeleteQuery(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "query deleted")
				return nil
			},
		},
	)
	return queryCmd
}

func newFunctionCmd(a *app) *cobra.Command {
	functionCmd := &cobra.Command{
		Use:   "function",
		Short: "Lists and executes deployed functions",
	}

	execCmd := &cobra.Command{
		Use:   "exec [id]",
		Short: "Executes a function, optionally on a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			region, _ := cmd.Flags().GetString("region")
			raw, _ := cmd.Flags().GetString("args")

			var fnArgs any
			if raw != "" {
				fnArgs = parseValue(raw)
			}
			res, err := a.client.ExecuteFunction(cmd.Context(), region, args[0], fnArgs)
			if err != nil {
				return err
			}
			printBody(cmd, res.Body)
			return nil
		},
	}
	execCmd.Flags().String("region", "", "region to execute the function on")
	execCmd.Flags().String("args", "", "function arguments as JSON")

	functionCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Lists the deployed functions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ids, err := a.client.ListFunctions(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			},
		},
		execCmd,
	)
	return functionCmd
}
