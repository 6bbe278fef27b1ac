package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/termcp/internal/mcpserver"
	"github.com/matiasleandrokruk/termcp/internal/version"
)

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tools and resources a client would see, as JSON",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  toolsAction,
	}
}

func toolsAction(cmd *cobra.Command, _ []string) error {
	a, err := newAppFromCommand(cmd)
	if err != nil {
		return err
	}
	info, err := mcpserver.Inspect(cmd.Context(), a.server)
	if err != nil {
		return err
	}
	j, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
	return err
}

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			if !asJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return err
			}
			j, err := json.Marshal(version.Get())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
			return err
		},
	}
	cmd.Flags().Bool("json", false, "print version information as JSON")
	return cmd
}
