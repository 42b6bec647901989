package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"teludub/internal/deps"
	"teludub/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var online bool
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external binaries, directories, and API reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				switch {
				case !s.Available && s.Optional:
					state = "optional"
				case !s.Available:
					state = "missing"
				}
				detail := s.Path
				if detail == "" {
					detail = s.Detail
				}
				rows = append(rows, []string{s.Name, s.Command, state, detail, s.Description})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Dependency", "Command", "Status", "Detail", "Purpose"}, rows, nil))

			checks := preflight.RunAll(cmd.Context(), cfg, online)
			checkRows := make([][]string, 0, len(checks))
			for _, c := range checks {
				checkRows = append(checkRows, []string{c.Name, yesNo(c.Passed), c.Detail})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Check", "Passed", "Detail"}, checkRows, nil))

			if err := cfg.CheckCredentials(); err != nil {
				fmt.Fprintf(out, "Credentials: %v\n", err)
			} else {
				fmt.Fprintln(out, "Credentials: ok")
			}

			missing := deps.Missing(statuses)
			failed := preflight.Failed(checks)
			if len(missing) > 0 || len(failed) > 0 {
				return errors.New("dependency checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&online, "online", false, "Also verify that the configured APIs accept the keys")
	return cmd
}
