package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethanbaker/catfacts/pkg/sdk"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree around an API client, writing results to out
func newRootCmd(client *sdk.Client, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "catfacts",
		Short:         "catfacts manages the cat facts API from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the newest facts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				facts, err := client.ListFacts(cmd.Context())
				if err != nil {
					return err
				}
				if len(facts) == 0 {
					fmt.Fprintln(out, "No facts yet.")
				}
				for _, f := range facts {
					fmt.Fprintf(out, "%d\t%s\t%s\n", f.ID, f.CreatedAt, f.Fact)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "random",
			Short: "Show a random fact",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fact, err := client.RandomFact(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s (from %s)\n", fact.Fact, fact.Source)
				return nil
			},
		},
		&cobra.Command{
			Use:     "add <fact>",
			Short:   "Add a fact",
			Example: `catfacts add "Cats sleep 70% of their lives"`,
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := client.AddFact(cmd.Context(), strings.Join(args, " ")); err != nil {
					return err
				}
				fmt.Fprintln(out, "Fact added!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <id> <fact>",
			Short: "Replace the text of a fact",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := client.UpdateFact(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
					return err
				}
				fmt.Fprintln(out, "Fact updated!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a fact",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := client.DeleteFact(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(out, "Fact deleted!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "fetch",
			Short: "Pull a fact from the external api and store it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fact, err := client.FetchFact(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Fetched: %s\n", fact.Fact)
				return nil
			},
		},
		&cobra.Command{
			Use:   "likes",
			Short: "List liked facts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				likes, err := client.ListLikes(cmd.Context())
				if err != nil {
					return err
				}
				if len(likes) == 0 {
					fmt.Fprintln(out, "No liked facts.")
				}
				for _, l := range likes {
					fmt.Fprintf(out, "%d\t%s\t%s\n", l.FactID, l.LikedAt.Format("2006-01-02 15:04"), l.Fact)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "like <id>",
			Short: "Like a fact",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := client.LikeFact(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(out, "Fact liked!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "unlike <id>",
			Short: "Remove the like on a fact",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := client.UnlikeFact(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(out, "Fact unliked!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "health",
			Short: "Show the API's dependency status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := client.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "database: %s\ncache: %s\nupstream: %s\n", status.Database, status.Cache, status.Upstream)
				return nil
			},
		},
	)

	return root
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid fact id %q", arg)
	}
	return uint(id), nil
}
