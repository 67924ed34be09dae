package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage the allowed group list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print allowed group chat IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := allowlistFromViper()
			if err != nil {
				return err
			}
			ids, err := store.Allowed()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Println("(empty: bot responds in every group)")
				return nil
			}
			sorted := make([]int64, 0, len(ids))
			for id := range ids {
				sorted = append(sorted, id)
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
			for _, id := range sorted {
				fmt.Println(id)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <chat-id>",
		Short: "Add a group chat ID to the allow list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id %q", args[0])
			}
			store, err := allowlistFromViper()
			if err != nil {
				return err
			}
			if err := store.Add(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("added %d\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <chat-id>",
		Short: "Remove a group chat ID from the allow list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id %q", args[0])
			}
			store, err := allowlistFromViper()
			if err != nil {
				return err
			}
			if err := store.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("removed %d\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every group from the allow list",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := allowlistFromViper()
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("cleared")
			return nil
		},
	})

	return cmd
}
