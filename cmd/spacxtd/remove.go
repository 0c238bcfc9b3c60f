package main

import (
	"github.com/spf13/cobra"

	"github.com/spacxt/spacxt/command"
)

func removeCmd() *cobra.Command {
	var objectID, objectType string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "remove an object, dropping its dependent closure straight to ground",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			if err := rt.exec.Remove(command.Remove{ObjectID: objectID, ObjectType: objectType}); err != nil {
				return err
			}
			return rt.save()
		},
	}
	cmd.Flags().StringVar(&objectID, "id", "", "object id to remove")
	cmd.Flags().StringVar(&objectType, "type", "", "object type to remove, when --id is not given")
	return cmd
}
