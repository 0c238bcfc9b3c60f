package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacxt/spacxt/command"
)

func moveCmd() *cobra.Command {
	var objectID, objectType, target, rel, posFlag string
	var quantity int

	cmd := &cobra.Command{
		Use:   "move",
		Short: "move an object (and its dependent closure) to a new position or relation",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}

			move := command.Move{
				ObjectID:        objectID,
				ObjectType:      objectType,
				Quantity:        quantity,
				TargetObject:    target,
				SpatialRelation: relationFlagValue(rel),
			}
			if relationFlagValue(rel) == command.Custom {
				if posFlag == "" {
					return fmt.Errorf("--pos is required when --rel=custom")
				}
				pos, err := parseVec3(posFlag)
				if err != nil {
					return fmt.Errorf("--pos: %w", err)
				}
				move.Position = &pos
			}

			moved, err := rt.exec.Move(move)
			if err != nil && len(moved) == 0 {
				return err
			}
			if err := rt.save(); err != nil {
				return err
			}
			for _, id := range moved {
				fmt.Println(id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&objectID, "id", "", "object id to move")
	cmd.Flags().StringVar(&objectType, "type", "", "object type to move, when --id is not given")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "how many objects of --type to move, in id order")
	cmd.Flags().StringVar(&target, "target", "", "target object id, for on_top_of/near")
	cmd.Flags().StringVar(&rel, "rel", "custom", "spatial relation: on_top_of | near | custom | none")
	cmd.Flags().StringVar(&posFlag, "pos", "", "explicit x,y,z position, required when --rel=custom")
	return cmd
}
