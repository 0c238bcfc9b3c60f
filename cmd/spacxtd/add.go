package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacxt/spacxt/command"
	"github.com/spacxt/spacxt/geom"
)

func addCmd() *cobra.Command {
	var objectType, objectID, target, rel, room, bboxFlag, posFlag string
	var quantity int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "add one or more objects to the scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}

			bbox, err := parseVec3(bboxFlag)
			if err != nil {
				return fmt.Errorf("--bbox: %w", err)
			}
			add := command.Add{
				ObjectType:      objectType,
				ObjectID:        objectID,
				TargetObject:    target,
				SpatialRelation: relationFlagValue(rel),
				Room:            room,
				Quantity:        quantity,
				Properties:      command.Properties{Bbox: bbox},
			}
			if relationFlagValue(rel) == command.Custom {
				if posFlag == "" {
					return fmt.Errorf("--pos is required when --rel=custom")
				}
				pos, err := parseVec3(posFlag)
				if err != nil {
					return fmt.Errorf("--pos: %w", err)
				}
				add.Position = &pos
			}

			ids, err := rt.exec.Add(add)
			if err != nil && len(ids) == 0 {
				return err
			}
			if err != nil {
				rt.log.Warn("add completed with partial failures", zap.Error(err))
			}
			if saveErr := rt.save(); saveErr != nil {
				return saveErr
			}
			fmt.Println(strings.Join(ids, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVar(&objectType, "type", "", "object class/type (required)")
	cmd.Flags().StringVar(&objectID, "id", "", "explicit object id (only honored when quantity <= 1)")
	cmd.Flags().StringVar(&target, "target", "", "target object id (required for on_top_of/near)")
	cmd.Flags().StringVar(&rel, "rel", "none", "spatial relation: on_top_of | near | custom | none")
	cmd.Flags().StringVar(&room, "room", "", "room id to attach the new object to")
	cmd.Flags().StringVar(&bboxFlag, "bbox", "", "bounding box extents as x,y,z")
	cmd.Flags().StringVar(&posFlag, "pos", "", "explicit x,y,z position, required when --rel=custom")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "number of copies to create")
	cmd.MarkFlagRequired("type")
	return cmd
}

func parseVec3(s string) (geom.Vec3, error) {
	if s == "" {
		return geom.Vec3{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("%q is not a number: %w", p, err)
		}
		vals[i] = v
	}
	return geom.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
