package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"recipe-normalizer/internal/core/ingredient"
	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/pkg/common"
)

// subRecipePrefix 品項以此開頭時視為子食譜參照
const subRecipePrefix = "@"

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Split ingredient lines into structured rows",
		Long: `Split each stdin line into quantity, unit, item and prep.

Items written as "@name" are sub-recipe references; each distinct name
receives a generated reference id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRows(cmd, opts)
			if err != nil {
				return err
			}
			return writeRows(cmd, opts, linkSubRecipes(rows))
		},
	}
}

func newConvertCmd(opts *options) *cobra.Command {
	var normalize bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert rows to another measurement system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRows(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if normalize {
				return writeRows(cmd, opts, opts.svc.NormalizeRows(ctx, rows))
			}
			system, err := opts.targetSystem()
			if err != nil {
				return err
			}
			return writeRows(cmd, opts, opts.svc.ConvertRows(ctx, rows, system))
		},
	}

	cmd.Flags().BoolVar(&normalize, "normalize", false, "pick the best unit within each row's own system instead")
	return cmd
}

func newScaleCmd(opts *options) *cobra.Command {
	var factor, target, current string

	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Scale rows by a factor or from current to target portions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := scaleFactor(opts, factor, target, current)
			if err != nil {
				return err
			}
			rows, err := readRows(cmd, opts)
			if err != nil {
				return err
			}
			return writeRows(cmd, opts, opts.svc.ScaleRows(cmd.Context(), rows, f))
		},
	}

	cmd.Flags().StringVar(&factor, "factor", "", "scale factor, e.g. 2 or 1/2")
	cmd.Flags().StringVar(&target, "target", "", "target portion count")
	cmd.Flags().StringVar(&current, "current", "1", "current portion count")
	cmd.MarkFlagsMutuallyExclusive("factor", "target")
	cmd.MarkFlagsOneRequired("factor", "target")
	return cmd
}

func scaleFactor(opts *options, factor, target, current string) (quantity.Quantity, error) {
	if factor != "" {
		return opts.svc.ParseQuantity(factor)
	}
	t, err := opts.svc.ParseQuantity(target)
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("target: %w", err)
	}
	c, err := opts.svc.ParseQuantity(current)
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("current: %w", err)
	}
	return ingredient.ScaleFactor(t, c), nil
}

// yieldOutput yield 子命令的 JSON 輸出
type yieldOutput struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	VolumeML string `json:"volume_ml"`
	MassG    string `json:"mass_g"`
	Included int    `json:"included"`
	Skipped  int    `json:"skipped"`
}

func newYieldCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "yield",
		Short: "Total the batch yield of volume and mass rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRows(cmd, opts)
			if err != nil {
				return err
			}
			system, err := opts.targetSystem()
			if err != nil {
				return err
			}

			b := opts.svc.AggregateYield(cmd.Context(), rows, system)
			out := yieldOutput{
				Quantity: b.Total.Display(),
				Unit:     string(b.Unit.Code),
				VolumeML: b.Volume.Display(),
				MassG:    b.Mass.Display(),
				Included: b.Included,
				Skipped:  b.Skipped,
			}
			if opts.outputJSON {
				return writeJSON(cmd, out)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d rows, %d skipped)\n", out.Quantity, b.Unit.Label, out.Included, out.Skipped)
			return err
		},
	}
}

func newTempCmd(opts *options) *cobra.Command {
	var field bool

	cmd := &cobra.Command{
		Use:   "temp",
		Short: "Convert oven temperatures in text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			system, err := opts.targetSystem()
			if err != nil {
				return err
			}
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			text := strings.TrimRight(string(data), "\r\n")
			if field {
				text = opts.svc.ConvertTemperatureField(text, system)
			} else {
				text = opts.svc.ConvertTemperatureText(text, system)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().BoolVar(&field, "field", false, "treat input as a single temperature field")
	return cmd
}

// readRows 讀取 stdin：JSON 陣列直接解碼，否則逐行解析
func readRows(cmd *cobra.Command, opts *options) ([]ingredient.Row, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []ingredient.Row
		if err := common.DecodeJSONStrict(bytes.NewReader(trimmed), &rows); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
		return rows, nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return opts.svc.ParseLines(ctx, string(data))
}

// linkSubRecipes 為 "@名稱" 品項指派參照 ID，同名共用同一 ID
func linkSubRecipes(rows []ingredient.Row) []ingredient.Row {
	ids := make(map[string]string)
	out := make([]ingredient.Row, len(rows))
	for i, row := range rows {
		if name, ok := strings.CutPrefix(row.Item, subRecipePrefix); ok && name != "" && row.SubRecipeID == "" {
			key := strings.ToLower(name)
			if _, seen := ids[key]; !seen {
				ids[key] = common.GenerateUUID()
			}
			row.Item = name
			row.SubRecipeID = ids[key]
		}
		out[i] = row
	}
	return out
}

func writeRows(cmd *cobra.Command, opts *options, rows []ingredient.Row) error {
	if opts.outputJSON {
		return writeJSON(cmd, rows)
	}
	units := opts.svc.Engine().Units()
	w := cmd.OutOrStdout()
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row.Line(units)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	s, err := common.ToJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}
