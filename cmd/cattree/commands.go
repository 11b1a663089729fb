package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/cattree"
	"github.com/DRSN-tech/catalog-backend/internal/delivery/dto"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	file       string
	output     string
	activeOnly bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "cattree",
		Short:        "Inspect a flat category list as a tree",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "-", "JSON array of categories, - for stdin")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	root.PersistentFlags().BoolVar(&opts.activeOnly, "active", false, "drop inactive categories, promoting their active descendants")

	root.AddCommand(
		newTreeCmd(opts),
		newPathCmd(opts),
		newHoverCmd(opts),
		newRenderCmd(opts),
	)

	return root
}

func newTreeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the nested forest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := loadRecords(cmd, opts.file)
			if err != nil {
				return err
			}

			return encode(cmd.OutOrStdout(), opts.output, dto.NodesFromDomain(buildForest(records, opts.activeOnly)))
		},
	}
}

func newPathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path <id>",
		Short: "Print the breadcrumb chain from the root to the category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(cmd, opts.file)
			if err != nil {
				return err
			}

			return encode(cmd.OutOrStdout(), opts.output, dto.AncestorsFromDomain(cattree.FindPathToRoot(args[0], records)))
		},
	}
}

func newHoverCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "hover <id>",
		Short: "Print the ids of submenus opened when hovering the category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(cmd, opts.file)
			if err != nil {
				return err
			}

			return encode(cmd.OutOrStdout(), opts.output, dto.HoverPathResponse{IDs: cattree.HoverPath(args[0], records)})
		},
	}
}

func newRenderCmd(opts *options) *cobra.Command {
	var (
		expand    []string
		expandAll bool
		selected  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the tree as indented text, honouring the expanded set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := loadRecords(cmd, opts.file)
			if err != nil {
				return err
			}

			forest := buildForest(records, opts.activeOnly)
			state := cattree.NewExpandState(expand...)
			if expandAll {
				state.ExpandAll(forest)
			}

			var sel cattree.Selection
			if selected != "" {
				sel.Select(selected)
				// выбранная категория должна быть видна
				path := cattree.HoverPath(selected, records)
				if len(path) > 0 {
					state.ExpandPath(path[:len(path)-1])
				}
			}

			render(cmd.OutOrStdout(), cattree.Visible(forest, state), &sel)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&expand, "expand", nil, "ids of expanded categories")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "expand every category with children")
	cmd.Flags().StringVar(&selected, "select", "", "id of the selected category")

	return cmd
}

func buildForest(records []domain.Category, activeOnly bool) []*domain.CategoryNode {
	forest := cattree.BuildTree(records)
	if activeOnly {
		forest = cattree.FilterActive(forest)
	}
	return forest
}

func render(w io.Writer, rows []cattree.Row, sel *cattree.Selection) {
	for _, row := range rows {
		marker := "-"
		switch {
		case row.HasChildren && row.Expanded:
			marker = "v"
		case row.HasChildren:
			marker = ">"
		}

		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", row.Depth), marker, row.Node.Name)
		if !row.Node.IsActive {
			line += " (inactive)"
		}
		if sel.Contains(row.Node.ID) {
			line += " *"
		}
		fmt.Fprintln(w, line)
	}
}

func loadRecords(cmd *cobra.Command, file string) ([]domain.Category, error) {
	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open categories: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []dto.CategoryDTO
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	return dto.CategoriesToDomain(records), nil
}

// encode печатает v как JSON или YAML. YAML строится из JSON-формы,
// чтобы ключи совпадали с HTTP API.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
