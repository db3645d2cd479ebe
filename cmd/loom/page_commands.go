package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/pages"
)

func newPagesCommand(ctx *commandContext) *cobra.Command {
	pagesCmd := &cobra.Command{
		Use:   "pages",
		Short: "Maintain the node to page ownership index",
	}

	pagesCmd.AddCommand(newPagesMapCommand(ctx))

	return pagesCmd
}

func newPagesMapCommand(ctx *commandContext) *cobra.Command {
	var nodeID string
	var pagePath string
	var via string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Record which page renders a node",
		Long: `Record a node to page mapping in the ownership index that
"manifests process" resolves against. The --via flag names the mechanism
that produced the mapping: owner (an explicit ownerNodeId, authoritative),
route (a filesystem route created the page), context (the page's context id
equals the node id), or query (the page queried the node during the build).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			indexPath := ownershipIndexPath(cfg)
			index, err := pages.LoadIndex(indexPath)
			if err != nil {
				return err
			}

			switch via {
			case "owner":
				index.SetOwner(nodeID, pagePath)
			case "route":
				index.AddRouteAPIPage(nodeID, pagePath)
			case "context":
				index.AddPageWithContextID(nodeID, pagePath)
			case "query":
				index.TrackQuery(nodeID, pagePath)
			default:
				return fmt.Errorf("unknown --via value %q (expected owner, route, context, or query)", via)
			}

			if err := index.Save(indexPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Mapped node %s to page %s (via %s)\n", nodeID, pagePath, via)
			return nil
		},
	}

	cmd.Flags().StringVarP(&nodeID, "node-id", "n", "", "Content node id")
	cmd.Flags().StringVar(&pagePath, "page", "", "Page path rendering the node")
	cmd.Flags().StringVar(&via, "via", "owner", "Mapping mechanism: owner, route, context, or query")
	_ = cmd.MarkFlagRequired("node-id")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}
