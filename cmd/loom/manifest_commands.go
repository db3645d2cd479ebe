package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/logging"
	"loom/internal/manifest"
	"loom/internal/nodes"
	"loom/internal/pages"
	"loom/internal/queue"
	"loom/internal/report"
)

func newManifestsCommand(ctx *commandContext) *cobra.Command {
	manifestsCmd := &cobra.Command{
		Use:   "manifests",
		Short: "Inspect and process pending node manifests",
	}

	manifestsCmd.AddCommand(newManifestsProcessCommand(ctx))
	manifestsCmd.AddCommand(newManifestsPendingCommand(ctx))
	manifestsCmd.AddCommand(newManifestsAddCommand(ctx))

	return manifestsCmd
}

func newManifestsProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Write pending manifests to the cache and clear them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				lock := flock.New(filepath.Join(cfg.Paths.StateDir, "manifests.lock"))
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire manifest lock: %w", err)
				}
				if !locked {
					return errors.New("another loom process is already writing node manifests")
				}
				defer func() { _ = lock.Unlock() }()

				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("configure logging: %w", err)
				}

				index, err := pages.LoadIndex(ownershipIndexPath(cfg))
				if err != nil {
					return err
				}
				resolver, err := manifest.NewResolver(index)
				if err != nil {
					return err
				}

				reporter := report.NewLogReporter(logger)
				processor, err := manifest.NewProcessor(
					store,
					resolver,
					manifest.NewDiagnostics(reporter),
					manifest.NewWriter(cfg),
					reporter,
					logger,
				)
				if err != nil {
					return err
				}

				return processor.Run(cmd.Context())
			})
		},
	}
}

func newManifestsPendingCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List pending manifest requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				requests, err := store.Pending(cmd.Context())
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, buildPendingViews(requests))
				}

				if len(requests) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No pending manifests")
					return nil
				}

				rows := make([][]string, 0, len(requests))
				for _, req := range requests {
					rows = append(rows, []string{
						fmt.Sprintf("%d", req.ID),
						req.PluginName,
						req.ManifestID,
						req.Node.ID,
						req.CreatedAt.Format(time.RFC3339),
					})
				}
				tableOut := renderTable(
					[]string{"ID", "Plugin", "Manifest", "Node", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), tableOut)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit pending manifests as JSON")
	return cmd
}

func newManifestsAddCommand(ctx *commandContext) *cobra.Command {
	var pluginName string
	var nodeID string
	var manifestID string
	var fieldFlags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Enqueue a manifest request for a node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				fields, err := parseFields(fieldFlags)
				if err != nil {
					return err
				}

				id := strings.TrimSpace(manifestID)
				if id == "" {
					id = uuid.NewString()
				}

				req, err := store.Enqueue(cmd.Context(), pluginName, id, nodes.Node{
					ID:     nodeID,
					Fields: fields,
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Queued manifest %s for plugin %s (request %d)\n",
					req.ManifestID, req.PluginName, req.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&pluginName, "plugin", "p", "", "Plugin name the request belongs to")
	cmd.Flags().StringVarP(&nodeID, "node-id", "n", "", "Content node id to map")
	cmd.Flags().StringVarP(&manifestID, "manifest-id", "m", "", "Manifest id (defaults to a new UUID)")
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "Node snapshot field as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("plugin")
	_ = cmd.MarkFlagRequired("node-id")
	return cmd
}

type pendingView struct {
	ID         int64  `json:"id"`
	PluginName string `json:"pluginName"`
	ManifestID string `json:"manifestId"`
	NodeID     string `json:"nodeId"`
	CreatedAt  string `json:"createdAt"`
}

func buildPendingViews(requests []*queue.Request) []pendingView {
	views := make([]pendingView, 0, len(requests))
	for _, req := range requests {
		views = append(views, pendingView{
			ID:         req.ID,
			PluginName: req.PluginName,
			ManifestID: req.ManifestID,
			NodeID:     req.Node.ID,
			CreatedAt:  req.CreatedAt.Format(time.RFC3339),
		})
	}
	return views
}

func parseFields(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --field %q, expected key=value", pair)
		}
		if key == "id" {
			return nil, errors.New("--field must not override the node id")
		}
		fields[key] = value
	}
	return fields, nil
}

func ownershipIndexPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.StateDir, "page-ownership.json")
}
