package manifest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"loom/internal/logging"
	"loom/internal/queue"
	"loom/internal/report"
)

// PendingSource is the queue state a batch run drains. Pending returns the
// point-in-time snapshot; ClearProcessed removes exactly the given ids.
type PendingSource interface {
	Pending(ctx context.Context) ([]*queue.Request, error)
	ClearProcessed(ctx context.Context, ids []int64) error
}

// Processor orchestrates one batch run: snapshot, per-request fan-out,
// summary report, queue clear.
type Processor struct {
	source      PendingSource
	resolver    *Resolver
	diagnostics *Diagnostics
	writer      *Writer
	reporter    report.Reporter
	logger      *slog.Logger
}

// NewProcessor constructs a processor with initialized dependencies.
func NewProcessor(source PendingSource, resolver *Resolver, diagnostics *Diagnostics, writer *Writer, reporter report.Reporter, logger *slog.Logger) (*Processor, error) {
	if source == nil || resolver == nil || diagnostics == nil || writer == nil || reporter == nil {
		return nil, errors.New("processor requires source, resolver, diagnostics, writer, and reporter")
	}
	return &Processor{
		source:      source,
		resolver:    resolver,
		diagnostics: diagnostics,
		writer:      writer,
		reporter:    reporter,
		logger:      logging.NewComponentLogger(logger, "manifests"),
	}, nil
}

// Run drains the pending queue once. An empty queue returns immediately with
// no report and no clear. Requests are processed concurrently; per-request
// write failures are logged and do not block siblings. After all requests
// settle, Run reports one summary line and clears exactly the snapshotted
// ids, so requests enqueued mid-run stay pending for the next invocation.
//
// An unreachable-state diagnosis aborts the batch after the fan-in: no
// summary is reported and nothing is cleared.
func (p *Processor) Run(ctx context.Context) error {
	snapshot, err := p.source.Pending(ctx)
	if err != nil {
		return fmt.Errorf("snapshot pending manifests: %w", err)
	}
	if len(snapshot) == 0 {
		return nil
	}

	var group errgroup.Group
	for _, req := range snapshot {
		group.Go(func() error {
			return p.process(ctx, req)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	p.reporter.Info(fmt.Sprintf("Wrote out %d node page manifest files", len(snapshot)))

	ids := make([]int64, len(snapshot))
	for i, req := range snapshot {
		ids[i] = req.ID
	}
	if err := p.source.ClearProcessed(ctx, ids); err != nil {
		return fmt.Errorf("clear processed manifests: %w", err)
	}
	return nil
}

func (p *Processor) process(ctx context.Context, req *queue.Request) error {
	res, err := p.resolver.Resolve(ctx, req.Node.ID)
	if err != nil {
		return err
	}

	pagePath := ""
	if res.Page != nil {
		pagePath = res.Page.Path
	}

	if _, err := p.diagnostics.Diagnose(req, res.FoundPageBy, pagePath); err != nil {
		return err
	}

	artifact := Artifact{
		Page:        PageInfo{Path: pagePath},
		Node:        req.Node,
		FoundPageBy: string(res.FoundPageBy),
	}
	if err := p.writer.Write(req.PluginName, req.ManifestID, artifact); err != nil {
		p.logger.Error("node manifest write failed",
			logging.Error(err),
			logging.String(logging.FieldPlugin, req.PluginName),
			logging.String(logging.FieldManifestID, req.ManifestID),
			logging.String(logging.FieldNodeID, req.Node.ID),
		)
		return nil
	}

	p.logger.Debug("node manifest written",
		logging.String(logging.FieldPlugin, req.PluginName),
		logging.String(logging.FieldManifestID, req.ManifestID),
		logging.String(logging.FieldPagePath, pagePath),
	)
	return nil
}
