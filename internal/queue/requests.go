package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"loom/internal/nodes"
)

const requestColumns = "id, plugin_name, manifest_id, node_json, created_at"

// Enqueue records a pending manifest request. A request with the same
// (plugin, manifest id) pair replaces the earlier pending snapshot under a
// fresh id, keeping manifest ids unique within a plugin namespace at any
// instant. The fresh id keeps a replacement enqueued while a batch run is in
// flight outside that run's snapshot, so the run's clear cannot remove it.
func (s *Store) Enqueue(ctx context.Context, pluginName, manifestID string, node nodes.Node) (*Request, error) {
	pluginName = strings.TrimSpace(pluginName)
	manifestID = strings.TrimSpace(manifestID)
	if pluginName == "" {
		return nil, errors.New("plugin name is required")
	}
	if manifestID == "" {
		return nil, errors.New("manifest id is required")
	}
	if strings.TrimSpace(node.ID) == "" {
		return nil, errors.New("node id is required")
	}

	nodeJSON, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("marshal node snapshot: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	// OR REPLACE deletes the conflicting row and inserts a new one, so the
	// AUTOINCREMENT id always moves forward on replacement.
	_, err = s.execWithRetry(
		ctx,
		`INSERT OR REPLACE INTO manifest_requests (plugin_name, manifest_id, node_json, created_at)
         VALUES (?, ?, ?, ?)`,
		pluginName,
		manifestID,
		string(nodeJSON),
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert manifest request: %w", err)
	}

	return s.getByKey(ctx, pluginName, manifestID)
}

// Pending returns every pending request in enqueue order. This is the
// point-in-time snapshot batch runs operate on.
func (s *Store) Pending(ctx context.Context) ([]*Request, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM manifest_requests ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query pending requests: %w", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending requests: %w", err)
	}
	return requests, nil
}

// ClearProcessed removes exactly the given request ids. Requests enqueued
// after the snapshot keep their rows and stay pending.
func (s *Store) ClearProcessed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := s.execWithRetry(ctx,
		"DELETE FROM manifest_requests WHERE id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("clear processed requests: %w", err)
	}
	return nil
}

// Count reports how many requests are pending.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM manifest_requests").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending requests: %w", err)
	}
	return count, nil
}

func (s *Store) getByKey(ctx context.Context, pluginName, manifestID string) (*Request, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM manifest_requests WHERE plugin_name = ? AND manifest_id = ?",
		pluginName, manifestID)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("manifest request %s/%s not found", pluginName, manifestID)
		}
		return nil, err
	}
	return req, nil
}

func scanRequest(scanner interface{ Scan(dest ...any) error }) (*Request, error) {
	var (
		id         int64
		pluginName string
		manifestID string
		nodeJSON   string
		createdRaw string
	)

	if err := scanner.Scan(&id, &pluginName, &manifestID, &nodeJSON, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan manifest request: %w", err)
	}

	var node nodes.Node
	if err := json.Unmarshal([]byte(nodeJSON), &node); err != nil {
		return nil, fmt.Errorf("decode node snapshot for request %d: %w", id, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for request %d: %w", id, err)
	}

	return &Request{
		ID:         id,
		PluginName: pluginName,
		ManifestID: manifestID,
		Node:       node,
		CreatedAt:  createdAt,
	}, nil
}
