package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-ops/internal/core"
)

// Snapshot is the complete persisted state: the catalog plus the location
// forest, as exported by the in-memory services.
type Snapshot struct {
	Catalog core.ExportCatalog
	Nodes   []core.ExportNode
}

// Store persists full state snapshots to PostgreSQL. The in-memory services
// remain authoritative; Save replaces the stored snapshot wholesale inside one
// transaction, and Load rebuilds the exported form for the services to restore.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the snapshot tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS categories (
			name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS products (
			sku         TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			stock       INTEGER NOT NULL,
			committed   INTEGER NOT NULL,
			min_stock   INTEGER NOT NULL,
			unit_cost   NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL,
			position    INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS channel_listings (
			id                  TEXT PRIMARY KEY,
			sku                 TEXT NOT NULL REFERENCES products(sku) ON DELETE CASCADE,
			platform            TEXT NOT NULL,
			external_id         TEXT NOT NULL DEFAULT '',
			title               TEXT NOT NULL DEFAULT '',
			url                 TEXT NOT NULL DEFAULT '',
			status              TEXT NOT NULL,
			buffer_stock        INTEGER NOT NULL,
			auto_pause_enabled  BOOLEAN NOT NULL,
			max_visible_stock   INTEGER NOT NULL,
			max_visible_enabled BOOLEAN NOT NULL,
			shipping_mode       TEXT NOT NULL DEFAULT '',
			last_sync_at        TIMESTAMPTZ NOT NULL,
			position            INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS location_nodes (
			id        TEXT PRIMARY KEY,
			kind      TEXT NOT NULL,
			name      TEXT NOT NULL,
			parent_id TEXT NOT NULL DEFAULT '',
			city      TEXT NOT NULL DEFAULT '',
			region    TEXT NOT NULL DEFAULT '',
			address   TEXT NOT NULL DEFAULT '',
			depth     INTEGER NOT NULL,
			position  INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS loose_items (
			node_id  TEXT NOT NULL REFERENCES location_nodes(id) ON DELETE CASCADE,
			sku      TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			PRIMARY KEY (node_id, sku)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// nodeDepth orders kinds so a load can emit parents before children.
var nodeDepth = map[core.NodeKind]int{
	core.KindWarehouse: 0,
	core.KindZone:      1,
	core.KindRack:      2,
	core.KindPallet:    3,
	core.KindBox:       4,
}

// Save replaces the stored snapshot with the given one. All-or-nothing: any
// failure rolls the transaction back and leaves the previous snapshot intact.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM loose_items;
		DELETE FROM location_nodes;
		DELETE FROM channel_listings;
		DELETE FROM products;
		DELETE FROM categories;
	`); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	for _, name := range snap.Catalog.Categories {
		if _, err := tx.Exec(ctx, "INSERT INTO categories (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("failed to insert category %s: %w", name, err)
		}
	}

	for pos, p := range snap.Catalog.Products {
		if _, err := tx.Exec(ctx, `
			INSERT INTO products (sku, name, category, stock, committed, min_stock, unit_cost, created_at, updated_at, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, p.SKU, p.Name, p.Category, p.Stock, p.Committed, p.MinStock, p.UnitCost, p.CreatedAt, p.UpdatedAt, pos); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.SKU, err)
		}
		for lpos, l := range p.Listings {
			if _, err := tx.Exec(ctx, `
				INSERT INTO channel_listings (id, sku, platform, external_id, title, url, status,
					buffer_stock, auto_pause_enabled, max_visible_stock, max_visible_enabled,
					shipping_mode, last_sync_at, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			`, l.ID, p.SKU, l.Platform, l.ExternalID, l.Title, l.URL, string(l.Status),
				l.BufferStock, l.AutoPauseEnabled, l.MaxVisibleStock, l.MaxVisibleEnabled,
				l.ShippingMode, l.LastSyncAt, lpos); err != nil {
				return fmt.Errorf("failed to insert listing %s: %w", l.ID, err)
			}
		}
	}

	for _, n := range snap.Nodes {
		if _, err := tx.Exec(ctx, `
			INSERT INTO location_nodes (id, kind, name, parent_id, city, region, address, depth, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, n.ID, string(n.Kind), n.Name, n.ParentID, n.City, n.Region, n.Address, nodeDepth[n.Kind], n.Position); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.ID, err)
		}
		for _, it := range n.Items {
			if _, err := tx.Exec(ctx, `
				INSERT INTO loose_items (node_id, sku, quantity) VALUES ($1, $2, $3)
			`, n.ID, it.SKU, it.Quantity); err != nil {
				return fmt.Errorf("failed to insert loose item %s on %s: %w", it.SKU, n.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot back into exported form. Nodes come out
// parent-before-child (ordered by depth, then sibling position) so the forest
// can rebuild directly from the slice.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := s.pool.Query(ctx, "SELECT name FROM categories ORDER BY name")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return Snapshot{}, fmt.Errorf("failed to scan category: %w", err)
		}
		snap.Catalog.Categories = append(snap.Catalog.Categories, name)
	}
	rows.Close()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Catalog.Products = products

	nodes, err := s.loadNodes(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Nodes = nodes

	return snap, nil
}

func (s *Store) loadProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sku, name, category, stock, committed, min_stock, unit_cost, created_at, updated_at
		FROM products
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []core.Product
	index := make(map[string]int)
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.Category, &p.Stock, &p.Committed,
			&p.MinStock, &p.UnitCost, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		index[p.SKU] = len(products)
		products = append(products, p)
	}
	rows.Close()

	lrows, err := s.pool.Query(ctx, `
		SELECT id, sku, platform, external_id, title, url, status,
		       buffer_stock, auto_pause_enabled, max_visible_stock, max_visible_enabled,
		       shipping_mode, last_sync_at
		FROM channel_listings
		ORDER BY sku, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer lrows.Close()

	for lrows.Next() {
		var l core.ChannelListing
		var sku, status string
		if err := lrows.Scan(&l.ID, &sku, &l.Platform, &l.ExternalID, &l.Title, &l.URL, &status,
			&l.BufferStock, &l.AutoPauseEnabled, &l.MaxVisibleStock, &l.MaxVisibleEnabled,
			&l.ShippingMode, &l.LastSyncAt); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		l.Status = core.ChannelStatus(status)
		i, ok := index[sku]
		if !ok {
			return nil, fmt.Errorf("listing %s references missing product %s", l.ID, sku)
		}
		products[i].Listings = append(products[i].Listings, l)
	}
	return products, nil
}

func (s *Store) loadNodes(ctx context.Context) ([]core.ExportNode, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, name, parent_id, city, region, address, position
		FROM location_nodes
		ORDER BY depth, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query location nodes: %w", err)
	}
	defer rows.Close()

	var nodes []core.ExportNode
	index := make(map[string]int)
	for rows.Next() {
		var n core.ExportNode
		var kind string
		if err := rows.Scan(&n.ID, &kind, &n.Name, &n.ParentID, &n.City, &n.Region, &n.Address, &n.Position); err != nil {
			return nil, fmt.Errorf("failed to scan location node: %w", err)
		}
		n.Kind = core.NodeKind(kind)
		index[n.ID] = len(nodes)
		nodes = append(nodes, n)
	}
	rows.Close()

	irows, err := s.pool.Query(ctx, "SELECT node_id, sku, quantity FROM loose_items ORDER BY node_id, sku")
	if err != nil {
		return nil, fmt.Errorf("failed to query loose items: %w", err)
	}
	defer irows.Close()

	for irows.Next() {
		var nodeID string
		var it core.LooseItem
		if err := irows.Scan(&nodeID, &it.SKU, &it.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan loose item: %w", err)
		}
		i, ok := index[nodeID]
		if !ok {
			return nil, fmt.Errorf("loose item %s references missing node %s", it.SKU, nodeID)
		}
		nodes[i].Items = append(nodes[i].Items, it)
	}
	return nodes, nil
}
