package engine

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nc-news/internal/instrument"
	"nc-news/internal/metadata"
	"nc-news/internal/query"
	"nc-news/internal/store"
)

type Handler struct {
	db      store.Querier
	catalog *metadata.Catalog
	guard   *query.Guard
	logger  *zap.Logger
}

// NewHandler wires the handlers to a store and an immutable endpoint catalog.
// Sort allow-lists are reflected from db on each guarded request.
func NewHandler(db store.Querier, catalog *metadata.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		db:      db,
		catalog: catalog,
		guard:   query.NewGuard(catalog, store.NewReflector(db)),
		logger:  logger,
	}
}

func (h *Handler) log(c *fiber.Ctx) *zap.Logger {
	return instrument.Logger(c, h.logger)
}

// page runs the page and count queries concurrently and joins them.
func (h *Handler) page(ctx context.Context, spec query.ListSpec, p *query.Params) ([]map[string]any, any, error) {
	list := query.List(spec, p)
	count := query.Count(spec, p)

	var (
		rows  []map[string]any
		total any
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = store.QueryRows(gctx, h.db, list.SQL, list.Args...)
		if err != nil {
			return fmt.Errorf("list %s: %w", spec.Table, err)
		}
		return nil
	})
	g.Go(func() error {
		row, err := store.QueryRow(gctx, h.db, count.SQL, count.Args...)
		if err != nil {
			return fmt.Errorf("count %s: %w", spec.Table, err)
		}
		total = row["total_count"]
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return rows, total, nil
}

// Endpoints handles GET /api
func (h *Handler) Endpoints(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"endpoints": h.catalog.Document()})
}
