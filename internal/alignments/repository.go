package alignments

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JaimeStill/accord/internal/datasets"
	"github.com/JaimeStill/accord/pkg/alignment"
	"github.com/JaimeStill/accord/pkg/heatmap"
	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/query"
	"github.com/JaimeStill/accord/pkg/repository"
	"github.com/JaimeStill/accord/pkg/votes"
)

type repo struct {
	db         *sql.DB
	datasets   datasets.System
	results    *cache.Cache
	logger     *slog.Logger
	pagination pagination.Config
	cfg        Config
}

// New creates an alignment repository implementing the System interface.
func New(
	db *sql.DB,
	ds datasets.System,
	logger *slog.Logger,
	pagination pagination.Config,
	cfg Config,
) System {
	return &repo{
		db:         db,
		datasets:   ds,
		results:    cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:     logger.With("system", "alignments"),
		pagination: pagination,
		cfg:        cfg,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Alignment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count alignments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAlignment)
	if err != nil {
		return nil, fmt.Errorf("query alignments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Alignment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAlignment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Compute(ctx context.Context, datasetID uuid.UUID, sel votes.Selection) (*Alignment, error) {
	records, err := r.datasets.Records(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	m, table, elapsed, err := compute(records, sel, r.cfg.Workers)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	insertQ := `
		INSERT INTO alignments(id, dataset_id, voters, voter_count, item_count, selection, matrix, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx, insertQ,
			id,
			datasetID,
			repository.JSON[[]string]{V: m.Voters},
			m.Len(),
			len(table.Items()),
			repository.JSON[votes.Selection]{V: sel},
			repository.JSON[*alignment.Matrix]{V: m},
			elapsed.Milliseconds(),
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return nil, repository.MapError(err, datasets.ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"alignment computed",
		"id", id,
		"dataset_id", datasetID,
		"voters", m.Len(),
		"items", len(table.Items()),
		"duration", elapsed,
	)

	return r.Find(ctx, id)
}

func (r *repo) Result(ctx context.Context, id uuid.UUID) (*alignment.Result, error) {
	key := id.String()
	if cached, ok := r.results.Get(key); ok {
		return cached.(*alignment.Result), nil
	}

	m, err := repository.QueryOne(
		ctx, r.db,
		"SELECT matrix FROM alignments WHERE id = $1",
		[]any{id},
		scanMatrix,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	res, err := alignment.Assemble(m)
	if err != nil {
		return nil, fmt.Errorf("assemble alignment %s: %w", id, err)
	}

	r.results.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (r *repo) Heatmap(ctx context.Context, id uuid.UUID, w io.Writer) error {
	res, err := r.Result(ctx, id)
	if err != nil {
		return err
	}
	return heatmap.Render(w, res, r.cfg.Heatmap)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM alignments WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.results.Delete(id.String())
	r.logger.Info("alignment deleted", "id", id)
	return nil
}

func scanMatrix(s repository.Scanner) (*alignment.Matrix, error) {
	var m repository.JSON[*alignment.Matrix]
	if err := s.Scan(&m); err != nil {
		return nil, err
	}
	return m.V, nil
}

// compute narrows records to sel, builds the vote table, and runs the engine
// over every remaining voter. Selected voters absent from the records are
// rejected.
func compute(records []votes.Record, sel votes.Selection, workers int) (*alignment.Matrix, *votes.Table, time.Duration, error) {
	table, err := votes.Build(sel.Filter(records))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	for _, v := range sel.Voters {
		if !table.HasVoter(v) {
			return nil, nil, 0, fmt.Errorf("%w: unknown voter %q", ErrInvalidSelection, v)
		}
	}

	start := time.Now()
	m, err := alignment.Compute(table, table.Voters(), alignment.WithWorkers(workers))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("compute alignment: %w", err)
	}

	return m, table, time.Since(start), nil
}
