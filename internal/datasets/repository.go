package datasets

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/query"
	"github.com/JaimeStill/accord/pkg/repository"
	"github.com/JaimeStill/accord/pkg/storage"
	"github.com/JaimeStill/accord/pkg/votes"
)

const contentType = "text/csv"

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
	columns    votes.Columns
}

// New creates a dataset repository implementing the System interface.
// Uploads are parsed with columns; stored datasets are read back with the
// columns recorded when they were created.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	columns votes.Columns,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "datasets"),
		pagination: pagination,
		columns:    columns,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Dataset], error) {
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
		return nil, fmt.Errorf("count datasets: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDataset)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Dataset, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDataset)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Dataset, error) {
	sheet, err := votes.ReadSheet(bytes.NewReader(cmd.Data), r.columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVotes, err)
	}

	table, err := votes.Build(sheet.Records())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVotes, err)
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), contentType); err != nil {
		return nil, fmt.Errorf("upload dataset blob: %w", err)
	}

	q := `
		INSERT INTO datasets(id, filename, size_bytes, record_count, item_count, voter_count, columns, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, filename, size_bytes, record_count, item_count, voter_count, columns, storage_key, uploaded_at, updated_at`

	insertArgs := []any{
		id,
		cmd.Filename,
		int64(len(cmd.Data)),
		len(sheet.Rows),
		len(table.Items()),
		len(table.Voters()),
		repository.JSON[votes.Columns]{V: r.columns},
		key,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Dataset, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDataset)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"dataset created",
		"id", d.ID,
		"filename", d.Filename,
		"records", d.RecordCount,
		"voters", d.VoterCount,
		"items", d.ItemCount,
		"duplicates", table.Duplicates(),
	)
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM datasets WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, d.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", d.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("dataset deleted", "id", id)
	return nil
}

func (r *repo) Records(ctx context.Context, id uuid.UUID) ([]votes.Record, error) {
	sheet, err := r.sheet(ctx, id)
	if err != nil {
		return nil, err
	}
	return sheet.Records(), nil
}

func (r *repo) Voters(ctx context.Context, id uuid.UUID) ([]string, error) {
	table, err := r.table(ctx, id)
	if err != nil {
		return nil, err
	}
	return table.Voters(), nil
}

func (r *repo) Items(ctx context.Context, id uuid.UUID) ([]string, error) {
	table, err := r.table(ctx, id)
	if err != nil {
		return nil, err
	}
	return table.Items(), nil
}

func (r *repo) Export(ctx context.Context, id uuid.UUID, sel votes.Selection, w io.Writer) error {
	sheet, err := r.sheet(ctx, id)
	if err != nil {
		return err
	}
	if err := sheet.Filter(sel).Write(w); err != nil {
		return fmt.Errorf("export dataset %s: %w", id, err)
	}
	return nil
}

func (r *repo) table(ctx context.Context, id uuid.UUID) (*votes.Table, error) {
	sheet, err := r.sheet(ctx, id)
	if err != nil {
		return nil, err
	}
	table, err := votes.Build(sheet.Records())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVotes, err)
	}
	return table, nil
}

func (r *repo) sheet(ctx context.Context, id uuid.UUID) (*votes.Sheet, error) {
	d, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := r.storage.Download(ctx, d.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download dataset blob: %w", err)
	}
	defer body.Close()

	sheet, err := votes.ReadSheet(body, d.Columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVotes, err)
	}
	return sheet, nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("datasets/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" || name == "/" {
		name = "votes.csv"
	}
	return url.PathEscape(name)
}
