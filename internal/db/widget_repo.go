package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"driftboard/internal/types"
)

// WidgetRepository provides data access for the widget_positions table.
type WidgetRepository struct {
	db DBTX
}

// NewWidgetRepository creates a WidgetRepository backed by the given
// database connection (pool or transaction).
func NewWidgetRepository(db DBTX) *WidgetRepository {
	return &WidgetRepository{db: db}
}

var _ types.WidgetRepository = (*WidgetRepository)(nil)

// widgetColumns is the standard column set for widget queries.
const widgetColumns = `id, widget_type, x, y, width, height, elevation,
	z_index, visible, settings, scene_id, created_at, updated_at`

// scanWidget reads one widget row from a pgx row scanner.
func scanWidget(row pgx.Row) (*types.WidgetInstance, error) {
	var w types.WidgetInstance
	err := row.Scan(
		&w.ID, &w.WidgetType, &w.X, &w.Y, &w.Width, &w.Height,
		&w.Elevation, &w.ZIndex, &w.Visible, &w.Settings, &w.SceneID,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if !w.Elevation.Valid() {
		// Rows written before elevation bands existed are normalized
		// the same way the layout loader normalizes them.
		w.Elevation = types.ElevationRaised1
	}
	return &w, nil
}

// List retrieves widgets ordered by z-index, optionally filtered to one
// scene.
func (r *WidgetRepository) List(ctx context.Context, sceneID *string) ([]*types.WidgetInstance, error) {
	query := `SELECT ` + widgetColumns + ` FROM widget_positions ORDER BY z_index ASC`
	args := []any{}
	if sceneID != nil {
		query = `SELECT ` + widgetColumns + ` FROM widget_positions WHERE scene_id = $1 ORDER BY z_index ASC`
		args = append(args, *sceneID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query widgets", err)
	}
	defer rows.Close()

	var results []*types.WidgetInstance
	for rows.Next() {
		w, scanErr := scanWidget(rows)
		if scanErr != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan widget row", scanErr)
		}
		results = append(results, w)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating widget rows", err)
	}

	return results, nil
}

// Get retrieves a single widget by ID.
func (r *WidgetRepository) Get(ctx context.Context, id string) (*types.WidgetInstance, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+widgetColumns+` FROM widget_positions WHERE id = $1`, id)
	w, err := scanWidget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundWidget, "widget not found", err)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query widget", err)
	}
	return w, nil
}

// Insert creates a new widget row.
func (r *WidgetRepository) Insert(ctx context.Context, w *types.WidgetInstance) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO widget_positions
		 (id, widget_type, x, y, width, height, elevation, z_index, visible, settings, scene_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`,
		w.ID, w.WidgetType, w.X, w.Y, w.Width, w.Height,
		w.Elevation, w.ZIndex, w.Visible, w.Settings, w.SceneID,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to insert widget", err)
	}
	return nil
}

// UpdatePosition writes new x/y coordinates for a widget.
func (r *WidgetRepository) UpdatePosition(ctx context.Context, id string, x, y float64) error {
	return r.update(ctx,
		`UPDATE widget_positions SET x = $2, y = $3, updated_at = NOW() WHERE id = $1`,
		id, x, y)
}

// UpdateVisibility writes the visible flag for a widget.
func (r *WidgetRepository) UpdateVisibility(ctx context.Context, id string, visible bool) error {
	return r.update(ctx,
		`UPDATE widget_positions SET visible = $2, updated_at = NOW() WHERE id = $1`,
		id, visible)
}

// UpdateSettings replaces the settings blob for a widget.
func (r *WidgetRepository) UpdateSettings(ctx context.Context, id string, settings types.Settings) error {
	return r.update(ctx,
		`UPDATE widget_positions SET settings = $2, updated_at = NOW() WHERE id = $1`,
		id, settings)
}

// UpdateElevation moves a widget to a new elevation band with the given
// z-index.
func (r *WidgetRepository) UpdateElevation(ctx context.Context, id string, elevation types.Elevation, zIndex int) error {
	return r.update(ctx,
		`UPDATE widget_positions SET elevation = $2, z_index = $3, updated_at = NOW() WHERE id = $1`,
		id, elevation, zIndex)
}

// UpdateZIndex writes a new z-index for a widget (bring-to-front).
func (r *WidgetRepository) UpdateZIndex(ctx context.Context, id string, zIndex int) error {
	return r.update(ctx,
		`UPDATE widget_positions SET z_index = $2, updated_at = NOW() WHERE id = $1`,
		id, zIndex)
}

// Delete removes a widget row.
func (r *WidgetRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM widget_positions WHERE id = $1`, id)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete widget", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundWidget, "widget not found", nil)
	}
	return nil
}

// update runs a single-row UPDATE and maps zero affected rows to a
// not-found error.
func (r *WidgetRepository) update(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to update widget", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundWidget, "widget not found", nil)
	}
	return nil
}
