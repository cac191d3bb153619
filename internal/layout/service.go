// Package layout manages widget placement on the dashboard: positions,
// visibility, settings, and band-scoped z-order.
package layout

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"driftboard/internal/types"
)

// Coordinates are percentages of the display, clamped so a widget's
// anchor never leaves the visible area.
const (
	coordMin = 0
	coordMax = 90
)

// defaultWidget describes one entry of the factory layout seeded into
// an empty scene.
type defaultWidget struct {
	widgetType types.WidgetType
	x, y       float64
	elevation  types.Elevation
}

var defaultLayout = []defaultWidget{
	{types.WidgetTime, 8, 8, types.ElevationRaised1},
	{types.WidgetOrb, 45, 35, types.ElevationRaised2},
	{types.WidgetWeather, 80, 8, types.ElevationRaised1},
	{types.WidgetNews, 5, 85, types.ElevationSurface},
	{types.WidgetNotifications, 8, 40, types.ElevationRaised2},
	{types.WidgetStatusDots, 70, 55, types.ElevationSurface},
}

// Store exposes widget layout operations over the widget repository.
type Store struct {
	repo   types.WidgetRepository
	clock  types.Clock
	logger *slog.Logger
}

// NewStore creates a layout store.
func NewStore(repo types.WidgetRepository, clock types.Clock, logger *slog.Logger) *Store {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{repo: repo, clock: clock, logger: logger}
}

// List returns the widgets of a scene ordered by z-index. An empty
// scene is seeded with the factory layout first, so a fresh install
// renders a populated dashboard rather than a blank one.
func (s *Store) List(ctx context.Context, sceneID *string) ([]*types.WidgetInstance, error) {
	widgets, err := s.repo.List(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	if len(widgets) > 0 {
		return widgets, nil
	}
	if err := s.seedDefaults(ctx, sceneID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, sceneID)
}

func (s *Store) seedDefaults(ctx context.Context, sceneID *string) error {
	now := s.clock.Now()
	for _, d := range defaultLayout {
		w := &types.WidgetInstance{
			ID:         uuid.NewString(),
			WidgetType: d.widgetType,
			X:          d.x,
			Y:          d.y,
			Elevation:  d.elevation,
			ZIndex:     d.elevation.BaseZ(),
			Visible:    true,
			Settings:   types.Settings{},
			SceneID:    sceneID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Insert(ctx, w); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default widget layout", slog.Int("widgets", len(defaultLayout)))
	return nil
}

// Get returns one widget by id.
func (s *Store) Get(ctx context.Context, id string) (*types.WidgetInstance, error) {
	return s.repo.Get(ctx, id)
}

// AddWidget places a new widget of the given type at the center of the
// display. Its z-index starts at the band base plus the current widget
// count, so later additions stack above earlier ones within the band.
func (s *Store) AddWidget(ctx context.Context, widgetType types.WidgetType, elevation types.Elevation, sceneID *string) (*types.WidgetInstance, error) {
	if !elevation.Valid() {
		elevation = types.ElevationRaised1
	}
	existing, err := s.repo.List(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	w := &types.WidgetInstance{
		ID:         uuid.NewString(),
		WidgetType: widgetType,
		X:          50,
		Y:          50,
		Elevation:  elevation,
		ZIndex:     elevation.BaseZ() + len(existing),
		Visible:    true,
		Settings:   types.Settings{},
		SceneID:    sceneID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Move repositions a widget, clamping both coordinates to the visible
// range.
func (s *Store) Move(ctx context.Context, id string, x, y float64) error {
	return s.repo.UpdatePosition(ctx, id, clamp(x), clamp(y))
}

func clamp(v float64) float64 {
	if v < coordMin {
		return coordMin
	}
	if v > coordMax {
		return coordMax
	}
	return v
}

// SetVisibility shows or hides a widget.
func (s *Store) SetVisibility(ctx context.Context, id string, visible bool) error {
	return s.repo.UpdateVisibility(ctx, id, visible)
}

// SetSettings replaces a widget's settings document.
func (s *Store) SetSettings(ctx context.Context, id string, settings types.Settings) error {
	if settings == nil {
		settings = types.Settings{}
	}
	return s.repo.UpdateSettings(ctx, id, settings)
}

// SetElevation moves a widget to a different band. Its z-index resets
// to the new band's base.
func (s *Store) SetElevation(ctx context.Context, id string, elevation types.Elevation) error {
	if !elevation.Valid() {
		return types.NewAppError(types.ErrCodeValidationInvalidBand, "unknown elevation: "+string(elevation), nil)
	}
	return s.repo.UpdateElevation(ctx, id, elevation, elevation.BaseZ())
}

// BringToFront raises a widget above its band peers. Z-order is scoped
// to the elevation band: the new z-index is one above the band's
// current maximum, so the widget never jumps into a higher band.
func (s *Store) BringToFront(ctx context.Context, id string) (*types.WidgetInstance, error) {
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	siblings, err := s.repo.List(ctx, w.SceneID)
	if err != nil {
		return nil, err
	}
	maxZ := w.Elevation.BaseZ()
	for _, sib := range siblings {
		if sib.Elevation == w.Elevation && sib.ZIndex > maxZ {
			maxZ = sib.ZIndex
		}
	}
	if err := s.repo.UpdateZIndex(ctx, id, maxZ+1); err != nil {
		return nil, err
	}
	w.ZIndex = maxZ + 1
	return w, nil
}

// RemoveWidget deletes a widget.
func (s *Store) RemoveWidget(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
