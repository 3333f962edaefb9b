package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/dates"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// PositionService manages recruitment postings.
type PositionService struct {
	store  *store.Store
	logger *logger.Logger
	now    func() time.Time
}

func NewPositionService(st *store.Store, log *logger.Logger) *PositionService {
	return &PositionService{
		store:  st,
		logger: log.WithComponent("position-service"),
		now:    time.Now,
	}
}

// PositionRequest carries a posting payload for creation and update.
type PositionRequest struct {
	Title       string   `json:"title" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=Remplacement Création"`
	OpeningDate string   `json:"openingDate" validate:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status" validate:"required,oneof=Ouvert Pourvu Annulé"`
	Cost        *float64 `json:"cost"`
}

// List returns all postings.
func (s *PositionService) List(ctx context.Context) []domain.OpenPosition {
	var out []domain.OpenPosition
	s.store.View(func(snap *domain.Snapshot) {
		out = append(out, snap.OpenPositions...)
	})
	if out == nil {
		out = []domain.OpenPosition{}
	}
	return out
}

// Create opens a new posting. IDs are millisecond timestamps, large
// enough to stay unique for hand-entered postings.
func (s *PositionService) Create(ctx context.Context, req PositionRequest) (*domain.OpenPosition, error) {
	pos := domain.OpenPosition{
		ID:          strconv.FormatInt(s.now().UnixMilli(), 10),
		Title:       strings.TrimSpace(req.Title),
		Type:        req.Type,
		OpeningDate: strings.TrimSpace(req.OpeningDate),
		Description: strings.TrimSpace(req.Description),
		Status:      req.Status,
		Cost:        req.Cost,
	}
	if pos.Status == domain.PositionPourvu {
		pos.FilledDate = dates.Format(s.now())
	}

	err := s.store.Update(func(snap *domain.Snapshot) error {
		snap.OpenPositions = append(snap.OpenPositions, pos)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", pos.ID).Str("title", pos.Title).Msg("position created")
	return &pos, nil
}

// Update edits a posting. Moving into Pourvu stamps the filled date if
// it is not already set; leaving Pourvu clears it.
func (s *PositionService) Update(ctx context.Context, id string, req PositionRequest) (*domain.OpenPosition, error) {
	var updated domain.OpenPosition
	err := s.store.Update(func(snap *domain.Snapshot) error {
		for i := range snap.OpenPositions {
			if snap.OpenPositions[i].ID != id {
				continue
			}
			pos := snap.OpenPositions[i]
			pos.Title = strings.TrimSpace(req.Title)
			pos.Type = req.Type
			pos.OpeningDate = strings.TrimSpace(req.OpeningDate)
			pos.Description = strings.TrimSpace(req.Description)
			pos.Cost = req.Cost
			if req.Status == domain.PositionPourvu {
				if pos.Status != domain.PositionPourvu || pos.FilledDate == "" {
					pos.FilledDate = dates.Format(s.now())
				}
			} else {
				pos.FilledDate = ""
			}
			pos.Status = req.Status
			snap.OpenPositions[i] = pos
			updated = pos
			return nil
		}
		return errors.NotFound("position")
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", id).Msg("position updated")
	return &updated, nil
}

// Delete removes a posting.
func (s *PositionService) Delete(ctx context.Context, id string) error {
	err := s.store.Update(func(snap *domain.Snapshot) error {
		for i := range snap.OpenPositions {
			if snap.OpenPositions[i].ID == id {
				snap.OpenPositions = append(snap.OpenPositions[:i], snap.OpenPositions[i+1:]...)
				return nil
			}
		}
		return errors.NotFound("position")
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("position deleted")
	return nil
}

// DeleteAll removes every posting.
func (s *PositionService) DeleteAll(ctx context.Context) error {
	err := s.store.Update(func(snap *domain.Snapshot) error {
		snap.OpenPositions = []domain.OpenPosition{}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Warn().Msg("all positions deleted")
	return nil
}
