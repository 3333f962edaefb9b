package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// SettingsService manages the department, entity and work location
// reference lists used to populate form dropdowns.
type SettingsService struct {
	store  *store.Store
	logger *logger.Logger
}

func NewSettingsService(st *store.Store, log *logger.Logger) *SettingsService {
	return &SettingsService{
		store:  st,
		logger: log.WithComponent("settings-service"),
	}
}

// ReferenceLists bundles the three dropdown source lists.
type ReferenceLists struct {
	Departments   []string `json:"departments"`
	Entities      []string `json:"entities"`
	WorkLocations []string `json:"workLocations"`
}

// ValueRequest carries a single reference value to add or remove.
type ValueRequest struct {
	Value string `json:"value" validate:"required"`
}

type listKind string

const (
	listDepartments   listKind = "departments"
	listEntities      listKind = "entities"
	listWorkLocations listKind = "workLocations"
)

func pickList(snap *domain.Snapshot, kind listKind) *[]string {
	switch kind {
	case listDepartments:
		return &snap.Departments
	case listEntities:
		return &snap.Entities
	case listWorkLocations:
		return &snap.WorkLocations
	}
	return nil
}

// Lists returns the three reference lists.
func (s *SettingsService) Lists(ctx context.Context) ReferenceLists {
	var out ReferenceLists
	s.store.View(func(snap *domain.Snapshot) {
		out.Departments = append([]string{}, snap.Departments...)
		out.Entities = append([]string{}, snap.Entities...)
		out.WorkLocations = append([]string{}, snap.WorkLocations...)
	})
	return out
}

// Add inserts a value into one of the reference lists. Blank values
// and duplicates (case-insensitive) are rejected.
func (s *SettingsService) Add(ctx context.Context, kind listKind, value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == domain.NA {
		return nil, errors.BadRequest("value must not be empty")
	}

	var out []string
	err := s.store.Update(func(snap *domain.Snapshot) error {
		list := pickList(snap, kind)
		if list == nil {
			return errors.BadRequest("unknown list")
		}
		for _, v := range *list {
			if strings.EqualFold(v, value) {
				return errors.Conflict("value already exists")
			}
		}
		*list = append(*list, value)
		sort.Strings(*list)
		out = append([]string{}, *list...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("list", string(kind)).Str("value", value).Msg("reference value added")
	return out, nil
}

// Remove deletes a value from one of the reference lists. Employees
// already carrying the value keep it.
func (s *SettingsService) Remove(ctx context.Context, kind listKind, value string) ([]string, error) {
	var out []string
	err := s.store.Update(func(snap *domain.Snapshot) error {
		list := pickList(snap, kind)
		if list == nil {
			return errors.BadRequest("unknown list")
		}
		for i, v := range *list {
			if strings.EqualFold(v, value) {
				*list = append((*list)[:i], (*list)[i+1:]...)
				out = append([]string{}, *list...)
				return nil
			}
		}
		return errors.NotFound("value")
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("list", string(kind)).Str("value", value).Msg("reference value removed")
	return out, nil
}

// ListKind validates and converts a URL path segment into a list kind.
func ListKind(s string) (listKind, bool) {
	switch listKind(s) {
	case listDepartments, listEntities, listWorkLocations:
		return listKind(s), true
	}
	return "", false
}
