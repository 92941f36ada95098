package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poofware/coi-service/internal/dtos"
	"github.com/poofware/coi-service/internal/metrics"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/repositories"
	"github.com/poofware/coi-service/internal/store"
	"github.com/poofware/coi-service/internal/utils"
)

type PropertyService struct {
	store    *store.RecordStore
	propRepo repositories.PropertyRepository
	metrics  *metrics.Metrics
	now      utils.Clock
}

func NewPropertyService(
	st *store.RecordStore,
	propRepo repositories.PropertyRepository,
	m *metrics.Metrics,
	now utils.Clock,
) *PropertyService {
	if now == nil {
		now = time.Now
	}
	return &PropertyService{store: st, propRepo: propRepo, metrics: m, now: now}
}

func (s *PropertyService) observe(op string, start time.Time, err error) {
	s.metrics.ObserveOperation(op, time.Since(start).Seconds(), err)
	s.metrics.SetCollectionSizes(s.store.COICount(), s.store.PropertyCount())
}

func (s *PropertyService) ListProperties() []*models.Property {
	return s.store.Properties()
}

// PropertyOptions lists the distinct property names on records, in record order.
func (s *PropertyService) PropertyOptions() []dtos.PropertyOption {
	seen := map[string]struct{}{}
	opts := []dtos.PropertyOption{}
	for _, c := range s.store.COIs() {
		if _, ok := seen[c.Property]; ok {
			continue
		}
		seen[c.Property] = struct{}{}
		opts = append(opts, dtos.PropertyOption{Value: c.Property, Label: c.Property})
	}
	return opts
}

// CreateProperty rejects a property whose name, label or value exactly
// equals an alias of an existing one.
func (s *PropertyService) CreateProperty(ctx context.Context, req dtos.CreatePropertyRequest) (created *models.Property, err error) {
	start := time.Now()
	defer func() { s.observe(opCreateProperty, start, err) }()

	p := &models.Property{
		Name:    strings.TrimSpace(req.Name),
		Label:   strings.TrimSpace(req.Label),
		Value:   strings.TrimSpace(req.Value),
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		ZipCode: strings.TrimSpace(req.ZipCode),
	}
	p.Normalize()
	if p.DisplayName() == "" {
		return nil, utils.NewValidationError([]dtos.ValidationErrorDetail{fieldError("name", "required", "")})
	}

	err = s.store.Transact(func() error {
		for _, ex := range s.store.Properties() {
			if ex.MatchesName(p.Name) || ex.MatchesName(p.Label) || ex.MatchesName(p.Value) {
				return &utils.AppError{
					StatusCode: http.StatusConflict,
					Code:       utils.ErrCodeDuplicateProperty,
					Message:    "Property already exists",
					Err:        utils.ErrDuplicateProperty,
					Details: []dtos.ValidationErrorDetail{{
						Field:   "name",
						Message: "Property already exists",
						Code:    utils.ErrCodeDuplicateProperty,
					}},
				}
			}
		}

		p.ID = uuid.NewString()
		p.CreatedAt = s.now().UTC()
		if err := s.propRepo.Create(ctx, p); err != nil {
			utils.Logger.WithError(err).Error("Failed to create property")
			return utils.NewInternalError("Failed to create property", err)
		}
		s.store.AddProperty(p)
		created = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.Logger.WithFields(map[string]any{"propertyID": created.ID, "name": created.Name}).Info("Property created")
	return created, nil
}

// DeleteProperty removes the property named by ref (id or alias) unless a
// COI still references it by id or by name.
func (s *PropertyService) DeleteProperty(ctx context.Context, ref string) (err error) {
	start := time.Now()
	defer func() { s.observe(opDeleteProperty, start, err) }()

	return s.store.Transact(func() error {
		p := models.FindProperty(s.store.Properties(), ref)
		if p == nil {
			return utils.NewNotFoundError("Property not found")
		}

		inUse := 0
		for _, c := range s.store.COIs() {
			if c.PropertyID == p.ID || p.MatchesName(c.Property) {
				inUse++
			}
		}
		if inUse > 0 {
			return &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeReferentialConstraint,
				Message:    "Property is referenced by existing COIs",
				Err:        utils.ErrReferentialConstraint,
				Details:    map[string]int{"referencingCois": inUse},
			}
		}

		if _, err := s.propRepo.Delete(ctx, p.ID); err != nil {
			utils.Logger.WithError(err).Error("Failed to delete property")
			return utils.NewInternalError("Failed to delete property", err)
		}
		s.store.RemoveProperty(p.ID)
		utils.Logger.WithField("propertyID", p.ID).Info("Property deleted")
		return nil
	})
}
