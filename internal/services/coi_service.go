package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/dtos"
	"github.com/poofware/coi-service/internal/metrics"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/repositories"
	"github.com/poofware/coi-service/internal/store"
	"github.com/poofware/coi-service/internal/utils"
	"github.com/poofware/coi-service/internal/views"
)

// Orchestrator operation names, used as metric labels.
const (
	opLoad              = "load"
	opCreateCOI         = "create_coi"
	opUpdateCOI         = "update_coi"
	opDeleteCOI         = "delete_coi"
	opBulkDeleteCOIs    = "bulk_delete_cois"
	opSendReminder      = "send_reminder"
	opSendBulkReminders = "send_bulk_reminders"
	opRefreshStatuses   = "refresh_expiry_statuses"
	opReset             = "reset"
	opReinitialize      = "reinitialize"
	opCreateProperty    = "create_property"
	opDeleteProperty    = "delete_property"
)

// DatasetFunc returns a fresh copy of the built-in records and properties.
type DatasetFunc func() ([]*models.COIRecord, []*models.Property, error)

// COIService is the CRUD orchestrator for COI records. Every mutation
// persists through the repository first and only then reconciles the
// record store, inside one store transaction.
type COIService struct {
	store    *store.RecordStore
	coiRepo  repositories.COIRepository
	propRepo repositories.PropertyRepository
	metrics  *metrics.Metrics
	defaults DatasetFunc
	validate *validator.Validate
	now      utils.Clock
}

func NewCOIService(
	st *store.RecordStore,
	coiRepo repositories.COIRepository,
	propRepo repositories.PropertyRepository,
	m *metrics.Metrics,
	defaults DatasetFunc,
	now utils.Clock,
) *COIService {
	if now == nil {
		now = time.Now
	}
	return &COIService{
		store:    st,
		coiRepo:  coiRepo,
		propRepo: propRepo,
		metrics:  m,
		defaults: defaults,
		validate: NewValidator(),
		now:      now,
	}
}

func (s *COIService) observe(op string, start time.Time, err error) {
	s.metrics.ObserveOperation(op, time.Since(start).Seconds(), err)
	s.metrics.SetCollectionSizes(s.store.COICount(), s.store.PropertyCount())
}

// ----------------------------- boot -----------------------------

// Load reads both collections into the store. A key whose content is
// missing or unusable is seeded from the default dataset when seed is true,
// and left empty otherwise.
func (s *COIService) Load(ctx context.Context, seed bool) (err error) {
	start := time.Now()
	defer func() { s.observe(opLoad, start, err) }()

	return s.store.Transact(func() error {
		return s.loadLocked(ctx, seed)
	})
}

func (s *COIService) loadLocked(ctx context.Context, seed bool) error {
	var (
		cois      []*models.COIRecord
		props     []*models.Property
		seedCOIs  bool
		seedProps bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.coiRepo.Load(gctx)
		if errors.Is(err, repositories.ErrInvalidBlob) {
			utils.Logger.WithError(err).Warn("Stored COI data unusable")
			seedCOIs = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("load cois: %w", err)
		}
		cois = recs
		return nil
	})
	g.Go(func() error {
		ps, err := s.propRepo.Load(gctx)
		if errors.Is(err, repositories.ErrInvalidBlob) {
			utils.Logger.WithError(err).Warn("Stored property data unusable")
			seedProps = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("load properties: %w", err)
		}
		props = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if seed && (seedCOIs || seedProps) {
		defCOIs, defProps, err := s.defaults()
		if err != nil {
			return err
		}
		if seedCOIs {
			if err := s.coiRepo.Replace(ctx, defCOIs); err != nil {
				return fmt.Errorf("seed cois: %w", err)
			}
			cois = defCOIs
		}
		if seedProps {
			if err := s.propRepo.Replace(ctx, defProps); err != nil {
				return fmt.Errorf("seed properties: %w", err)
			}
			props = defProps
		}
		utils.Logger.WithFields(map[string]any{
			"cois":       seedCOIs,
			"properties": seedProps,
		}).Info("Seeded default dataset")
	}

	s.store.ReplaceCOIs(cois)
	s.store.ReplaceProperties(props)
	utils.Logger.Infof("Loaded %d COIs and %d properties", len(cois), len(props))
	return nil
}

// ----------------------------- reads -----------------------------

// GetCOI returns one record joined with its property.
func (s *COIService) GetCOI(_ context.Context, id string) (*views.Row, error) {
	rec, ok := s.store.COI(id)
	if !ok {
		return nil, utils.NewNotFoundError("COI not found")
	}
	rows := views.Enrich([]*models.COIRecord{rec}, s.store.Properties(), s.now())
	return &rows[0], nil
}

// ----------------------------- create -----------------------------

func (s *COIService) CreateCOI(ctx context.Context, req dtos.CreateCOIRequest) (created *models.COIRecord, err error) {
	start := time.Now()
	defer func() { s.observe(opCreateCOI, start, err) }()

	trimCreateRequest(&req)
	now := s.now()

	details, err := validateStruct(s.validate, req)
	if err != nil {
		return nil, utils.NewInternalError("Validation failed unexpectedly", err)
	}
	if !hasField(details, "expiryDate") && isPastDate(req.ExpiryDate, now) {
		details = append(details, pastExpiryDetail())
	}
	if req.Status != nil && !req.Status.Valid() {
		details = append(details, invalidStatusDetail())
	}
	if len(details) > 0 {
		return nil, utils.NewValidationError(details)
	}

	err = s.store.Transact(func() error {
		propID, propName := resolveProperty(s.store.Properties(), req.PropertyID, req.Property)

		status := models.COIStatusNotProcessed
		if req.Status != nil {
			status = *req.Status
		}
		ts := now.UTC()
		rec := &models.COIRecord{
			ID:             uuid.NewString(),
			Property:       propName,
			PropertyID:     propID,
			TenantName:     req.TenantName,
			TenantEmail:    req.TenantEmail,
			Unit:           req.Unit,
			COIName:        req.COIName,
			ExpiryDate:     req.ExpiryDate,
			Status:         status,
			ReminderStatus: models.ReminderNotSent,
			Notes:          req.Notes,
			DocumentURL:    req.DocumentURL,
			CreatedAt:      ts,
			UpdatedAt:      ts,
		}
		if err := s.coiRepo.Create(ctx, rec); err != nil {
			return s.repoError("Failed to create COI", err)
		}
		s.store.PrependCOI(rec)
		created = rec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Logger.WithFields(map[string]any{
		"coiID":      created.ID,
		"propertyID": created.PropertyID,
	}).Info("COI created")
	return created, nil
}

// ----------------------------- update -----------------------------

func (s *COIService) UpdateCOI(ctx context.Context, id string, req dtos.UpdateCOIRequest) (updated *models.COIRecord, err error) {
	start := time.Now()
	defer func() { s.observe(opUpdateCOI, start, err) }()

	trimUpdateRequest(&req)
	if details := s.validateUpdate(req); len(details) > 0 {
		return nil, utils.NewValidationError(details)
	}

	err = s.store.Transact(func() error {
		if _, ok := s.store.COI(id); !ok {
			return utils.NewNotFoundError("COI not found")
		}
		props := s.store.Properties()
		now := s.now()

		rec, err := s.coiRepo.UpdateWithRetry(ctx, id, func(c *models.COIRecord) error {
			if req.RowVersion != nil && *req.RowVersion != c.RowVersion {
				return rowVersionConflict(c)
			}
			if req.ExpiryDate != nil && *req.ExpiryDate != c.ExpiryDate && isPastDate(*req.ExpiryDate, now) {
				return utils.NewValidationError([]dtos.ValidationErrorDetail{pastExpiryDetail()})
			}
			applyUpdate(c, req, props)
			c.UpdatedAt = now.UTC()
			return nil
		})
		if err != nil {
			return s.repoError("Failed to update COI", err)
		}
		s.store.UpsertCOIs(rec)
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.Logger.WithField("coiID", id).Info("COI updated")
	return updated, nil
}

func (s *COIService) validateUpdate(req dtos.UpdateCOIRequest) []dtos.ValidationErrorDetail {
	var details []dtos.ValidationErrorDetail
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"property", req.Property},
		{"tenantName", req.TenantName},
		{"unit", req.Unit},
		{"coiName", req.COIName},
	} {
		if f.v != nil && *f.v == "" {
			details = append(details, fieldError(f.name, "required", ""))
		}
	}
	if req.TenantEmail != nil {
		if err := s.validate.Var(*req.TenantEmail, "required,email"); err != nil {
			details = append(details, varError("tenantEmail", err))
		}
	}
	if req.ExpiryDate != nil {
		if err := s.validate.Var(*req.ExpiryDate, "required,datetime="+utils.DateLayout); err != nil {
			details = append(details, varError("expiryDate", err))
		}
	}
	if req.Status != nil && !req.Status.Valid() {
		details = append(details, invalidStatusDetail())
	}
	if req.ReminderStatus != nil && !models.ReminderStatus(*req.ReminderStatus).Valid() {
		details = append(details, fieldError("reminderStatus", "oneof", "Not Sent, Sent, Pending"))
	}
	return details
}

// applyUpdate merges the supplied fields. A changed property reference is
// resolved again so the id and display name stay paired.
func applyUpdate(c *models.COIRecord, req dtos.UpdateCOIRequest, props []*models.Property) {
	propChanged := (req.Property != nil && *req.Property != c.Property) ||
		(req.PropertyID != nil && *req.PropertyID != c.PropertyID)
	if propChanged {
		var id, ref string
		if req.PropertyID != nil {
			id = *req.PropertyID
		}
		if req.Property != nil {
			ref = *req.Property
		}
		newID, name := resolveProperty(props, id, ref)
		if name == "" {
			name = c.Property
		}
		c.PropertyID, c.Property = newID, name
	}

	if req.TenantName != nil {
		c.TenantName = *req.TenantName
	}
	if req.TenantEmail != nil {
		c.TenantEmail = *req.TenantEmail
	}
	if req.Unit != nil {
		c.Unit = *req.Unit
	}
	if req.COIName != nil {
		c.COIName = *req.COIName
	}
	if req.ExpiryDate != nil {
		c.ExpiryDate = *req.ExpiryDate
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	if req.ReminderStatus != nil {
		c.ReminderStatus = models.ReminderStatus(*req.ReminderStatus)
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	if req.DocumentURL != nil {
		if *req.DocumentURL == "" {
			c.DocumentURL = nil
		} else {
			c.DocumentURL = utils.Ptr(*req.DocumentURL)
		}
	}
}

// ----------------------------- delete -----------------------------

// DeleteCOI removes id and purges it from the selection. NotFound is still
// reported when the id was absent.
func (s *COIService) DeleteCOI(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe(opDeleteCOI, start, err) }()

	err = s.store.Transact(func() error {
		removed, err := s.coiRepo.Delete(ctx, id)
		if err != nil {
			return s.repoError("Failed to delete COI", err)
		}
		inStore := s.store.RemoveCOI(id)
		if !removed && !inStore {
			return utils.NewNotFoundError("COI not found")
		}
		return nil
	})
	if err == nil {
		utils.Logger.WithField("coiID", id).Info("COI deleted")
	}
	return err
}

// BulkDeleteCOIs removes every listed id in one write and clears the selection.
func (s *COIService) BulkDeleteCOIs(ctx context.Context, ids []string) (resp dtos.BulkDeleteResponse, err error) {
	start := time.Now()
	defer func() { s.observe(opBulkDeleteCOIs, start, err) }()

	resp.Requested = len(ids)
	err = s.store.Transact(func() error {
		removed, err := s.coiRepo.BulkDelete(ctx, ids)
		if err != nil {
			return s.repoError("Failed to delete COIs", err)
		}
		s.store.RemoveCOIs(ids)
		resp.Removed = removed
		return nil
	})
	if err != nil {
		return dtos.BulkDeleteResponse{}, err
	}
	utils.Logger.WithFields(map[string]any{
		"requested": resp.Requested,
		"removed":   resp.Removed,
	}).Info("COIs bulk deleted")
	return resp, nil
}

// ----------------------------- reminders -----------------------------

func (s *COIService) SendReminder(ctx context.Context, id string, req dtos.SendReminderRequest) (updated *models.COIRecord, err error) {
	start := time.Now()
	defer func() { s.observe(opSendReminder, start, err) }()

	details, err := validateStruct(s.validate, req)
	if err != nil {
		return nil, utils.NewInternalError("Validation failed unexpectedly", err)
	}
	if len(details) > 0 {
		return nil, utils.NewValidationError(details)
	}
	typ := req.Type
	if typ == "" {
		typ = models.ReminderTypeEmail
	}
	msg := trimMessage(req.Message)

	err = s.store.Transact(func() error {
		if _, ok := s.store.COI(id); !ok {
			return utils.NewNotFoundError("COI not found")
		}
		sentAt := s.now().UTC()
		rec, err := s.coiRepo.UpdateWithRetry(ctx, id, func(c *models.COIRecord) error {
			c.RecordReminder(sentAt, typ, msg)
			c.UpdatedAt = sentAt
			return nil
		})
		if err != nil {
			return s.repoError("Failed to record reminder", err)
		}
		s.store.UpsertCOIs(rec)
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AddReminders(string(typ), 1)
	utils.Logger.WithFields(map[string]any{"coiID": id, "type": typ}).Info("Reminder recorded")
	return updated, nil
}

// SendBulkReminders stamps every listed record with one shared sentAt.
// Unknown ids are skipped and reported; if none exist the call is NotFound.
func (s *COIService) SendBulkReminders(ctx context.Context, req dtos.SendBulkRemindersRequest) (resp *dtos.SendBulkRemindersResponse, err error) {
	start := time.Now()
	defer func() { s.observe(opSendBulkReminders, start, err) }()

	details, err := validateStruct(s.validate, req)
	if err != nil {
		return nil, utils.NewInternalError("Validation failed unexpectedly", err)
	}
	if len(details) > 0 {
		return nil, utils.NewValidationError(details)
	}
	typ := req.Type
	if typ == "" {
		typ = models.ReminderTypeStandard
	}
	msg := trimMessage(req.Message)

	err = s.store.Transact(func() error {
		sentAt := s.now().UTC()
		updated, missing, err := s.coiRepo.UpdateMany(ctx, req.IDs, func(c *models.COIRecord) error {
			c.RecordReminder(sentAt, typ, msg)
			c.UpdatedAt = sentAt
			return nil
		})
		if err != nil {
			return s.repoError("Failed to record reminders", err)
		}
		if len(updated) == 0 {
			nf := utils.NewNotFoundError("None of the requested COIs exist")
			nf.Details = missing
			return nf
		}
		s.store.UpsertCOIs(updated...)
		resp = &dtos.SendBulkRemindersResponse{SentAt: sentAt, Updated: updated, Missing: missing}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AddReminders(string(typ), len(resp.Updated))
	utils.Logger.WithFields(map[string]any{
		"type":    typ,
		"updated": len(resp.Updated),
		"missing": len(resp.Missing),
	}).Info("Bulk reminders recorded")
	return resp, nil
}

// ----------------------------- maintenance -----------------------------

// RefreshExpiryStatuses moves Active and Expiring Soon records past their
// expiry to Expired, and Active records expiring within 30 days to Expiring Soon.
func (s *COIService) RefreshExpiryStatuses(ctx context.Context) (changed int, err error) {
	start := time.Now()
	defer func() { s.observe(opRefreshStatuses, start, err) }()

	err = s.store.Transact(func() error {
		now := s.now()
		today := utils.DateOnly(now)
		horizon := today.AddDate(0, 0, constants.ExpiringSoonDays)

		recs, err := s.coiRepo.UpdateWhere(ctx, func(c *models.COIRecord) bool {
			if c.Status != models.COIStatusActive && c.Status != models.COIStatusExpiringSoon {
				return false
			}
			expiry, ok := utils.ParseDate(c.ExpiryDate, today.Location())
			if !ok {
				return false
			}
			switch {
			case expiry.Before(today):
				c.Status = models.COIStatusExpired
			case c.Status == models.COIStatusActive && !expiry.After(horizon):
				c.Status = models.COIStatusExpiringSoon
			default:
				return false
			}
			c.UpdatedAt = now.UTC()
			return true
		})
		if err != nil {
			return s.repoError("Failed to refresh expiry statuses", err)
		}
		s.store.UpsertCOIs(recs...)
		changed = len(recs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	utils.Logger.WithField("changed", changed).Info("Expiry status maintenance finished")
	return changed, nil
}

// ----------------------------- admin -----------------------------

// Reset overwrites both collections with the default dataset.
func (s *COIService) Reset(ctx context.Context) (resp dtos.ResetResponse, err error) {
	start := time.Now()
	defer func() { s.observe(opReset, start, err) }()

	err = s.store.Transact(func() error {
		cois, props, err := s.defaults()
		if err != nil {
			return utils.NewInternalError("Failed to load default dataset", err)
		}
		if err := s.coiRepo.Replace(ctx, cois); err != nil {
			return s.repoError("Failed to reset COIs", err)
		}
		if err := s.propRepo.Replace(ctx, props); err != nil {
			return s.repoError("Failed to reset properties", err)
		}
		s.store.ReplaceCOIs(cois)
		s.store.ReplaceProperties(props)
		resp = dtos.ResetResponse{COIs: len(cois), Properties: len(props)}
		return nil
	})
	if err == nil {
		utils.Logger.Warn("Data reset to default dataset")
	}
	return resp, err
}

// Reinitialize removes both storage keys and runs the boot load with seeding.
func (s *COIService) Reinitialize(ctx context.Context) (resp dtos.ResetResponse, err error) {
	start := time.Now()
	defer func() { s.observe(opReinitialize, start, err) }()

	err = s.store.Transact(func() error {
		if err := s.coiRepo.Clear(ctx); err != nil {
			return s.repoError("Failed to clear COIs", err)
		}
		if err := s.propRepo.Clear(ctx); err != nil {
			return s.repoError("Failed to clear properties", err)
		}
		if err := s.loadLocked(ctx, true); err != nil {
			return s.repoError("Failed to reload data", err)
		}
		resp = dtos.ResetResponse{COIs: s.store.COICount(), Properties: s.store.PropertyCount()}
		return nil
	})
	if err == nil {
		utils.Logger.Warn("Data reinitialized")
	}
	return resp, err
}

// ----------------------------- helpers -----------------------------

// repoError maps repository failures onto AppErrors. AppErrors raised inside
// a mutate callback pass through unchanged.
func (s *COIService) repoError(msg string, err error) error {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, utils.ErrNotFound):
		return utils.NewNotFoundError("COI not found")
	case errors.Is(err, utils.ErrRowVersionConflict):
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeRowVersionConflict,
			Message:    "COI is being modified concurrently; retry",
			Err:        err,
		}
	}
	utils.Logger.WithError(err).Error(msg)
	return utils.NewInternalError(msg, err)
}

func rowVersionConflict(current *models.COIRecord) error {
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       utils.ErrCodeRowVersionConflict,
		Message:    "COI was modified since it was read",
		Err:        utils.ErrRowVersionConflict,
		Details:    current.Clone(),
	}
}

// resolveProperty pairs a property id with its display name. An id that
// matches wins; otherwise ref is matched by id or alias. Unresolved
// references keep ref as the display name under a fresh id.
func resolveProperty(props []*models.Property, id, ref string) (string, string) {
	if id != "" {
		if p := models.FindProperty(props, id); p != nil && p.ID == id {
			return p.ID, p.DisplayName()
		}
	}
	if p := models.FindProperty(props, ref); p != nil {
		return p.ID, p.DisplayName()
	}
	if ref == "" && id != "" {
		return id, ref
	}
	return uuid.NewString(), ref
}

func isPastDate(s string, now time.Time) bool {
	d, ok := utils.ParseDate(s, now.Location())
	return ok && d.Before(utils.DateOnly(now))
}

func pastExpiryDetail() dtos.ValidationErrorDetail {
	return dtos.ValidationErrorDetail{
		Field:   "expiryDate",
		Message: "Expiry date cannot be in the past",
		Code:    "validation_not_past",
	}
}

func invalidStatusDetail() dtos.ValidationErrorDetail {
	all := make([]string, len(models.AllCOIStatuses))
	for i, st := range models.AllCOIStatuses {
		all[i] = string(st)
	}
	return dtos.ValidationErrorDetail{
		Field:   "status",
		Message: "Status must be one of: " + strings.Join(all, ", "),
		Code:    "validation_oneof",
	}
}

func varError(field string, err error) dtos.ValidationErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldError(field, verrs[0].Tag(), verrs[0].Param())
	}
	return fieldError(field, "invalid", "")
}

func hasField(details []dtos.ValidationErrorDetail, field string) bool {
	for _, d := range details {
		if d.Field == field {
			return true
		}
	}
	return false
}

func trimCreateRequest(req *dtos.CreateCOIRequest) {
	req.Property = strings.TrimSpace(req.Property)
	req.PropertyID = strings.TrimSpace(req.PropertyID)
	req.TenantName = strings.TrimSpace(req.TenantName)
	req.TenantEmail = strings.TrimSpace(req.TenantEmail)
	req.Unit = strings.TrimSpace(req.Unit)
	req.COIName = strings.TrimSpace(req.COIName)
	req.ExpiryDate = strings.TrimSpace(req.ExpiryDate)
	if req.DocumentURL != nil && strings.TrimSpace(*req.DocumentURL) == "" {
		req.DocumentURL = nil
	}
}

func trimUpdateRequest(req *dtos.UpdateCOIRequest) {
	for _, p := range []*string{
		req.Property, req.PropertyID, req.TenantName, req.TenantEmail,
		req.Unit, req.COIName, req.ExpiryDate, req.DocumentURL, req.ReminderStatus,
	} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

func trimMessage(msg *string) *string {
	if msg == nil {
		return nil
	}
	m := strings.TrimSpace(*msg)
	if m == "" {
		return nil
	}
	return &m
}
