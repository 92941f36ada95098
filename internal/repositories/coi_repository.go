package repositories

import (
	"context"
	"sync"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/storage"
)

// COIRepository persists the ordered COI collection as a single blob.
// Every method reads the current blob, applies its change and writes the
// whole array back; returned records are copies.
type COIRepository interface {
	GetAll(ctx context.Context) ([]*models.COIRecord, error)
	GetByID(ctx context.Context, id string) (*models.COIRecord, error)
	Create(ctx context.Context, rec *models.COIRecord) error
	UpdateIfVersion(ctx context.Context, rec *models.COIRecord, expectedVersion int64) (int64, error)
	UpdateWithRetry(ctx context.Context, id string, mutate func(*models.COIRecord) error) (*models.COIRecord, error)
	UpdateMany(ctx context.Context, ids []string, mutate func(*models.COIRecord) error) ([]*models.COIRecord, []string, error)
	UpdateWhere(ctx context.Context, mutate func(*models.COIRecord) bool) ([]*models.COIRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
	BulkDelete(ctx context.Context, ids []string) (int, error)

	// Load returns ErrInvalidBlob when the stored content should be re-seeded.
	Load(ctx context.Context) ([]*models.COIRecord, error)
	Replace(ctx context.Context, recs []*models.COIRecord) error
	Clear(ctx context.Context) error
}

type coiRepo struct {
	kv storage.KV
	mu sync.Mutex
}

func NewCOIRepository(kv storage.KV) COIRepository {
	return &coiRepo{kv: kv}
}

func (r *coiRepo) read(ctx context.Context) ([]*models.COIRecord, error) {
	recs, err := loadArray[*models.COIRecord](ctx, r.kv, constants.StorageKeyCOIs)
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, rec := range recs {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// readForWrite treats an unusable blob as an empty collection.
func (r *coiRepo) readForWrite(ctx context.Context) ([]*models.COIRecord, error) {
	recs, err := r.read(ctx)
	if err != nil && !isInvalidBlob(err) {
		return nil, err
	}
	return recs, nil
}

func (r *coiRepo) write(ctx context.Context, recs []*models.COIRecord) error {
	return storeArray(ctx, r.kv, constants.StorageKeyCOIs, recs)
}

func (r *coiRepo) Load(ctx context.Context) ([]*models.COIRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read(ctx)
}

func (r *coiRepo) GetAll(ctx context.Context) ([]*models.COIRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readForWrite(ctx)
}

func (r *coiRepo) GetByID(ctx context.Context, id string) (*models.COIRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.readForWrite(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

// Create prepends rec; the collection is newest-first.
func (r *coiRepo) Create(ctx context.Context, rec *models.COIRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.readForWrite(ctx)
	if err != nil {
		return err
	}
	if rec.RowVersion == 0 {
		rec.RowVersion = 1
	}
	next := make([]*models.COIRecord, 0, len(recs)+1)
	next = append(next, rec.Clone())
	next = append(next, recs...)
	return r.write(ctx, next)
}

func (r *coiRepo) UpdateIfVersion(ctx context.Context, rec *models.COIRecord, expectedVersion int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.readForWrite(ctx)
	if err != nil {
		return 0, err
	}
	for i, cur := range recs {
		if cur.ID != rec.ID {
			continue
		}
		if cur.RowVersion != expectedVersion {
			return 0, nil
		}
		rec.RowVersion = expectedVersion + 1
		recs[i] = rec.Clone()
		if err := r.write(ctx, recs); err != nil {
			rec.RowVersion = expectedVersion
			return 0, err
		}
		return 1, nil
	}
	return 0, nil
}

// UpdateWithRetry wires the generic optimistic‑locking loop and returns the
// stored record.
func (r *coiRepo) UpdateWithRetry(
	ctx context.Context,
	id string,
	mutate func(*models.COIRecord) error,
) (*models.COIRecord, error) {
	var updated *models.COIRecord
	err := WithRetry(ctx, defaultMaxRetries, id, r.GetByID, r.UpdateIfVersion, func(rec *models.COIRecord) error {
		if err := mutate(rec); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// UpdateMany applies mutate to every listed record in one write. Ids not in
// the collection are returned as missing. An error from mutate aborts
// the whole batch.
func (r *coiRepo) UpdateMany(
	ctx context.Context,
	ids []string,
	mutate func(*models.COIRecord) error,
) ([]*models.COIRecord, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.readForWrite(ctx)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*models.COIRecord, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
	}

	var (
		updated []*models.COIRecord
		missing []string
		seen    = make(map[string]struct{}, len(ids))
	)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rec, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if err := mutate(rec); err != nil {
			return nil, nil, err
		}
		rec.RowVersion++
		updated = append(updated, rec)
	}
	if len(updated) == 0 {
		return nil, missing, nil
	}
	if err := r.write(ctx, recs); err != nil {
		return nil, nil, err
	}
	return models.CloneCOIs(updated), missing, nil
}

// UpdateWhere lets mutate visit every record; records for which it reports a
// change are bumped and written back in one step.
func (r *coiRepo) UpdateWhere(ctx context.Context, mutate func(*models.COIRecord) bool) ([]*models.COIRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.readForWrite(ctx)
	if err != nil {
		return nil, err
	}
	var changed []*models.COIRecord
	for _, rec := range recs {
		if mutate(rec) {
			rec.RowVersion++
			changed = append(changed, rec)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}
	if err := r.write(ctx, recs); err != nil {
		return nil, err
	}
	return models.CloneCOIs(changed), nil
}

func (r *coiRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.readForWrite(ctx)
	if err != nil {
		return false, err
	}
	next := make([]*models.COIRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.ID != id {
			next = append(next, rec)
		}
	}
	if len(next) == len(recs) {
		return false, nil
	}
	return true, r.write(ctx, next)
}

func (r *coiRepo) BulkDelete(ctx context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.readForWrite(ctx)
	if err != nil {
		return 0, err
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	next := make([]*models.COIRecord, 0, len(recs))
	for _, rec := range recs {
		if _, ok := drop[rec.ID]; !ok {
			next = append(next, rec)
		}
	}
	removed := len(recs) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := r.write(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *coiRepo) Replace(ctx context.Context, recs []*models.COIRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, recs)
}

func (r *coiRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kv.Remove(ctx, constants.StorageKeyCOIs)
}
