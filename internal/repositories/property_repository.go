package repositories

import (
	"context"
	"sync"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/storage"
)

// PropertyRepository persists the property list as a single blob.
type PropertyRepository interface {
	List(ctx context.Context) ([]*models.Property, error)
	GetByID(ctx context.Context, id string) (*models.Property, error)
	// Find resolves ref against id first, then the name/label/value aliases.
	Find(ctx context.Context, ref string) (*models.Property, error)
	Create(ctx context.Context, p *models.Property) error
	Delete(ctx context.Context, id string) (bool, error)

	Load(ctx context.Context) ([]*models.Property, error)
	Replace(ctx context.Context, props []*models.Property) error
	Clear(ctx context.Context) error
}

type propertyRepo struct {
	kv storage.KV
	mu sync.Mutex
}

func NewPropertyRepository(kv storage.KV) PropertyRepository {
	return &propertyRepo{kv: kv}
}

func (r *propertyRepo) read(ctx context.Context) ([]*models.Property, error) {
	props, err := loadArray[*models.Property](ctx, r.kv, constants.StorageKeyProperties)
	if err != nil {
		return nil, err
	}
	out := props[:0]
	for _, p := range props {
		if p == nil {
			continue
		}
		p.Normalize()
		out = append(out, p)
	}
	return out, nil
}

func (r *propertyRepo) readForWrite(ctx context.Context) ([]*models.Property, error) {
	props, err := r.read(ctx)
	if err != nil && !isInvalidBlob(err) {
		return nil, err
	}
	return props, nil
}

func (r *propertyRepo) write(ctx context.Context, props []*models.Property) error {
	return storeArray(ctx, r.kv, constants.StorageKeyProperties, props)
}

func (r *propertyRepo) Load(ctx context.Context) ([]*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read(ctx)
}

func (r *propertyRepo) List(ctx context.Context) ([]*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readForWrite(ctx)
}

func (r *propertyRepo) GetByID(ctx context.Context, id string) (*models.Property, error) {
	props, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *propertyRepo) Find(ctx context.Context, ref string) (*models.Property, error) {
	props, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.FindProperty(props, ref), nil
}

// Create appends p after normalizing its aliases.
func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	props, err := r.readForWrite(ctx)
	if err != nil {
		return err
	}
	p.Normalize()
	return r.write(ctx, append(props, p.Clone()))
}

func (r *propertyRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	props, err := r.readForWrite(ctx)
	if err != nil {
		return false, err
	}
	next := make([]*models.Property, 0, len(props))
	for _, p := range props {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(props) {
		return false, nil
	}
	return true, r.write(ctx, next)
}

func (r *propertyRepo) Replace(ctx context.Context, props []*models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range props {
		p.Normalize()
	}
	return r.write(ctx, props)
}

func (r *propertyRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kv.Remove(ctx, constants.StorageKeyProperties)
}
