package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/inventory-pos/internal/domain/site"
)

type siteRepository struct {
	store *Store
}

// NewSiteRepository 创建存储点仓储
func NewSiteRepository(store *Store) site.Repository {
	return &siteRepository{store: store}
}

func (r *siteRepository) Create(ctx context.Context, s *site.Site) error {
	return r.store.write(ctx, func(st *state) error {
		if nameTaken(st, s.Name, 0) {
			return site.ErrNameDuplicate
		}
		now := time.Now()
		s.ID = st.id("storage_sites")
		s.CreatedAt, s.UpdatedAt = now, now
		st.sites[s.ID] = *s
		return nil
	})
}

func (r *siteRepository) FindByID(ctx context.Context, id uint) (*site.Site, error) {
	var out *site.Site
	err := r.store.read(ctx, func(st *state) error {
		s, ok := st.sites[id]
		if !ok {
			return site.ErrSiteNotFound
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *siteRepository) Update(ctx context.Context, s *site.Site) error {
	return r.store.write(ctx, func(st *state) error {
		existing, ok := st.sites[s.ID]
		if !ok {
			return site.ErrSiteNotFound
		}
		if nameTaken(st, s.Name, s.ID) {
			return site.ErrNameDuplicate
		}
		s.CreatedAt = existing.CreatedAt
		s.UpdatedAt = time.Now()
		st.sites[s.ID] = *s
		return nil
	})
}

func (r *siteRepository) Delete(ctx context.Context, id uint) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.sites[id]; !ok {
			return site.ErrSiteNotFound
		}
		delete(st.sites, id)
		return nil
	})
}

func (r *siteRepository) List(ctx context.Context, params site.ListParams) ([]*site.Site, int64, error) {
	var (
		out   []*site.Site
		total int64
	)
	err := r.store.read(ctx, func(st *state) error {
		var matched []*site.Site
		for _, s := range st.sites {
			if params.Active != nil && s.IsActive != *params.Active {
				continue
			}
			s := s
			matched = append(matched, &s)
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

		total = int64(len(matched))
		out = paginate(matched, params.Page, params.PageSize)
		return nil
	})
	return out, total, err
}

func nameTaken(st *state, name string, selfID uint) bool {
	for id, s := range st.sites {
		if id != selfID && s.Name == name {
			return true
		}
	}
	return false
}
