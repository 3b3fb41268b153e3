package memory

import (
	"context"
	"time"

	"github.com/xiebiao/inventory-pos/internal/domain/user"
)

type userRepository struct {
	store *Store
}

// NewUserRepository 创建用户仓储
func NewUserRepository(store *Store) user.Repository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == u.Username {
				return user.ErrUsernameDuplicate
			}
		}
		now := time.Now()
		u.ID = st.id("users")
		u.CreatedAt, u.UpdatedAt = now, now
		st.users = append(st.users, *u)
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.find(ctx, func(u *user.User) bool { return u.ID == id })
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.find(ctx, func(u *user.User) bool { return u.Username == username })
}

func (r *userRepository) find(ctx context.Context, match func(*user.User) bool) (*user.User, error) {
	var out *user.User
	err := r.store.read(ctx, func(st *state) error {
		for i := range st.users {
			if match(&st.users[i]) {
				u := st.users[i]
				out = &u
				return nil
			}
		}
		return user.ErrUserNotFound
	})
	return out, err
}

func (r *userRepository) List(ctx context.Context, page, pageSize int) ([]*user.User, int64, error) {
	var (
		out   []*user.User
		total int64
	)
	err := r.store.read(ctx, func(st *state) error {
		all := make([]*user.User, len(st.users))
		for i := range st.users {
			u := st.users[i]
			all[i] = &u
		}
		total = int64(len(all))
		out = paginate(all, page, pageSize)
		return nil
	})
	return out, total, err
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.read(ctx, func(st *state) error {
		n = int64(len(st.users))
		return nil
	})
	return n, err
}
