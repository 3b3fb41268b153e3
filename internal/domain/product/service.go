package product

import (
	"context"
	"errors"
)

// Service 商品领域服务
// 负责跨实体的规则：零件号唯一
type Service interface {
	// Register 登记新商品（不含期初库存）
	Register(ctx context.Context, p *Product) error

	// Modify 修改商品目录属性
	Modify(ctx context.Context, id uint, c Changes) (*Product, error)
}

type service struct {
	repo Repository
}

// NewService 创建商品领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 登记新商品
// 零件号唯一性最终由数据库唯一索引保证，这里提前检查以返回友好错误
func (s *service) Register(ctx context.Context, p *Product) error {
	if err := s.ensurePartNumberFree(ctx, p.PartNumber, 0); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

// Modify 修改商品
func (s *service) Modify(ctx context.Context, id uint, c Changes) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Apply(c); err != nil {
		return nil, err
	}

	if c.PartNumber != nil {
		if err := s.ensurePartNumberFree(ctx, p.PartNumber, p.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ensurePartNumberFree(ctx context.Context, partNumber string, selfID uint) error {
	existing, err := s.repo.FindByPartNumber(ctx, partNumber)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrPartNumberConflict
	}
	return nil
}
