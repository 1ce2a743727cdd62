package cart

import (
	"context"
	"time"

	"github.com/luoyang/bookmall/internal/domain/book"
)

// Service 购物车领域服务接口
// 设计说明:购物车操作廉价且无全局竞争(按用户隔离),
// 不需要事务,也不需要任何跨请求协调
type Service interface {
	// AddItem 加入购物车
	// 已有条目: 新数量 = min(原数量+qty, 当前库存)
	// 无条目:   数量   = min(qty, 当前库存)
	AddItem(ctx context.Context, userID, bookID uint, qty int) (*CartItem, error)

	// UpdateQuantity 修改数量,钳制到[0, 当前库存],0等价于删除
	// 返回nil表示条目已被删除
	UpdateQuantity(ctx context.Context, userID, bookID uint, qty int) (*CartItem, error)

	// RemoveItem 移除条目
	RemoveItem(ctx context.Context, userID, bookID uint) error

	// GetCart 查询用户购物车
	GetCart(ctx context.Context, userID uint) ([]*CartItem, error)
}

type service struct {
	repo     Repository
	bookRepo book.Repository
}

// NewService 创建购物车领域服务
func NewService(repo Repository, bookRepo book.Repository) Service {
	return &service{repo: repo, bookRepo: bookRepo}
}

// AddItem 加入购物车
func (s *service) AddItem(ctx context.Context, userID, bookID uint, qty int) (*CartItem, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	// 读当前库存做展示性钳制(非权威)
	b, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByUserAndBook(ctx, userID, bookID)
	if err != nil && err != ErrItemNotFound {
		return nil, err
	}

	now := time.Now()
	if item == nil {
		item = &CartItem{
			UserID:    userID,
			BookID:    bookID,
			Quantity:  ClampQuantity(qty, b.Stock),
			CreatedAt: now,
		}
	} else {
		item.Quantity = ClampQuantity(item.Quantity+qty, b.Stock)
	}

	// 钳制后可能为0(图书已无库存),此时不落库
	if item.Quantity == 0 {
		return nil, book.ErrInsufficientStock
	}

	item.PriceSnapshot = b.Price
	item.StockSnapshot = b.Stock
	item.UpdatedAt = now

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity 修改数量
func (s *service) UpdateQuantity(ctx context.Context, userID, bookID uint, qty int) (*CartItem, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.repo.FindByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	b, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	item.Quantity = ClampQuantity(qty, b.Stock)
	if item.Quantity == 0 {
		// 数量归零即删除
		if err := s.repo.Delete(ctx, userID, bookID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	item.PriceSnapshot = b.Price
	item.StockSnapshot = b.Stock
	item.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem 移除条目
func (s *service) RemoveItem(ctx context.Context, userID, bookID uint) error {
	return s.repo.Delete(ctx, userID, bookID)
}

// GetCart 查询用户购物车
func (s *service) GetCart(ctx context.Context, userID uint) ([]*CartItem, error) {
	return s.repo.ListByUser(ctx, userID)
}
