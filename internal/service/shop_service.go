package service

import (
	"context"
	"errors"
	"fmt"

	"mindpal/internal/domain"
	"mindpal/internal/gamification"
	"mindpal/internal/logger"
)

// ShopService sells pet items for spendable coins.
type ShopService struct {
	users UserStore
}

func NewShopService(users UserStore) *ShopService {
	return &ShopService{users: users}
}

func (s *ShopService) Catalog() []domain.ShopItem {
	return domain.ShopCatalog()
}

// Purchase debits the item price from the user's coins and gives the item to
// the pet. Lifetime coins and level are not affected.
func (s *ShopService) Purchase(ctx context.Context, userID int64, itemID string) (*domain.User, error) {
	const op = "service.ShopService.Purchase"

	item, ok := domain.FindShopItem(itemID)
	if !ok {
		return nil, domain.ErrUnknownItem
	}

	u, err := s.users.Update(ctx, userID, func(u *domain.User) (*domain.Transaction, error) {
		switch {
		case item.PremiumOnly && !u.IsPremium:
			return nil, domain.ErrPremiumRequired
		case u.Pet.HasItem(item.ID):
			return nil, domain.ErrItemOwned
		case u.Coins < item.Price:
			return nil, domain.ErrInsufficientCoins
		}

		u.Coins -= item.Price
		u.Pet = gamification.ApplyItem(u.Pet, item)
		return &domain.Transaction{
			Type:   domain.TxTypeShopPurchase,
			Amount: -item.Price,
			Meta:   map[string]interface{}{"item_id": item.ID},
		}, nil
	})
	if err != nil {
		for _, target := range []error{
			domain.ErrPremiumRequired, domain.ErrItemOwned,
			domain.ErrInsufficientCoins, domain.ErrUserNotFound,
		} {
			if errors.Is(err, target) {
				return nil, target
			}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ShopPurchases.WithLabelValues(item.ID).Inc()
	logger.FromContext(ctx).Info("item purchased", "user_id", userID, "item", item.ID, "price", item.Price)
	return u, nil
}

// PetView is the pet together with the owner's progression.
type PetView struct {
	domain.Pet
	Level             int   `json:"level"`
	TotalCoins        int64 `json:"totalCoins"`
	Coins             int64 `json:"coins"`
	CoinsForNextLevel int64 `json:"coinsForNextLevel"`
}

func (s *ShopService) Pet(ctx context.Context, userID int64) (*PetView, error) {
	const op = "service.ShopService.Pet"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &PetView{
		Pet:               u.Pet,
		Level:             u.Level,
		TotalCoins:        u.TotalCoins,
		Coins:             u.Coins,
		CoinsForNextLevel: gamification.CoinsForNextLevel(u.TotalCoins),
	}, nil
}

// ActivatePremium flips the premium flag. There is no payment step.
func (s *ShopService) ActivatePremium(ctx context.Context, userID int64) (*domain.User, error) {
	const op = "service.ShopService.ActivatePremium"

	u, err := s.users.Update(ctx, userID, func(u *domain.User) (*domain.Transaction, error) {
		u.IsPremium = true
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.FromContext(ctx).Info("premium activated", "user_id", userID)
	return u, nil
}
