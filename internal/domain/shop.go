package domain

// ShopItem is something users can buy for their pet.
type ShopItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	HappinessBoost int    `json:"happinessBoost"`
	HealthBoost    int    `json:"healthBoost"`
	PremiumOnly    bool   `json:"premiumOnly"`
}

var shopCatalog = []ShopItem{
	{ID: "ball", Name: "Bouncy Ball", Description: "A classic toy for playtime.", Price: 30, HappinessBoost: 5},
	{ID: "treat", Name: "Tasty Treat", Description: "A little snack that lifts the mood.", Price: 20, HappinessBoost: 3, HealthBoost: 2},
	{ID: "bed", Name: "Cozy Bed", Description: "Better sleep, better health.", Price: 120, HappinessBoost: 4, HealthBoost: 10},
	{ID: "scarf", Name: "Woolly Scarf", Description: "Warm and stylish.", Price: 80, HappinessBoost: 6},
	{ID: "plant", Name: "Potted Plant", Description: "Fresh air for the den.", Price: 60, HealthBoost: 5},
	{ID: "crown", Name: "Golden Crown", Description: "Royalty at last.", Price: 300, HappinessBoost: 15, PremiumOnly: true},
	{ID: "castle", Name: "Tiny Castle", Description: "A home fit for a legend.", Price: 500, HappinessBoost: 20, HealthBoost: 10, PremiumOnly: true},
}

// ShopCatalog returns a copy of the fixed item catalog.
func ShopCatalog() []ShopItem {
	out := make([]ShopItem, len(shopCatalog))
	copy(out, shopCatalog)
	return out
}

func FindShopItem(id string) (ShopItem, bool) {
	for _, it := range shopCatalog {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}
