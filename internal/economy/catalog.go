package economy

import "truthle-quiz-service/internal/domain"

// Rarity tiers for shop items.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// UnlockKind names the progress counter an unlock condition checks.
type UnlockKind string

const (
	UnlockStreak  UnlockKind = "streak"
	UnlockGames   UnlockKind = "games"
	UnlockCorrect UnlockKind = "correct"
)

// Unlock is a non-coin condition gating an item. Items carrying one are never
// purchasable for coins; they are granted when the condition is met.
type Unlock struct {
	Kind      UnlockKind `json:"kind"`
	Threshold int        `json:"threshold"`
}

// Item is one purchasable (or unlockable) virtual good.
type Item struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Kind   string  `json:"kind"` // badge | theme | powerup | cosmetic
	Price  int     `json:"price"`
	Rarity Rarity  `json:"rarity"`
	Unlock *Unlock `json:"unlock,omitempty"`
}

var catalog = []Item{
	{ID: "badge-globetrotter", Name: "Globetrotter Badge", Kind: "badge", Price: 150, Rarity: RarityCommon},
	{ID: "badge-statistician", Name: "Statistician Badge", Kind: "badge", Price: 400, Rarity: RarityRare},
	{ID: "badge-truthseeker", Name: "Truth Seeker Badge", Kind: "badge", Rarity: RarityEpic, Unlock: &Unlock{Kind: UnlockStreak, Threshold: 7}},
	{ID: "badge-centurion", Name: "Centurion Badge", Kind: "badge", Rarity: RarityLegendary, Unlock: &Unlock{Kind: UnlockStreak, Threshold: 100}},
	{ID: "theme-midnight", Name: "Midnight Map Theme", Kind: "theme", Price: 250, Rarity: RarityCommon},
	{ID: "theme-sepia", Name: "Old Atlas Theme", Kind: "theme", Price: 250, Rarity: RarityCommon},
	{ID: "theme-aurora", Name: "Aurora Theme", Kind: "theme", Price: 600, Rarity: RarityEpic},
	{ID: "powerup-5050", Name: "50/50 Powerup", Kind: "powerup", Price: 80, Rarity: RarityCommon},
	{ID: "powerup-extra-time", Name: "Extra Time Powerup", Kind: "powerup", Price: 120, Rarity: RarityRare},
	{ID: "cosmetic-gold-frame", Name: "Gold Profile Frame", Kind: "cosmetic", Price: 800, Rarity: RarityEpic},
	{ID: "cosmetic-laurels", Name: "Laurel Wreath", Kind: "cosmetic", Rarity: RarityLegendary, Unlock: &Unlock{Kind: UnlockCorrect, Threshold: 500}},
	{ID: "cosmetic-veteran", Name: "Veteran Tag", Kind: "cosmetic", Rarity: RarityRare, Unlock: &Unlock{Kind: UnlockGames, Threshold: 30}},
}

// Catalog returns a copy of the shop inventory.
func Catalog() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)
	return out
}

// ItemByID looks up one catalog entry.
func ItemByID(id string) (Item, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// CanPurchase reports whether an item can be bought for coins at the given
// balance. Unlock-gated items are never coin-purchasable.
func CanPurchase(item Item, balance int64) error {
	if item.Unlock != nil {
		return domain.ErrItemLocked
	}
	if balance < int64(item.Price) {
		return domain.ErrInsufficientCoins
	}
	return nil
}

// Unlocked reports whether progress satisfies an item's unlock condition.
// Items without a condition are only obtainable by purchase.
func Unlocked(item Item, p domain.Progress) bool {
	if item.Unlock == nil {
		return false
	}
	switch item.Unlock.Kind {
	case UnlockStreak:
		return p.BestStreak >= item.Unlock.Threshold
	case UnlockGames:
		return p.GamesPlayed >= item.Unlock.Threshold
	case UnlockCorrect:
		return p.TotalCorrect >= item.Unlock.Threshold
	default:
		return false
	}
}
