package services

import (
	"time"

	"github.com/humamchoudhary/burgnice-backend/entity"
	"github.com/humamchoudhary/burgnice-backend/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// GuestCartLine is one line of a client-held guest cart. Guest carts
// live in the caller's storage (cookie/localStorage); the backend
// only ever sees them as request values.
type GuestCartLine struct {
	MenuItemID     uint             `json:"menuItemId" binding:"required"`
	Quantity       int              `json:"quantity"`
	Customizations entity.CustomMap `json:"customizations"`
	AddedAt        time.Time        `json:"addedAt"`
}

// CartOwner tags whose cart an operation targets: a logged-in user
// (UserID set) or a guest (the lines themselves).
type CartOwner struct {
	UserID uint
	Guest  []GuestCartLine
}

func UserOwner(userID uint) CartOwner            { return CartOwner{UserID: userID} }
func GuestOwner(lines []GuestCartLine) CartOwner { return CartOwner{Guest: lines} }

func (o CartOwner) IsGuest() bool { return o.UserID == 0 }

// CartMenuItem is the denormalized menu data joined into each line.
type CartMenuItem struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

type CartLineView struct {
	ID             uint             `json:"id,omitempty"` // 0 for guest lines
	MenuItem       CartMenuItem     `json:"menuItem"`
	Quantity       int              `json:"quantity"`
	Customizations entity.CustomMap `json:"customizations"`
	AddedAt        time.Time        `json:"addedAt"`
	Total          float64          `json:"total"`
}

// CartView is the flattened read model. Prices are always resolved
// live from the menu at read time, never frozen in the cart.
type CartView struct {
	Cart          []CartLineView `json:"cart"`
	CartTotal     float64        `json:"cartTotal"`
	ItemCount     int            `json:"itemCount"`
	IsLoggedIn    bool           `json:"isLoggedIn"`
	LoyaltyPoints int            `json:"loyaltyPoints"`
}

type AddToCartIn struct {
	MenuItemID     uint             `json:"menuItemId" binding:"required"`
	Quantity       int              `json:"quantity"`
	Customizations entity.CustomMap `json:"customizations"`
}

type CartService struct {
	DB       *gorm.DB
	CartRepo *repository.CartRepository
	MenuRepo *repository.MenuRepository
	UserRepo *repository.UserRepository
	logger   zerolog.Logger
}

func NewCartService(
	db *gorm.DB,
	cartRepo *repository.CartRepository,
	menuRepo *repository.MenuRepository,
	userRepo *repository.UserRepository,
	logger zerolog.Logger,
) *CartService {
	return &CartService{
		DB:       db,
		CartRepo: cartRepo,
		MenuRepo: menuRepo,
		UserRepo: userRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// View builds the flattened cart for either owner. Lines referencing a
// menu item that no longer exists are dropped silently.
func (s *CartService) View(owner CartOwner) (*CartView, error) {
	if owner.IsGuest() {
		return s.guestView(owner.Guest)
	}

	user, err := s.UserRepo.FindByID(owner.UserID)
	if err != nil {
		return nil, err
	}
	items, err := s.CartRepo.ItemsForUser(owner.UserID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Cart: []CartLineView{}, IsLoggedIn: true, LoyaltyPoints: user.LoyaltyPoints}
	for _, it := range items {
		if it.MenuItem.ID == 0 {
			// menu item deleted since the line was added
			continue
		}
		line := CartLineView{
			ID: it.ID,
			MenuItem: CartMenuItem{
				ID: it.MenuItem.ID, Name: it.MenuItem.Name,
				Price: it.MenuItem.Price, Image: it.MenuItem.Image,
			},
			Quantity:       it.Quantity,
			Customizations: it.Customizations,
			AddedAt:        it.AddedAt,
			Total:          it.MenuItem.Price * float64(it.Quantity),
		}
		view.Cart = append(view.Cart, line)
		view.CartTotal += line.Total
		view.ItemCount += it.Quantity
	}
	return view, nil
}

func (s *CartService) guestView(lines []GuestCartLine) (*CartView, error) {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.MenuItemID)
	}
	menuItems, err := s.MenuRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]entity.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	view := &CartView{Cart: []CartLineView{}}
	for _, l := range lines {
		m, ok := byID[l.MenuItemID]
		if !ok {
			continue
		}
		qty := l.Quantity
		if qty < 1 {
			qty = 1
		}
		line := CartLineView{
			MenuItem:       CartMenuItem{ID: m.ID, Name: m.Name, Price: m.Price, Image: m.Image},
			Quantity:       qty,
			Customizations: l.Customizations,
			AddedAt:        l.AddedAt,
			Total:          m.Price * float64(qty),
		}
		view.Cart = append(view.Cart, line)
		view.CartTotal += line.Total
		view.ItemCount += qty
	}
	return view, nil
}

// Add upserts a line into the user's persisted cart. A line matching
// on (menuItemId, customizations signature) gains the quantity instead
// of being duplicated.
func (s *CartService) Add(userID uint, in *AddToCartIn) error {
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	menuItem, err := s.MenuRepo.FindByID(in.MenuItemID)
	if err != nil {
		return ErrMenuItemNotFound
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		key := in.Customizations.Key()

		exist, err := s.CartRepo.FindLine(tx, userID, menuItem.ID, key)
		if err != nil {
			return err
		}
		if exist != nil {
			exist.Quantity += in.Quantity
			exist.AddedAt = now
			if err := s.CartRepo.Save(tx, exist); err != nil {
				return err
			}
		} else {
			line := &entity.CartItem{
				UserID:         userID,
				MenuItemID:     menuItem.ID,
				Quantity:       in.Quantity,
				Customizations: in.Customizations,
				CustomKey:      key,
				AddedAt:        now,
			}
			if err := s.CartRepo.Create(tx, line); err != nil {
				return err
			}
		}
		return s.CartRepo.StampCartUpdate(tx, userID, now)
	})
}

// AddGuestLine is the guest-side counterpart of Add: pure, operating on
// the caller-held lines.
func AddGuestLine(lines []GuestCartLine, in *AddToCartIn) []GuestCartLine {
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	key := in.Customizations.Key()
	for i := range lines {
		if lines[i].MenuItemID == in.MenuItemID && lines[i].Customizations.Key() == key {
			lines[i].Quantity += qty
			lines[i].AddedAt = time.Now()
			return lines
		}
	}
	return append(lines, GuestCartLine{
		MenuItemID:     in.MenuItemID,
		Quantity:       qty,
		Customizations: in.Customizations,
		AddedAt:        time.Now(),
	})
}

// UpdateGuestLine sets a guest line's quantity; qty <= 0 removes it.
func UpdateGuestLine(lines []GuestCartLine, menuItemID uint, customizations entity.CustomMap, qty int) []GuestCartLine {
	key := customizations.Key()
	out := lines[:0]
	for _, l := range lines {
		if l.MenuItemID == menuItemID && l.Customizations.Key() == key {
			if qty <= 0 {
				continue
			}
			l.Quantity = qty
		}
		out = append(out, l)
	}
	return out
}

// Merge reconciles guest lines into the user's persisted cart: on a
// (menuItemId, customizations) match quantities add and addedAt
// refreshes; otherwise the line is appended. Lines referencing a
// deleted menu item are dropped silently. The caller clears the guest
// store after a successful merge.
func (s *CartService) Merge(userID uint, guest []GuestCartLine) (*CartView, error) {
	if len(guest) > 0 {
		ids := make([]uint, 0, len(guest))
		for _, l := range guest {
			ids = append(ids, l.MenuItemID)
		}
		menuItems, err := s.MenuRepo.FindByIDs(ids)
		if err != nil {
			return nil, err
		}
		known := make(map[uint]bool, len(menuItems))
		for _, m := range menuItems {
			known[m.ID] = true
		}

		err = s.DB.Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			for _, l := range guest {
				if !known[l.MenuItemID] {
					s.logger.Debug().Uint("menu_item_id", l.MenuItemID).Msg("dropping guest line for missing menu item")
					continue
				}
				qty := l.Quantity
				if qty < 1 {
					qty = 1
				}
				key := l.Customizations.Key()

				exist, err := s.CartRepo.FindLine(tx, userID, l.MenuItemID, key)
				if err != nil {
					return err
				}
				if exist != nil {
					exist.Quantity += qty
					exist.AddedAt = now
					if err := s.CartRepo.Save(tx, exist); err != nil {
						return err
					}
					continue
				}
				line := &entity.CartItem{
					UserID:         userID,
					MenuItemID:     l.MenuItemID,
					Quantity:       qty,
					Customizations: l.Customizations,
					CustomKey:      key,
					AddedAt:        now,
				}
				if err := s.CartRepo.Create(tx, line); err != nil {
					return err
				}
			}
			return s.CartRepo.StampCartUpdate(tx, userID, now)
		})
		if err != nil {
			return nil, err
		}
	}

	return s.View(UserOwner(userID))
}

// UpdateQuantity sets a persisted line's quantity; qty <= 0 removes it.
func (s *CartService) UpdateQuantity(userID, itemID uint, qty int) error {
	if qty <= 0 {
		return s.Remove(userID, itemID)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		line, err := s.CartRepo.FindItem(tx, userID, itemID)
		if err != nil {
			return err
		}
		now := time.Now()
		line.Quantity = qty
		line.AddedAt = now
		if err := s.CartRepo.Save(tx, line); err != nil {
			return err
		}
		return s.CartRepo.StampCartUpdate(tx, userID, now)
	})
}

func (s *CartService) Remove(userID, itemID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.Remove(tx, userID, itemID); err != nil {
			return err
		}
		return s.CartRepo.StampCartUpdate(tx, userID, time.Now())
	})
}

func (s *CartService) Clear(userID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.Clear(tx, userID); err != nil {
			return err
		}
		return s.CartRepo.StampCartUpdate(tx, userID, time.Now())
	})
}

// Count returns the summed quantity across the owner's cart.
func (s *CartService) Count(owner CartOwner) (int, error) {
	view, err := s.View(owner)
	if err != nil {
		return 0, err
	}
	return view.ItemCount, nil
}
