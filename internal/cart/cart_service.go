package cart

import (
	"context"
	"slices"

	"go-storefront/internal/cart/cartstate"
	"go-storefront/internal/catalog"
	"go-storefront/internal/pricing"
	"go-storefront/internal/session"

	"go.uber.org/zap"
)

//go:generate mockgen -source=cart_service.go -destination=../mock/cart/cart_service_mock.go -package=mock
type Service interface {
	Detail(ctx context.Context, sessionID string) (CartResponse, error)
	Count(ctx context.Context, sessionID string) (int64, error)

	AddItem(ctx context.Context, sessionID string, req AddItemRequest) (CartResponse, error)
	UpdateQty(ctx context.Context, sessionID, productID string, req UpdateQtyRequest) (CartResponse, error)

	Increment(ctx context.Context, sessionID, productID string) (CartResponse, error)
	Decrement(ctx context.Context, sessionID, productID string) (CartResponse, error)

	DeleteItem(ctx context.Context, sessionID, productID string) (CartResponse, error)
	Delete(ctx context.Context, sessionID string) error

	SetDrawer(ctx context.Context, sessionID string, open bool) (CartResponse, error)
}

type Deps struct {
	Store   *session.Store
	Catalog catalog.Service
	// RequireIdentity turns on the guest gate: an unidentified add is parked
	// as a pending action until the user identifies.
	RequireIdentity bool
	Logger          *zap.Logger
}

type service struct {
	store           *session.Store
	catalog         catalog.Service
	requireIdentity bool
	logger          *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.Store == nil {
		panic("session store cannot be nil")
	}
	if deps.Catalog == nil {
		panic("catalog service cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &service{
		store:           deps.Store,
		catalog:         deps.Catalog,
		requireIdentity: deps.RequireIdentity,
		logger:          deps.Logger.Named("cart.service"),
	}
}

func (s *service) Detail(ctx context.Context, sessionID string) (CartResponse, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	return toResponse(st.Cart), nil
}

func (s *service) Count(ctx context.Context, sessionID string) (int64, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, it := range st.Cart.Items {
		n += int64(it.Quantity)
	}
	return n, nil
}

// AddItem prices the selection against the current catalog entry and adds a
// snapshot of it to the cart.
func (s *service) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (CartResponse, error) {
	logger := s.logger.With(zap.String("session_id", sessionID), zap.String("slug", req.Slug))

	// 1. selection
	sel, err := req.Selection()
	if err != nil {
		return CartResponse{}, err
	}

	// 2. catalog
	entry, err := s.catalog.GetBySlug(ctx, req.Slug)
	if err != nil {
		logger.Warn("catalog lookup failed", zap.Error(err))
		return CartResponse{}, err
	}
	if err := checkOptions(entry, req); err != nil {
		return CartResponse{}, err
	}

	// 3. price snapshot
	item := LineItemFor(entry, sel, req.Size, req.Fragrance)

	// 4. identification gate
	if s.requireIdentity {
		st, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return CartResponse{}, err
		}
		if !st.Auth.Identified() {
			_, err := s.store.Dispatch(ctx, sessionID, session.PendingCaptured{
				Action: session.PendingAction{Kind: session.PendingAddToCart, Item: &item},
			})
			if err != nil {
				return CartResponse{}, err
			}
			logger.Debug("add parked until identification", zap.String("product_id", item.ProductID))
			return CartResponse{}, session.ErrIdentificationRequired
		}
	}

	// 5. apply
	st, err := s.store.Dispatch(ctx, sessionID, session.ItemAdded{Item: item})
	if err != nil {
		logger.Error("add item failed", zap.Error(err))
		return CartResponse{}, err
	}

	logger.Info("item added to cart",
		zap.String("product_id", item.ProductID),
		zap.Int32("quantity", item.Quantity),
		zap.String("total", st.Cart.Total.String()),
	)
	return toResponse(st.Cart), nil
}

func (s *service) UpdateQty(ctx context.Context, sessionID, productID string, req UpdateQtyRequest) (CartResponse, error) {
	return s.apply(ctx, sessionID, session.QuantityUpdated{ProductID: productID, Quantity: req.Quantity})
}

func (s *service) Increment(ctx context.Context, sessionID, productID string) (CartResponse, error) {
	return s.step(ctx, sessionID, productID, 1)
}

func (s *service) Decrement(ctx context.Context, sessionID, productID string) (CartResponse, error) {
	return s.step(ctx, sessionID, productID, -1)
}

func (s *service) DeleteItem(ctx context.Context, sessionID, productID string) (CartResponse, error) {
	return s.apply(ctx, sessionID, session.ItemRemoved{ProductID: productID})
}

func (s *service) Delete(ctx context.Context, sessionID string) error {
	_, err := s.store.Dispatch(ctx, sessionID, session.CartCleared{})
	if err != nil {
		s.logger.Error("clear cart failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return err
}

func (s *service) SetDrawer(ctx context.Context, sessionID string, open bool) (CartResponse, error) {
	if open {
		return s.apply(ctx, sessionID, session.DrawerOpened{})
	}
	return s.apply(ctx, sessionID, session.DrawerClosed{})
}

// step reads the current quantity and writes quantity+delta. Unknown ids are
// a no-op.
func (s *service) step(ctx context.Context, sessionID, productID string, delta int32) (CartResponse, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	it, ok := st.Cart.Find(productID)
	if !ok {
		return toResponse(st.Cart), nil
	}
	return s.apply(ctx, sessionID, session.QuantityUpdated{ProductID: productID, Quantity: it.Quantity + delta})
}

func (s *service) apply(ctx context.Context, sessionID string, a session.Action) (CartResponse, error) {
	st, err := s.store.Dispatch(ctx, sessionID, a)
	if err != nil {
		return CartResponse{}, err
	}
	return toResponse(st.Cart), nil
}

// LineItemFor snapshots a priced selection as a cart line. OriginalPrice is
// only set when there is an actual discount to show.
func LineItemFor(entry catalog.Entry, sel pricing.Selection, size, fragrance string) cartstate.LineItem {
	bd := pricing.CalculateFinalPrice(entry, sel)

	item := cartstate.LineItem{
		ProductID: entry.ID,
		Slug:      entry.Slug,
		Name:      entry.Name,
		Image:     entry.PrimaryImage(),
		Price:     bd.FinalPrice,
		Quantity:  sel.Quantity(),
		VariantID: bd.VariantID,
		PackID:    bd.PackID,
		StyleID:   bd.StyleID,
		AddOnIDs:  bd.AddOnIDs,
		Size:      size,
		Fragrance: fragrance,
		Breakdown: &bd,
	}
	if bd.BasePrice.GreaterThan(bd.FinalPrice) {
		mrp := bd.BasePrice
		item.OriginalPrice = &mrp
	}
	return item
}

func checkOptions(entry catalog.Entry, req AddItemRequest) error {
	if req.Size != "" && len(entry.Sizes) > 0 && !slices.Contains(entry.Sizes, req.Size) {
		return ErrInvalidOption.WithDetails(map[string]string{"size": req.Size})
	}
	if req.Fragrance != "" && len(entry.Fragrances) > 0 && !slices.Contains(entry.Fragrances, req.Fragrance) {
		return ErrInvalidOption.WithDetails(map[string]string{"fragrance": req.Fragrance})
	}
	return nil
}
