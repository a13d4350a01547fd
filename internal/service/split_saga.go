package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger metadata keys written on vendor payouts.
const (
	metaOrderID        = "order_id"
	metaParentOrderID  = "parent_order_id"
	metaVendorID       = "vendor_id"
	metaSourceCurrency = "source_currency"
	metaSourceAmount   = "source_amount"
)

// OrderSplitDeps groups the collaborators of OrderSplitSagaImpl.
type OrderSplitDeps struct {
	Orders       ports.OrderRepository
	Catalog      ports.CatalogRepository
	Vendors      ports.VendorRepository
	Progress     ports.SplitProgressRepository
	Rates        ports.ExchangeRateRepository
	Gateway      ports.PaymentGateway
	Payments     ports.PaymentProcessor
	Locker       ports.SplitLocker // optional
	LockTTL      time.Duration
	BaseCurrency string // reference currency of stored averaged rates
}

// OrderSplitSagaImpl implements ports.OrderSplitter.
type OrderSplitSagaImpl struct {
	orders       ports.OrderRepository
	catalog      ports.CatalogRepository
	vendors      ports.VendorRepository
	progress     ports.SplitProgressRepository
	rates        ports.ExchangeRateRepository
	gateway      ports.PaymentGateway
	payments     ports.PaymentProcessor
	locker       ports.SplitLocker
	lockTTL      time.Duration
	baseCurrency string
	log          zerolog.Logger
	now          func() time.Time
}

// NewOrderSplitSaga creates a new OrderSplitSagaImpl.
func NewOrderSplitSaga(deps OrderSplitDeps, log zerolog.Logger) *OrderSplitSagaImpl {
	lockTTL := deps.LockTTL
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	base := strings.ToUpper(deps.BaseCurrency)
	if base == "" {
		base = "USD"
	}
	return &OrderSplitSagaImpl{
		orders:       deps.Orders,
		catalog:      deps.Catalog,
		vendors:      deps.Vendors,
		progress:     deps.Progress,
		rates:        deps.Rates,
		gateway:      deps.Gateway,
		payments:     deps.Payments,
		locker:       deps.Locker,
		lockTTL:      lockTTL,
		baseCurrency: base,
		log:          log,
		now:          time.Now,
	}
}

type vendorGroup struct {
	vendorID uuid.UUID
	items    []domain.LineItem
}

// Split fans the parent order out into one child order per vendor, captures
// each child and credits the vendor's wallet. Vendor groups are processed one
// at a time. Each group's progress is persisted, so a re-run resumes where the
// previous one stopped and never credits a group twice.
func (s *OrderSplitSagaImpl) Split(ctx context.Context, parentOrderID uuid.UUID) (*domain.SplitResult, error) {
	order, err := s.orders.GetByID(ctx, parentOrderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("order")
	}

	result := &domain.SplitResult{
		ParentOrderID:    parentOrderID,
		ChildOrderIDs:    []uuid.UUID{},
		CompletedVendors: []uuid.UUID{},
	}

	if order.IsChild() {
		s.log.Info().Str("order_id", parentOrderID.String()).Msg("skipping child order")
		result.Skipped = true
		result.Message = "Skipping child order"
		return result, nil
	}

	release, err := s.lock(ctx, parentOrderID)
	if err != nil {
		return nil, err
	}
	defer release()

	groups, unassigned, err := s.groupByVendor(ctx, order)
	if err != nil {
		return nil, err
	}
	if len(unassigned) > 0 {
		result.UnassignedItemIDs = unassigned
		s.log.Warn().
			Str("order_id", parentOrderID.String()).
			Int("items", len(unassigned)).
			Msg("line items without a vendor left on parent order")
	}

	markers, err := s.progress.ListByParent(ctx, parentOrderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list split progress: %w", err))
	}
	byVendor := make(map[uuid.UUID]*domain.SplitProgress, len(markers))
	for i := range markers {
		byVendor[markers[i].VendorID] = &markers[i]
	}

	for _, g := range groups {
		marker := byVendor[g.vendorID]
		if marker != nil && marker.Stage.Reached(domain.SplitStageCredited) {
			s.log.Debug().
				Str("order_id", parentOrderID.String()).
				Str("vendor_id", g.vendorID.String()).
				Msg("vendor group already settled")
			result.ChildOrderIDs = append(result.ChildOrderIDs, marker.ChildOrderID)
			result.CompletedVendors = append(result.CompletedVendors, g.vendorID)
			continue
		}

		childID, err := s.settleGroup(ctx, order, g, marker)
		if err != nil {
			s.log.Error().Err(err).
				Str("order_id", parentOrderID.String()).
				Str("vendor_id", g.vendorID.String()).
				Int("completed", len(result.CompletedVendors)).
				Msg("split aborted")
			return nil, s.failure(parentOrderID, g.vendorID, result.CompletedVendors, err)
		}
		result.ChildOrderIDs = append(result.ChildOrderIDs, childID)
		result.CompletedVendors = append(result.CompletedVendors, g.vendorID)
	}

	if len(groups) == 0 {
		result.Message = "No vendor items to split"
	} else {
		result.Message = fmt.Sprintf("Split into %d child orders", len(result.ChildOrderIDs))
	}
	s.log.Info().
		Str("order_id", parentOrderID.String()).
		Int("children", len(result.ChildOrderIDs)).
		Msg("order split completed")
	return result, nil
}

// Children returns the child orders of a parent, oldest first.
func (s *OrderSplitSagaImpl) Children(ctx context.Context, parentOrderID uuid.UUID) ([]domain.Order, error) {
	children, err := s.orders.ListChildren(ctx, parentOrderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list children: %w", err))
	}
	if children == nil {
		children = []domain.Order{}
	}
	return children, nil
}

// Progress returns the persisted per-vendor markers of a parent's split.
func (s *OrderSplitSagaImpl) Progress(ctx context.Context, parentOrderID uuid.UUID) ([]domain.SplitProgress, error) {
	markers, err := s.progress.ListByParent(ctx, parentOrderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list split progress: %w", err))
	}
	if markers == nil {
		markers = []domain.SplitProgress{}
	}
	return markers, nil
}

// lock takes the per-parent split lock. An unreachable lock store is logged
// and tolerated; the storage constraints still hold.
func (s *OrderSplitSagaImpl) lock(ctx context.Context, parentOrderID uuid.UUID) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	key := domain.SplitLockKey(parentOrderID)
	acquired, err := s.locker.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", parentOrderID.String()).Msg("split lock unavailable, continuing without it")
		return noop, nil
	}
	if !acquired {
		return nil, apperror.ErrDuplicateResource("split run for order")
	}

	return func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			s.log.Warn().Err(err).Str("order_id", parentOrderID.String()).Msg("failed to release split lock")
		}
	}, nil
}

// groupByVendor buckets line items by the vendor owning their product, in
// order of first appearance. Items whose product has no vendor are returned
// separately.
func (s *OrderSplitSagaImpl) groupByVendor(ctx context.Context, order *domain.Order) ([]vendorGroup, []uuid.UUID, error) {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	seen := make(map[uuid.UUID]bool, len(order.Items))
	for _, li := range order.Items {
		if !seen[li.ProductID] {
			seen[li.ProductID] = true
			productIDs = append(productIDs, li.ProductID)
		}
	}

	vendorOf, err := s.catalog.GetProductVendors(ctx, productIDs)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("resolve product vendors: %w", err))
	}

	var groups []vendorGroup
	index := make(map[uuid.UUID]int)
	var unassigned []uuid.UUID
	for _, li := range order.Items {
		vendorID, ok := vendorOf[li.ProductID]
		if !ok {
			unassigned = append(unassigned, li.ID)
			continue
		}
		i, ok := index[vendorID]
		if !ok {
			i = len(groups)
			index[vendorID] = i
			groups = append(groups, vendorGroup{vendorID: vendorID})
		}
		groups[i].items = append(groups[i].items, li)
	}
	return groups, unassigned, nil
}

// settleGroup drives one vendor group from its recorded stage to credited.
func (s *OrderSplitSagaImpl) settleGroup(ctx context.Context, parent *domain.Order, g vendorGroup, marker *domain.SplitProgress) (uuid.UUID, error) {
	vendor, err := s.vendors.GetByID(ctx, g.vendorID)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("get vendor: %w", err))
	}
	if vendor == nil {
		return uuid.Nil, apperror.ErrNotFound("vendor")
	}

	var child *domain.Order
	if marker == nil {
		child = buildChildOrder(parent, vendor.ID, g.items)
		child.CreatedAt = s.now().UTC()
		child.UpdatedAt = child.CreatedAt
		if err := s.orders.CreateChild(ctx, child); err != nil {
			return uuid.Nil, apperror.InternalError(fmt.Errorf("create child order: %w", err))
		}
		marker = &domain.SplitProgress{
			ParentOrderID: parent.ID,
			VendorID:      vendor.ID,
			ChildOrderID:  child.ID,
			Stage:         domain.SplitStageChildCreated,
		}
		if err := s.saveProgress(ctx, marker); err != nil {
			return uuid.Nil, err
		}
		s.log.Info().
			Str("order_id", child.ID.String()).
			Str("parent_order_id", parent.ID.String()).
			Str("vendor_id", vendor.ID.String()).
			Int("items", len(child.Items)).
			Msg("child order created")
	} else {
		if child, err = s.orders.GetByID(ctx, marker.ChildOrderID); err != nil {
			return uuid.Nil, apperror.InternalError(fmt.Errorf("get child order: %w", err))
		}
		if child == nil {
			return uuid.Nil, apperror.ErrNotFound("child order")
		}
	}

	if !marker.Stage.Reached(domain.SplitStageCaptured) {
		amount, err := s.gateway.Capture(ctx, child, parent.PaymentProvider)
		if err != nil {
			return child.ID, apperror.ErrUpstreamFailure("payment gateway", err)
		}
		if err := s.orders.MarkCaptured(ctx, child.ID, amount); err != nil {
			return child.ID, apperror.InternalError(fmt.Errorf("mark child captured: %w", err))
		}
		marker.Stage = domain.SplitStageCaptured
		marker.CapturedAmount = amount
		if err := s.saveProgress(ctx, marker); err != nil {
			return child.ID, err
		}
	}

	if err := s.credit(ctx, parent, child, vendor, marker); err != nil {
		return child.ID, err
	}
	return child.ID, nil
}

// credit pays the captured amount into the vendor's account in the vendor's
// default currency. The transaction id is derived from the child order id.
func (s *OrderSplitSagaImpl) credit(ctx context.Context, parent, child *domain.Order, vendor *domain.Vendor, marker *domain.SplitProgress) error {
	amount, err := s.payoutAmount(ctx, marker.CapturedAmount, child.Currency, vendor.DefaultCurrency)
	if err != nil {
		return err
	}

	if !amount.IsPositive() {
		s.log.Warn().
			Str("order_id", child.ID.String()).
			Str("vendor_id", vendor.ID.String()).
			Msg("nothing captured for child order, no credit recorded")
	} else {
		entry, err := s.payments.Settle(ctx, ports.SettleRequest{
			UserID:        vendor.UserID,
			TransactionID: domain.CreditTransactionID(child.ID),
			Amount:        amount,
			Currency:      vendor.DefaultCurrency,
			Type:          domain.TransactionTypeCredit,
			Metadata: map[string]string{
				metaOrderID:        child.ID.String(),
				metaParentOrderID:  parent.ID.String(),
				metaVendorID:       vendor.ID.String(),
				metaSourceCurrency: strings.ToUpper(child.Currency),
				metaSourceAmount:   domain.FromMinorUnits(marker.CapturedAmount).StringFixed(domain.LedgerScale),
			},
		})
		if err != nil {
			return err
		}
		marker.TransactionID = entry.TransactionID
	}

	marker.Stage = domain.SplitStageCredited
	if err := s.saveProgress(ctx, marker); err != nil {
		return err
	}
	s.log.Info().
		Str("order_id", child.ID.String()).
		Str("vendor_id", vendor.ID.String()).
		Str("amount", amount.StringFixed(domain.LedgerScale)).
		Str("currency", vendor.DefaultCurrency).
		Msg("vendor credited")
	return nil
}

// payoutAmount converts captured minor units from the order currency into a
// ledger amount in the vendor currency using the stored averaged rates.
func (s *OrderSplitSagaImpl) payoutAmount(ctx context.Context, captured int64, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == "" || from == to {
		return domain.FromMinorUnits(captured), nil
	}

	stored, err := s.rates.GetByCurrencies(ctx, []string{from, to})
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("get exchange rates: %w", err))
	}
	table := domain.RateTable{s.baseCurrency: 1}
	for _, r := range stored {
		table[strings.ToUpper(r.CurrencyCode)] = r.AverageRate
	}

	converted, ok := ConvertPrice(captured, table, from, to)
	if !ok {
		return decimal.Zero, apperror.ErrNotFound(fmt.Sprintf("exchange rate %s/%s", from, to))
	}
	return domain.FromMinorUnits(converted), nil
}

func (s *OrderSplitSagaImpl) saveProgress(ctx context.Context, p *domain.SplitProgress) error {
	p.UpdatedAt = s.now().UTC()
	if err := s.progress.Save(ctx, p); err != nil {
		return apperror.InternalError(fmt.Errorf("save split progress: %w", err))
	}
	return nil
}

// failure reports a split that stopped at vendorID. Once any group has been
// settled the error lists the completed vendors.
func (s *OrderSplitSagaImpl) failure(parentOrderID, vendorID uuid.UUID, completed []uuid.UUID, err error) error {
	if len(completed) == 0 {
		return asAppError(err)
	}
	done := append([]uuid.UUID(nil), completed...)
	return apperror.ErrPartialSplitFailure(&domain.SplitFailure{
		ParentOrderID:    parentOrderID,
		FailedVendor:     vendorID,
		CompletedVendors: done,
		Err:              err,
	}).WithDetails(domain.SplitFailureDetails{
		FailedVendor:     vendorID,
		CompletedVendors: done,
	})
}

// buildChildOrder derives vendorID's child order from parent. Ids are derived
// from the parent, so rebuilding yields the same order.
func buildChildOrder(parent *domain.Order, vendorID uuid.UUID, items []domain.LineItem) *domain.Order {
	childID := domain.ChildOrderID(parent.ID, vendorID)
	parentID := parent.ID
	vendor := vendorID

	child := &domain.Order{
		ID:              childID,
		ParentOrderID:   &parentID,
		VendorID:        &vendor,
		CustomerID:      parent.CustomerID,
		Email:           parent.Email,
		RegionID:        parent.RegionID,
		Currency:        parent.Currency,
		BillingAddress:  parent.BillingAddress,
		ShippingAddress: parent.ShippingAddress,
		DiscountCodes:   append([]string(nil), parent.DiscountCodes...),
		PaymentProvider: parent.PaymentProvider,
		Status:          domain.OrderStatusPending,
		Metadata: map[string]string{
			domain.MetadataType:   domain.ChildOrderType,
			domain.MetadataParent: parent.ID.String(),
			domain.MetadataVendor: vendorID.String(),
		},
	}

	for _, li := range items {
		item := li
		item.ID = uuid.NewSHA1(childID, li.ID[:])
		item.OrderID = childID
		child.Items = append(child.Items, item)
	}

	for _, sm := range shippingFor(parent.ShippingMethods, vendorID) {
		method := sm
		method.ID = uuid.NewSHA1(childID, sm.ID[:])
		method.OrderID = childID
		method.VendorID = &vendor
		if sm.Data != nil {
			method.Data = make(map[string]string, len(sm.Data))
			for k, v := range sm.Data {
				method.Data[k] = v
			}
		}
		child.ShippingMethods = append(child.ShippingMethods, method)
	}

	child.RecalculateTotals()
	return child
}

// shippingFor picks the parent's shipping methods tagged with vendorID, or
// every untagged method when none are tagged.
func shippingFor(methods []domain.ShippingMethod, vendorID uuid.UUID) []domain.ShippingMethod {
	var tagged, untagged []domain.ShippingMethod
	for _, sm := range methods {
		switch {
		case sm.VendorID == nil:
			untagged = append(untagged, sm)
		case *sm.VendorID == vendorID:
			tagged = append(tagged, sm)
		}
	}
	if len(tagged) > 0 {
		return tagged
	}
	return untagged
}
