// internal/repository/repotest/memory.go

// Package repotest provides an in-memory repository.Store for unit tests.
// It follows the Postgres schema's rules: soft deletes, partial unique
// usernames, foreign keys that must point at an existing row and outer joins
// that keep orphaned orders readable.
package repotest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/repository"
)

var ErrForeignKey = errors.New("foreign key violation")

type DB struct {
	mu       sync.Mutex
	seq      map[string]uint
	accounts map[models.ActorKind][]*models.Account
	products []*models.Product
	orders   []*models.Order
	clock    func() time.Time
}

func New() *DB {
	return &DB{
		seq:      make(map[string]uint),
		accounts: make(map[models.ActorKind][]*models.Account),
		clock:    time.Now,
	}
}

// NewStore is a shortcut for New().Store().
func NewStore() *repository.Store {
	return New().Store()
}

func (m *DB) Store() *repository.Store {
	return &repository.Store{
		Accounts: &accounts{m},
		Products: &products{m},
		Orders:   &orders{m},
		Reports:  &reports{m},
	}
}

func (m *DB) next(table string) uint {
	m.seq[table]++
	return m.seq[table]
}

func (m *DB) account(kind models.ActorKind, id uint, includeDeleted bool) *models.Account {
	for _, a := range m.accounts[kind] {
		if a.ID == id && (includeDeleted || !a.DeletedAt.Valid) {
			return a
		}
	}
	return nil
}

func (m *DB) product(id uint, includeDeleted bool) *models.Product {
	for _, p := range m.products {
		if p.ID == id && (includeDeleted || !p.DeletedAt.Valid) {
			return p
		}
	}
	return nil
}

func (m *DB) softDelete(at *gorm.DeletedAt) {
	*at = gorm.DeletedAt{Time: m.clock(), Valid: true}
}

func (m *DB) detail(o *models.Order) models.OrderDetail {
	d := models.OrderDetail{Order: *o}
	if p := m.product(o.ProductID, true); p != nil {
		d.ProductName = p.Name
		d.ProductPrice = p.Price
		d.SellerID = p.SellerID
		if s := m.account(models.ActorSeller, p.SellerID, true); s != nil {
			d.SellerName = s.Name
		}
	}
	if b := m.account(models.ActorBuyer, o.BuyerID, true); b != nil {
		d.BuyerName = b.Name
	}
	return d
}

func (m *DB) listing(p *models.Product) models.ProductListing {
	l := models.ProductListing{Product: *p}
	if s := m.account(models.ActorSeller, p.SellerID, true); s != nil {
		l.SellerName = s.Name
	}
	return l
}

func validKind(kind models.ActorKind) error {
	if kind.Table() == "" {
		return errors.New("no account table for kind " + string(kind))
	}
	return nil
}

type accounts struct{ m *DB }

func (r *accounts) Create(_ context.Context, kind models.ActorKind, account *models.Account) error {
	if err := validKind(kind); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, a := range r.m.accounts[kind] {
		if !a.DeletedAt.Valid && a.Username == account.Username {
			return repository.ErrDuplicate
		}
	}

	now := r.m.clock()
	account.ID = r.m.next(kind.Table())
	account.CreatedAt, account.UpdatedAt = now, now
	stored := *account
	r.m.accounts[kind] = append(r.m.accounts[kind], &stored)
	return nil
}

func (r *accounts) FindByID(_ context.Context, kind models.ActorKind, id uint) (*models.Account, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if a := r.m.account(kind, id, false); a != nil {
		out := *a
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (r *accounts) FindByUsername(_ context.Context, kind models.ActorKind, username string) (*models.Account, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, a := range r.m.accounts[kind] {
		if !a.DeletedAt.Valid && a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *accounts) List(_ context.Context, kind models.ActorKind) ([]models.Account, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []models.Account
	for _, a := range r.m.accounts[kind] {
		if !a.DeletedAt.Valid {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *accounts) Delete(_ context.Context, kind models.ActorKind, id uint) error {
	if err := validKind(kind); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	a := r.m.account(kind, id, false)
	if a == nil {
		return repository.ErrNotFound
	}
	r.m.softDelete(&a.DeletedAt)
	return nil
}

func (r *accounts) Count(_ context.Context, kind models.ActorKind) (int64, error) {
	if err := validKind(kind); err != nil {
		return 0, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for _, a := range r.m.accounts[kind] {
		if !a.DeletedAt.Valid {
			n++
		}
	}
	return n, nil
}

type products struct{ m *DB }

func (r *products) Create(_ context.Context, product *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.account(models.ActorSeller, product.SellerID, true) == nil {
		return ErrForeignKey
	}

	now := r.m.clock()
	product.ID = r.m.next("products")
	product.CreatedAt, product.UpdatedAt = now, now
	stored := *product
	r.m.products = append(r.m.products, &stored)
	return nil
}

func (r *products) FindByID(_ context.Context, id uint) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if p := r.m.product(id, false); p != nil {
		out := *p
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (r *products) orderable(p *models.Product) bool {
	return !p.DeletedAt.Valid && r.m.account(models.ActorSeller, p.SellerID, false) != nil
}

func (r *products) FindOrderable(_ context.Context, id uint) (*models.ProductListing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if p := r.m.product(id, false); p != nil && r.orderable(p) {
		l := r.m.listing(p)
		return &l, nil
	}
	return nil, repository.ErrNotFound
}

func (r *products) ListBySeller(_ context.Context, sellerID uint) ([]models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []models.Product
	for _, p := range r.m.products {
		if !p.DeletedAt.Valid && p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *products) ListCatalog(_ context.Context) ([]models.ProductListing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []models.ProductListing
	for i := len(r.m.products) - 1; i >= 0; i-- {
		if p := r.m.products[i]; r.orderable(p) {
			out = append(out, r.m.listing(p))
		}
	}
	return out, nil
}

func (r *products) ListAll(_ context.Context) ([]models.ProductListing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []models.ProductListing
	for i := len(r.m.products) - 1; i >= 0; i-- {
		if p := r.m.products[i]; !p.DeletedAt.Valid {
			out = append(out, r.m.listing(p))
		}
	}
	return out, nil
}

func (r *products) Delete(_ context.Context, id uint, sellerID *uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	p := r.m.product(id, false)
	if p == nil {
		return repository.ErrNotFound
	}
	if sellerID != nil && (p.SellerID != *sellerID || r.m.account(models.ActorSeller, *sellerID, false) == nil) {
		return repository.ErrNotFound
	}
	r.m.softDelete(&p.DeletedAt)
	return nil
}

func (r *products) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for _, p := range r.m.products {
		if !p.DeletedAt.Valid {
			n++
		}
	}
	return n, nil
}

func (r *products) CountBySeller(_ context.Context, sellerID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for _, p := range r.m.products {
		if !p.DeletedAt.Valid && p.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

type orders struct{ m *DB }

func (r *orders) Create(_ context.Context, order *models.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.account(models.ActorBuyer, order.BuyerID, true) == nil || r.m.product(order.ProductID, true) == nil {
		return ErrForeignKey
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPlaced
	}

	now := r.m.clock()
	order.ID = r.m.next("orders")
	order.CreatedAt, order.UpdatedAt = now, now
	stored := *order
	r.m.orders = append(r.m.orders, &stored)
	return nil
}

func (r *orders) find(id uint) *models.Order {
	for _, o := range r.m.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (r *orders) FindByID(_ context.Context, id uint) (*models.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if o := r.find(id); o != nil {
		out := *o
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (r *orders) FindForSeller(_ context.Context, id, sellerID uint) (*models.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	o := r.find(id)
	if o == nil {
		return nil, repository.ErrNotFound
	}
	if p := r.m.product(o.ProductID, true); p == nil || p.SellerID != sellerID {
		return nil, repository.ErrNotFound
	}
	if r.m.account(models.ActorSeller, sellerID, false) == nil {
		return nil, repository.ErrNotFound
	}
	out := *o
	return &out, nil
}

func (r *orders) UpdateStatus(_ context.Context, id uint, expected *models.OrderStatus, status models.OrderStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	o := r.find(id)
	if o == nil || (expected != nil && o.Status != *expected) {
		return repository.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = r.m.clock()
	return nil
}

// newestFirst returns the details of the matching orders by descending id.
func (r *orders) newestFirst(match func(models.OrderDetail) bool, limit int) []models.OrderDetail {
	var out []models.OrderDetail
	for i := len(r.m.orders) - 1; i >= 0; i-- {
		d := r.m.detail(r.m.orders[i])
		if match(d) {
			out = append(out, d)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (r *orders) ListByBuyer(_ context.Context, buyerID uint) ([]models.OrderDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.newestFirst(func(d models.OrderDetail) bool { return d.BuyerID == buyerID }, 0), nil
}

func (r *orders) ListBySeller(_ context.Context, sellerID uint) ([]models.OrderDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.newestFirst(func(d models.OrderDetail) bool { return d.SellerID == sellerID }, 0), nil
}

func (r *orders) ListRecent(_ context.Context, limit int) ([]models.OrderDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.newestFirst(func(models.OrderDetail) bool { return true }, limit), nil
}

func (r *orders) count(match func(models.OrderDetail) bool) int64 {
	var n int64
	for _, o := range r.m.orders {
		if match(r.m.detail(o)) {
			n++
		}
	}
	return n
}

func (r *orders) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return int64(len(r.m.orders)), nil
}

func (r *orders) CountByBuyer(_ context.Context, buyerID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.count(func(d models.OrderDetail) bool { return d.BuyerID == buyerID }), nil
}

func (r *orders) CountBySeller(_ context.Context, sellerID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.count(func(d models.OrderDetail) bool { return d.SellerID == sellerID }), nil
}

func (r *orders) CountByProduct(_ context.Context, productID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.count(func(d models.OrderDetail) bool { return d.ProductID == productID }), nil
}

type reports struct{ m *DB }

func (r *reports) ordersOf(productID uint) int64 {
	var n int64
	for _, o := range r.m.orders {
		if o.ProductID == productID {
			n++
		}
	}
	return n
}

func (r *reports) SellerSales(_ context.Context, sellerID uint) ([]models.ProductSales, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []models.ProductSales
	for _, p := range r.m.products {
		if p.DeletedAt.Valid || p.SellerID != sellerID {
			continue
		}
		n := r.ordersOf(p.ID)
		out = append(out, models.ProductSales{
			ProductID:    p.ID,
			Name:         p.Name,
			OrderCount:   n,
			TotalRevenue: p.Price.Mul(decimal.NewFromInt(n)),
		})
	}
	return out, nil
}

func (r *reports) TopSellers(_ context.Context, limit int) ([]models.SellerRanking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []models.SellerRanking
	for _, s := range r.m.accounts[models.ActorSeller] {
		if s.DeletedAt.Valid {
			continue
		}
		row := models.SellerRanking{SellerID: s.ID, Name: s.Name, Revenue: decimal.Zero}
		for _, p := range r.m.products {
			if p.DeletedAt.Valid || p.SellerID != s.ID {
				continue
			}
			n := r.ordersOf(p.ID)
			row.OrderCount += n
			row.Revenue = row.Revenue.Add(p.Price.Mul(decimal.NewFromInt(n)))
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].SellerID < out[j].SellerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
