package application

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/andikasp/gocommerce/internal/domain/entity"
	repo "github.com/andikasp/gocommerce/internal/domain/repository"
	"github.com/andikasp/gocommerce/pkg/payment"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // keyed by hex id

	// conflictsLeft forces UpdateCart to fail with ErrVersionConflict this
	// many times, mimicking a concurrent writer.
	conflictsLeft int
	updateCalls   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) addUser(u *entity.User) *entity.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CartData == nil {
		u.CartData = entity.CartData{}
	}
	f.users[u.ID.Hex()] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	f.addUser(u)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	cp.CartData = u.CartData.Clone()
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			cp.CartData = u.CartData.Clone()
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[u.ID.Hex()]
	if !ok {
		return repo.ErrNotFound
	}
	cart, version := stored.CartData, stored.CartVersion
	cp := *u
	cp.CartData, cp.CartVersion = cart, version
	f.users[u.ID.Hex()] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateCart(_ context.Context, userID string, cart entity.CartData, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	u, ok := f.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		// the concurrent writer bumped the version underneath us
		u.CartVersion++
		return repo.ErrVersionConflict
	}
	if u.CartVersion != expectedVersion {
		return repo.ErrVersionConflict
	}
	u.CartData = cart.Clone()
	u.CartVersion++
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (f *fakeProductRepo) addProduct(p *entity.Product) *entity.Product {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products[p.ID.Hex()] = p
	return p
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addProduct(p)
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

// fakeOrderRepo mirrors the transactional semantics of the real repository
// against in-memory state shared with the user and product fakes.
type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[string]*entity.Order
	users    *fakeUserRepo
	products *fakeProductRepo
}

func newFakeOrderRepo(users *fakeUserRepo, products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*entity.Order{}, users: users, products: products}
}

func (f *fakeOrderRepo) Place(_ context.Context, o *entity.Order, clearCart bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products.mu.Lock()
	defer f.products.mu.Unlock()

	// all-or-nothing: check every decrement before applying any
	for _, it := range o.Items {
		p, ok := f.products.products[it.ProductID.Hex()]
		if !ok || p.Stock < it.Quantity {
			return repo.ErrInsufficientStock
		}
	}
	for _, it := range o.Items {
		f.products.products[it.ProductID.Hex()].Stock -= it.Quantity
	}

	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	cp := *o
	f.orders[o.ID.Hex()] = &cp

	if clearCart {
		f.users.mu.Lock()
		if u, ok := f.users.users[o.UserID.Hex()]; ok {
			u.CartData = entity.CartData{}
			u.CartVersion++
		}
		f.users.mu.Unlock()
	}
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Order
	for _, o := range f.orders {
		if o.UserID.Hex() == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeOrderRepo) ListAll(_ context.Context) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeOrderRepo) SetGatewayOrderID(_ context.Context, orderID, gatewayOrderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.GatewayOrderID = gatewayOrderID
	return nil
}

func (f *fakeOrderRepo) MarkPaidAndClearCart(_ context.Context, orderID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Payment = true
	f.users.mu.Lock()
	if u, ok := f.users.users[userID]; ok {
		u.CartData = entity.CartData{}
		u.CartVersion++
	}
	f.users.mu.Unlock()
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, from, to entity.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	if o.Status != from {
		return repo.ErrStatusConflict
	}
	o.Status = to
	return nil
}

func (f *fakeOrderRepo) CancelAndRestock(_ context.Context, o *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[o.ID.Hex()]
	if !ok {
		return repo.ErrNotFound
	}
	if stored.Status != o.Status {
		return repo.ErrStatusConflict
	}
	stored.Status = entity.StatusCancelled
	f.products.mu.Lock()
	for _, it := range stored.Items {
		if p, ok := f.products.products[it.ProductID.Hex()]; ok {
			p.Stock += it.Quantity
		}
	}
	f.products.mu.Unlock()
	return nil
}

type fakeGateway struct {
	mu        sync.Mutex
	orders    map[string]*payment.Order
	createErr error
	fetchErr  error
	nextID    int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{orders: map[string]*payment.Order{}}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextID++
	o := &payment.Order{
		ID:       "order_fake" + string(rune('A'+g.nextID)),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}
	g.orders[o.ID] = o
	return o, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, id string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	o, ok := g.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (g *fakeGateway) markPaid(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if o, ok := g.orders[id]; ok {
		o.Status = payment.StatusPaid
	}
}
