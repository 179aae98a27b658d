package services_test

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository doubles. The cart double guards IncrementQuantity
// with a mutex so the conditional check-and-increment is atomic, mirroring
// the server-side semantics of FindOneAndUpdate.

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

// --- products ---

type memProductRepo struct {
	mu       sync.Mutex
	products []*models.Product
	seq      map[primitive.ObjectID]int
	nextSeq  int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{seq: make(map[primitive.ObjectID]int)}
}

func (m *memProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Product
	for _, p := range m.products {
		if want[p.ID] {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memProductRepo) matches(p *models.Product, filter bson.M) bool {
	if raw, ok := filter["category_id"]; ok {
		if id, ok := raw.(primitive.ObjectID); !ok || p.CategoryID != id {
			return false
		}
	}
	if raw, ok := filter["title"]; ok {
		cond, _ := raw.(bson.M)
		rx, _ := cond["$regex"].(primitive.Regex)
		re, err := regexp.Compile("(?" + rx.Options + ")" + rx.Pattern)
		if err != nil || !re.MatchString(p.Title) {
			return false
		}
	}
	return true
}

func (m *memProductRepo) filtered(filter bson.M) []*models.Product {
	var out []*models.Product
	for _, p := range m.products {
		if m.matches(p, filter) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	return out
}

func (m *memProductRepo) Find(_ context.Context, filter bson.M, skip, limit int64) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filtered(filter)
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	out := make([]*models.Product, 0, len(all))
	for _, p := range all {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memProductRepo) Count(_ context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.filtered(filter))), nil
}

func (m *memProductRepo) Insert(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	cp := *product
	m.products = append(m.products, &cp)
	m.seq[cp.ID] = m.nextSeq
	m.nextSeq++
	return nil
}

func (m *memProductRepo) Update(_ context.Context, id primitive.ObjectID, updates bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID != id {
			continue
		}
		if v, ok := updates["title"].(string); ok {
			p.Title = v
		}
		if v, ok := updates["description"].(string); ok {
			p.Description = v
		}
		if v, ok := updates["price"].(float64); ok {
			p.Price = v
		}
		if v, ok := updates["stock"].(int); ok {
			p.Stock = v
		}
		if v, ok := updates["category_id"].(primitive.ObjectID); ok {
			p.CategoryID = v
		}
		p.UpdatedAt = time.Now().UTC()
		return 1, nil
	}
	return 0, nil
}

func (m *memProductRepo) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memProductRepo) CountByCategory(_ context.Context) (map[primitive.ObjectID]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[primitive.ObjectID]int64)
	for _, p := range m.products {
		counts[p.CategoryID]++
	}
	return counts, nil
}

// --- categories ---

type memCategoryRepo struct {
	mu         sync.Mutex
	categories []*models.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{}
}

func (m *memCategoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCategoryRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Category
	for _, c := range m.categories {
		if want[c.ID] {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCategoryRepo) FindAll(_ context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCategoryRepo) Insert(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	cp := *category
	m.categories = append(m.categories, &cp)
	return nil
}

func (m *memCategoryRepo) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// --- cart items ---

type memCartRepo struct {
	mu      sync.Mutex
	items   []*models.CartItem
	nextSeq int
	seq     map[primitive.ObjectID]int
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{seq: make(map[primitive.ObjectID]int)}
}

func (m *memCartRepo) find(userID string, productID primitive.ObjectID) *models.CartItem {
	for _, it := range m.items {
		if it.UserID == userID && it.ProductID == productID {
			return it
		}
	}
	return nil
}

func (m *memCartRepo) FindByKey(_ context.Context, userID string, productID primitive.ObjectID) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it := m.find(userID, productID); it != nil {
		cp := *it
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCartRepo) ListByUser(_ context.Context, userID string) ([]*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.CartItem
	for _, it := range m.items {
		if it.UserID == userID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	return out, nil
}

func (m *memCartRepo) Insert(_ context.Context, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(item.UserID, item.ProductID) != nil {
		return duplicateKeyErr()
	}
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	cp := *item
	m.items = append(m.items, &cp)
	m.seq[cp.ID] = m.nextSeq
	m.nextSeq++
	return nil
}

func (m *memCartRepo) IncrementQuantity(_ context.Context, userID string, productID primitive.ObjectID, qty, stock int) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.find(userID, productID)
	if it == nil || it.Quantity > stock-qty {
		return nil, mongo.ErrNoDocuments
	}
	it.Quantity += qty
	it.UpdatedAt = time.Now().UTC()
	cp := *it
	return &cp, nil
}

func (m *memCartRepo) DeleteByKey(_ context.Context, userID string, productID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.UserID == userID && it.ProductID == productID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memCartRepo) DeleteByProduct(_ context.Context, productID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*models.CartItem
	var removed int64
	for _, it := range m.items {
		if it.ProductID == productID {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	m.items = kept
	return removed, nil
}

// --- transaction runner ---

type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
