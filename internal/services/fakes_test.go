package services

import (
	"context"
	"errors"
	"sync"

	"homecook-backend/internal/models"
	"homecook-backend/internal/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var errStorageDown = errors.New("storage down")

// recordingSnapshotRepo wraps the memory repository, counting saves and
// optionally failing or blocking them.
type recordingSnapshotRepo struct {
	*repositories.MemorySnapshotRepository

	mu      sync.Mutex
	saves   int
	saveErr error
	loadErr error
	gate    chan struct{} // when set, every Save waits for a receive

	blockKey    string // Load of this key signals loadStarted, then waits on loadGate
	loadStarted chan struct{}
	loadGate    chan struct{}
}

func newRecordingSnapshotRepo() *recordingSnapshotRepo {
	return &recordingSnapshotRepo{MemorySnapshotRepository: repositories.NewMemorySnapshotRepository()}
}

func (r *recordingSnapshotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	if r.blockKey != "" && key == r.blockKey {
		close(r.loadStarted)
		<-r.loadGate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.MemorySnapshotRepository.Load(ctx, key)
}

func (r *recordingSnapshotRepo) Save(ctx context.Context, key string, data []byte) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	r.saves++
	err := r.saveErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.MemorySnapshotRepository.Save(ctx, key, data)
}

func (r *recordingSnapshotRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]models.Order
	createErr error
	failNext  int    // number of upcoming CreateAll calls that fail
	onCreate  func() // runs before the orders are stored
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]models.Order)}
}

func (r *fakeOrderRepo) CreateAll(ctx context.Context, orders []models.Order) error {
	if r.onCreate != nil {
		r.onCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if r.failNext > 0 {
		r.failNext--
		return errStorageDown
	}
	for _, order := range orders {
		r.orders[order.ID] = order
	}
	return nil
}

func (r *fakeOrderRepo) countForVendor(vendorID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, order := range r.orders {
		if order.VendorID == vendorID {
			n++
		}
	}
	return n
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}

func (r *fakeOrderRepo) GetBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, order := range r.orders {
		if order.SessionID == sessionID {
			out = append(out, order)
		}
	}
	return out, nil
}

type publishedMessage struct {
	topic string
	key   string
	value interface{}
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []publishedMessage
	err  error
}

func (p *fakePublisher) SendMessage(ctx context.Context, topic, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, publishedMessage{topic: topic, key: key, value: value})
	return nil
}

type fakeProductRepo struct {
	products map[primitive.ObjectID]models.Product
	gets     int
}

func newFakeProductRepo(products ...models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.gets++
	p, ok := r.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &p, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) GetByVendorID(ctx context.Context, vendorID string, limit, offset int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		if p.VendorID == vendorID && p.IsAvailable {
			out = append(out, p)
		}
	}
	return out, nil
}
