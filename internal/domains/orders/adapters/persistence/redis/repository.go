package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

const (
	defaultKeyPrefix = "rackrental"
	fieldVersion     = "version"
	fieldPayload     = "payload"
)

// KEYS[1]: order hash, KEYS[2]: start-date index
// ARGV[1]: payload, ARGV[2]: start score, ARGV[3]: order id
var createScript = goredis.NewScript(`
if redis.call('exists', KEYS[1]) == 1 then
  return 0
end
redis.call('hset', KEYS[1], 'version', 1, 'payload', ARGV[1])
redis.call('zadd', KEYS[2], ARGV[2], ARGV[3])
return 1
`)

// KEYS[1]: order hash, KEYS[2]: start-date index
// ARGV[1]: expected version, ARGV[2]: payload, ARGV[3]: start score, ARGV[4]: order id
var swapScript = goredis.NewScript(`
local current = redis.call('hget', KEYS[1], 'version')
if not current then
  return -1
end
if tonumber(current) ~= tonumber(ARGV[1]) then
  return 0
end
redis.call('hset', KEYS[1], 'version', tonumber(ARGV[1]) + 1, 'payload', ARGV[2])
redis.call('zadd', KEYS[2], ARGV[3], ARGV[4])
return 1
`)

// Repository stores orders as Redis hashes. Writes run as Lua scripts so the version check and the
// write are one atomic step on the server.
type Repository struct {
	client goredis.UniversalClient
	prefix string
}

type Option func(*Repository)

// WithKeyPrefix namespaces every key written by the repository.
func WithKeyPrefix(prefix string) Option {
	return func(r *Repository) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRepository wires a Redis-backed repository. Caller manages client lifecycle.
func NewRepository(client goredis.UniversalClient, opts ...Option) *Repository {
	r := &Repository{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// orderDocument is the JSON payload kept under the order hash.
type orderDocument struct {
	ID            string    `json:"id"`
	RenterID      string    `json:"renterId"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	RackCount     int       `json:"rackCount"`
	Category      string    `json:"category"`
	AssignedRacks []string  `json:"assignedRacks,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

const dateLayout = "2006-01-02"

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureClient(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	payload, err := encode(order)
	if err != nil {
		return nil, err
	}
	created, err := createScript.Run(ctx, r.client,
		[]string{r.orderKey(order.ID), r.indexKey()},
		payload, startScore(order), order.ID,
	).Int()
	if err != nil {
		return nil, fmt.Errorf("redis create order: %w", err)
	}
	if created == 0 {
		return nil, ports.ErrAlreadyExists
	}
	return r.GetByID(ctx, order.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureClient(); err != nil {
		return nil, err
	}
	values, err := r.client.HMGet(ctx, r.orderKey(id), fieldVersion, fieldPayload).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get order: %w", err)
	}
	return decodeFields(values)
}

func (r *Repository) CompareAndSwap(ctx context.Context, expectedVersion int64, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureClient(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	payload, err := encode(order)
	if err != nil {
		return nil, err
	}
	outcome, err := swapScript.Run(ctx, r.client,
		[]string{r.orderKey(order.ID), r.indexKey()},
		expectedVersion, payload, startScore(order), order.ID,
	).Int()
	if err != nil {
		return nil, fmt.Errorf("redis swap order: %w", err)
	}
	switch outcome {
	case -1:
		return nil, ports.ErrNotFound
	case 0:
		return nil, ports.ErrVersionConflict
	}
	stored := order.Clone()
	stored.Version = expectedVersion + 1
	return stored, nil
}

// ListByDateRange reads candidates by start date from the index and filters on the end date.
func (r *Repository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	if err := r.ensureClient(); err != nil {
		return nil, err
	}
	ids, err := r.client.ZRangeByScore(ctx, r.indexKey(), &goredis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(domain.DateOf(end).Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list orders: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Order{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*goredis.SliceCmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, pipe.HMGet(ctx, r.orderKey(id), fieldVersion, fieldPayload))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("redis list orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(ids))
	for _, cmd := range cmds {
		order, err := decodeFields(cmd.Val())
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if order.Overlaps(start, end) {
			orders = append(orders, order)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].StartDate.Equal(orders[j].StartDate) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].StartDate.Before(orders[j].StartDate)
	})
	return orders, nil
}

// Keys share the {prefix} hash tag so both scripts touch a single cluster slot.
func (r *Repository) orderKey(id string) string {
	return "{" + r.prefix + "}:order:" + id
}

func (r *Repository) indexKey() string {
	return "{" + r.prefix + "}:orders:by-start"
}

func (r *Repository) ensureClient() error {
	if r == nil || r.client == nil {
		return errors.New("redis order repository not configured")
	}
	return nil
}

func startScore(order *domain.Order) int64 {
	return domain.DateOf(order.StartDate).Unix()
}

func encode(order *domain.Order) (string, error) {
	doc := orderDocument{
		ID:            order.ID,
		RenterID:      order.RenterID,
		StartDate:     order.StartDate.Format(dateLayout),
		EndDate:       order.EndDate.Format(dateLayout),
		RackCount:     order.RackCount,
		Category:      string(order.Category),
		AssignedRacks: order.AssignedRacks,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt.UTC(),
		UpdatedAt:     order.UpdatedAt.UTC(),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode order %s: %w", order.ID, err)
	}
	return string(raw), nil
}

func decodeFields(values []any) (*domain.Order, error) {
	if len(values) != 2 || values[0] == nil || values[1] == nil {
		return nil, ports.ErrNotFound
	}
	rawVersion, _ := values[0].(string)
	rawPayload, _ := values[1].(string)
	version, err := strconv.ParseInt(rawVersion, 10, 64)
	if err != nil || version < 1 {
		return nil, fmt.Errorf("decode order version %q: invalid", rawVersion)
	}
	var doc orderDocument
	if err := json.Unmarshal([]byte(rawPayload), &doc); err != nil {
		return nil, fmt.Errorf("decode order payload: %w", err)
	}
	start, err := time.Parse(dateLayout, doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("decode order start date: %w", err)
	}
	end, err := time.Parse(dateLayout, doc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("decode order end date: %w", err)
	}
	var racks []string
	if len(doc.AssignedRacks) > 0 {
		racks = doc.AssignedRacks
	}
	return &domain.Order{
		ID:            doc.ID,
		RenterID:      doc.RenterID,
		StartDate:     start,
		EndDate:       end,
		RackCount:     doc.RackCount,
		Category:      domain.Category(doc.Category),
		AssignedRacks: racks,
		Status:        domain.Status(doc.Status),
		Version:       version,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}
