package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	keyPrefix     = "availability"
	generationKey = keyPrefix + ":gen"
)

// Cache read-through кэш выборок доступности
// Ключи содержат номер поколения; любая запись увеличивает поколение, и старые ключи
// перестают читаться, а затем истекают по TTL
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш поверх клиента Redis
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

type cachedAvailability struct {
	ID         int64             `json:"id"`
	ProviderID string            `json:"providerId"`
	Date       string            `json:"date"`
	TimeSlots  []domain.TimeSlot `json:"timeSlots"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Get возвращает закэшированную выборку и поколение, под которым её искали; found=false, если ключа нет
// При промахе вызывающий передаёт это поколение в Set: данные, прочитанные до записи, не попадут под новое поколение
func (c *Cache) Get(ctx context.Context, filter domain.AvailabilityFilter) (list []*domain.Availability, gen int64, found bool, err error) {
	gen, err = c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, listKey(gen, filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: Get: %v", ErrCacheUnavailable, err)
	}

	var cached []cachedAvailability
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, 0, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	result := make([]*domain.Availability, 0, len(cached))
	for _, item := range cached {
		date, err := time.Parse(domain.DateFormat, item.Date)
		if err != nil {
			return nil, 0, false, fmt.Errorf("%w: date %q: %v", ErrDecode, item.Date, err)
		}
		result = append(result, &domain.Availability{
			ID:         item.ID,
			ProviderID: item.ProviderID,
			Date:       date,
			TimeSlots:  item.TimeSlots,
			CreatedAt:  item.CreatedAt,
			UpdatedAt:  item.UpdatedAt,
		})
	}

	return result, gen, true, nil
}

// Set кладёт выборку в кэш на ttl под поколением gen, полученным из Get
func (c *Cache) Set(ctx context.Context, filter domain.AvailabilityFilter, gen int64, list []*domain.Availability) error {
	cached := make([]cachedAvailability, 0, len(list))
	for _, a := range list {
		cached = append(cached, cachedAvailability{
			ID:         a.ID,
			ProviderID: a.ProviderID,
			Date:       a.Date.Format(domain.DateFormat),
			TimeSlots:  a.TimeSlots,
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
		})
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrDecode, err)
	}

	if err := c.client.Set(ctx, listKey(gen, filter), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Invalidate сбрасывает все выборки, увеличивая поколение
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (c *Cache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w: generation: %v", ErrCacheUnavailable, err)
	}
	return gen, nil
}

// listKey кодирует фильтр однозначно: отсутствующее поле - "~", заданное - "=" и экранированное значение
func listKey(gen int64, filter domain.AvailabilityFilter) string {
	provider := "p~"
	if filter.ProviderID != nil {
		provider = "p=" + url.QueryEscape(*filter.ProviderID)
	}
	date := "d~"
	if filter.Date != nil {
		date = "d=" + filter.Date.Format(domain.DateFormat)
	}

	return keyPrefix + ":list:" + strconv.FormatInt(gen, 10) + ":" + provider + ":" + date
}
