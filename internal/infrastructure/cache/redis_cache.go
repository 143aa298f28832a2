// Package cache caché de listados del catálogo en Redis. Cada negocio tiene un contador de generación;
// invalidar es incrementarlo, con lo que las claves viejas dejan de leerse y expiran por TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
)

var _ ports.CatalogCache = (*RedisCatalogCache)(nil)

// NewRedis crea el cliente y valida la conexión al arrancar.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisCatalogCache implementa ports.CatalogCache. Los errores de Redis se registran y se tratan
// como miss; nunca llegan al caso de uso.
type RedisCatalogCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
	log zerolog.Logger
}

// NewRedisCatalogCache construye la caché. ttl <= 0 usa un minuto.
func NewRedisCatalogCache(rdb redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *RedisCatalogCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCatalogCache{rdb: rdb, ttl: ttl, log: log}
}

func generationKey(businessID string) string {
	return "catalog:gen:" + businessID
}

func listKey(businessID string, generation int64, key string) string {
	return fmt.Sprintf("catalog:list:%s:%d:%s", businessID, generation, key)
}

func (c *RedisCatalogCache) generation(ctx context.Context, businessID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(businessID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList busca el listado en la generación vigente del negocio.
func (c *RedisCatalogCache) GetList(ctx context.Context, businessID, key string) (*dto.ProductListResponse, bool) {
	gen, err := c.generation(ctx, businessID)
	if err != nil {
		c.log.Warn().Err(err).Str("business_id", businessID).Msg("cache: leer generación")
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, listKey(businessID, gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("business_id", businessID).Msg("cache: leer listado")
		}
		return nil, false
	}
	var out dto.ProductListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn().Err(err).Str("business_id", businessID).Msg("cache: listado corrupto")
		return nil, false
	}
	return &out, true
}

// SetList guarda el listado en la generación vigente, con TTL.
func (c *RedisCatalogCache) SetList(ctx context.Context, businessID, key string, list *dto.ProductListResponse) {
	gen, err := c.generation(ctx, businessID)
	if err != nil {
		c.log.Warn().Err(err).Str("business_id", businessID).Msg("cache: leer generación")
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache: serializar listado")
		return
	}
	if err := c.rdb.Set(ctx, listKey(businessID, gen, key), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("business_id", businessID).Msg("cache: guardar listado")
	}
}

// Invalidate pasa el negocio a una nueva generación.
func (c *RedisCatalogCache) Invalidate(ctx context.Context, businessID string) {
	if err := c.rdb.Incr(ctx, generationKey(businessID)).Err(); err != nil {
		c.log.Error().Err(err).Str("business_id", businessID).Msg("cache: invalidar catálogo")
	}
}
