package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"formpilot/internal/model"
)

// FormCache caches public form documents to keep hot form views off Mongo
type FormCache interface {
	Set(ctx context.Context, form *model.Form) error
	Get(ctx context.Context, id string) (*model.Form, error)
	Delete(ctx context.Context, id string) error
}

type formCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFormCache creates a new form cache
func NewFormCache(client *redis.Client) FormCache {
	return &formCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func (c *formCache) Set(ctx context.Context, form *model.Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "form:"+form.ID, data, c.ttl).Err()
}

func (c *formCache) Get(ctx context.Context, id string) (*model.Form, error) {
	data, err := c.client.Get(ctx, "form:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var form model.Form
	if err := json.Unmarshal([]byte(data), &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *formCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "form:"+id).Err()
}
