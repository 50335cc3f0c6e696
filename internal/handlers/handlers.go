package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storedesk/storesapi/internal/apperror"
	"github.com/storedesk/storesapi/internal/events"
	"github.com/storedesk/storesapi/internal/logging"
	"github.com/storedesk/storesapi/internal/models"
	"github.com/storedesk/storesapi/internal/repo"
)

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type plainStore struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type plainItem struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type plainTag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type storeResponse struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Items []plainItem `json:"items"`
	Tags  []plainTag  `json:"tags"`
}

type itemResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Store       plainStore `json:"store"`
	Tags        []plainTag `json:"tags"`
}

type tagResponse struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Store plainStore  `json:"store"`
	Items []plainItem `json:"items"`
}

func toPlainItems(items []models.Item) []plainItem {
	out := make([]plainItem, len(items))
	for i, it := range items {
		out[i] = plainItem{ID: it.ID, Name: it.Name, Description: it.Description, Price: it.Price}
	}
	return out
}

func toPlainTags(tags []models.Tag) []plainTag {
	out := make([]plainTag, len(tags))
	for i, t := range tags {
		out[i] = plainTag{ID: t.ID, Name: t.Name}
	}
	return out
}

func buildStoreResponse(ctx context.Context, r *repo.GormRepo, store *models.Store) (*storeResponse, error) {
	items, err := r.StoreItems(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	tags, err := r.StoreTags(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return &storeResponse{
		ID:    store.ID,
		Name:  store.Name,
		Items: toPlainItems(items),
		Tags:  toPlainTags(tags),
	}, nil
}

func buildItemResponse(ctx context.Context, r *repo.GormRepo, item *models.Item) (*itemResponse, error) {
	store, err := r.StoreByID(ctx, item.StoreID)
	if err != nil {
		return nil, err
	}
	tags, err := r.ItemTags(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	return &itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Store:       plainStore{ID: store.ID, Name: store.Name},
		Tags:        toPlainTags(tags),
	}, nil
}

func buildTagResponse(ctx context.Context, r *repo.GormRepo, tag *models.Tag) (*tagResponse, error) {
	store, err := r.StoreByID(ctx, tag.StoreID)
	if err != nil {
		return nil, err
	}
	items, err := r.TagItems(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	return &tagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Store: plainStore{ID: store.ID, Name: store.Name},
		Items: toPlainItems(items),
	}, nil
}

func pathID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperror.New(http.StatusBadRequest, "Bad Request", "invalid "+name+" parameter", nil)
	}
	return uint(v), nil
}

func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish failed", "topic", topic, "error", err)
	}
}
