package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storedesk/storesapi/internal/apperror"
	"github.com/storedesk/storesapi/internal/events"
	"github.com/storedesk/storesapi/internal/models"
	"github.com/storedesk/storesapi/internal/repo"
)

type StoreHandler struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

type storeRequest struct {
	Name string `json:"name" validate:"required,min=3"`
}

func (h *StoreHandler) GetStores(c echo.Context) error {
	ctx := c.Request().Context()

	stores, err := h.Repo.Stores(ctx)
	if err != nil {
		return apperror.Internal("Could not fetch stores", err)
	}

	out := make([]storeResponse, 0, len(stores))
	for i := range stores {
		resp, err := buildStoreResponse(ctx, h.Repo, &stores[i])
		if err != nil {
			return apperror.Internal("Could not fetch stores", err)
		}
		out = append(out, *resp)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) CreateStore(c echo.Context) error {
	ctx := c.Request().Context()

	var req storeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(http.StatusBadRequest, "Bad Request", "invalid body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	store := models.Store{Name: req.Name}
	if err := h.Repo.CreateStore(ctx, &store); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return apperror.Validation("Store name already in use", map[string]any{"name": req.Name})
		}
		return apperror.Internal("Could not create store", err)
	}

	publish(c, h.Producer, events.TopicCatalogEvents, fmt.Sprint(store.ID), map[string]any{
		"type":     "store_created",
		"store_id": store.ID,
		"name":     store.Name,
	})

	return c.JSON(http.StatusCreated, storeResponse{
		ID:    store.ID,
		Name:  store.Name,
		Items: []plainItem{},
		Tags:  []plainTag{},
	})
}

func (h *StoreHandler) GetStore(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	store, err := h.Repo.StoreByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Store not found")
		}
		return apperror.Internal("Could not fetch store", err)
	}

	resp, err := buildStoreResponse(ctx, h.Repo, store)
	if err != nil {
		return apperror.Internal("Could not fetch store", err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *StoreHandler) DeleteStore(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteStore(c.Request().Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Store not found")
		}
		return apperror.Internal("Could not delete store", err)
	}

	publish(c, h.Producer, events.TopicCatalogEvents, fmt.Sprint(id), map[string]any{
		"type":     "store_deleted",
		"store_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}
