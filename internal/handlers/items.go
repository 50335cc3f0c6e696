package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storedesk/storesapi/internal/apperror"
	"github.com/storedesk/storesapi/internal/events"
	"github.com/storedesk/storesapi/internal/logging"
	"github.com/storedesk/storesapi/internal/models"
	"github.com/storedesk/storesapi/internal/repo"
	"github.com/storedesk/storesapi/internal/search"
	"github.com/storedesk/storesapi/internal/util"
)

type ItemHandler struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Search   *search.Client
}

type itemCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	StoreID     uint    `json:"store_id" validate:"required"`
}

type itemUpdateRequest struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	StoreID     uint    `json:"store_id"`
}

func (h *ItemHandler) index(c echo.Context, item models.Item) {
	if err := h.Search.IndexItem(c.Request().Context(), item); err != nil {
		logging.FromContext(c.Request().Context()).Error("item index failed", "item_id", item.ID, "error", err)
	}
}

func (h *ItemHandler) GetItems(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Repo.Items(ctx)
	if err != nil {
		return apperror.Internal("Could not fetch items", err)
	}

	out := make([]itemResponse, 0, len(items))
	for i := range items {
		resp, err := buildItemResponse(ctx, h.Repo, &items[i])
		if err != nil {
			return apperror.Internal("Could not fetch items", err)
		}
		out = append(out, *resp)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req itemCreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(http.StatusBadRequest, "Bad Request", "invalid body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.Repo.StoreByID(ctx, req.StoreID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Store not found")
		}
		return apperror.Internal("Could not create item", err)
	}

	item := models.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		StoreID:     req.StoreID,
	}
	if err := h.Repo.CreateItem(ctx, &item); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return apperror.Validation("Item name already in use for store", map[string]any{"item_name": req.Name})
		}
		return apperror.Internal("Could not create item", err)
	}

	h.index(c, item)
	publish(c, h.Producer, events.TopicCatalogEvents, fmt.Sprint(item.ID), map[string]any{
		"type":     "item_created",
		"item_id":  item.ID,
		"store_id": item.StoreID,
		"name":     item.Name,
	})

	resp, err := buildItemResponse(ctx, h.Repo, &item)
	if err != nil {
		return apperror.Internal("Could not create item", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.Repo.ItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Item not found")
		}
		return apperror.Internal("Could not fetch item", err)
	}

	resp, err := buildItemResponse(ctx, h.Repo, item)
	if err != nil {
		return apperror.Internal("Could not fetch item", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PutItem updates name, description and price of an existing item. When the
// id is unknown the payload is treated as a create, which then requires
// store_id.
func (h *ItemHandler) PutItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req itemUpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(http.StatusBadRequest, "Bad Request", "invalid body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.Repo.ItemByID(ctx, id)
	switch {
	case err == nil:
		item.Name = req.Name
		item.Description = req.Description
		item.Price = req.Price
		if err := h.Repo.SaveItem(ctx, item); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return apperror.Validation("Item name already in use for store", map[string]any{"item_name": req.Name})
			}
			return apperror.Internal("Could not update item", err)
		}

	case errors.Is(err, repo.ErrNotFound):
		if req.StoreID == 0 {
			return apperror.Validation("store_id is required to create an item", nil)
		}
		if _, err := h.Repo.StoreByID(ctx, req.StoreID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return apperror.NotFound("Store not found")
			}
			return apperror.Internal("Could not create item", err)
		}
		item = &models.Item{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			StoreID:     req.StoreID,
		}
		if err := h.Repo.CreateItem(ctx, item); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return apperror.Validation("Item name already in use for store", map[string]any{"item_name": req.Name})
			}
			return apperror.Internal("Could not create item", err)
		}

	default:
		return apperror.Internal("Could not update item", err)
	}

	h.index(c, *item)

	resp, err := buildItemResponse(ctx, h.Repo, item)
	if err != nil {
		return apperror.Internal("Could not update item", err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteItem(c.Request().Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Item not found")
		}
		return apperror.Internal("Could not delete item", err)
	}

	if err := h.Search.DeleteItem(c.Request().Context(), id); err != nil {
		logging.FromContext(c.Request().Context()).Error("item deindex failed", "item_id", id, "error", err)
	}
	publish(c, h.Producer, events.TopicCatalogEvents, fmt.Sprint(id), map[string]any{
		"type":    "item_deleted",
		"item_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *ItemHandler) SearchItems(c echo.Context) error {
	if !h.Search.Enabled() {
		return apperror.New(http.StatusServiceUnavailable, "Service Unavailable", "Search is not configured", nil)
	}

	q := c.QueryParam("q")
	if q == "" {
		return apperror.New(http.StatusBadRequest, "Bad Request", "missing query parameter q", nil)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, items, err := h.Search.Search(c.Request().Context(), q, from, limit)
	if err != nil {
		return apperror.Internal("Could not search items", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "items": items})
}
