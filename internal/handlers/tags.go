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

type TagHandler struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

type tagRequest struct {
	Name string `json:"name" validate:"required,min=3"`
}

func (h *TagHandler) GetStoreTags(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.Repo.StoreByID(ctx, storeID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Store not found")
		}
		return apperror.Internal("Could not fetch tags", err)
	}

	tags, err := h.Repo.StoreTags(ctx, storeID)
	if err != nil {
		return apperror.Internal("Could not fetch tags", err)
	}

	out := make([]tagResponse, 0, len(tags))
	for i := range tags {
		resp, err := buildTagResponse(ctx, h.Repo, &tags[i])
		if err != nil {
			return apperror.Internal("Could not fetch tags", err)
		}
		out = append(out, *resp)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *TagHandler) CreateTag(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(http.StatusBadRequest, "Bad Request", "invalid body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.Repo.StoreByID(ctx, storeID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Store not found")
		}
		return apperror.Internal("Could not create tag", err)
	}

	tag := models.Tag{Name: req.Name, StoreID: storeID}
	if err := h.Repo.CreateTag(ctx, &tag); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return apperror.Validation("Tag name already in use for store", map[string]any{"tag_name": req.Name})
		}
		return apperror.Internal("Could not create tag", err)
	}

	publish(c, h.Producer, events.TopicCatalogEvents, fmt.Sprint(tag.ID), map[string]any{
		"type":     "tag_created",
		"tag_id":   tag.ID,
		"store_id": tag.StoreID,
		"name":     tag.Name,
	})

	resp, err := buildTagResponse(ctx, h.Repo, &tag)
	if err != nil {
		return apperror.Internal("Could not create tag", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *TagHandler) GetTag(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	tag, err := h.Repo.TagByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Tag not found")
		}
		return apperror.Internal("Could not fetch tag", err)
	}

	resp, err := buildTagResponse(ctx, h.Repo, tag)
	if err != nil {
		return apperror.Internal("Could not fetch tag", err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteTag(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return apperror.NotFound("Tag not found")
		case errors.Is(err, repo.ErrTagInUse):
			return apperror.Validation("Cannot delete tag. Tag is in use by items", map[string]any{"tag_id": id})
		default:
			return apperror.Internal("Could not delete tag", err)
		}
	}

	publish(c, h.Producer, events.TopicCatalogEvents, fmt.Sprint(id), map[string]any{
		"type":   "tag_deleted",
		"tag_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}

// LinkTag links an item to a tag from the same store.
func (h *TagHandler) LinkTag(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := pathID(c, "tag_id")
	if err != nil {
		return err
	}

	item, err := h.Repo.ItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Item not found")
		}
		return apperror.Internal("Could not link item to tag", err)
	}
	tag, err := h.Repo.TagByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Tag not found")
		}
		return apperror.Internal("Could not link item to tag", err)
	}

	if item.StoreID != tag.StoreID {
		return apperror.Validation(
			"Could not link item to tag since they belong to different stores",
			map[string]any{"item_id": itemID, "tag_id": tagID},
		)
	}

	if err := h.Repo.LinkItemTag(ctx, itemID, tagID); err != nil {
		return apperror.Internal("Could not link item to tag", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *TagHandler) UnlinkTag(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := pathID(c, "tag_id")
	if err != nil {
		return err
	}

	if _, err := h.Repo.ItemByID(ctx, itemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Item not found")
		}
		return apperror.Internal("Could not unlink item from tag", err)
	}
	if _, err := h.Repo.TagByID(ctx, tagID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Tag not found")
		}
		return apperror.Internal("Could not unlink item from tag", err)
	}

	if err := h.Repo.UnlinkItemTag(ctx, itemID, tagID); err != nil {
		return apperror.Internal("Could not unlink item from tag", err)
	}

	return c.NoContent(http.StatusNoContent)
}
