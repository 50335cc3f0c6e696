package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	env := newTestEnv(t)
	access := env.adminToken()

	storeID := env.createStore(access, "Books")

	rec := env.do(http.MethodPost, "/stores", access, map[string]string{"name": "Books"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Store name already in use", env.decode(rec)["message"])

	rec = env.do(http.MethodGet, fmt.Sprintf("/stores/%d", storeID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := env.decode(rec)
	require.Equal(t, "Books", body["name"])
	require.Empty(t, body["items"])
	require.Empty(t, body["tags"])

	rec = env.do(http.MethodGet, "/stores/999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Store not found", env.decode(rec)["message"])

	rec = env.do(http.MethodDelete, fmt.Sprintf("/stores/%d", storeID), access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, fmt.Sprintf("/stores/%d", storeID), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemNameUniquePerStore(t *testing.T) {
	env := newTestEnv(t)
	access := env.adminToken()

	books := env.createStore(access, "Books")
	tools := env.createStore(access, "Tools")

	env.createItem(access, "Pen", 1.50, books)

	// same name in the same store fails
	rec := env.do(http.MethodPost, "/items", access, map[string]any{
		"name":     "Pen",
		"price":    2.00,
		"store_id": books,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Item name already in use for store", env.decode(rec)["message"])

	// same name in a different store succeeds
	env.createItem(access, "Pen", 1.50, tools)
}

func TestItemValidation(t *testing.T) {
	env := newTestEnv(t)
	access := env.adminToken()
	books := env.createStore(access, "Books")

	// zero price rejected
	rec := env.do(http.MethodPost, "/items", access, map[string]any{
		"name":     "Pen",
		"price":    0,
		"store_id": books,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// unknown store
	rec = env.do(http.MethodPost, "/items", access, map[string]any{
		"name":     "Pen",
		"price":    1.50,
		"store_id": 999,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemUpdate(t *testing.T) {
	env := newTestEnv(t)
	access := env.adminToken()
	books := env.createStore(access, "Books")
	penID := env.createItem(access, "Pen", 1.50, books)
	env.createItem(access, "Notebook", 3.00, books)

	rec := env.do(http.MethodPut, fmt.Sprintf("/items/%d", penID), access, map[string]any{
		"name":  "Fountain Pen",
		"price": 9.99,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := env.decode(rec)
	require.Equal(t, "Fountain Pen", body["name"])
	require.Equal(t, 9.99, body["price"])

	// renaming onto an existing item in the same store fails
	rec = env.do(http.MethodPut, fmt.Sprintf("/items/%d", penID), access, map[string]any{
		"name":  "Notebook",
		"price": 1.00,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// unknown id with store_id creates
	rec = env.do(http.MethodPut, "/items/999", access, map[string]any{
		"name":     "Eraser",
		"price":    0.50,
		"store_id": books,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// unknown id without store_id cannot create
	rec = env.do(http.MethodPut, "/items/998", access, map[string]any{
		"name":  "Ruler",
		"price": 0.75,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestItemDeleteRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	adminAccess := env.adminToken()
	env.register("alice", "password123")
	aliceAccess, _ := env.login("alice", "password123")

	books := env.createStore(adminAccess, "Books")
	penID := env.createItem(adminAccess, "Pen", 1.50, books)

	rec := env.do(http.MethodDelete, fmt.Sprintf("/items/%d", penID), aliceAccess, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/items/%d", penID), adminAccess, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTagLifecycle(t *testing.T) {
	env := newTestEnv(t)
	access := env.adminToken()

	books := env.createStore(access, "Books")
	tools := env.createStore(access, "Tools")
	penID := env.createItem(access, "Pen", 1.50, books)
	tagID := env.createTag(access, "stationery", books)
	otherTag := env.createTag(access, "hardware", tools)

	// duplicate tag name per store
	rec := env.do(http.MethodPost, fmt.Sprintf("/stores/%d/tags", books), access, map[string]string{"name": "stationery"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Tag name already in use for store", env.decode(rec)["message"])

	// linking across stores fails
	rec = env.do(http.MethodPost, fmt.Sprintf("/item/%d/tags/%d", penID, otherTag), access, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(http.MethodPost, fmt.Sprintf("/item/%d/tags/%d", penID, tagID), access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// item response now carries the tag
	rec = env.do(http.MethodGet, fmt.Sprintf("/items/%d", penID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "stationery")

	// a linked tag cannot be deleted
	rec = env.do(http.MethodDelete, fmt.Sprintf("/tags/%d", tagID), access, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Cannot delete tag. Tag is in use by items", env.decode(rec)["message"])

	rec = env.do(http.MethodDelete, fmt.Sprintf("/item/%d/tags/%d", penID, tagID), access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/tags/%d", tagID), access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestStoreDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	access := env.adminToken()

	books := env.createStore(access, "Books")
	penID := env.createItem(access, "Pen", 1.50, books)
	tagID := env.createTag(access, "stationery", books)

	rec := env.do(http.MethodPost, fmt.Sprintf("/item/%d/tags/%d", penID, tagID), access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/stores/%d", books), access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, fmt.Sprintf("/items/%d", penID), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(http.MethodGet, fmt.Sprintf("/tags/%d", tagID), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchUnavailableWithoutBackend(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/items/search?q=pen", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
