package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storedesk/storesapi/internal/handlers"
	"github.com/storedesk/storesapi/internal/middleware"
)

type Deps struct {
	Auth         *middleware.Auth
	AuthHandler  *handlers.AuthHandler
	StoreHandler *handlers.StoreHandler
	ItemHandler  *handlers.ItemHandler
	TagHandler   *handlers.TagHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.LogOut, d.Auth.RequireAuth)
	e.POST("/refresh", d.AuthHandler.Refresh, d.Auth.RequireRefresh)

	e.GET("/users/:id", d.AuthHandler.GetUser)
	e.DELETE("/users/:id", d.AuthHandler.DeleteUser, d.Auth.RequireAuth, d.Auth.RequireFresh)

	e.GET("/stores", d.StoreHandler.GetStores)
	e.POST("/stores", d.StoreHandler.CreateStore, d.Auth.RequireAuth)
	e.GET("/stores/:id", d.StoreHandler.GetStore)
	e.DELETE("/stores/:id", d.StoreHandler.DeleteStore, d.Auth.RequireAuth, d.Auth.RequireAdmin)

	e.GET("/items", d.ItemHandler.GetItems)
	e.POST("/items", d.ItemHandler.CreateItem, d.Auth.RequireAuth)
	e.GET("/items/search", d.ItemHandler.SearchItems)
	e.GET("/items/:id", d.ItemHandler.GetItem)
	e.PUT("/items/:id", d.ItemHandler.PutItem, d.Auth.RequireAuth)
	e.DELETE("/items/:id", d.ItemHandler.DeleteItem, d.Auth.RequireAuth, d.Auth.RequireAdmin)

	e.GET("/stores/:id/tags", d.TagHandler.GetStoreTags)
	e.POST("/stores/:id/tags", d.TagHandler.CreateTag, d.Auth.RequireAuth)
	e.GET("/tags/:id", d.TagHandler.GetTag)
	e.DELETE("/tags/:id", d.TagHandler.DeleteTag, d.Auth.RequireAuth)

	e.POST("/item/:id/tags/:tag_id", d.TagHandler.LinkTag, d.Auth.RequireAuth)
	e.DELETE("/item/:id/tags/:tag_id", d.TagHandler.UnlinkTag, d.Auth.RequireAuth)
}
