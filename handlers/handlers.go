package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/realtime"
	"storefront/internal/shop"
	"storefront/middleware"
	"storefront/pkg/ctxmanage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 64 * 1024

type handler struct {
	e        *shop.Engine
	k        *auth.Keys
	validate *validator.Validate
}

// API builds the gin engine. When k is nil the admin routes are open.
func API(cfg config.Config, k *auth.Keys, e *shop.Engine, hub *realtime.Hub) *gin.Engine {
	mode := cfg.GinMode
	if mode == gin.ReleaseMode || mode == gin.TestMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		panic(err)
	}

	h := &handler{e: e, k: k, validate: validator.New()}
	//apply middleware to all the endpoints using r.Use
	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)
	r.GET("/ws", gin.WrapF(hub.ServeWS))

	admin := func(next gin.HandlerFunc) gin.HandlerFunc { return next }
	var authn gin.HandlerFunc
	if k != nil {
		m, err := middleware.NewMid(k)
		if err != nil {
			panic(err)
		}
		authn = m.Authentication()
		admin = func(next gin.HandlerFunc) gin.HandlerFunc { return m.Authorize(next, auth.RoleAdmin) }
	}

	v1 := r.Group(cfg.EndpointPrefix)
	{
		v1.GET("/items", h.ListItems)
		v1.GET("/orders", h.ListOrders)
		v1.GET("/myorders", h.MyOrders)
		v1.GET("/summary", h.Summary)
		v1.POST("/order", h.SubmitOrder)
		v1.POST("/orders/:id/cancel", h.CancelOrder)
		v1.POST("/admin/login", h.Login)
	}

	gated := r.Group(cfg.EndpointPrefix)
	{
		if authn != nil {
			gated.Use(authn)
		}
		gated.POST("/addItem", admin(h.AddItem))
		gated.POST("/updateItem", admin(h.UpdateItem))
		gated.POST("/deleteItem", admin(h.DeleteItem))
		gated.POST("/orders/:id/approve", admin(h.ApproveOrder))
		gated.POST("/orders/:id/reject", admin(h.RejectOrder))
		gated.POST("/orders/clear", admin(h.ClearOrders))
	}

	r.NoRoute(fallback(cfg.EndpointPrefix, cfg.StaticDir))
	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong", "traceId": ctxmanage.GetTraceIdOfRequest(c)})
}

// fallback answers unknown API paths with JSON and everything else from the
// static directory, serving index.html for client-side routes.
func fallback(prefix, staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		if staticDir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": http.StatusText(http.StatusNotFound)})
			return
		}

		name := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+p)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}
		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": http.StatusText(http.StatusNotFound)})
			return
		}
		c.File(index)
	}
}
