package router

import (
	"sort"

	"github.com/oksasatya/sp-website-api/internal/container"
	handlers "github.com/oksasatya/sp-website-api/internal/interface/http"
	"github.com/oksasatya/sp-website-api/internal/interface/middleware"
	"github.com/oksasatya/sp-website-api/internal/router/modules"
)

// InitModules wires every feature module from the container. Call once at startup.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	rdb := c.RateLimiter()

	var allow middleware.AllowFunc
	if cfg.IsDevelopment() {
		allow = middleware.AllowPrivateIP()
	}

	checks := c.HealthChecks()
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	pingers := make([]handlers.Pinger, 0, len(names))
	for _, name := range names {
		pingers = append(pingers, handlers.Pinger{Name: name, Ping: checks[name]})
	}

	cookies := cookieManager(c)

	r.Add(modules.NewSystemModule(handlers.NewSystemHandler(cfg.AppName, pingers...)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Logger, cookies), c.Resolver, rdb, allow))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Users, c.Logger), c.Resolver, rdb))
	r.Add(modules.NewItemModule(handlers.NewItemHandler()))
	if cfg.Debug {
		r.Add(modules.NewDebugModule(rdb))
	}
}
