package router

import (
	"github.com/oksasatya/sp-website-api/internal/container"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
)

func cookieManager(c *container.Container) *helpers.Manager {
	if !c.Config.CookieEnabled {
		return nil
	}
	return helpers.NewCookie(c.Config.CookieDomain, c.Config.CookieSecure)
}
