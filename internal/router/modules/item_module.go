package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/sp-website-api/internal/interface/http"
)

type ItemModule struct {
	Handler *handlers.ItemHandler
}

func NewItemModule(h *handlers.ItemHandler) *ItemModule { return &ItemModule{Handler: h} }

func (m *ItemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/items", m.Handler.List)
	rg.GET("/items/:id", m.Handler.Get)
}
