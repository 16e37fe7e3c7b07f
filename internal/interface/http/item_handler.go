package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sp-website-api/pkg/response"
)

// ItemHandler serves the placeholder catalogue.
type ItemHandler struct{}

func NewItemHandler() *ItemHandler { return &ItemHandler{} }

type item struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

func (h *ItemHandler) List(c *gin.Context) {
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"items": []item{}}, "ok", nil))
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid id", map[string]string{"id": "must be an integer"}))
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, item{ItemID: id, Name: fmt.Sprintf("Item %d", id)}, "ok", nil))
}
