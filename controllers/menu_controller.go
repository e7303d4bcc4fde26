package controllers

import (
	"strconv"

	"github.com/humamchoudhary/burgnice-backend/pkg/resp"
	"github.com/humamchoudhary/burgnice-backend/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuController struct {
	Menu *repository.MenuRepository
}

func NewMenuController(menu *repository.MenuRepository) *MenuController {
	return &MenuController{Menu: menu}
}

// GET /api/menu?available=true
func (mc *MenuController) List(c *gin.Context) {
	onlyAvailable := c.DefaultQuery("available", "true") != "false"
	items, err := mc.Menu.List(onlyAvailable)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /api/menu/:id
func (mc *MenuController) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "Invalid menu item ID")
		return
	}
	item, err := mc.Menu.FindByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			resp.NotFound(c, "Menu item not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, item)
}

// GET /api/menu/category/:id
func (mc *MenuController) ListByCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "Invalid category ID")
		return
	}
	items, err := mc.Menu.ListByCategory(uint(id))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /api/categories
func (mc *MenuController) Categories(c *gin.Context) {
	cats, err := mc.Menu.ListCategories()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, cats)
}
