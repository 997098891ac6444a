package recipe

import (
	"errors"
	"net/http"

	"kerouma/internal/api/middleware"
	recipeService "kerouma/internal/core/recipe"
	"kerouma/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SavedHandler 已儲存食譜處理程序
type SavedHandler struct {
	store recipeService.SavedStore
}

// NewSavedHandler 創建已儲存食譜處理程序
func NewSavedHandler(store recipeService.SavedStore) *SavedHandler {
	return &SavedHandler{store: store}
}

// HandleSave 儲存一份食譜
func (h *SavedHandler) HandleSave(c *gin.Context) {
	callerID := middleware.CallerID(c)

	var recipe common.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil || recipe.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "recipe name is required",
			"code":  common.ErrCodeValidation,
		})
		return
	}

	id, err := h.store.SaveRecipe(c.Request.Context(), callerID, recipe)
	if err != nil {
		if errors.Is(err, recipeService.ErrDuplicateRecipe) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "recipe with this name is already saved",
				"code":  common.ErrCodeConflict,
			})
			return
		}
		respondError(c, err)
		return
	}

	common.LogInfo("食譜已儲存",
		zap.String("recipe_id", id),
		zap.String("recipe_name", recipe.Name),
	)

	c.JSON(http.StatusCreated, gin.H{
		"id": id,
	})
}

// HandleList 列出呼叫者儲存的食譜
func (h *SavedHandler) HandleList(c *gin.Context) {
	callerID := middleware.CallerID(c)

	recipes, err := h.store.ListSaved(c.Request.Context(), callerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// HandleDelete 刪除一份已儲存的食譜
func (h *SavedHandler) HandleDelete(c *gin.Context) {
	callerID := middleware.CallerID(c)
	recipeID := c.Param("id")

	if err := h.store.DeleteSaved(c.Request.Context(), callerID, recipeID); err != nil {
		if errors.Is(err, recipeService.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "saved recipe not found",
				"code":  common.ErrCodeNotFound,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": recipeID,
	})
}
