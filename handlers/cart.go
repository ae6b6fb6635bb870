package handlers

import (
	"context"
	"net/http"

	"storefront-backend/dtos"
	"storefront-backend/merch"
	"storefront-backend/middleware"
	"storefront-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB  *gorm.DB
	Log logrus.FieldLogger
}

// loadCart returns the user's cart, leaving out lines whose product was
// removed or deactivated since it was added.
func (h *CartHandler) loadCart(ctx context.Context, userID uuid.UUID) (dtos.CartView, error) {
	var cartItems []models.CartItem
	if err := h.DB.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).Order("created_at ASC").Find(&cartItems).Error; err != nil {
		return dtos.CartView{}, err
	}

	available := make([]models.CartItem, 0, len(cartItems))
	for _, item := range cartItems {
		if item.Product.ID != uuid.Nil && item.Product.IsActive {
			available = append(available, item)
		}
	}
	return dtos.NewCartView(available), nil
}

func (h *CartHandler) respondCart(c *gin.Context, userID uuid.UUID) {
	cart, err := h.loadCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.respondCart(c, userID)
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dtos.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	// Check if product exists
	var product models.Product
	if err := db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// Check stock
	if product.Stock < req.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
		return
	}

	// Check if item already in cart
	var cartItem models.CartItem
	err := db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&cartItem).Error

	if err == nil {
		cartItem.Quantity = merch.ReconcileQuantity(cartItem.Quantity, req.Quantity, product.Stock)
		err = db.Save(&cartItem).Error
	} else {
		cartItem = models.CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  merch.ReconcileQuantity(0, req.Quantity, product.Stock),
		}
		err = db.Create(&cartItem).Error
	}
	if err != nil {
		respondError(c, h.Log, err, "Failed to update cart")
		return
	}

	h.respondCart(c, userID)
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")
	var req dtos.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	var cartItem models.CartItem
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&cartItem).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	// Check stock
	var product models.Product
	if err := db.Where("id = ?", cartItem.ProductID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if product.Stock < req.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
		return
	}

	cartItem.Quantity = req.Quantity
	if err := db.Save(&cartItem).Error; err != nil {
		respondError(c, h.Log, err, "Failed to update cart")
		return
	}

	h.respondCart(c, userID)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")
	if err := h.DB.WithContext(c.Request.Context()).Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{}).Error; err != nil {
		respondError(c, h.Log, err, "Failed to remove item from cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		respondError(c, h.Log, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
