package handlers

import (
	"net/http"
	"strconv"

	"storefront-backend/dtos"
	"storefront-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB      *gorm.DB
	Landing *Landing
	Log     logrus.FieldLogger
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	var products []models.Product
	query := h.DB.WithContext(c.Request.Context()).Where("is_active = ?", true)

	// Search by name
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		respondError(c, h.Log, err, "Failed to fetch products")
		return
	}

	views := dtos.NewProductViews(products)

	// Discounts are derived, so the on_sale filter runs after the query
	if c.Query("on_sale") == "true" {
		onSale := make([]dtos.ProductView, 0, len(views))
		for _, v := range views {
			if v.HasDiscount {
				onSale = append(onSale, v)
			}
		}
		views = onSale
	}

	c.JSON(http.StatusOK, views)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.WithContext(c.Request.Context()).Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, dtos.NewProductView(product))
}

// GetProductsPaginated lists every product, inactive ones included, for the admin console.
func (h *ProductHandler) GetProductsPaginated(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var products []models.Product
	var total int64

	query := h.DB.WithContext(c.Request.Context()).Model(&models.Product{})

	// Search by name
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	// Session lets the count and the page query share conditions
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		respondError(c, h.Log, err, "Failed to fetch products")
		return
	}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		respondError(c, h.Log, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": dtos.NewProductViews(products),
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dtos.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	var product models.Product
	req.Apply(&product)

	if err := h.DB.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		respondError(c, h.Log, err, "Failed to create product")
		return
	}

	h.Landing.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, dtos.NewProductView(product))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req dtos.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Apply(&product)

	if err := db.Save(&product).Error; err != nil {
		respondError(c, h.Log, err, "Failed to update product")
		return
	}

	h.Landing.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, dtos.NewProductView(product))
}

// DeleteProduct soft-deletes the product and drops it from every cart. Event
// listings skip it from then on.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		respondError(c, h.Log, err, "Failed to delete product")
		return
	}

	h.Landing.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
