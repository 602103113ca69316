package handler

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"mart/internal/delivery/http/response"
	"mart/internal/domain/entity"
	"mart/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// maxImageSize caps uploaded product images at 5 MiB.
const maxImageSize = 5 << 20

// productView is the API projection of a product.
type productView struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductView(product *entity.Product) productView {
	return productView{
		ID:          product.ID,
		SellerID:    product.SellerID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toProductViews(products []*entity.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}

	return views
}

// CatalogHandler holds dependencies for catalog-related handlers.
type CatalogHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListProducts handles the public catalog listing.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductViews(products), "Products retrieved successfully")
}

// GetProduct handles fetching a single product by id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	product, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductView(product), "Product retrieved successfully")
}

// ListSellerProducts handles listing the authenticated seller's own products.
func (h *CatalogHandler) ListSellerProducts(c echo.Context) error {
	caller, ok := callerFromEchoContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	products, err := h.uc.ListSellerProducts(c.Request().Context(), caller)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductViews(products), "Products retrieved successfully")
}

// CreateProduct handles product creation from a multipart form with an
// optional image part.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	caller, ok := callerFromEchoContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	input, image, err := h.bindProductForm(c)
	if err != nil {
		return err
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), caller, input, image)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toProductView(product), "Product created successfully")
}

// UpdateProduct handles editing a product the caller owns.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	caller, ok := callerFromEchoContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	input, image, err := h.bindProductForm(c)
	if err != nil {
		return err
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), caller, id, input, image)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductView(product), "Product updated successfully")
}

// DeleteProduct handles removing a product the caller owns.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	caller, ok := callerFromEchoContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), caller, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": id.String()}, "Product deleted successfully")
}

// bindProductForm parses the multipart product form shared by create and update.
func (h *CatalogHandler) bindProductForm(c echo.Context) (*usecase.ProductInput, *usecase.ImageUpload, error) {
	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil {
		return nil, nil, response.BadRequest(c, "INVALID_INPUT", "Invalid price format")
	}

	stock := 0
	if stockValue := c.FormValue("stock"); stockValue != "" {
		stock, err = strconv.Atoi(stockValue)
		if err != nil {
			return nil, nil, response.BadRequest(c, "INVALID_INPUT", "Invalid stock value")
		}
	}

	input := &usecase.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		Stock:       stock,
	}

	image, err := h.readImagePart(c)
	if err != nil {
		return nil, nil, err
	}

	return input, image, nil
}

// readImagePart extracts the optional image file from the form.
func (h *CatalogHandler) readImagePart(c echo.Context) (*usecase.ImageUpload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		// Echo returns its own error when the request is not multipart.
		return nil, nil
	}

	if fileHeader.Size > maxImageSize {
		return nil, response.BadRequest(c, "INVALID_INPUT", "Image exceeds the maximum allowed size")
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &usecase.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(io.LimitReader(file, maxImageSize))
}
