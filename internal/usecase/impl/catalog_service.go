package impl

import (
	"context"
	"log/slog"
	"path"
	"strings"

	deliverycontext "mart/internal/delivery/context"
	"mart/internal/domain/constants"
	"mart/internal/domain/entity"
	domainerrors "mart/internal/domain/errors"
	"mart/internal/domain/repository"
	"mart/internal/domain/service"
	"mart/internal/usecase"
	"mart/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo repository.ProductRepository
	storage     service.ObjectStorage
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Storage     service.ObjectStorage
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		productRepo: params.ProductRepo,
		storage:     params.Storage,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns the public catalog.
func (srv *catalogService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct returns a single product by id.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domainerrors.ErrProductNotFound.WrapMessage("product does not exist")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product")
	}

	return product, nil
}

// ListSellerProducts returns the caller's own products.
func (srv *catalogService) ListSellerProducts(ctx context.Context, caller usecase.Caller) ([]*entity.Product, error) {
	if !caller.IsSeller {
		return nil, domainerrors.ErrForbidden.WrapMessage("caller does not have the seller role")
	}

	products, err := srv.productRepo.ListBySeller(ctx, caller.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list seller products")
	}

	return products, nil
}

// CreateProduct creates a product owned by the caller. The image, when
// present, is uploaded before the record is written; a failed write cleans
// the uploaded object up again.
func (srv *catalogService) CreateProduct(ctx context.Context, caller usecase.Caller, input *usecase.ProductInput, image *usecase.ImageUpload) (*entity.Product, error) {
	if !caller.IsSeller {
		return nil, domainerrors.ErrForbidden.WrapMessage("caller does not have the seller role")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var imageURL, imageKey string
	if image != nil {
		var err error
		imageKey, imageURL, err = srv.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
	}

	product := &entity.Product{
		SellerID:    caller.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    imageURL,
	}
	if err := srv.productRepo.Create(ctx, product); err != nil {
		if imageKey != "" {
			srv.deleteImage(ctx, imageKey)
		}

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created",
		slog.Any("productID", product.ID),
		slog.Any("sellerID", caller.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// UpdateProduct edits a product the caller owns. A nil image keeps the
// existing image URL; a new image replaces the stored object.
func (srv *catalogService) UpdateProduct(ctx context.Context, caller usecase.Caller, id uuid.UUID, input *usecase.ProductInput, image *usecase.ImageUpload) (*entity.Product, error) {
	product, err := srv.ownedProduct(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	oldImageKey := objectKeyFromURL(product.ImageURL)
	if image != nil {
		_, newURL, err := srv.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = newURL
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock

	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("product disappeared during update")
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	if image != nil && oldImageKey != "" {
		srv.deleteImage(ctx, oldImageKey)
	}

	srv.log(ctx).Info("Product updated", slog.Any("productID", product.ID), slog.Any("sellerID", caller.ID))

	return product, nil
}

// DeleteProduct removes a product the caller owns along with its stored image.
func (srv *catalogService) DeleteProduct(ctx context.Context, caller usecase.Caller, id uuid.UUID) error {
	product, err := srv.ownedProduct(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound.WrapMessage("product disappeared during delete")
		}

		return errors.Wrap(err, "failed to delete product")
	}

	if key := objectKeyFromURL(product.ImageURL); key != "" {
		srv.deleteImage(ctx, key)
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", product.ID), slog.Any("sellerID", caller.ID))

	return nil
}

// ownedProduct loads the product and enforces the ownership invariant
// behind every catalog mutation.
func (srv *catalogService) ownedProduct(ctx context.Context, caller usecase.Caller, id uuid.UUID) (*entity.Product, error) {
	if !caller.IsSeller {
		return nil, domainerrors.ErrForbidden.WrapMessage("caller does not have the seller role")
	}

	product, err := srv.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domainerrors.ErrProductNotFound.WrapMessage("product does not exist")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product")
	}
	if product.SellerID != caller.ID {
		return nil, domainerrors.ErrProductOwnershipViolation.WrapMessage("product belongs to another seller")
	}

	return product, nil
}

func (srv *catalogService) uploadImage(ctx context.Context, image *usecase.ImageUpload) (key, url string, err error) {
	key = constants.ProductImagePrefix + uuid.New().String() + strings.ToLower(path.Ext(image.Filename))

	url, err = srv.storage.Upload(ctx, key, image.Data, image.ContentType)
	if err != nil {
		srv.log(ctx).Error("Image upload failed", slog.String("key", key), slog.Any("error", err))

		return "", "", domainerrors.ErrImageUploadFailed.WrapMessage("failed to upload product image")
	}

	srv.log(ctx).Debug("Image uploaded",
		slog.String("key", key),
		slog.String("size", util.FormatBytes(int64(len(image.Data)))),
	)

	return key, url, nil
}

// deleteImage removes a stored image object. Best-effort: a leftover
// object is preferable to failing the catalog mutation.
func (srv *catalogService) deleteImage(ctx context.Context, key string) {
	if err := srv.storage.Delete(ctx, key); err != nil {
		srv.log(ctx).Warn("Failed to delete image object", slog.String("key", key), slog.Any("error", err))
	}
}

func validateProductInput(input *usecase.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("product name is required")
	}
	if input.Price.IsNegative() {
		return domainerrors.ErrValidationFailed.WrapMessage("price must not be negative")
	}
	if input.Stock < 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("stock must not be negative")
	}

	return nil
}

// objectKeyFromURL recovers the storage key from a stored public URL.
// Returns "" when the URL does not reference the product image prefix.
func objectKeyFromURL(url string) string {
	idx := strings.Index(url, constants.ProductImagePrefix)
	if idx < 0 {
		return ""
	}

	return url[idx:]
}
