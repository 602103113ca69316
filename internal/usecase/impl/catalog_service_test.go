package impl

import (
	"context"
	"strings"
	"testing"

	"mart/internal/domain/constants"
	"mart/internal/domain/entity"
	domainerrors "mart/internal/domain/errors"
	"mart/internal/domain/repository"
	mockRepo "mart/internal/mocks/repository"
	mockSvc "mart/internal/mocks/service"
	"mart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// catalogServiceFixtures holds all test dependencies for catalog service tests.
type catalogServiceFixtures struct {
	service     usecase.CatalogUsecase
	productRepo *mockRepo.MockProductRepository
	storage     *mockSvc.MockObjectStorage
}

func createTestCatalogService(t *testing.T) catalogServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	storage := mockSvc.NewMockObjectStorage(t)

	service := NewCatalogService(CatalogServiceParams{
		ProductRepo: productRepo,
		Storage:     storage,
		Logger:      newDiscardLogger(),
	})

	return catalogServiceFixtures{
		service:     service,
		productRepo: productRepo,
		storage:     storage,
	}
}

func sellerCaller() usecase.Caller {
	return usecase.Caller{ID: uuid.New(), IsSeller: true}
}

func isProductImageKey(key string) bool {
	return strings.HasPrefix(key, constants.ProductImagePrefix)
}

func TestCatalogService_CreateProduct_Success(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()
	input := &usecase.ProductInput{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, brown switches",
		Price:       decimal.RequireFromString("79.90"),
		Stock:       10,
	}
	image := &usecase.ImageUpload{
		Filename:    "keyboard.PNG",
		ContentType: "image/png",
		Data:        []byte("fake image bytes"),
	}

	fx.storage.EXPECT().
		Upload(ctx, mock.MatchedBy(func(key string) bool {
			return isProductImageKey(key) && strings.HasSuffix(key, ".png")
		}), image.Data, "image/png").
		RunAndReturn(func(ctx context.Context, key string, data []byte, contentType string) (string, error) {
			return "https://cdn.example.com/" + key, nil
		})

	fx.productRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(ctx context.Context, product *entity.Product) {
			product.ID = uuid.New()
		}).
		Return(nil)

	product, err := fx.service.CreateProduct(ctx, caller, input, image)

	require.NoError(t, err)
	assert.Equal(t, caller.ID, product.SellerID)
	assert.Equal(t, input.Name, product.Name)
	assert.True(t, product.Price.Equal(input.Price))
	assert.Equal(t, 10, product.Stock)
	assert.Contains(t, product.ImageURL, constants.ProductImagePrefix)
}

func TestCatalogService_CreateProduct_NonSellerForbidden(t *testing.T) {
	fx := createTestCatalogService(t)

	caller := usecase.Caller{ID: uuid.New(), IsBuyer: true}

	product, err := fx.service.CreateProduct(context.Background(), caller, &usecase.ProductInput{
		Name:  "Lamp",
		Price: decimal.RequireFromString("5.00"),
	}, nil)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestCatalogService_CreateProduct_Validation(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()

	cases := []struct {
		name  string
		input *usecase.ProductInput
	}{
		{name: "empty name", input: &usecase.ProductInput{Name: "   ", Price: decimal.RequireFromString("1.00")}},
		{name: "negative price", input: &usecase.ProductInput{Name: "Lamp", Price: decimal.RequireFromString("-0.01")}},
		{name: "negative stock", input: &usecase.ProductInput{Name: "Lamp", Price: decimal.RequireFromString("1.00"), Stock: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product, err := fx.service.CreateProduct(ctx, caller, tc.input, nil)

			require.Error(t, err)
			assert.Nil(t, product)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestCatalogService_CreateProduct_RepoFailureCleansUpImage(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()
	image := &usecase.ImageUpload{Filename: "lamp.jpg", ContentType: "image/jpeg", Data: []byte("bytes")}

	var uploadedKey string
	fx.storage.EXPECT().
		Upload(ctx, mock.MatchedBy(isProductImageKey), image.Data, "image/jpeg").
		RunAndReturn(func(ctx context.Context, key string, data []byte, contentType string) (string, error) {
			uploadedKey = key

			return "https://cdn.example.com/" + key, nil
		})

	fx.productRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Product")).
		Return(errors.New("database down"))

	fx.storage.EXPECT().
		Delete(ctx, mock.MatchedBy(func(key string) bool { return key == uploadedKey })).
		Return(nil)

	product, err := fx.service.CreateProduct(ctx, caller, &usecase.ProductInput{
		Name:  "Lamp",
		Price: decimal.RequireFromString("5.00"),
		Stock: 1,
	}, image)

	require.Error(t, err)
	assert.Nil(t, product)
}

func TestCatalogService_CreateProduct_UploadFailure(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()
	image := &usecase.ImageUpload{Filename: "lamp.jpg", ContentType: "image/jpeg", Data: []byte("bytes")}

	fx.storage.EXPECT().
		Upload(ctx, mock.MatchedBy(isProductImageKey), image.Data, "image/jpeg").
		Return("", errors.New("bucket unreachable"))

	product, err := fx.service.CreateProduct(ctx, caller, &usecase.ProductInput{
		Name:  "Lamp",
		Price: decimal.RequireFromString("5.00"),
	}, image)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrImageUploadFailed))
}

func TestCatalogService_UpdateProduct_ReplacesImage(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()
	productID := uuid.New()
	oldKey := constants.ProductImagePrefix + uuid.New().String() + ".png"

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{
			ID:       productID,
			SellerID: caller.ID,
			Name:     "Lamp",
			Price:    decimal.RequireFromString("5.00"),
			Stock:    3,
			ImageURL: "https://cdn.example.com/" + oldKey,
		}, nil)

	fx.storage.EXPECT().
		Upload(ctx, mock.MatchedBy(isProductImageKey), mock.Anything, "image/webp").
		RunAndReturn(func(ctx context.Context, key string, data []byte, contentType string) (string, error) {
			return "https://cdn.example.com/" + key, nil
		})

	fx.productRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Product")).
		Return(nil)

	fx.storage.EXPECT().Delete(ctx, oldKey).Return(nil)

	updated, err := fx.service.UpdateProduct(ctx, caller, productID, &usecase.ProductInput{
		Name:  "Desk Lamp",
		Price: decimal.RequireFromString("6.50"),
		Stock: 2,
	}, &usecase.ImageUpload{Filename: "lamp2.webp", ContentType: "image/webp", Data: []byte("new bytes")})

	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("6.50")))
	assert.NotContains(t, updated.ImageURL, oldKey)
}

func TestCatalogService_UpdateProduct_OwnershipViolation(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{
			ID:       productID,
			SellerID: uuid.New(), // someone else's product
			Name:     "Lamp",
			Price:    decimal.RequireFromString("5.00"),
		}, nil)

	updated, err := fx.service.UpdateProduct(ctx, caller, productID, &usecase.ProductInput{
		Name:  "Hijacked",
		Price: decimal.RequireFromString("1.00"),
	}, nil)

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrProductOwnershipViolation))
}

func TestCatalogService_UpdateProduct_VanishedBetweenReadAndWrite(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{
			ID:       productID,
			SellerID: caller.ID,
			Name:     "Lamp",
			Price:    decimal.RequireFromString("5.00"),
		}, nil)

	// Deleted by a concurrent request after the ownership check.
	fx.productRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Product")).
		Return(repository.ErrProductNotFound)

	updated, err := fx.service.UpdateProduct(ctx, caller, productID, &usecase.ProductInput{
		Name:  "Desk Lamp",
		Price: decimal.RequireFromString("6.50"),
	}, nil)

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestCatalogService_DeleteProduct_VanishedBetweenReadAndWrite(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{ID: productID, SellerID: caller.ID}, nil)

	fx.productRepo.EXPECT().
		Delete(ctx, productID).
		Return(repository.ErrProductNotFound)

	err := fx.service.DeleteProduct(ctx, caller, productID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestCatalogService_DeleteProduct_RemovesImage(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	caller := sellerCaller()
	productID := uuid.New()
	key := constants.ProductImagePrefix + uuid.New().String() + ".png"

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{
			ID:       productID,
			SellerID: caller.ID,
			ImageURL: "https://cdn.example.com/" + key,
		}, nil)

	fx.productRepo.EXPECT().Delete(ctx, productID).Return(nil)

	// Object removal is best-effort, a storage failure must not surface.
	fx.storage.EXPECT().Delete(ctx, key).Return(errors.New("bucket unreachable"))

	err := fx.service.DeleteProduct(ctx, caller, productID)

	require.NoError(t, err)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	id := uuid.New()

	fx.productRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrProductNotFound)

	product, err := fx.service.GetProduct(ctx, id)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestCatalogService_ListSellerProducts_NonSellerForbidden(t *testing.T) {
	fx := createTestCatalogService(t)

	products, err := fx.service.ListSellerProducts(context.Background(), usecase.Caller{ID: uuid.New(), IsBuyer: true})

	require.Error(t, err)
	assert.Nil(t, products)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}
