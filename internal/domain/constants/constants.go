// Package constants holds shared domain-level constant values.
package constants

const (
	// EnvDevelop is the development environment name.
	EnvDevelop = "develop"
	// EnvProduction is the production environment name.
	EnvProduction = "production"

	// PubSubProviderLocal selects the local HTTP push publisher.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle selects the Google Pub/Sub publisher.
	PubSubProviderGoogle = "google"

	// EventTypeOrderPlaced marks an order summary notification message.
	EventTypeOrderPlaced = "order_placed"
	// EventTypeSellerRegistered marks a seller email subscription message.
	EventTypeSellerRegistered = "seller_registered"

	// ProductImagePrefix is the object-storage key prefix for product images.
	ProductImagePrefix = "media/products/"
)
