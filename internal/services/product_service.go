package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"productsvc/internal/logging"
	"productsvc/internal/metrics"
	"productsvc/internal/models"
	"productsvc/internal/repositories"
	"productsvc/internal/telemetry"
)

// Publisher delivers serialized events to a message broker.
type Publisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher Publisher
	exchange  string
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithPublisher publishes a change event to exchange after every successful mutation.
func WithPublisher(p Publisher, exchange string) Option {
	return func(s *ProductService) {
		s.publisher = p
		s.exchange = exchange
	}
}

// WithMetrics records operation outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ProductService) {
		s.metrics = m
	}
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts(ctx context.Context) (products []models.Product, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ProductService.GetAllProducts")
	defer func() { telemetry.EndSpan(span, err) }()

	products, err = s.repo.GetAll(ctx)
	s.metrics.ObserveOperation("list", err)
	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, err
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (product *models.Product, err error) {
	ctx, span := startSpan(ctx, "ProductService.GetProductByID", id)
	defer func() { telemetry.EndSpan(span, err) }()

	product, err = s.repo.GetByID(ctx, id)
	s.metrics.ObserveOperation("get", err)
	return product, err
}

// CreateProduct validates input and stores a new product.
// An omitted inStock defaults to true.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (_ *models.Product, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ProductService.CreateProduct")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := ValidateProductInput(input); err != nil {
		s.metrics.ObserveOperation("create", err)
		return nil, err
	}

	product := &models.Product{
		Name:    input.Name,
		Price:   *input.Price,
		InStock: true,
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	err = s.repo.Create(ctx, product)
	s.metrics.ObserveOperation("create", err)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("product.id", product.ID))

	s.publish(models.EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct validates input with the same rules as CreateProduct and
// replaces the product's fields. Omitted description and inStock keep
// their stored values.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input models.ProductInput) (_ *models.Product, err error) {
	ctx, span := startSpan(ctx, "ProductService.UpdateProduct", id)
	defer func() { telemetry.EndSpan(span, err) }()

	if _, err := models.ParseID(id); err != nil {
		s.metrics.ObserveOperation("update", err)
		return nil, err
	}
	if err := ValidateProductInput(input); err != nil {
		s.metrics.ObserveOperation("update", err)
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, models.ProductChanges{
		Name:        input.Name,
		Price:       *input.Price,
		Description: input.Description,
		InStock:     input.InStock,
	})
	s.metrics.ObserveOperation("update", err)
	if err != nil {
		return nil, err
	}

	s.publish(models.EventProductUpdated, product.ID, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "ProductService.DeleteProduct", id)
	defer func() { telemetry.EndSpan(span, err) }()

	err = s.repo.Delete(ctx, id)
	s.metrics.ObserveOperation("delete", err)
	if err != nil {
		return err
	}

	s.publish(models.EventProductDeleted, id, nil)
	return nil
}

func startSpan(ctx context.Context, name, productID string) (context.Context, trace.Span) {
	return telemetry.Tracer().Start(ctx, name, trace.WithAttributes(attribute.String("product.id", productID)))
}

// publish sends a change event. Failures are logged and never fail the
// mutation that triggered them.
func (s *ProductService) publish(eventType, productID string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(models.ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: s.now(),
	})
	if err != nil {
		err = fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	} else {
		err = s.publisher.Publish(s.exchange, eventType, body)
	}
	s.metrics.ObserveEvent(eventType, err)

	if err != nil {
		logging.Warn().Err(err).Str("product_id", productID).Str("event", eventType).Msg("failed to publish product event")
		return
	}
	logging.Debug().Str("product_id", productID).Str("event", eventType).Msg("published product event")
}
