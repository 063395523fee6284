package rabbitmq_test

import (
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"

	"productsvc/pkg/rabbitmq"
)

func TestNewClientInvalidURL(t *testing.T) {
	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: "not-a-url", Exchange: "products"})
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to RabbitMQ")
}

func TestUnconnectedClient(t *testing.T) {
	var client rabbitmq.Client

	assert.NoError(t, client.Close())
	assert.Error(t, client.Publish("products", "product.created", []byte(`{}`)))
	assert.Error(t, client.Consume("products", "audit", "product.*", func(amqp.Delivery) error { return nil }))
}
