package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/db"
	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

var testDBSeq int

func openTestClient(t *testing.T) *db.Client {
	t.Helper()

	testDBSeq++
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:orders_test_%d?mode=memory&cache=shared", testDBSeq),
	}, testLogger())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.WebhookEvent{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return client
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Level: logger.ParseLevel("error")})
}
