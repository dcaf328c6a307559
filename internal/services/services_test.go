package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tatangdev/Mern-Invoice-App/internal/db"
	"github.com/tatangdev/Mern-Invoice-App/internal/models"
)

// openTestDB gives every test its own in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(conn))
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", FullName: "Test User"}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, conn *gorm.DB, ownerID, name string, price float64) models.Product {
	t.Helper()
	product := models.Product{UserID: ownerID, Name: name, Desc: name + " description", Price: price}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func testCtx() context.Context { return context.Background() }
