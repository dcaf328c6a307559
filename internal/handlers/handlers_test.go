package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tatangdev/Mern-Invoice-App/internal/auth"
	"github.com/tatangdev/Mern-Invoice-App/internal/db"
	"github.com/tatangdev/Mern-Invoice-App/internal/handlers"
	"github.com/tatangdev/Mern-Invoice-App/internal/httpx"
	"github.com/tatangdev/Mern-Invoice-App/internal/models"
	"github.com/tatangdev/Mern-Invoice-App/internal/services"
)

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

// forceUser stands in for the bearer-token middleware in handler tests.
func forceUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

// newAPI mounts the product and invoice routes with every request acting as
// the given user.
func newAPI(conn *gorm.DB, userID string) http.Handler {
	catalog := services.NewCatalogService(conn)
	invoices := services.NewInvoiceService(conn, catalog)

	r := chi.NewRouter()
	r.Use(forceUser(userID))
	r.Route("/products", handlers.NewProductHandler(catalog).Routes)
	r.Route("/invoices", handlers.NewInvoiceHandler(invoices).Routes)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data, "missing data envelope in %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpx.ErrorResponse {
	t.Helper()
	var resp httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
