package client

import (
	"net"
	"testing"

	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/server"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// startServer runs the real API over an in-memory SQLite database and
// returns a client pointed at it.
func startServer(t *testing.T) *Client {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	srv, err := server.NewServerWithDeps(&config.Config{
		Env:            "test",
		BcryptCost:     bcrypt.MinCost,
		AllowedOrigins: "*",
	}, db, nil)
	require.NoError(t, err)
	app := srv.NewApp()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()

	t.Cleanup(func() {
		_ = app.Shutdown()
		_ = sqlDB.Close()
	})

	return New("http://" + ln.Addr().String())
}
