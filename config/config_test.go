package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "3000", c.ServerPort)
	assert.Equal(t, StoreMongo, c.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI)
	assert.Equal(t, "kanban-board", c.MongoDBName)
	assert.Equal(t, "users", c.UsersCollection)
	assert.Equal(t, "tasks", c.TasksCollection)
	assert.Equal(t, 10*time.Second, c.ConnectTimeout.Duration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, uint32(3), c.BreakerMaxFailures)
	assert.Equal(t, ":3000", c.Addr())
}

func TestLoad_NoFiles(t *testing.T) {
	c, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", c.JWTSecret)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "30s")
	t.Setenv("STORE_BREAKER_MAX_FAILURES", "7")

	c, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "8081", c.ServerPort)
	assert.Equal(t, "mongodb://mongo:27017", c.MongoURI)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, 30*time.Second, c.ConnectTimeout.Duration)
	assert.Equal(t, uint32(7), c.BreakerMaxFailures)
}

func TestLoad_TOMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kanban.toml")
	content := `
server_port = "4000"
mongo_db_name = "boards"
jwt_secret = "from-file"
connect_timeout = "2s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	c, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "4000", c.ServerPort)
	assert.Equal(t, "boards", c.MongoDBName)
	assert.Equal(t, 2*time.Second, c.ConnectTimeout.Duration)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, "users", c.UsersCollection)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MONGO_DB_NAME=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MONGO_DB_NAME") })

	c, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", c.MongoDBName)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), "")
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("STORE_BREAKER_TIMEOUT", "soon")
		_, err := Load("", "")
		assert.ErrorContains(t, err, "STORE_BREAKER_TIMEOUT")
	})

	t.Run("bad bcrypt cost", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "ten")
		_, err := Load("", "")
		assert.ErrorContains(t, err, "BCRYPT_COST")
	})
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	require.NoError(t, c.Validate())

	c.JWTSecret = ""
	assert.Error(t, c.Validate())

	c.LoadDefaults()
	c.ServerPort = ""
	assert.Error(t, c.Validate())

	c.LoadDefaults()
	c.StoreDriver = "redis"
	assert.Error(t, c.Validate())
}
