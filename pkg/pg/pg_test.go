package pg_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/ecooverlay/server/pkg/pg"
)

func TestConnectValidation(t *testing.T) {
	t.Parallel()

	t.Run("empty connection string", func(t *testing.T) {
		t.Parallel()

		_, err := pg.Connect(context.Background(), pg.Config{})
		assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)
		assert.False(t, pg.Config{}.Enabled())
	})

	t.Run("invalid connection string", func(t *testing.T) {
		t.Parallel()

		_, err := pg.Connect(context.Background(), pg.Config{
			ConnectionString: "not a dsn \x00",
		})
		assert.ErrorIs(t, err, pg.ErrInvalidConfig)
	})
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, pg.IsNotFound(pgx.ErrNoRows))
	assert.False(t, pg.IsNotFound(nil))
	assert.False(t, pg.IsNotFound(context.Canceled))
}
