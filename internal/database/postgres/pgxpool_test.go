package postgres

import (
	"context"
	"testing"

	"skill-graph/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "plain",
			cfg:  config.DatabaseConfig{DBHost: " db ", DBPort: "5432", DBUser: "app", DBPassword: "secret", DBName: "graph", DBSSLMode: "require"},
			want: "host=db port=5432 user=app password=secret dbname=graph sslmode=require",
		},
		{
			name: "quoted password and default ssl",
			cfg:  config.DatabaseConfig{DBHost: "db", DBPort: "5432", DBUser: "app", DBPassword: `it's a\pw`, DBName: "graph"},
			want: `host=db port=5432 user=app password='it\'s a\\pw' dbname=graph sslmode=disable`,
		},
		{
			name: "empty password",
			cfg:  config.DatabaseConfig{DBHost: "db", DBPort: "5432", DBUser: "app", DBName: "graph"},
			want: "host=db port=5432 user=app password='' dbname=graph sslmode=disable",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DSN(tc.cfg))
		})
	}
}

func TestDSN_ParsesWithPgx(t *testing.T) {
	cfg := config.DatabaseConfig{DBHost: "db", DBPort: "6543", DBUser: "app", DBPassword: `p w'd`, DBName: "graph"}
	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "db", pcfg.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pcfg.ConnConfig.Port)
	assert.Equal(t, `p w'd`, pcfg.ConnConfig.Password)
	assert.Equal(t, "graph", pcfg.ConnConfig.Database)
}

func TestPool_NilSafe(t *testing.T) {
	var p *Pool
	ctx := context.Background()

	assert.ErrorIs(t, p.Ping(ctx), errNilDB)
	assert.NoError(t, p.Close())
	_, err := p.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errNilDB)
	assert.ErrorIs(t, p.QueryRow(ctx, "SELECT 1").Scan(), errNilDB)
	assert.Nil(t, p.SQLDB())
	assert.Nil(t, p.Stat())
}
