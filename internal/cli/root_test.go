package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogly.db")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", path)
	t.Setenv("LOG_FILE", "")
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "blogctl", cmd.Use)

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "auto"},
		{"migrate", "status"},
		{"seed"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestSeedCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	seedCmd, _, err := cmd.Find([]string{"seed"})
	require.NoError(t, err)

	for flag, def := range map[string]string{
		"clean":          "false",
		"no-fixture":     "false",
		"fake":           "0",
		"posts-per-user": "3",
	} {
		f := seedCmd.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, def, f.DefValue, flag)
	}
}

func TestMigrateUpRequiresPostgres(t *testing.T) {
	sqliteEnv(t)

	_, err := execute(t, "migrate", "up")
	assert.ErrorIs(t, err, errSQLMigrationsNeedPostgres)

	_, err = execute(t, "migrate", "down", "1")
	assert.ErrorIs(t, err, errSQLMigrationsNeedPostgres)
}

func TestMigrateAutoAndStatus(t *testing.T) {
	sqliteEnv(t)

	out, err := execute(t, "migrate", "auto")
	require.NoError(t, err)
	assert.Contains(t, out, "automigrations applied")

	out, err = execute(t, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "driver=sqlite")
	assert.Contains(t, out, "run_auto=true")
}

func TestSeedCommand(t *testing.T) {
	sqliteEnv(t)

	out, err := execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 4 users, 5 posts, 4 tags")

	_, err = execute(t, "seed")
	assert.Error(t, err, "reloading the fixture duplicates its tags")

	out, err = execute(t, "seed", "--clean", "--fake", "2", "--posts-per-user", "1", "--rand-seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 6 users, 7 posts, 4 tags")

	out, err = execute(t, "seed", "--clean", "--no-fixture")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0 users, 0 posts, 0 tags")
}

func TestSeedCommandRejectsNegativeFake(t *testing.T) {
	sqliteEnv(t)

	_, err := execute(t, "seed", "--fake", "-1")
	assert.Error(t, err)
}
