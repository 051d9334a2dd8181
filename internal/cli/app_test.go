package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/lifeos/internal/config"
	"github.com/dmitrijs2005/lifeos/internal/kvstore"
	"github.com/dmitrijs2005/lifeos/internal/persist"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BackupDir = "backups"
	return cfg
}

// stubPassword makes GetPassword return the given passwords in order.
func stubPassword(t *testing.T, passwords ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	i := 0
	readPassword = func(fd int) ([]byte, error) {
		pw := passwords[i%len(passwords)]
		i++
		return []byte(pw), nil
	}
}

func newTestApp(t *testing.T, input string) (*App, *kvstore.MemDevice) {
	t.Helper()
	captureOutput(t)
	device := kvstore.NewMemDevice()
	app, err := newAppWith(testConfig(), device, strings.NewReader(input), &bytes.Buffer{})
	require.NoError(t, err)
	return app, device
}

func TestApp_RegisterThenLogin(t *testing.T) {
	stubPassword(t, "pw1234")
	app, _ := newTestApp(t, "carol\ncarol\n") // username for register, then for login
	ctx := context.Background()

	require.NoError(t, app.Register(ctx))
	assert.False(t, app.isLoggedIn())

	require.NoError(t, app.Login(ctx))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "(carol)", app.getStatus())

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn())
}

func TestApp_LoginFailureIsReported(t *testing.T) {
	stubPassword(t, "pw1234", "wrong")
	app, _ := newTestApp(t, "carol\ncarol\n")
	ctx := context.Background()

	require.NoError(t, app.Register(ctx))
	require.Error(t, app.Login(ctx))
	assert.False(t, app.isLoggedIn())
}

func TestApp_LoginSeedsDefaults(t *testing.T) {
	stubPassword(t, "pw1234")
	app, device := newTestApp(t, "carol\ncarol\n")
	ctx := context.Background()

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))

	data, err := device.Get(ctx, "user_carol_"+persist.KeySettings)
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestApp_ExportImportRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	defer chdirTemp(t, tmp)()

	stubPassword(t, "pw1234")
	app, _ := newTestApp(t, "carol\ncarol\n")
	ctx := context.Background()

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.data.Save(ctx, persist.KeyNotes, []string{"remember this"}))

	require.NoError(t, app.Export(ctx))

	name := "lifeos_backup_" + time.Now().Format("2006-01-02") + ".json"
	path := filepath.Join(tmp, "backups", name)
	_, err := os.Stat(path)
	require.NoError(t, err)

	// wipe, then restore from the backup
	require.NoError(t, app.data.ClearNamespace(ctx))
	var notes []string
	require.NoError(t, app.data.Load(ctx, persist.KeyNotes, &notes))
	require.Nil(t, notes)

	require.NoError(t, app.Import(ctx, path))
	require.NoError(t, app.data.Load(ctx, persist.KeyNotes, &notes))
	assert.Equal(t, []string{"remember this"}, notes)
}

func TestApp_ImportRejectsMalformedFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("[not an object]"), 0o600))

	stubPassword(t, "pw1234")
	app, _ := newTestApp(t, "carol\ncarol\n")
	ctx := context.Background()

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))

	require.Error(t, app.Import(ctx, path))
}

func TestApp_DataCommandsRequireLogin(t *testing.T) {
	app, _ := newTestApp(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, app.Export(ctx), errNotLoggedIn)
	assert.ErrorIs(t, app.Import(ctx, "x.json"), errNotLoggedIn)
	assert.ErrorIs(t, app.Wipe(ctx), errNotLoggedIn)
}

func TestApp_WipeNeedsConfirmation(t *testing.T) {
	stubPassword(t, "pw1234")
	app, device := newTestApp(t, "carol\ncarol\nno\nyes\n")
	ctx := context.Background()

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.data.Save(ctx, persist.KeyNotes, []string{"n"}))

	// first answer is "no": nothing happens
	require.NoError(t, app.Wipe(ctx))
	data, err := device.Get(ctx, "user_carol_"+persist.KeyNotes)
	require.NoError(t, err)
	assert.NotNil(t, data)

	// second answer is "yes": the namespace is cleared
	require.NoError(t, app.Wipe(ctx))
	data, err = device.Get(ctx, "user_carol_"+persist.KeyNotes)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func chdirTemp(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}
