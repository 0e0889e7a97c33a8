package fs_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-service/internal/custom_errors"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/artifact/fs"
)

func newStore(t *testing.T) (*fs.Store, afero.Fs) {
	t.Helper()
	base := afero.NewMemMapFs()
	store, err := fs.NewStore(base, "images", logger.New("test"))
	require.NoError(t, err)
	return store, base
}

func TestStore_Save(t *testing.T) {
	store, base := newStore(t)

	ref, err := store.Save(context.Background(), "cat photo.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "images/"))
	assert.True(t, strings.HasSuffix(ref, "-cat-photo.png"))

	content, err := afero.ReadFile(base, ref)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	other, err := store.Save(context.Background(), "cat photo.png", strings.NewReader("again"))
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}

func TestStore_SaveStripsDirectories(t *testing.T) {
	store, base := newStore(t)

	ref, err := store.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "images/"))
	assert.True(t, strings.HasSuffix(ref, "-passwd"))

	exists, err := afero.Exists(base, ref)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_Delete(t *testing.T) {
	store, base := newStore(t)
	ref, err := store.Save(context.Background(), "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(base, "secret.txt", []byte("keep"), 0o644))

	tests := []struct {
		name    string
		ref     string
		wantErr error
	}{
		{name: "existing file", ref: ref},
		{name: "already deleted", ref: ref, wantErr: custom_errors.ErrArtifactNotFound},
		{name: "backslash separators", ref: "images\\missing.png", wantErr: custom_errors.ErrArtifactNotFound},
		{name: "outside images dir", ref: "secret.txt", wantErr: custom_errors.ErrInvalidArtifactPath},
		{name: "traversal", ref: "images/../secret.txt", wantErr: custom_errors.ErrInvalidArtifactPath},
		{name: "directory itself", ref: "images/", wantErr: custom_errors.ErrInvalidArtifactPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Delete(context.Background(), tt.ref)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	exists, err := afero.Exists(base, "secret.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_Exists(t *testing.T) {
	store, base := newStore(t)
	ref, err := store.Save(context.Background(), "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(base, "secret.txt", []byte("keep"), 0o644))

	tests := []struct {
		name string
		ref  string
		want bool
	}{
		{name: "saved file", ref: ref, want: true},
		{name: "leading slash", ref: "/" + ref, want: true},
		{name: "never saved", ref: "images/does-not-exist.png"},
		{name: "outside images dir", ref: "secret.txt"},
		{name: "traversal", ref: "images/../secret.txt"},
		{name: "empty", ref: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Exists(context.Background(), tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewStore_AbsoluteDir(t *testing.T) {
	base := afero.NewMemMapFs()
	store, err := fs.NewStore(base, "/srv/feed/images/", logger.New("test"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/feed/images", store.Dir())

	ref, err := store.Save(context.Background(), "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "images/"))

	exists, err := afero.Exists(base, "/srv/feed/"+ref)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.Exists(base, "srv/feed/"+ref)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewStore_RejectsEmptyDir(t *testing.T) {
	for _, dir := range []string{"", ".", "/"} {
		_, err := fs.NewStore(afero.NewMemMapFs(), dir, logger.New("test"))
		assert.ErrorIs(t, err, custom_errors.ErrInvalidArtifactPath, dir)
	}
}
