package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testDoc = `
modules:
  test_ssh:
    TestSSHDirectives:
      permitrootlogin: "no"
      passwordauthentication: "no"
  test_sysctl:
    TestASLR: 2
`

func TestYAMLProviderGet(t *testing.T) {
	p, err := ParseYAML([]byte(testDoc))
	require.NoError(t, err)

	t.Run("nested mapping", func(t *testing.T) {
		v, err := p.Get("modules.test_ssh.TestSSHDirectives")
		require.NoError(t, err)

		m, ok := v.(map[string]interface{})
		require.True(t, ok)
		require.Equal(t, "no", m["permitrootlogin"])
	})

	t.Run("scalar value", func(t *testing.T) {
		v, err := p.Get("modules.test_sysctl.TestASLR")
		require.NoError(t, err)
		require.Equal(t, 2, v)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := p.Get("modules.test_ssh.TestAbsent")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("key descends past a scalar", func(t *testing.T) {
		_, err := p.Get("modules.test_sysctl.TestASLR.deeper")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestNewYAMLProvider(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDoc), 0644))

	p, err := NewYAMLProvider(path)
	require.NoError(t, err)

	_, err = p.Get("modules.test_ssh")
	require.NoError(t, err)

	t.Run("missing file", func(t *testing.T) {
		_, err := NewYAMLProvider(filepath.Join(tmpDir, "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		bad := filepath.Join(tmpDir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("a: [unclosed"), 0644))
		_, err := NewYAMLProvider(bad)
		require.Error(t, err)
	})
}
