package cookiefile

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)

	return u
}

func TestLoad_FileNotFound(t *testing.T) {
	jar, err := Load("/nonexistent/path/cookies.txt")
	assert.Nil(t, jar)
	assert.NoError(t, err)
}

func TestSaveLoad_RoundTripKeepsSessionCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")

	jar := New()
	jar.SetCookies(mustURL(t, "https://cart2.barnesandnoble.com/services/service.asp"), []*http.Cookie{
		{Name: "sess", Value: "abc123", Domain: ".barnesandnoble.com", Path: "/"},
		{Name: "host", Value: "h1", Secure: true, HttpOnly: true},
		{Name: "persist", Value: "p1", Domain: "barnesandnoble.com", Expires: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.Equal(t, 3, jar.Len())

	require.NoError(t, Save(path, jar))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, jar.All(), utcExpiry(loaded.All()))
}

// utcExpiry converts loaded expiry times, which carry time.Local, to UTC.
func utcExpiry(cs []Cookie) []Cookie {
	for i := range cs {
		if !cs[i].Expires.IsZero() {
			cs[i].Expires = cs[i].Expires.UTC()
		}
	}

	return cs
}

func TestSave_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cookies.txt")

	require.NoError(t, Save(path, New()))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerms), fi.Mode().Perm())
}

func TestSave_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(filepath.Join(dir, "cookies.txt"), New()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cookies.txt", entries[0].Name())
}

func TestDecode_NetscapeLayout(t *testing.T) {
	content := strings.Join([]string{
		"# Netscape HTTP Cookie File",
		"",
		".barnesandnoble.com\tTRUE\t/\tFALSE\t0\tsess\tabc",
		"cart2.barnesandnoble.com\tFALSE\t/services\tTRUE\t4102444800\tcart\txyz",
		"#HttpOnly_.barnesandnoble.com\tTRUE\t/\tFALSE\t0\tho\tsecret",
		"# a comment",
	}, "\n")

	jar, err := Decode(strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, 3, jar.Len())

	byName := map[string]Cookie{}
	for _, c := range jar.All() {
		byName[c.Name] = c
	}

	assert.Equal(t, "barnesandnoble.com", byName["sess"].Domain)
	assert.False(t, byName["sess"].HostOnly)
	assert.True(t, byName["sess"].Session())

	assert.True(t, byName["cart"].HostOnly)
	assert.True(t, byName["cart"].Secure)
	assert.Equal(t, "/services", byName["cart"].Path)
	assert.Equal(t, int64(4102444800), byName["cart"].Expires.Unix())

	assert.True(t, byName["ho"].HTTPOnly)
	assert.Equal(t, "secret", byName["ho"].Value)
}

func TestDecode_DropsExpired(t *testing.T) {
	jar, err := Decode(strings.NewReader(".example.com\tTRUE\t/\tFALSE\t1000\told\tv\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, jar.Len())
}

func TestDecode_MalformedLine(t *testing.T) {
	_, err := Decode(strings.NewReader("# Netscape HTTP Cookie File\nnot-a-cookie-line\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDecode_InvalidExpiry(t *testing.T) {
	_, err := Decode(strings.NewReader(".example.com\tTRUE\t/\tFALSE\tsoon\tn\tv\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid expiry")
}

func TestDecode_EmptyExpiryIsSession(t *testing.T) {
	content := strings.Join([]string{
		"# Netscape HTTP Cookie File",
		"# http://curl.haxx.se/rfc/cookie_spec.html",
		"# This is a generated file!  Do not edit.",
		"",
		".barnesandnoble.com\tTRUE\t/\tFALSE\t\tsess\tabc",
	}, "\n") + "\n"

	jar, err := Decode(strings.NewReader(content))
	require.NoError(t, err)

	all := jar.All()
	require.Len(t, all, 1)
	assert.Equal(t, "sess", all[0].Name)
	assert.Equal(t, "abc", all[0].Value)
	assert.True(t, all[0].Session())

	var buf strings.Builder
	require.NoError(t, Encode(&buf, jar))
	assert.Contains(t, buf.String(), ".barnesandnoble.com\tTRUE\t/\tFALSE\t0\tsess\tabc\n")
}

func TestDecode_LongCookieLine(t *testing.T) {
	value := strings.Repeat("x", 200*1024)

	jar, err := Decode(strings.NewReader(".example.com\tTRUE\t/\tFALSE\t0\tbig\t" + value + "\n"))
	require.NoError(t, err)

	all := jar.All()
	require.Len(t, all, 1)
	assert.Len(t, all[0].Value, len(value))
}

func TestDecode_MissingTrailingValue(t *testing.T) {
	jar, err := Decode(strings.NewReader(".example.com\tTRUE\t/\tFALSE\t0\tempty\n"))
	require.NoError(t, err)
	require.Equal(t, 1, jar.Len())
	assert.Empty(t, jar.All()[0].Value)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o600))

	jar, err := Load(path)
	assert.Nil(t, jar)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}
