package csvio_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/paramstore/internal/csvio"
	"github.com/systmms/paramstore/internal/store"
)

func newReader() *csvio.Reader {
	return csvio.NewReader(nil)
}

func TestReadManifest(t *testing.T) {
	t.Parallel()

	manifest := strings.Join([]string{
		"key,value,type,tier,kms",
		"/app/db/host,db.internal,String,Standard,",
		"/app/db/password,hunter2,SecureString,Advanced,alias/custom",
		"/app/hosts,\"a,b,c\",StringList,,",
	}, "\n")

	params, err := newReader().Read(strings.NewReader(manifest))
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, store.Parameter{
		Name: "/app/db/host", Value: "db.internal",
		Kind: store.KindString, Tier: store.TierStandard,
	}, params[0])
	assert.Equal(t, store.Parameter{
		Name: "/app/db/password", Value: "hunter2",
		Kind: store.KindSecureString, Tier: store.TierAdvanced, KeyID: "alias/custom",
	}, params[1])
	assert.Equal(t, store.KindStringList, params[2].Kind)
	assert.Equal(t, "a,b,c", params[2].Value)
	assert.Equal(t, store.TierStandard, params[2].Tier, "empty tier defaults silently")
}

func TestReadMissingRequiredColumn(t *testing.T) {
	t.Parallel()

	_, err := newReader().Read(strings.NewReader("key,value\n/a,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'type'")
}

func TestReadEmptyFile(t *testing.T) {
	t.Parallel()

	_, err := newReader().Read(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadDropsIncompleteRows(t *testing.T) {
	t.Parallel()

	manifest := strings.Join([]string{
		"key,value,type",
		",orphan-value,String",
		"/app/no-value,,String",
		"/app/ok,fine,String",
	}, "\n")

	params, err := newReader().Read(strings.NewReader(manifest))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "/app/ok", params[0].Name)
}

func TestReadCoercesUnknownTypeAndTier(t *testing.T) {
	t.Parallel()

	manifest := strings.Join([]string{
		"key,value,type,tier",
		"/app/a,v,Weird,Premium",
	}, "\n")

	params, err := newReader().Read(strings.NewReader(manifest))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, store.KindString, params[0].Kind)
	assert.Equal(t, store.TierStandard, params[0].Tier)
}

func TestReadFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := newReader().ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestWriteExport(t *testing.T) {
	t.Parallel()

	modified := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	params := []store.Parameter{
		{
			Name: "/app/db/host", Value: "db.internal",
			Kind: store.KindString, Tier: store.TierStandard,
			Version: 3, LastModified: modified, Description: "primary DB host",
		},
		{
			Name: "/app/db/password", Value: store.ValueUnavailable,
			Kind: store.KindSecureString, Tier: store.TierStandard,
			KeyID: "alias/aws/ssm", Version: 1,
		},
	}

	var buf strings.Builder
	require.NoError(t, csvio.Write(&buf, params))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Value,Type,Tier,KeyId,LastModifiedDate,Version,Description", lines[0])
	assert.Equal(t, "/app/db/host,db.internal,String,Standard,,2026-03-14 09:26:53,3,primary DB host", lines[1])
	assert.Equal(t, "/app/db/password,N/A,SecureString,Standard,alias/aws/ssm,,1,", lines[2])
}

func TestExportUploadRoundTrip(t *testing.T) {
	t.Parallel()

	exported := []store.Parameter{
		{Name: "/app/db/host", Value: "db.internal", Kind: store.KindString, Tier: store.TierStandard, Version: 3},
		{Name: "/app/db/password", Value: "hunter2", Kind: store.KindSecureString, Tier: store.TierAdvanced, KeyID: "alias/custom", Version: 1},
	}

	var buf strings.Builder
	require.NoError(t, csvio.Write(&buf, exported))

	params, err := newReader().Read(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, params, len(exported))

	for i, p := range params {
		assert.Equal(t, exported[i].Name, p.Name)
		assert.Equal(t, exported[i].Value, p.Value)
		assert.Equal(t, exported[i].Kind, p.Kind)
		assert.Equal(t, exported[i].Tier, p.Tier)
		assert.Equal(t, exported[i].KeyID, p.KeyID)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.csv")
	params := []store.Parameter{
		{Name: "/app/a", Value: "v1", Kind: store.KindString, Tier: store.TierStandard, Version: 1},
	}

	require.NoError(t, csvio.WriteFile(path, params))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/app/a,v1,String,Standard")
}
