package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/evds-ng/internal/api"
	"github.com/thesavant42/evds-ng/internal/cache"
	"github.com/thesavant42/evds-ng/internal/db"
	"github.com/thesavant42/evds-ng/internal/ui"
	"github.com/zalando/go-keyring"
)

const seriesBody = `{"totalCount":2,"items":[
	{"Tarih":"01-01-2020","TP_DK_USD_A":"5.9","TP_DK_EUR_A":"6.6","UNIXTIME":{"$numberLong":"1577826000"}},
	{"Tarih":"02-01-2020","TP_DK_USD_A":"5.95","TP_DK_EUR_A":null,"UNIXTIME":{"$numberLong":"1577912400"}}
]}`

const groupBody = `{"items":[{"Tarih":"2020-1","YSSK":12}]}`

type testEnv struct {
	server *httptest.Server
	hits   atomic.Int32
	dir    string
	config string
	out    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	keyring.MockInit()
	t.Setenv("TERM", "dumb")
	for _, k := range []string{"EVDS_APIKEY", "EVDS_CACHE", "EVDS_PROXY", "EVDS_FORMATS", "EVDS_SQLITE"} {
		t.Setenv(k, "")
	}

	env := &testEnv{dir: t.TempDir(), out: &bytes.Buffer{}}
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.hits.Add(1)
		if r.Header.Get("key") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch {
		case strings.Contains(r.URL.Path, "BAD"):
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("no such series"))
		case strings.Contains(r.URL.Path, "datagroup=bie_"):
			_, _ = w.Write([]byte(groupBody))
		default:
			_, _ = w.Write([]byte(seriesBody))
		}
	}))
	t.Cleanup(env.server.Close)

	env.config = filepath.Join(env.dir, "evds.yaml")
	require.NoError(t, os.WriteFile(env.config, nil, 0644))

	prev := ui.Output
	ui.Output = env.out
	t.Cleanup(func() { ui.Output = prev })
	return env
}

// run executes the CLI with flags pointing at the fake service and the
// temp directory; confirmations are answered with answer
func (e *testEnv) run(t *testing.T, answer bool, args ...string) error {
	t.Helper()
	prev := confirmPrompt
	confirmPrompt = func(string, string) (bool, error) { return answer, nil }
	defer func() { confirmPrompt = prev }()

	cmd := newRootCmd()
	base := []string{
		"--config", e.config,
		"--base-url", e.server.URL,
		"--cache-dir", filepath.Join(e.dir, ".caches"),
	}
	cmd.SetArgs(append(args, base...))
	cmd.SetOut(e.out)
	cmd.SetErr(e.out)
	return cmd.Execute()
}

func TestFetchWritesFilesAndReusesCache(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.dir, "out")
	dbPath := filepath.Join(env.dir, "evds.db")

	args := []string{
		"TP.DK.USD.A-TP.DK.EUR.A,bie_yssk",
		"--apikey", "secret", "--yes", "--cache",
		"--out-dir", outDir, "--format", "csv,xlsx", "--sqlite", dbPath,
		"--start-date", "01-01-2020", "--end-date", "31-12-2020",
	}

	require.NoError(t, env.run(t, true, args...))
	assert.Equal(t, int32(2), env.hits.Load())

	csv, err := os.ReadFile(filepath.Join(outDir, "data_TpDkUsdATpDkEur.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Tarih,TP_DK_USD_A,TP_DK_EUR_A\n01-01-2020,5.9,6.6\n02-01-2020,5.95,\n", string(csv))

	group, err := os.ReadFile(filepath.Join(outDir, "data_bie_yssk.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Tarih,YSSK\n01-01-2020,12\n", string(group))

	_, err = os.Stat(filepath.Join(outDir, "data_TpDkUsdATpDkEur.xlsx"))
	assert.NoError(t, err)

	// second run is served from the cache
	require.NoError(t, env.run(t, true, args...))
	assert.Equal(t, int32(2), env.hits.Load())

	database, err := db.New(dbPath)
	require.NoError(t, err)
	defer database.Close()

	history, err := database.ListExports(10)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.True(t, history[0].FromCache)
	assert.False(t, history[3].FromCache)

	tables, err := database.Tables()
	require.NoError(t, err)
	assert.Equal(t, []string{"TP_DK_USD_A_TP_DK_EUR_A", "bie_yssk"}, tables)

	env.out.Reset()
	require.NoError(t, env.run(t, true, "history", "--sqlite", dbPath, "--series", "bie_yssk"))
	assert.Contains(t, env.out.String(), "bie_yssk")
}

func TestFetchContinuesAfterFailure(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.dir, "out")

	err := env.run(t, true, "TP.BAD.SERIES,TP.A", "--apikey", "secret", "--yes", "--out-dir", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 requests failed")

	_, statErr := os.Stat(filepath.Join(outDir, "data_TP.A.csv"))
	assert.NoError(t, statErr)
	assert.Contains(t, env.out.String(), "no such series")
}

func TestFetchDeclinedRequest(t *testing.T) {
	env := newTestEnv(t)

	err := env.run(t, false, "TP.A", "--apikey", "secret", "--out-dir", filepath.Join(env.dir, "out"))
	require.Error(t, err)
	assert.Equal(t, int32(0), env.hits.Load())
	assert.Contains(t, env.out.String(), api.ErrCancelled.Error())
}

func TestFetchRequiresAPIKey(t *testing.T) {
	env := newTestEnv(t)

	err := env.run(t, true, "TP.A,TP.B", "--yes", "--out-dir", filepath.Join(env.dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 requests failed")
	assert.Contains(t, env.out.String(), api.ErrMissingAPIKey.Error())
	assert.Equal(t, 1, strings.Count(env.out.String(), "evds key set"))
	assert.Equal(t, int32(0), env.hits.Load())
}

func TestFetchCachedWithoutAPIKey(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.dir, "out")

	store, err := cache.New(cache.Options{Dir: filepath.Join(env.dir, ".caches")})
	require.NoError(t, err)
	rawURL := api.BuildURL(env.server.URL, api.ParseIndex("TP.A"), api.Query{
		StartDate:   "01-01-2000",
		EndDate:     "31-12-2100",
		Frequency:   api.Default,
		Formulas:    api.Default,
		Aggregation: api.Default,
	})
	require.NoError(t, store.Put(cache.Fingerprint("get_request", rawURL, "", ""), []byte(seriesBody)))

	require.NoError(t, env.run(t, true, "TP.A", "--cache", "--out-dir", outDir))
	assert.Equal(t, int32(0), env.hits.Load())

	_, err = os.Stat(filepath.Join(outDir, "data_TP.A.csv"))
	assert.NoError(t, err)
}

func TestFetchSummaryKeepsPartialOutputs(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.dir, "out")
	// a directory where the workbook should go makes the xlsx export fail
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "data_TP.A.xlsx"), 0755))

	err := env.run(t, true, "TP.A", "--apikey", "secret", "--yes", "--out-dir", outDir, "--format", "csv,xlsx")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "data_TP.A.csv"))
	require.NoError(t, statErr)
	assert.Contains(t, env.out.String(), "Summary: 1 written, 1 failed")
}

func TestFetchUsesKeyringKey(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.dir, "out")

	require.NoError(t, env.run(t, true, "key", "set", "secret"))
	require.NoError(t, env.run(t, true, "TP.A", "--yes", "--out-dir", outDir))
	assert.Equal(t, int32(1), env.hits.Load())
}

func TestFetchRejectsBadOptions(t *testing.T) {
	env := newTestEnv(t)

	assert.Error(t, env.run(t, true, "TP.A", "--apikey", "secret", "--start-date", "2020-01-01"))
	assert.Error(t, env.run(t, true, "TP.A", "--apikey", "secret", "--format", "json"))
	assert.Equal(t, int32(0), env.hits.Load())
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)
	store, err := cache.New(cache.Options{Dir: filepath.Join(env.dir, ".caches")})
	require.NoError(t, err)
	fp := cache.Fingerprint("get_request", "u")
	require.NoError(t, store.Put(fp, []byte("payload")))

	require.NoError(t, env.run(t, true, "cache", "list"))
	assert.Contains(t, env.out.String(), fp)

	env.out.Reset()
	require.NoError(t, env.run(t, true, "cache", "path"))
	assert.Contains(t, env.out.String(), ".caches")

	// declined prompt keeps the entry
	require.NoError(t, env.run(t, false, "cache", "clear"))
	assert.True(t, store.Has(fp))

	require.NoError(t, env.run(t, true, "cache", "clear", "--yes"))
	assert.False(t, store.Has(fp))
}

func TestKeyCommands(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, true, "key", "set", "abcd1234wxyz"))

	env.out.Reset()
	require.NoError(t, env.run(t, true, "key", "show"))
	assert.Contains(t, env.out.String(), "abcd****wxyz")
	assert.Contains(t, env.out.String(), "keyring")

	require.NoError(t, env.run(t, true, "key", "delete"))
	assert.Error(t, env.run(t, true, "key", "show"))

	env.out.Reset()
	require.NoError(t, env.run(t, true, "key", "delete"))
	assert.Contains(t, env.out.String(), "No API key stored")
}

func TestKeySetPrompts(t *testing.T) {
	env := newTestEnv(t)
	prev := promptForAPIKey
	promptForAPIKey = func() (string, error) { return "prompted-key", nil }
	t.Cleanup(func() { promptForAPIKey = prev })

	require.NoError(t, env.run(t, true, "key", "set"))
	got, err := keyring.Get("evds-ng", "evds_api_key")
	require.NoError(t, err)
	assert.Equal(t, "prompted-key", got)
}
