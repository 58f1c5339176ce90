package serverhttp

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frelections/internal/config"
)

func newServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		AllowOrigins: []string{"*"},
		MaxUploadMB:  1,
		DataDir:      dir,
		Threshold:    0.40,
	}
	srv := httptest.NewServer(NewRouter(cfg, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv, dir
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestStaticData(t *testing.T) {
	srv, dir := newServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "winners.csv"), []byte("code\n75101\n"), 0o644))

	res, err := http.Get(srv.URL + "/data/winners.csv")
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "code\n75101\n", string(body))

	res, err = http.Get(srv.URL + "/data/missing.csv")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestReconcileRoute(t *testing.T) {
	srv, _ := newServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("fileGov", "gov.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("CodMinDpt,CodSubCom,LibSubCom,LibReg\n01,001,Ambérieu,Auvergne-Rhône-Alpes\n"))
	fw, err = mw.CreateFormFile("fileInsee", "communes.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("insee,nom\n01001,Ambérieu\n"))
	require.NoError(t, mw.WriteField("format", "csv"))
	require.NoError(t, mw.Close())

	res, err := http.Post(srv.URL+"/reconcile", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer res.Body.Close()
	out, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ministere interieur,insee\n01001,01001\n", string(out))

	res, err = http.Get(srv.URL + "/reconcile")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestUploadTooLarge(t *testing.T) {
	srv, _ := newServer(t)
	big := bytes.Repeat([]byte("a"), 2<<20)
	res, err := http.Post(srv.URL+"/reconcile", "multipart/form-data; boundary=x", bytes.NewReader(big))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}
