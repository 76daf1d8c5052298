package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/ogppu/assets"
	ogerr "github.com/ByLCY/ogppu/errors"
	"github.com/ByLCY/ogppu/generator"
	"github.com/ByLCY/ogppu/layout"
	"github.com/ByLCY/ogppu/renderer"
	"github.com/ByLCY/ogppu/wrap"
)

type flatBackend struct{}

func (flatBackend) Name() string { return "flat" }

func (flatBackend) NewSurface(w, h int) (renderer.Surface, error) {
	return &flatSurface{img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

type flatSurface struct{ img *image.RGBA }

func (s *flatSurface) ActivateFont([]byte, float64) (wrap.MeasureFunc, error) {
	return func(str string) float64 { return float64(len(str)) }, nil
}

func (s *flatSurface) DrawImage(image.Image) error {
	return nil
}

func (s *flatSurface) DrawText(string, float64, float64, renderer.Align, color.Color) error {
	return nil
}

func (s *flatSurface) Snapshot() (image.Image, error) {
	return s.img, nil
}

func (s *flatSurface) Release() {}

type failingProvider struct{ err error }

func (p failingProvider) Assets(context.Context, string) (assets.Assets, error) {
	return assets.Assets{}, p.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestServer(t *testing.T, provider assets.Provider) *httptest.Server {
	t.Helper()
	cfg := layout.DefaultConfig()
	cfg.Width, cfg.Height = 32, 16
	if provider == nil {
		static, err := assets.NewStatic(nil, []byte("font"), cfg.Width, cfg.Height)
		require.NoError(t, err)
		provider = static
	}
	gen := generator.New(provider, renderer.NewComposer(flatBackend{}, cfg), quietLogger())
	ts := httptest.NewServer(New(gen, quietLogger()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postTitle(t *testing.T, ts *httptest.Server, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/ogp", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestGenerateJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, out := postTitle(t, ts, `{"title":"HelloWorld"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HelloWorld.png", out["filename"])
	assert.Equal(t, "png", out["format"])
	assert.True(t, strings.HasPrefix(out["dataUri"], "data:image/png;base64,"))

	data, err := base64.StdEncoding.DecodeString(out["image"])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	assert.Equal(t, "data:image/png;base64,"+out["image"], out["dataUri"])
}

func TestGenerateRejectsEmptyTitle(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, out := postTitle(t, ts, `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(ogerr.ErrCodeInvalidInput), out["code"])
	assert.NotEmpty(t, out["message"])
}

func TestGenerateRejectsBadJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, out := postTitle(t, ts, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(ogerr.ErrCodeInvalidInput), out["code"])
}

func TestGenerateAssetFailure(t *testing.T) {
	procErr := &ogerr.ExternalProcessError{Command: "bg.py", ExitCode: 1, Stderr: "Traceback"}
	ts := newTestServer(t, failingProvider{err: ogerr.AssetLoad(procErr, "背景生成脚本执行失败")})

	resp, out := postTitle(t, ts, `{"title":"x"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, string(ogerr.ErrCodeAssetLoad), out["code"])
	assert.NotContains(t, out["message"], "Traceback")
}

func TestImageDownload(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/ogp/image?title=Hello")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=Hello.png`, resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestImageDownloadNeedsTitle(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/ogp/image")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(ogerr.New(ogerr.ErrCodeInvalidInput, "x")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(ogerr.New(ogerr.ErrCodeAssetLoad, "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(ogerr.New(ogerr.ErrCodeRender, "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("plain")))
	assert.Equal(t, http.StatusGatewayTimeout, StatusFor(ogerr.Wrap(ogerr.ErrCodeCanceled, context.DeadlineExceeded, "x")))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := layout.DefaultConfig()
	static, err := assets.NewStatic(nil, nil, 8, 8)
	require.NoError(t, err)
	srv := New(generator.New(static, renderer.NewComposer(flatBackend{}, cfg), quietLogger()), quietLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
