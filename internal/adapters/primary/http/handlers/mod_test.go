package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"modforge-service/internal/config"
	"modforge-service/internal/core/services"
	"modforge-service/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupModRouter(llm *testutil.MockCompletionClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"*"}}}

	h := New(
		services.NewGenerateService(llm),
		services.NewChatService(llm),
		services.NewPortService(llm, services.ArchiveLimits{MaxBytes: 1 << 20, MaxEntryBytes: 1 << 16}),
	)
	return NewRouter(cfg, h)
}

func offlineLLM() *testutil.MockCompletionClient {
	llm := new(testutil.MockCompletionClient)
	llm.On("IsAvailable").Return(false)
	return llm
}

func onlineLLM(reply string, err error) *testutil.MockCompletionClient {
	llm := new(testutil.MockCompletionClient)
	llm.On("IsAvailable").Return(true)
	llm.On("Complete", mock.Anything, mock.Anything).Return(reply, err)
	return llm
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func testJar(t *testing.T, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// ============================================================================
// Transport behaviour
// ============================================================================

func TestPreflight_WithoutOrigin(t *testing.T) {
	r := setupModRouter(offlineLLM())

	for _, path := range []string{"/api/v1/mods/generate", "/api/v1/mods/chat", "/api/v1/mods/port", "/generate-mod", "/chat-mod", "/port-mod"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"), path)
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"), path)
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"), path)
	}
}

func TestPreflight_BrowserOrigin(t *testing.T) {
	r := setupModRouter(offlineLLM())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/mods/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Origin,Content-Type,X-Request-Id", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestRequestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	llm := offlineLLM()
	cfg := &config.Config{
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
		Archive: config.ArchiveConfig{MaxBytes: 1024},
	}
	h := New(
		services.NewGenerateService(llm),
		services.NewChatService(llm),
		services.NewPortService(llm, services.ArchiveLimits{MaxBytes: 1024}),
	)
	r := NewRouter(cfg, h)

	body := `{"jarBase64":"` + strings.Repeat("A", int(cfg.Archive.MaxRequestBytes())) + `"}`
	w := doJSON(r, http.MethodPost, "/api/v1/mods/port", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "request body too large", decode(t, w)["error"])

	w = doJSON(r, http.MethodPost, "/api/v1/mods/generate", `{"description":"Fire Sword"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	r := setupModRouter(offlineLLM())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := doJSON(r, method, "/api/v1/mods/generate", "")

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, "Method not allowed", decode(t, w)["error"], method)
	}
}

func TestRequestIDIsEchoedAsModID(t *testing.T) {
	r := setupModRouter(offlineLLM())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mods/generate", strings.NewReader(`{"description":"Fire Sword"}`))
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", decode(t, w)["modId"])
}

// ============================================================================
// Generate
// ============================================================================

func TestGenerateMod_DescriptionRequired(t *testing.T) {
	llm := offlineLLM()
	r := setupModRouter(llm)

	for _, body := range []string{"", "{}", `{"description":"   "}`} {
		w := doJSON(r, http.MethodPost, "/api/v1/mods/generate", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Description is required", decode(t, w)["error"], body)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	}
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerateMod_InvalidBody(t *testing.T) {
	r := setupModRouter(offlineLLM())

	w := doJSON(r, http.MethodPost, "/api/v1/mods/generate", `{"description":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decode(t, w)["error"])
}

func TestGenerateMod_DemoMode(t *testing.T) {
	llm := offlineLLM()
	r := setupModRouter(llm)

	w := doJSON(r, http.MethodPost, "/generate-mod", `{"description":"Fire Sword","loader":"fabric","version":"1.20.4"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["demoMode"])
	assert.Equal(t, "fabric", resp["loader"])
	assert.Equal(t, "1.20.4", resp["version"])
	assert.NotEmpty(t, resp["modId"])
	assert.NotContains(t, resp, "aiError")

	modData := resp["modData"].(map[string]interface{})
	assert.Equal(t, "FireSword", modData["modName"])
	assert.Contains(t, modData["mainClass"], "ModInitializer")
	assert.Equal(t, false, modData["textureNeeded"])
	assert.Len(t, modData["files"], 1)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerateMod_FromModel(t *testing.T) {
	llm := onlineLLM("Here it is:\n{\"modName\":\"Blaze\",\"mainClass\":\"class Blaze {}\",\"buildGradle\":\"plugins {}\",\"files\":[],\"textureNeeded\":true}", nil)
	r := setupModRouter(llm)

	w := doJSON(r, http.MethodPost, "/api/v1/mods/generate", `{"description":"Fire Sword"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, false, resp["demoMode"])
	assert.Equal(t, "forge", resp["loader"])
	assert.Equal(t, "1.20.1", resp["version"])
	modData := resp["modData"].(map[string]interface{})
	assert.Equal(t, "Blaze", modData["modName"])
	assert.Equal(t, true, modData["textureNeeded"])
	llm.AssertNumberOfCalls(t, "Complete", 1)
}

func TestGenerateMod_UpstreamFailureStillSucceeds(t *testing.T) {
	r := setupModRouter(onlineLLM("", errors.New("status 401")))

	w := doJSON(r, http.MethodPost, "/api/v1/mods/generate", `{"description":"Fire Sword"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["demoMode"])
	assert.Contains(t, resp["aiError"], "status 401")
}

// ============================================================================
// Chat
// ============================================================================

func TestChatMod_MessageRequired(t *testing.T) {
	llm := onlineLLM("{}", nil)
	r := setupModRouter(llm)

	w := doJSON(r, http.MethodPost, "/api/v1/mods/chat", `{"modId":"m1","currentCode":{}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Message is required", decode(t, w)["error"])
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestChatMod_NotConfigured(t *testing.T) {
	r := setupModRouter(offlineLLM())

	w := doJSON(r, http.MethodPost, "/chat-mod", `{"message":"make it faster"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "OpenAI API key not configured", decode(t, w)["error"])
}

func TestChatMod_UpstreamFailure(t *testing.T) {
	r := setupModRouter(onlineLLM("", errors.New("connection reset")))

	w := doJSON(r, http.MethodPost, "/api/v1/mods/chat", `{"message":"make it faster"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	msg := decode(t, w)["error"].(string)
	assert.True(t, strings.HasPrefix(msg, "Update failed: "), msg)
	assert.Contains(t, msg, "connection reset")
}

func TestChatMod_Success(t *testing.T) {
	r := setupModRouter(onlineLLM(`{"aiMessage":"Faster now","updatedCode":{"mainClass":"class Fast {}"},"changes":["speed"]}`, nil))

	body := `{"modId":"m1","message":"make it faster","currentCode":{"modName":"FireSword","mainClass":"class Old {}","buildGradle":"plugins {}","files":[]}}`
	w := doJSON(r, http.MethodPost, "/api/v1/mods/chat", body)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Faster now", resp["aiMessage"])
	assert.Equal(t, []interface{}{"speed"}, resp["changes"])
	code := resp["updatedCode"].(map[string]interface{})
	assert.Equal(t, "class Fast {}", code["mainClass"])
	assert.Equal(t, "FireSword", code["modName"])
}

func TestChatMod_WrongTypedCurrentCodeIsTolerated(t *testing.T) {
	r := setupModRouter(onlineLLM(`{"aiMessage":"ok"}`, nil))

	body := `{"message":"make it faster","currentCode":{"modName":"FireSword","files":{},"changes":"none"}}`
	w := doJSON(r, http.MethodPost, "/api/v1/mods/chat", body)
	require.Equal(t, http.StatusOK, w.Code)

	code := decode(t, w)["updatedCode"].(map[string]interface{})
	assert.Equal(t, "FireSword", code["modName"])
	assert.Equal(t, []interface{}{}, code["files"])
}

func TestChatMod_UnparsableReply(t *testing.T) {
	r := setupModRouter(onlineLLM("ok!", nil))

	w := doJSON(r, http.MethodPost, "/api/v1/mods/chat", `{"message":"make it faster","currentCode":{"modName":"FireSword"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "Got it! Updating the mod as requested.", resp["aiMessage"])
	assert.Equal(t, []interface{}{"Update applied"}, resp["changes"])
	assert.Equal(t, "FireSword", resp["updatedCode"].(map[string]interface{})["modName"])
}

// ============================================================================
// Port
// ============================================================================

func TestPortMod_JarRequired(t *testing.T) {
	llm := onlineLLM("{}", nil)
	r := setupModRouter(llm)

	w := doJSON(r, http.MethodPost, "/api/v1/mods/port", `{"targetVersion":"1.21"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "JAR file required", decode(t, w)["error"])
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestPortMod_BadArchive(t *testing.T) {
	r := setupModRouter(offlineLLM())

	w := doJSON(r, http.MethodPost, "/port-mod", `{"jarBase64":"bm90IGEgemlw"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	msg := decode(t, w)["error"].(string)
	assert.True(t, strings.HasPrefix(msg, "Port failed: "), msg)
}

func TestPortMod_DemoMode(t *testing.T) {
	r := setupModRouter(offlineLLM())

	jar := testJar(t, map[string]string{
		"com/example/A.java":  "class A {}",
		"com/example/A.class": "\xca\xfe",
		"pack.json":           "{}",
	})
	w := doJSON(r, http.MethodPost, "/api/v1/mods/port", `{"jarBase64":"`+jar+`","targetVersion":"1.21"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["demoMode"])
	assert.Equal(t, float64(1), resp["sourceFiles"])
	assert.Equal(t, "1.21", resp["targetVersion"])
	assert.Equal(t, "forge", resp["loader"])
	assert.NotEmpty(t, resp["portId"])

	modData := resp["modData"].(map[string]interface{})
	assert.Equal(t, "PortedMod", modData["modName"])
	assert.Equal(t, "class A {}", modData["mainClass"])
	assert.Equal(t, []interface{}{"Basic project structure conversion"}, modData["changes"])
}

func TestPortMod_UnparsableReply(t *testing.T) {
	r := setupModRouter(onlineLLM("I could not port this mod.", nil))

	jar := testJar(t, map[string]string{"A.java": "class A {}"})
	w := doJSON(r, http.MethodPost, "/api/v1/mods/port", `{"jarBase64":"`+jar+`"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	msg := decode(t, w)["error"].(string)
	assert.True(t, strings.HasPrefix(msg, "Port failed: "), msg)
}
