package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"1234", "****"},
		{"12345678", "********"},
		{"123456789", "1234*6789"},
		{"abcdefghij", "abcd**ghij"},
		{"sk-1234567890abcdef", "sk-1***********cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := MaskAPIKey(tt.key)
			if got != tt.want {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestContext_Extra(t *testing.T) {
	ctx := &Context{Name: "test"}

	if got := ctx.GetExtra("key"); got != "" {
		t.Errorf("GetExtra on nil map = %q, want empty string", got)
	}

	ctx.SetExtra("key", "value")
	if ctx.Extra == nil {
		t.Fatal("SetExtra should initialize Extra map")
	}
	if got := ctx.GetExtra("key"); got != "value" {
		t.Errorf("GetExtra(key) = %q, want %q", got, "value")
	}
	if got := ctx.GetExtra("nonexistent"); got != "" {
		t.Errorf("GetExtra(nonexistent) = %q, want empty string", got)
	}
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	return cfg
}

func TestLoadConfigWithPath_NewConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg.Contexts == nil {
		t.Error("Contexts should be initialized")
	}

	// Verify config file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file should be created")
	}
}

func TestConfig_AddContext(t *testing.T) {
	cfg := testConfig(t)

	ctx := &Context{
		Client: &ClientCredentials{
			AppID:     "1234567890",
			AccessKey: "test-key",
		},
		DefaultSpeakers: "liufei",
	}

	if err := cfg.AddContext("production", ctx); err != nil {
		t.Fatalf("AddContext error: %v", err)
	}

	got := cfg.Contexts["production"]
	if got == nil {
		t.Fatal("Context not added")
	}
	if got.Name != "production" {
		t.Errorf("Context.Name = %q, want %q", got.Name, "production")
	}
	if got.Client.AccessKey != "test-key" {
		t.Errorf("Context.Client.AccessKey = %q, want %q", got.Client.AccessKey, "test-key")
	}

	// First added context becomes current.
	if cfg.CurrentContext != "production" {
		t.Errorf("CurrentContext = %q, want %q", cfg.CurrentContext, "production")
	}
}

func TestConfig_DeleteContext(t *testing.T) {
	cfg := testConfig(t)

	cfg.AddContext("ctx1", &Context{})
	cfg.AddContext("ctx2", &Context{})
	cfg.UseContext("ctx1")

	// Delete non-current context
	if err := cfg.DeleteContext("ctx2"); err != nil {
		t.Fatalf("DeleteContext error: %v", err)
	}
	if _, ok := cfg.Contexts["ctx2"]; ok {
		t.Error("Context should be deleted")
	}

	// Delete current context
	if err := cfg.DeleteContext("ctx1"); err != nil {
		t.Fatalf("DeleteContext error: %v", err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("CurrentContext should be cleared, got %q", cfg.CurrentContext)
	}

	if err := cfg.DeleteContext("nonexistent"); err == nil {
		t.Error("DeleteContext should fail for non-existent context")
	}
}

func TestConfig_UseContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.AddContext("production", &Context{})
	cfg.AddContext("staging", &Context{})

	if err := cfg.UseContext("staging"); err != nil {
		t.Fatalf("UseContext error: %v", err)
	}
	if cfg.CurrentContext != "staging" {
		t.Errorf("CurrentContext = %q, want %q", cfg.CurrentContext, "staging")
	}

	if err := cfg.UseContext("nonexistent"); err == nil {
		t.Error("UseContext should fail for non-existent context")
	}
}

func TestConfig_ResolveContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.AddContext("ctx1", &Context{Client: &ClientCredentials{AppID: "app1"}})
	cfg.AddContext("ctx2", &Context{Client: &ClientCredentials{AppID: "app2"}})
	cfg.UseContext("ctx1")

	// Resolve by name
	ctx, err := cfg.ResolveContext("ctx2")
	if err != nil {
		t.Fatalf("ResolveContext(ctx2) error: %v", err)
	}
	if ctx.Client.AppID != "app2" {
		t.Errorf("AppID = %q, want %q", ctx.Client.AppID, "app2")
	}

	// Resolve current (empty name)
	ctx, err = cfg.ResolveContext("")
	if err != nil {
		t.Fatalf("ResolveContext('') error: %v", err)
	}
	if ctx.Client.AppID != "app1" {
		t.Errorf("AppID = %q, want %q", ctx.Client.AppID, "app1")
	}
}

func TestConfig_GetCurrentContext_NotSet(t *testing.T) {
	cfg := testConfig(t)

	if _, err := cfg.GetCurrentContext(); err == nil {
		t.Error("GetCurrentContext should fail when no current context")
	}
}

func TestConfig_ListContexts_Sorted(t *testing.T) {
	cfg := testConfig(t)
	cfg.AddContext("staging", &Context{})
	cfg.AddContext("development", &Context{})
	cfg.AddContext("production", &Context{})

	names := cfg.ListContexts()
	want := []string{"development", "production", "staging"}
	if len(names) != len(want) {
		t.Fatalf("len(names) = %d, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestConfig_Persistence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg1, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg1.AddContext("test", &Context{
		Client: &ClientCredentials{
			AppID:     "1234567890",
			AccessKey: "secret-key",
		},
		Storage: &StorageCredentials{
			Endpoint: "minio.local:9000",
			Bucket:   "podcasts",
		},
		WebSocketURL: "wss://example.com",
	})
	cfg1.UseContext("test")

	// Load again
	cfg2, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg2.CurrentContext != "test" {
		t.Errorf("CurrentContext = %q, want %q", cfg2.CurrentContext, "test")
	}

	ctx, err := cfg2.GetContext("test")
	if err != nil {
		t.Fatalf("GetContext error: %v", err)
	}
	if ctx.Client.AccessKey != "secret-key" {
		t.Errorf("AccessKey = %q, want %q", ctx.Client.AccessKey, "secret-key")
	}
	if ctx.Storage == nil || ctx.Storage.Bucket != "podcasts" {
		t.Errorf("Storage = %+v", ctx.Storage)
	}
	if ctx.WebSocketURL != "wss://example.com" {
		t.Errorf("WebSocketURL = %q", ctx.WebSocketURL)
	}
}
