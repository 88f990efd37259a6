package config_test

import (
	"os"
	"sync"
	"testing"

	"github.com/artpar/docgate/config"
	"github.com/rs/zerolog"
)

func TestHolder_Get(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	got := h.Get()
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.Docs.Title != "Content Server API" {
		t.Errorf("Docs.Title = %s", got.Docs.Title)
	}
}

func TestHolder_Reload(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	newContent := `
docs:
  title: "Renamed API"
`
	if err := os.WriteFile(path, []byte(newContent), 0644); err != nil {
		t.Fatalf("write new config: %v", err)
	}

	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if got := h.Get().Docs.Title; got != "Renamed API" {
		t.Errorf("after reload Docs.Title = %s, want Renamed API", got)
	}
}

func TestHolder_ReloadKeepsOldOnError(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	bad := `
server:
  port: 99999
`
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatalf("write bad config: %v", err)
	}

	if err := h.Reload(); err == nil {
		t.Fatal("expected reload error for invalid config")
	}
	if got := h.Get().Server.Port; got != 9090 {
		t.Errorf("Port = %d, old config should survive failed reload", got)
	}
}

func TestHolder_OnChange(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var seen *config.Config
	h.OnChange(func(c *config.Config) { seen = c })

	if err := os.WriteFile(path, []byte(`
docs:
  title: "Notified"
`), 0644); err != nil {
		t.Fatalf("write new config: %v", err)
	}
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	if seen == nil || seen.Docs.Title != "Notified" {
		t.Errorf("OnChange callback saw %+v", seen)
	}
}

func TestHolder_ConcurrentOnChangeAndReload(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	// Registering callbacks while a reload notifies must be safe; the
	// race detector flags unsynchronized access to the callback slice.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.OnChange(func(*config.Config) {})
		}()
		go func() {
			defer wg.Done()
			if err := h.Reload(); err != nil {
				t.Errorf("Reload error: %v", err)
			}
		}()
	}
	wg.Wait()
}
