package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClient_PrependsAPIPrefix(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))

	if _, err := NewRepositoryService(c).List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotPath != "/pulp/api/repositories/" {
		t.Errorf("path = %q, want /pulp/api/repositories/", gotPath)
	}
}

func TestClient_KeepsExplicitPrefix(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":"t1","state":"finished"}`))
	}))

	// Status paths returned by the server already carry the prefix.
	if _, err := NewRepositoryService(c).SyncStatus(context.Background(), "/pulp/api/tasks/t1/"); err != nil {
		t.Fatalf("SyncStatus: %v", err)
	}
	if gotPath != "/pulp/api/tasks/t1/" {
		t.Errorf("path = %q, prefix should not double up", gotPath)
	}
}

func TestClient_BasicAuth(t *testing.T) {
	var user, pass string
	var ok bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Username: "admin", Password: "s3cret", Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := NewUserService(c).List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !ok || user != "admin" || pass != "s3cret" {
		t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
	}
}

func TestClient_NotFoundIsEmptyNotError(t *testing.T) {
	c := testClient(t, http.NotFoundHandler())

	repo, err := NewRepositoryService(c).Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get on 404 returned error: %v", err)
	}
	if repo != nil {
		t.Errorf("Get on 404 = %+v, want nil", repo)
	}

	user, err := NewUserService(c).Get(context.Background(), "nobody")
	if err != nil || user != nil {
		t.Errorf("user Get on 404 = %+v, %v", user, err)
	}
}

func TestClient_ErrorCarriesStatusAndBody(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("sync already running"))
	}))

	_, err := NewRepositoryService(c).Sync(context.Background(), "zoo", nil)
	if err == nil {
		t.Fatal("expected error for 500")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Body != "sync already running" {
		t.Errorf("Body = %q", apiErr.Body)
	}
}

func TestClient_AcceptedStatuses(t *testing.T) {
	for _, status := range []int{200, 201, 202, 204} {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		if err := NewRepositoryService(c).Delete(context.Background(), "zoo"); err != nil {
			t.Errorf("status %d treated as error: %v", status, err)
		}
	}
}

func TestClient_EmptyBodyLeavesResultUntouched(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	repos, err := NewRepositoryService(c).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repos != nil {
		t.Errorf("List = %v, want nil on empty body", repos)
	}
}

func TestClient_Observe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var resource string
	var status int
	c, err := New(Config{
		BaseURL: srv.URL,
		Logger:  zerolog.Nop(),
		Observe: func(r string, s int) { resource, status = r, s },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := NewErrataService(c).Get(context.Background(), "RHSA-2026:1001"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resource != "errata" || status != http.StatusNotFound {
		t.Errorf("observed %q/%d, want errata/404", resource, status)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&APIError{StatusCode: 404}) {
		t.Error("404 APIError should be not-found")
	}
	if IsNotFound(&APIError{StatusCode: 500}) {
		t.Error("500 APIError should not be not-found")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("plain error should not be not-found")
	}
}

func TestResourceFamily(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/repositories/", "repositories"},
		{"/repositories/zoo/sync/", "repositories"},
		{"/errata/RHSA-2026:1001/", "errata"},
		{"users", "users"},
	}
	for _, tt := range tests {
		if got := resourceFamily(tt.path); got != tt.want {
			t.Errorf("resourceFamily(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRepositoryService_GetFetchesDeferredFields(t *testing.T) {
	var paths []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch {
		case strings.HasSuffix(r.URL.Path, "/zoo/"):
			json.NewEncoder(w).Encode(Repository{ID: "zoo", Name: "Zoo", Arch: "noarch"})
		case strings.HasSuffix(r.URL.Path, "/packages/"):
			json.NewEncoder(w).Encode([]Package{{Name: "lion", Version: "1.0", Release: "1", Arch: "noarch"}})
		case strings.HasSuffix(r.URL.Path, "/packagegroups/"):
			json.NewEncoder(w).Encode([]PackageGroup{{ID: "mammals", Name: "Mammals"}})
		default:
			w.Write([]byte(`[]`))
		}
	}))

	repo, err := NewRepositoryService(c).Get(context.Background(), "zoo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if repo == nil || repo.ID != "zoo" {
		t.Fatalf("repo = %+v", repo)
	}
	if len(repo.Packages) != 1 || repo.Packages[0].Name != "lion" {
		t.Errorf("Packages = %+v", repo.Packages)
	}
	if len(repo.PackageGroups) != 1 {
		t.Errorf("PackageGroups = %+v", repo.PackageGroups)
	}
	if len(paths) != 4 {
		t.Errorf("requests = %v, want base + 3 deferred fetches", paths)
	}
}

func TestConsumerService_GetFetchesDeferredFields(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/web01/"):
			json.NewEncoder(w).Encode(Consumer{ID: "web01", Description: "web host"})
		case strings.HasSuffix(r.URL.Path, "/package_profile/"):
			json.NewEncoder(w).Encode([]Package{{Name: "httpd", Version: "2.4", Release: "1", Arch: "x86_64"}})
		case strings.HasSuffix(r.URL.Path, "/repoids/"):
			json.NewEncoder(w).Encode([]string{"zoo"})
		default:
			http.NotFound(w, r)
		}
	}))

	consumer, err := NewConsumerService(c).Get(context.Background(), "web01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if consumer == nil || len(consumer.PackageProfile) != 1 || len(consumer.RepoIDs) != 1 {
		t.Errorf("consumer = %+v", consumer)
	}
}

func TestConsumerService_ListWithPackage(t *testing.T) {
	var query string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`[{"id":"web01"}]`))
	}))

	got, err := NewConsumerService(c).ListWithPackage(context.Background(), "httpd")
	if err != nil {
		t.Fatalf("ListWithPackage: %v", err)
	}
	if query != "package_name=httpd" {
		t.Errorf("query = %q", query)
	}
	if len(got) != 1 || got[0].ID != "web01" {
		t.Errorf("consumers = %+v", got)
	}
}

func TestRepositoryService_CreateUsesPut(t *testing.T) {
	var method string
	var body map[string]any
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"zoo","name":"Zoo","arch":"noarch"}`))
	}))

	repo, err := NewRepositoryService(c).Create(context.Background(), Repository{ID: "zoo", Name: "Zoo", Arch: "noarch"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if method != http.MethodPut {
		t.Errorf("method = %s, creation rides PUT on the collection", method)
	}
	if body["id"] != "zoo" {
		t.Errorf("body = %v", body)
	}
	if repo.ID != "zoo" {
		t.Errorf("repo = %+v", repo)
	}
}

func TestPackageService_GetByNVREA(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(Package{Name: "lion", Version: "1.0", Release: "1", Epoch: "0", Arch: "noarch"})
	}))

	pkg, err := NewPackageService(c).GetByNVREA(context.Background(), "lion", "1.0", "1", "0", "noarch")
	if err != nil {
		t.Fatalf("GetByNVREA: %v", err)
	}
	if gotPath != "/pulp/api/packages/lion/1.0/1/0/noarch/" {
		t.Errorf("path = %q", gotPath)
	}
	if pkg == nil || pkg.Name != "lion" {
		t.Errorf("pkg = %+v", pkg)
	}
}
