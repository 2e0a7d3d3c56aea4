package releases

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gohugoio/publishrelease/internal/common/errorsh"
	"github.com/gohugoio/publishrelease/internal/releases/releasetypes"
)

func newTestGitHubClient(c *qt.C, mux *http.ServeMux) Client {
	srv := httptest.NewServer(mux)
	c.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Options{
		Type:       releasetypes.GitHub,
		Owner:      "gohugoio",
		Repository: "hugo",
		Token:      "secret",
		BaseURL:    srv.URL + "/",
	})
	c.Assert(err, qt.IsNil)
	return client
}

func TestGitHubClientFindReleaseByTag(t *testing.T) {
	c := qt.New(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/gohugoio/hugo/releases/tags/v1.0.0", func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.Header.Get("Authorization"), qt.Equals, "Bearer secret")
		w.Write([]byte(`{"id":42,"tag_name":"v1.0.0","draft":true,"html_url":"https://github.com/gohugoio/hugo/releases/tag/v1.0.0"}`))
	})
	mux.HandleFunc("/api/v3/repos/gohugoio/hugo/releases/tags/v2.0.0", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/api/v3/repos/gohugoio/hugo/releases/tags/v3.0.0", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	})

	client := newTestGitHubClient(c, mux)
	ctx := context.Background()

	rel, found, err := client.FindReleaseByTag(ctx, "v1.0.0")
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(rel.ID, qt.Equals, int64(42))
	c.Assert(rel.Visibility(), qt.Equals, Draft)

	_, found, err = client.FindReleaseByTag(ctx, "v2.0.0")
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsFalse)

	_, found, err = client.FindReleaseByTag(ctx, "v3.0.0")
	c.Assert(err, qt.ErrorMatches, ".*Bad credentials.*")
	c.Assert(found, qt.IsFalse)
}

func TestGitHubClientCreateUploadUpdate(t *testing.T) {
	c := qt.New(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/gohugoio/hugo/releases", func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.Method, qt.Equals, http.MethodPost)
		var m map[string]any
		c.Check(json.NewDecoder(r.Body).Decode(&m), qt.IsNil)
		c.Check(m["tag_name"], qt.Equals, "v1.0.0")
		c.Check(m["draft"], qt.Equals, true)
		c.Check(m["prerelease"], qt.Equals, true)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"tag_name":"v1.0.0","name":"v1.0.0","draft":true,"prerelease":true}`))
	})
	mux.HandleFunc("/api/uploads/repos/gohugoio/hugo/releases/7/assets", func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.Method, qt.Equals, http.MethodPost)
		c.Check(r.URL.Query().Get("name"), qt.Equals, "a.txt")
		c.Check(r.Header.Get("Content-Type"), qt.Matches, "text/plain.*")
		b, _ := io.ReadAll(r.Body)
		c.Check(string(b), qt.Equals, "hello")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":8,"name":"a.txt","size":5}`))
	})
	mux.HandleFunc("/api/v3/repos/gohugoio/hugo/releases/7", func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.Method, qt.Equals, http.MethodPatch)
		var m map[string]any
		c.Check(json.NewDecoder(r.Body).Decode(&m), qt.IsNil)
		c.Check(m["draft"], qt.Equals, false)
		c.Check(m["prerelease"], qt.Equals, false)
		c.Check(m["make_latest"], qt.Equals, "true")
		w.Write([]byte(`{"id":7,"tag_name":"v1.0.0","draft":false,"prerelease":false,"make_latest":"true"}`))
	})

	client := newTestGitHubClient(c, mux)
	ctx := context.Background()

	rel, err := client.CreateRelease(ctx, CreateOptions{Tag: "v1.0.0", Name: "v1.0.0", Body: "Release notes for v1.0.0", Draft: true, Prerelease: true})
	c.Assert(err, qt.IsNil)
	c.Assert(rel.ID, qt.Equals, int64(7))

	a, err := client.UploadAsset(ctx, rel.ID, "a.txt", []byte("hello"))
	c.Assert(err, qt.IsNil)
	c.Assert(a, qt.DeepEquals, Asset{ID: 8, Name: "a.txt", Size: 5})

	rel, err = client.UpdateRelease(ctx, rel.ID, UpdateOptions{MakeLatest: true})
	c.Assert(err, qt.IsNil)
	c.Assert(rel.Visibility(), qt.Equals, Published)
	c.Assert(rel.Latest, qt.IsTrue)
}

func TestOptionsValidate(t *testing.T) {
	c := qt.New(t)

	valid := Options{Type: releasetypes.GitHub, Owner: "o", Repository: "r", Token: "t"}
	c.Assert(valid.Validate(), qt.IsNil)

	for _, opts := range []Options{
		{Owner: "o", Repository: "r", Token: "t"},
		{Type: releasetypes.GitHub, Owner: "o", Repository: "r"},
		{Type: releasetypes.GitHub, Repository: "r", Token: "t"},
	} {
		err := opts.Validate()
		c.Assert(errorsh.KindOf(err), qt.Equals, errorsh.KindConfiguration)
	}

	client, err := NewClient(context.Background(), Options{Type: releasetypes.GitHub, Owner: "o", Repository: "r", Token: FakeToken})
	c.Assert(err, qt.IsNil)
	_, ok := client.(*FakeClient)
	c.Assert(ok, qt.IsTrue)
}
