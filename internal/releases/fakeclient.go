package releases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

var _ Client = &FakeClient{}

// FakeClient is an in-memory Client used in tests and in trial runs.
// It records every call in order; see Calls.
type FakeClient struct {
	// Errors maps a call, as recorded in Calls, to an error to return for it.
	Errors map[string]error

	// Out receives one line per call. Tests depend on these lines.
	Out io.Writer

	mu        sync.Mutex
	stateFile string
	state     fakeState
	contents  map[string][]byte
}

type fakeState struct {
	NextID   int64             `json:"next_id"`
	Releases []Release         `json:"releases"`
	Assets   map[int64][]Asset `json:"assets"`
	Calls    []string          `json:"calls"`
}

// NewFakeClient creates a FakeClient writing to stdout.
// If stateFile is set, the state is loaded from and saved to that file,
// so several processes can share one fake remote.
func NewFakeClient(stateFile string) (*FakeClient, error) {
	c := &FakeClient{
		Out:       os.Stdout,
		stateFile: stateFile,
	}
	if stateFile == "" {
		return c, nil
	}
	b, err := os.ReadFile(stateFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(b, &c.state); err != nil {
		return nil, fmt.Errorf("fake: invalid state file %q: %w", stateFile, err)
	}
	return c, nil
}

// AddRelease adds rel as if it existed on the remote before the run.
func (c *FakeClient) AddRelease(rel Release) Release {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.NextID++
	rel.ID = c.state.NextID
	c.state.Releases = append(c.state.Releases, rel)
	return rel
}

// Calls returns the calls made so far, e.g. "find v1.0.0" or "upload a.txt".
func (c *FakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.state.Calls...)
}

// Release returns the release for tag.
func (c *FakeClient) Release(tag string) (Release, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOfTag(tag); i >= 0 {
		return c.state.Releases[i], true
	}
	return Release{}, false
}

// Assets returns the assets uploaded to the release with the given ID.
func (c *FakeClient) Assets(releaseID int64) []Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Asset(nil), c.state.Assets[releaseID]...)
}

// Content returns the uploaded bytes of an asset, only available in the process that uploaded it.
func (c *FakeClient) Content(releaseID int64, name string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contents[contentKey(releaseID, name)]
}

func (c *FakeClient) FindReleaseByTag(ctx context.Context, tag string) (Release, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("find " + tag); err != nil {
		return Release{}, false, err
	}
	if i := c.indexOfTag(tag); i >= 0 {
		return c.state.Releases[i], true, nil
	}
	return Release{}, false, nil
}

func (c *FakeClient) CreateRelease(ctx context.Context, opts CreateOptions) (Release, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("create " + opts.Tag); err != nil {
		return Release{}, err
	}
	if c.indexOfTag(opts.Tag) >= 0 {
		return Release{}, fmt.Errorf("fake: tag_name %q already_exists", opts.Tag)
	}
	c.state.NextID++
	rel := Release{
		ID:         c.state.NextID,
		Tag:        opts.Tag,
		Name:       opts.Name,
		URL:        fmt.Sprintf("https://example.org/releases/tag/%s", opts.Tag),
		Draft:      opts.Draft,
		Prerelease: opts.Prerelease,
	}
	c.state.Releases = append(c.state.Releases, rel)
	c.printf("fake: create release: tag=%s name=%q body=%q draft=%t prerelease=%t", opts.Tag, opts.Name, opts.Body, opts.Draft, opts.Prerelease)
	return rel, c.save()
}

func (c *FakeClient) UploadAsset(ctx context.Context, releaseID int64, name string, content []byte) (Asset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("upload " + name); err != nil {
		return Asset{}, err
	}
	if c.indexOfID(releaseID) < 0 {
		return Asset{}, fmt.Errorf("fake: release %d not found", releaseID)
	}
	for _, a := range c.state.Assets[releaseID] {
		if a.Name == name {
			return Asset{}, fmt.Errorf("fake: asset %q already_exists", name)
		}
	}
	if c.state.Assets == nil {
		c.state.Assets = make(map[int64][]Asset)
	}
	if c.contents == nil {
		c.contents = make(map[string][]byte)
	}
	c.state.NextID++
	a := Asset{
		ID:   c.state.NextID,
		Name: name,
		Size: len(content),
		URL:  fmt.Sprintf("https://example.org/releases/download/%d/%s", releaseID, name),
	}
	c.state.Assets[releaseID] = append(c.state.Assets[releaseID], a)
	c.contents[contentKey(releaseID, name)] = append([]byte(nil), content...)
	c.printf("fake: upload asset: name=%s size=%d", name, len(content))
	return a, c.save()
}

func (c *FakeClient) UpdateRelease(ctx context.Context, releaseID int64, opts UpdateOptions) (Release, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call(fmt.Sprintf("update %d", releaseID)); err != nil {
		return Release{}, err
	}
	i := c.indexOfID(releaseID)
	if i < 0 {
		return Release{}, fmt.Errorf("fake: release %d not found", releaseID)
	}
	if opts.MakeLatest {
		for j := range c.state.Releases {
			c.state.Releases[j].Latest = false
		}
	}
	rel := &c.state.Releases[i]
	rel.Draft = opts.Draft
	rel.Prerelease = opts.Prerelease
	rel.Latest = opts.MakeLatest
	c.printf("fake: update release: tag=%s draft=%t prerelease=%t latest=%t", rel.Tag, rel.Draft, rel.Prerelease, rel.Latest)
	return *rel, c.save()
}

// call records the call and returns any injected error for it.
func (c *FakeClient) call(name string) error {
	c.state.Calls = append(c.state.Calls, name)
	if err := c.Errors[name]; err != nil {
		c.printf("fake: %s: %s", name, err)
		return err
	}
	return nil
}

func (c *FakeClient) indexOfTag(tag string) int {
	for i, r := range c.state.Releases {
		if r.Tag == tag {
			return i
		}
	}
	return -1
}

func (c *FakeClient) indexOfID(id int64) int {
	for i, r := range c.state.Releases {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (c *FakeClient) printf(format string, args ...any) {
	if c.Out == nil {
		return
	}
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *FakeClient) save() error {
	if c.stateFile == "" {
		return nil
	}
	b, err := json.MarshalIndent(c.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.stateFile, b, 0o644)
}

func contentKey(releaseID int64, name string) string {
	return fmt.Sprintf("%d/%s", releaseID, name)
}
