package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/dugout/internal/fetch"
	"github.com/fortuna/dugout/internal/registry"
)

func newPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	reg, err := registry.LoadDefault()
	require.NoError(t, err)
	return New(reg, fetch.NewHTTPFetcher(time.Second), opts)
}

func TestScenario_LowercaseCodeResolves(t *testing.T) {
	p := newPipeline(t, Options{})
	for _, in := range []string{"nyy", "NYY", "Nyy", "nYy"} {
		rec, err := p.ResolveTeam(in)
		require.NoError(t, err, in)
		assert.Equal(t, "NYY", rec.Code)
	}
}

func TestScenario_AliasResolves(t *testing.T) {
	p := newPipeline(t, Options{})
	rec, err := p.ResolveTeam("Yankees")
	require.NoError(t, err)
	assert.Equal(t, "NYY", rec.Code)
}

func TestScenario_UnknownTeamListsSortedCodes(t *testing.T) {
	p := newPipeline(t, Options{})
	_, err := p.ResolveTeam("ZZZ")

	var ute *UnknownTeamError
	require.ErrorAs(t, err, &ute)
	assert.ErrorIs(t, err, registry.ErrNotFound)

	codes := p.Registry().AllCodes()
	assert.Equal(t, codes, ute.ValidCodes)

	reply := Reply(err)
	assert.Equal(t, "Team not found. Must be one of: "+strings.Join(codes, " | "), reply)
	assert.True(t, strings.HasPrefix(reply, "Team not found. Must be one of: ARI | ATL | BAL"))
}

func TestScenario_BuildScoreboardURL(t *testing.T) {
	p := newPipeline(t, Options{})
	url, err := p.BuildRequestURL("https://example.test/team/{id}", "NYY", registry.ProviderScoreboard)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/team/10", url)
}

func TestScenario_UnreachableHostReplies(t *testing.T) {
	p := newPipeline(t, Options{})

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/team/10"
	srv.Close()

	_, err := p.Fetch(context.Background(), url, nil)
	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), url)
	assert.Equal(t, "Failed to open: "+url, Reply(err))
}

func TestResolveTeam_TrimsOnlySurroundingWhitespace(t *testing.T) {
	p := newPipeline(t, Options{})

	rec, err := p.ResolveTeam("  red sox \t")
	require.NoError(t, err)
	assert.Equal(t, "BOS", rec.Code)

	for _, in := range []string{"", "   ", "N Y Y", "NY Y"} {
		_, err := p.ResolveTeam(in)
		var ute *UnknownTeamError
		assert.ErrorAs(t, err, &ute, "input %q", in)
	}
}

func TestBuildRequestURL_ExactSubstitution(t *testing.T) {
	p := newPipeline(t, Options{})
	templates := []string{
		"https://example.test/team/{id}",
		"https://example.test/mlb/team/roster/_/name/{id}/type/40-man?x=%7Bid%7D&y=1#frag",
		"{id}",
		"http://a.test/{id}/schedule?foo=bar&baz=Q%20R",
	}
	for _, code := range p.Registry().AllCodes() {
		for _, prov := range registry.KnownProviders {
			id, err := p.Registry().ProviderID(code, prov)
			require.NoError(t, err)
			for _, tmpl := range templates {
				got, err := p.BuildRequestURL(tmpl, code, prov)
				require.NoError(t, err)

				i := strings.Index(tmpl, Placeholder)
				want := tmpl[:i] + id + tmpl[i+len(Placeholder):]
				assert.Equal(t, want, got)
			}
		}
	}
}

func TestBuildRequestURL_Errors(t *testing.T) {
	reg, err := registry.New([]registry.TeamRecord{
		{Code: "NYY", FullName: "New York Yankees", ProviderIDs: map[registry.Provider]string{registry.ProviderScoreboard: "10"}},
	})
	require.NoError(t, err)
	p := New(reg, nil, Options{})

	_, err = p.BuildRequestURL("https://example.test/team/{id}", "NYY", registry.ProviderInjury)
	var mpm *MissingProviderMappingError
	require.ErrorAs(t, err, &mpm)
	assert.Equal(t, "NYY", mpm.Code)
	assert.Equal(t, "Could not resolve NYY for injury-provider.", Reply(err))

	_, err = p.BuildRequestURL("https://example.test/team/{id}", "ZZZ", registry.ProviderScoreboard)
	var ute *UnknownTeamError
	assert.ErrorAs(t, err, &ute)

	_, err = p.BuildRequestURL("https://example.test/team/", "NYY", registry.ProviderScoreboard)
	assert.ErrorContains(t, err, "exactly one")

	_, err = p.BuildRequestURL("https://example.test/{id}/{id}", "NYY", registry.ProviderScoreboard)
	assert.ErrorContains(t, err, "exactly one")
}

func TestResolve(t *testing.T) {
	p := newPipeline(t, Options{})
	req, err := p.Resolve("White Sox", registry.ProviderRoster, "https://example.test/roster/{id}")
	require.NoError(t, err)
	assert.Equal(t, "CWS", req.Team.Code)
	assert.Equal(t, "chw", req.ProviderID)
	assert.Equal(t, registry.ProviderRoster, req.Provider)
	assert.Equal(t, "https://example.test/roster/chw", req.URL)

	_, err = p.Resolve("nobody", registry.ProviderRoster, "https://example.test/roster/{id}")
	var ute *UnknownTeamError
	assert.ErrorAs(t, err, &ute)
}

func TestFetch_NonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := newPipeline(t, Options{LogOutboundURLs: true})
	_, err := p.Fetch(context.Background(), srv.URL+"/x", nil)

	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, srv.URL+"/x", fe.URL)
}

type plainErrFetcher struct{}

func (plainErrFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	return "", errors.New("boom")
}

func TestFetch_WrapsForeignErrors(t *testing.T) {
	reg, err := registry.LoadDefault()
	require.NoError(t, err)
	p := New(reg, plainErrFetcher{}, Options{})

	_, err = p.Fetch(context.Background(), "https://example.test/a", nil)
	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "https://example.test/a", fe.URL)
}

func TestAPIKey(t *testing.T) {
	reg, err := registry.LoadDefault()
	require.NoError(t, err)
	keys := map[registry.Provider]string{registry.ProviderNews: "abc"}
	p := New(reg, nil, Options{APIKeys: keys})

	key, err := p.APIKey(registry.ProviderNews)
	require.NoError(t, err)
	assert.Equal(t, "abc", key)

	// the pipeline keeps its own copy
	keys[registry.ProviderNews] = "changed"
	key, _ = p.APIKey(registry.ProviderNews)
	assert.Equal(t, "abc", key)

	_, err = p.APIKey(registry.ProviderSalary)
	var mk *MissingAPIKeyError
	require.ErrorAs(t, err, &mk)
	assert.Equal(t, "API key not set for salary-provider.", Reply(err))
}

func TestReply_Generic(t *testing.T) {
	assert.Equal(t, "", Reply(nil))
	assert.Equal(t, GenericReply, Reply(errors.New("x")))
	assert.Equal(t, "Failed to open: https://a.test", Reply(fmt.Errorf("wrapped: %w", &fetch.Error{URL: "https://a.test"})))
}

func TestConcurrentResolution(t *testing.T) {
	p := newPipeline(t, Options{})
	inputs := []string{"nyy", "Yankees", "red sox", "KC", "ZZZ", "Expos", "chw"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := inputs[i%len(inputs)]
			req, err := p.Resolve(in, registry.ProviderScoreboard, "https://example.test/team/{id}")
			if in == "ZZZ" {
				assert.Error(t, err)
				return
			}
			if assert.NoError(t, err) {
				assert.Equal(t, "https://example.test/team/"+req.ProviderID, req.URL)
			}
		}(i)
	}
	wg.Wait()
}
