package dictionary

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const entryHTML = `<html><body>
<span class="HYPHENATION"> to·ma·to </span>
<span class="PRON">təˈmɑːtəʊ</span>
<span class="PRON">ignored</span>
<span class="AMEVARPRON"> $ <span>təˈmeɪtoʊ</span> </span>
<span class="speaker brefile" data-src-mp3="https://cdn.test/media/english/breProns/tomato.mp3"></span>
<span class="speaker amefile" data-src-mp3="https://cdn.test/media/english/ameProns/tomato.mp3"></span>
</body></html>`

func TestExtractPhonetics(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(entryHTML))
	require.NoError(t, err)

	require.Equal(t, Phonetics{
		Hyphenation: "to·ma·to",
		British:     "təˈmɑːtəʊ",
		American:    "təˈmeɪtoʊ",
	}, ExtractPhonetics(doc))
}

func TestExtractPhoneticsMissingMarkers(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`<html><body><p>nothing here</p></body></html>`))
	require.NoError(t, err)

	p := ExtractPhonetics(doc)
	require.True(t, p.Empty())
	require.Equal(t, Phonetics{}, p)
}

func TestExtractPhoneticsStripsDollarMarkers(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`<span class="AMEVARPRON">$ /fəˈnɛtɪks/ $</span>`))
	require.NoError(t, err)
	require.Equal(t, "/fəˈnɛtɪks/", ExtractPhonetics(doc).American)

	doc, err = ParseDocument([]byte(`<span class="AMEVARPRON"> $ $ </span>`))
	require.NoError(t, err)
	require.Empty(t, ExtractPhonetics(doc).American)
}

func TestPhoneticsIPA(t *testing.T) {
	t.Parallel()

	p := Phonetics{British: "br", American: "am"}
	require.Equal(t, "br", p.IPA(AccentBritish))
	require.Equal(t, "am", p.IPA(AccentAmerican))
	require.Empty(t, p.IPA(Accent("scottish")))
	require.Empty(t, Phonetics{}.IPA(AccentBritish))
}

func TestScraperPhonetics(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]Page{
		"http://longman.test/dictionary/tomato": {StatusCode: http.StatusOK, Body: []byte(entryHTML)},
	}}
	s := NewScraper(fetcher, NewLinkBuilder("http://longman.test", ""), zap.NewNop())

	p, ok := s.Phonetics(context.Background(), "Tomato")
	require.True(t, ok)
	require.Equal(t, "təˈmɑːtəʊ", p.British)
	require.Equal(t, []string{"http://longman.test/dictionary/tomato"}, fetcher.calls)
}

func TestScraperPhoneticsDegradesToNoData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fetcher *fakeFetcher
	}{
		{
			name: "not found",
			fetcher: &fakeFetcher{pages: map[string]Page{
				"http://longman.test/dictionary/zzz": {StatusCode: http.StatusNotFound, Body: []byte(entryHTML)},
			}},
		},
		{
			name:    "network error",
			fetcher: &fakeFetcher{err: errors.New("connection reset")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewScraper(tt.fetcher, NewLinkBuilder("http://longman.test", ""), nil)
			p, ok := s.Phonetics(context.Background(), "zzz")
			require.False(t, ok)
			require.Equal(t, Phonetics{}, p)
		})
	}
}

type fakeFetcher struct {
	pages map[string]Page
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (Page, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return Page{}, f.err
	}
	page, ok := f.pages[url]
	if !ok {
		return Page{URL: url, StatusCode: http.StatusNotFound}, nil
	}
	page.URL = url
	return page, nil
}
