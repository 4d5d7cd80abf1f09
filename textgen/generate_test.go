package textgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/draftsmith/topic"
)

type stubProvider struct {
	reply  string
	err    error
	prompt string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func mustParse(t *testing.T, raw string) topic.Spec {
	t.Helper()
	spec, err := topic.Parse(raw, topic.DefaultItemCount)
	require.NoError(t, err)
	return spec
}

func TestGenerate_Success(t *testing.T) {
	p := &stubProvider{reply: "```json\n" + `{
		"title": "Five Lamps Worth Buying",
		"intro": "<p>Good light matters.</p>",
		"items": [
			{"title": "Arc lamp", "content": "<p>Tall.</p>", "imagePrompt": "arc lamp in a study"},
			{"title": "Clip lamp", "content": "Small and **handy**.", "image_prompt": "clip lamp on a shelf"},
			{"title": "Banker lamp", "content": "<p>Classic.</p>"},
		],
		"conclusion": "<p>Pick one.</p>",
	}` + "\n```"}
	spec := mustParse(t, "5 best desk lamps")

	gen, err := Generate(context.Background(), p, spec, "lighting, Home Office, lighting")
	require.NoError(t, err)

	assert.Equal(t, "Five Lamps Worth Buying", gen.Title)
	assert.Equal(t, "best-desk-lamps", gen.Slug)
	assert.Equal(t, "Good light matters....", gen.Excerpt)
	assert.Equal(t, []string{"best", "lighting", "home office"}, gen.Tags)
	require.Len(t, gen.Items, 3)
	assert.Equal(t, "arc lamp in a study", gen.Items[0].ImagePrompt)
	assert.Equal(t, "clip lamp on a shelf", gen.Items[1].ImagePrompt)
	assert.Equal(t, "Banker lamp", gen.Items[2].ImagePrompt)
	assert.Equal(t, "<p>Small and <strong>handy</strong>.</p>", gen.Items[1].Content)

	assert.Contains(t, p.prompt, "exactly 5 items")
	assert.Contains(t, p.prompt, `"best desk lamps"`)
	assert.Contains(t, p.prompt, "lighting, Home Office, lighting")
}

func TestGenerate_MissingFieldsDefault(t *testing.T) {
	p := &stubProvider{reply: `{"title": "Only a title"}`}
	gen, err := Generate(context.Background(), p, mustParse(t, "cozy living room ideas"), "")
	require.NoError(t, err)

	assert.NotNil(t, gen.Items)
	assert.Empty(t, gen.Items)
	assert.Equal(t, "", gen.Intro)
	assert.Equal(t, "", gen.Conclusion)
	assert.Equal(t, "", gen.Excerpt)
	assert.Equal(t, []string{"cozy"}, gen.Tags)
}

func TestGenerate_EmptyTitleUsesTopic(t *testing.T) {
	p := &stubProvider{reply: `{"intro": "<p>x</p>"}`}
	gen, err := Generate(context.Background(), p, mustParse(t, "3 quiet mornings"), "")
	require.NoError(t, err)
	assert.Equal(t, "quiet mornings", gen.Title)
}

func TestGenerate_GuidePrompt(t *testing.T) {
	p := &stubProvider{reply: `{}`}
	_, err := Generate(context.Background(), p, mustParse(t, "cozy living room ideas"), "")
	require.NoError(t, err)

	assert.Contains(t, p.prompt, "as a guide")
	assert.NotContains(t, p.prompt, "exactly")
	assert.NotContains(t, p.prompt, "keywords")
}

func TestGenerate_LongIntroExcerpt(t *testing.T) {
	p := &stubProvider{reply: `{"intro": "<p>` + strings.Repeat("cozy ", 80) + `</p>"}`}
	gen, err := Generate(context.Background(), p, mustParse(t, "cozy living room ideas"), "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(gen.Excerpt)), 163)
	assert.True(t, strings.HasSuffix(gen.Excerpt, "..."))
}

func TestGenerate_Errors(t *testing.T) {
	spec := mustParse(t, "5 best desk lamps")

	_, err := Generate(context.Background(), nil, spec, "")
	assert.ErrorIs(t, err, ErrNoProvider)

	upstream := &UpstreamHTTPError{Provider: "stub", StatusCode: 502, Body: "bad gateway"}
	_, err = Generate(context.Background(), &stubProvider{err: upstream}, spec, "")
	var httpErr *UpstreamHTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "bad gateway")

	_, err = Generate(context.Background(), &stubProvider{reply: "   "}, spec, "")
	assert.ErrorIs(t, err, ErrUpstreamShape)

	_, err = Generate(context.Background(), &stubProvider{reply: "no json here"}, spec, "")
	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestTags_CapsKeywords(t *testing.T) {
	tags := Tags(mustParse(t, "Plants"), "a, b, c, d, e, f, g")
	assert.Equal(t, []string{"plants", "a", "b", "c", "d", "e"}, tags)
}

func TestNormalizeHTML(t *testing.T) {
	assert.Equal(t, "", NormalizeHTML("  "))
	assert.Equal(t, "<p>Already html</p>", NormalizeHTML("<p>Already html</p>"))
	assert.Equal(t, "<p>Plain text</p>", NormalizeHTML("Plain text"))
	assert.Equal(t, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>", NormalizeHTML("- one\n- two"))
	assert.Equal(t, "<p>1 &lt; 2</p>", NormalizeHTML("1 < 2"))
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitKeywords(" a, ,b c ,"))
	assert.Nil(t, SplitKeywords(""))
}
