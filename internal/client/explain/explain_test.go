package explain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	lastModel    string
	lastContents []*genai.Content
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.lastModel = model
	f.lastContents = contents
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	ps := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		ps = append(ps, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: ps}}},
	}
}

func TestGenerate(t *testing.T) {
	fm := &fakeModels{resp: textResponse("Re-encryption ", "happens client-side.")}
	g := &GenAI{models: fm, model: "gemini-3-flash-preview"}

	got, err := g.Generate(context.Background(), "explain")
	require.NoError(t, err)
	assert.Equal(t, "Re-encryption happens client-side.", got)
	assert.Equal(t, "gemini-3-flash-preview", fm.lastModel)
	require.Len(t, fm.lastContents, 1)
	require.Len(t, fm.lastContents[0].Parts, 1)
	assert.Equal(t, "explain", fm.lastContents[0].Parts[0].Text)
}

func TestGenerate_Errors(t *testing.T) {
	boom := errors.New("quota")

	g := &GenAI{models: &fakeModels{err: boom}, model: "m"}
	_, err := g.Generate(context.Background(), "p")
	require.ErrorIs(t, err, boom)

	g = &GenAI{models: &fakeModels{resp: &genai.GenerateContentResponse{}}, model: "m"}
	_, err = g.Generate(context.Background(), "p")
	require.ErrorIs(t, err, ErrEmptyResponse)

	g = &GenAI{models: &fakeModels{resp: textResponse("  ")}, model: "m"}
	_, err = g.Generate(context.Background(), "p")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNew_WithoutKeyIsDisabled(t *testing.T) {
	g, err := New(context.Background(), "", "m")
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "p")
	require.ErrorIs(t, err, ErrDisabled)
}
