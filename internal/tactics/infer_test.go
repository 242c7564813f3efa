package tactics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/squad-builder/internal/llm"
	"github.com/jonathan/squad-builder/internal/types"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *MockLLMClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{"formation":"4-3-3","buildUpStyle":"Balanced","defensiveApproach":"Balanced"}`, nil
}

func (m *MockLLMClient) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

func respond(body string) *MockLLMClient {
	return &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return body, nil
		},
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		body string
		want types.Tactics
	}{
		{
			name: "all fields valid",
			body: `{"formation":"4-4-2","buildUpStyle":"Counter-Attack","defensiveApproach":"Deep Block","budgetEnabled":true,"budget":350}`,
			want: types.Tactics{Formation: "4-4-2", BuildUpStyle: "Counter-Attack", DefensiveApproach: "Deep Block", BudgetEnabled: true, Budget: 350},
		},
		{
			name: "fenced JSON",
			body: "```json\n{\"formation\":\"3-5-2\",\"buildUpStyle\":\"Short Passing\",\"defensiveApproach\":\"High Press\"}\n```",
			want: types.Tactics{Formation: "3-5-2", BuildUpStyle: "Short Passing", DefensiveApproach: "High Press"},
		},
		{
			name: "unknown enums fall back individually",
			body: `{"formation":"2-3-5","buildUpStyle":"Tiki-Taka","defensiveApproach":"Aggressive"}`,
			want: types.Tactics{Formation: "4-3-3", BuildUpStyle: "Balanced", DefensiveApproach: "Aggressive"},
		},
		{
			name: "enabled budget above ceiling",
			body: `{"formation":"4-3-3","buildUpStyle":"Balanced","defensiveApproach":"Balanced","budgetEnabled":true,"budget":5000}`,
			want: types.Tactics{Formation: "4-3-3", BuildUpStyle: "Balanced", DefensiveApproach: "Balanced", BudgetEnabled: true, Budget: 200},
		},
		{
			name: "enabled budget missing",
			body: `{"formation":"4-3-3","buildUpStyle":"Balanced","defensiveApproach":"Balanced","budgetEnabled":true,"budget":null}`,
			want: types.Tactics{Formation: "4-3-3", BuildUpStyle: "Balanced", DefensiveApproach: "Balanced", BudgetEnabled: true, Budget: 200},
		},
		{
			name: "disabled budget is zeroed",
			body: `{"formation":"4-2-3-1","buildUpStyle":"Balanced","defensiveApproach":"Balanced","budgetEnabled":false,"budget":150}`,
			want: types.Tactics{Formation: "4-2-3-1", BuildUpStyle: "Balanced", DefensiveApproach: "Balanced"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewInferrer(respond(tt.body), nil).Infer(context.Background(), "whatever")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfer_FailuresYieldDefaults(t *testing.T) {
	tests := []struct {
		name   string
		client *MockLLMClient
	}{
		{
			name: "model error",
			client: &MockLLMClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
				return "", errors.New("quota exceeded")
			}},
		},
		{name: "not JSON", client: respond("I think a 4-4-2 would be nice")},
		{name: "schema mismatch", client: respond(`{"formation":442}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewInferrer(tt.client, nil).Infer(context.Background(), "cheap squad")
			assert.Error(t, err)
			assert.Equal(t, Defaults(), got)
		})
	}
}

func TestInfer_PromptCarriesMessageAndOptions(t *testing.T) {
	var seen string
	var tier llm.ModelTier
	client := &MockLLMClient{GenerateJSONFunc: func(_ context.Context, prompt string, tr llm.ModelTier) (string, error) {
		seen, tier = prompt, tr
		return `{"formation":"4-3-3","buildUpStyle":"Balanced","defensiveApproach":"Balanced"}`, nil
	}}

	_, err := NewInferrer(client, nil).Infer(context.Background(), "  park the bus under 100M  ")
	require.NoError(t, err)

	assert.Equal(t, llm.TierStandard, tier)
	assert.Contains(t, seen, "Request: park the bus under 100M")
	assert.Contains(t, seen, "3-4-3, 3-5-2, 4-2-3-1, 4-3-3, 4-4-2")
	assert.Contains(t, seen, "Deep Block")
	assert.False(t, strings.Contains(seen, "{{."), "no unresolved placeholders")
}
