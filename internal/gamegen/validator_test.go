package gamegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cookiz/internal/catalog"
)

func selectionDoc(opts ...catalog.OptionDoc) *catalog.Document {
	return &catalog.Document{
		ID:    "test-game",
		Title: "Test",
		Steps: []catalog.StepDoc{
			{Kind: "selection", Prompt: "Pick one", Options: opts},
			{Kind: "temperature", Prompt: "Chicken is done at", Options: []catalog.OptionDoc{
				{ID: "a", Label: "165F (74C)", Correct: true},
				{ID: "b", Label: "120F (49C)"},
			}},
		},
	}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}

	ok := selectionDoc(
		catalog.OptionDoc{ID: "a", Label: "Whisk", Correct: true},
		catalog.OptionDoc{ID: "b", Label: "Ladle"},
	)
	assert.Nil(t, v.Validate(ok, GenerateInput{}))

	noCorrect := selectionDoc(
		catalog.OptionDoc{ID: "a", Label: "Whisk"},
		catalog.OptionDoc{ID: "b", Label: "Ladle"},
	)
	verr := v.Validate(noCorrect, GenerateInput{})
	require.NotNil(t, verr)
	assert.True(t, verr.Retryable)
	assert.Equal(t, "structural", verr.Validator)

	badOrder := &catalog.Document{ID: "g", Title: "G", Steps: []catalog.StepDoc{
		{Kind: "sequence", Prompt: "Order", Ingredients: []catalog.IngredientDoc{
			{ID: "a", Name: "A"}, {ID: "b", Name: "B"},
		}, CorrectOrder: []string{"a", "a"}},
		ok.Steps[0],
	}}
	assert.NotNil(t, v.Validate(badOrder, GenerateInput{}))

	verr = v.Validate(ok, GenerateInput{Steps: 4})
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "exactly 4")
}

func TestContentValidator(t *testing.T) {
	v := &ContentValidator{}

	tests := []struct {
		name string
		opts []catalog.OptionDoc
		want string
	}{
		{
			name: "valid",
			opts: []catalog.OptionDoc{{ID: "a", Label: "Whisk", Correct: true}, {ID: "b", Label: "Ladle"}},
		},
		{
			name: "duplicate labels ignore case",
			opts: []catalog.OptionDoc{{ID: "a", Label: "Whisk", Correct: true}, {ID: "b", Label: "whisk "}},
			want: "duplicate label",
		},
		{
			name: "two correct",
			opts: []catalog.OptionDoc{{ID: "a", Label: "Whisk", Correct: true}, {ID: "b", Label: "Ladle", Correct: true}},
			want: "exactly one correct",
		},
		{
			name: "too many options",
			opts: []catalog.OptionDoc{
				{ID: "a", Label: "1", Correct: true}, {ID: "b", Label: "2"}, {ID: "c", Label: "3"},
				{ID: "d", Label: "4"}, {ID: "e", Label: "5"}, {ID: "f", Label: "6"}, {ID: "g", Label: "7"},
			},
			want: "more than 6 options",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := v.Validate(selectionDoc(tt.opts...), GenerateInput{})
			if tt.want == "" {
				assert.Nil(t, verr)
				return
			}
			require.NotNil(t, verr)
			assert.Contains(t, verr.Message, tt.want)
			assert.True(t, strings.HasPrefix(verr.Message, "step 1:"))
		})
	}
}

func TestContentValidator_LongPrompt(t *testing.T) {
	doc := selectionDoc(catalog.OptionDoc{ID: "a", Label: "A", Correct: true}, catalog.OptionDoc{ID: "b", Label: "B"})
	doc.Steps[1].Prompt = strings.Repeat("x", MaxPromptLength+1)

	verr := (&ContentValidator{}).Validate(doc, GenerateInput{})
	require.NotNil(t, verr)
	assert.Equal(t, "step 2: prompt exceeds 300 characters", verr.Message)
}
