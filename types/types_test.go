package types_test

import (
	"testing"

	"docqa/types"

	"github.com/stretchr/testify/assert"
)

func TestFileNameFromID(t *testing.T) {
	cases := map[string]string{
		"report.pdf-chunk-7":         "report.pdf",
		"notes.txt-chunk-0":          "notes.txt",
		"my-chunk-file.txt-chunk-12": "my-chunk-file.txt",
		"no-suffix-at-all":           "no-suffix-at-all",
	}
	for id, want := range cases {
		assert.Equal(t, want, types.FileNameFromID(id), "id %q", id)
	}
}

func TestQueryParamsValidation(t *testing.T) {
	params := &types.QueryParams{}
	assert.NotEmpty(t, types.Validate(params))

	params.Question = "what changed?"
	assert.Empty(t, types.Validate(params))
}
