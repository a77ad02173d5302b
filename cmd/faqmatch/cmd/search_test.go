package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
)

func TestSearchCmd_ReturnsResults(t *testing.T) {
	// Given: the admissions FAQ
	newProject(t, admissionsFAQ)

	// When: searching a plural form
	res := run(t, "", "search", "hostels")

	// Then: the hostel entry is listed
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Is there a hostel on campus?")
}

func TestSearchCmd_JSON(t *testing.T) {
	newProject(t, admissionsFAQ)

	res := run(t, "", "search", "--format", "json", "scholarships")
	require.NoError(t, res.err)

	var out struct {
		Query string `json:"query"`
		Hits  []struct {
			Index int `json:"index"`
		} `json:"hits"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, "scholarships", out.Query)
	require.NotEmpty(t, out.Hits)
	assert.Equal(t, 3, out.Hits[0].Index)
}

func TestSearchCmd_NoMatch(t *testing.T) {
	newProject(t, admissionsFAQ)

	res := run(t, "", "search", "zeppelin")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `No FAQs match "zeppelin"`)
}

func TestSearchCmd_Validation(t *testing.T) {
	newProject(t, admissionsFAQ)

	tests := []struct {
		name string
		args []string
	}{
		{"zero limit", []string{"search", "--limit", "0", "fees"}},
		{"limit too large", []string{"search", "--limit", "51", "fees"}},
		{"unknown format", []string{"search", "--format", "xml", "fees"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", tt.args...)
			require.Error(t, res.err)
			assert.True(t, apperrors.IsInvalidInput(res.err))
		})
	}
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	newProject(t, admissionsFAQ)

	res := run(t, "", "search")

	require.Error(t, res.err)
}
