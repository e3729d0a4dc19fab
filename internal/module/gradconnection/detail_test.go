package gradconnection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobDetail_AllFields(t *testing.T) {
	d, err := ParseJobDetail("https://example.test/job", fullDetailHTML)

	require.NoError(t, err)
	assert.Equal(t, "https://example.test/job", d.URL)
	assert.Equal(t, "Acme Corp", d.EmployerTitle)
	assert.Equal(t, "Graduate Software Engineer", d.JobTitle)
	assert.Equal(t, "Join our team. Build things.", d.JobDescription)

	fields := map[string]*string{
		"job type":    d.JobType,
		"disciplines": d.Disciplines,
		"work rights": d.WorkRights,
		"locations":   d.Locations,
		"start date":  d.StartDate,
		"end date":    d.EndDate,
		"ai summary":  d.AISummary,
	}
	for name, v := range fields {
		require.NotNil(t, v, name)
	}
	assert.Equal(t, "Graduate Job", *d.JobType)
	assert.Equal(t, "Computer Science, IT", *d.Disciplines)
	assert.Equal(t, "Australian Citizen", *d.WorkRights)
	assert.Equal(t, "Sydney", *d.Locations)
	assert.Equal(t, "February 2027", *d.StartDate)
	assert.Equal(t, "31st Mar 2026", *d.EndDate)
	assert.Equal(t, "A summary.", *d.AISummary)
}

func TestParseJobDetail_OptionalFieldsAbsent(t *testing.T) {
	d, err := ParseJobDetail("https://example.test/job", minimalDetailHTML)

	require.NoError(t, err)
	assert.Equal(t, "Short description", d.JobDescription)
	assert.Nil(t, d.JobType)
	assert.Nil(t, d.Disciplines)
	assert.Nil(t, d.WorkRights)
	assert.Nil(t, d.Locations)
	assert.Nil(t, d.StartDate)
	assert.Nil(t, d.EndDate)
	assert.Nil(t, d.AISummary)
}

func TestParseJobDetail_CategoryWithoutParagraph(t *testing.T) {
	html := strings.Replace(minimalDetailHTML, "</body>",
		`<div class="box-content-catagories"><b class="box-content-catagories-bold">Locations</b></div></body>`, 1)

	d, err := ParseJobDetail("u", html)

	require.NoError(t, err)
	assert.Nil(t, d.Locations)
}

func TestParseJobDetail_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name   string
		remove string
	}{
		{"employer", `<div class="employers-panel"><h2 class="employers-panel-title">Beta</h2></div>`},
		{"title", `<div class="employers-profile-hgroup"><h1 class="employers-profile-h1">Intern</h1></div>`},
		{"description", `<div class="campaign-content-container">Short description</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := strings.Replace(minimalDetailHTML, tt.remove, "", 1)
			require.NotEqual(t, minimalDetailHTML, html)

			_, err := ParseJobDetail("u", html)

			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestDetailActions(t *testing.T) {
	actions := DetailActions()

	require.Len(t, actions, 2)
	assert.Equal(t, ".btn-show-link", actions[0].Selector)
	assert.True(t, actions[0].All)
	assert.Equal(t, ".ai-summary_scroll-overlay-campaign p", actions[1].Selector)
	assert.False(t, actions[1].All)
}
