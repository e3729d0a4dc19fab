package browser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "performed", Performed.String())
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}

func TestActionResultString(t *testing.T) {
	ok := ActionResult{Name: "show-more", Outcome: Performed, Clicked: 2}
	assert.Equal(t, "show-more: performed (2 clicks)", ok.String())

	bad := ActionResult{Name: "ai-summary", Outcome: Failed, Err: errors.New("detached")}
	assert.Equal(t, "ai-summary: failed after 0 clicks (detached)", bad.String())
}

const revealPage = `<html><body>
<div id="more" style="display:none">hidden details</div>
<a class="btn-show-link" href="#" onclick="document.getElementById('more').style.display='block';document.body.insertAdjacentHTML('beforeend','<p class=\'revealed\'>yes</p>');return false;">Show more</a>
</body></html>`

// Needs a local Chromium; run with PLAYWRIGHT_TESTS=1
func TestManager_RenderRunsActions(t *testing.T) {
	if os.Getenv("PLAYWRIGHT_TESTS") != "1" {
		t.Skip("set PLAYWRIGHT_TESTS=1 to run browser tests")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(revealPage))
	}))
	defer srv.Close()

	m, err := NewManager(Config{Headless: true})
	require.NoError(t, err)
	defer m.Close()

	page, err := m.Render(context.Background(), srv.URL, []Action{
		{Name: "show-more", Selector: ".btn-show-link", All: true},
		{Name: "ai-summary", Selector: ".ai-summary_scroll-overlay-campaign p"},
	})

	require.NoError(t, err)
	require.Len(t, page.Actions, 2)
	assert.Equal(t, Performed, page.Actions[0].Outcome)
	assert.Equal(t, 1, page.Actions[0].Clicked)
	assert.Equal(t, Absent, page.Actions[1].Outcome)
	assert.Contains(t, page.HTML, `class="revealed"`)
}

func TestManager_RenderCancelledContext(t *testing.T) {
	if os.Getenv("PLAYWRIGHT_TESTS") != "1" {
		t.Skip("set PLAYWRIGHT_TESTS=1 to run browser tests")
	}

	m, err := NewManager(Config{Headless: true})
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Render(ctx, "http://127.0.0.1:1", nil)

	assert.ErrorIs(t, err, context.Canceled)
}
