package cleaner

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Cleaner turns scraped HTML fragments into plain text
type Cleaner struct {
	policy *bluemonday.Policy
}

// NewCleaner creates a cleaner that strips all markup
func NewCleaner() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

// CleanToText removes all HTML and collapses runs of whitespace to a single space
func (c *Cleaner) CleanToText(fragment string) string {
	// Block boundaries would otherwise glue adjacent words together
	fragment = blockBoundary.Replace(fragment)
	text := html.UnescapeString(c.policy.Sanitize(fragment))
	return strings.Join(strings.Fields(text), " ")
}

var blockBoundary = strings.NewReplacer(
	"<br>", " <br>",
	"<br/>", " <br/>",
	"<br />", " <br />",
	"</p>", "</p> ",
	"</div>", "</div> ",
	"</li>", "</li> ",
	"</h1>", "</h1> ",
	"</h2>", "</h2> ",
	"</h3>", "</h3> ",
	"</h4>", "</h4> ",
	"</tr>", "</tr> ",
	"</td>", "</td> ",
)
