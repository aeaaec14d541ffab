package pipeline

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/lineage/internal/model"
	"golang.org/x/net/html"
)

// rosterTableID is the marker of the results table on the roster page
const rosterTableID = "elected-mps"

// ParseRoster extracts MP stubs from the roster page HTML.
//
// The page layout is a hard dependency: the table marked elected-mps, a
// tbody, and per-row anchors in cells 3 (MP) and 5 (party) must all be
// present. Any drift is an error, never a partial result — a silently
// shrunken roster is worse than a failed run.
//
// IDs are assigned from the row index over all tbody rows, so rows that
// fail the cell-count predicate leave gaps in the id sequence. The ids are
// stable across runs as long as the page is unchanged, which is what the
// resume checkpoint keys on.
func ParseRoster(htmlContent string, baseURL string) ([]model.MP, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse roster html: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	table := findFirst(doc, byID(rosterTableID))
	if table == nil {
		return nil, fmt.Errorf("roster table %q not found", rosterTableID)
	}

	tbody := findFirst(table, byTag("tbody"))
	if tbody == nil {
		return nil, fmt.Errorf("roster table body not found")
	}

	var mps []model.MP
	for i, row := range findAll(tbody, byTag("tr")) {
		cells := findAll(row, byTag("td"))
		if len(cells) <= 5 {
			continue
		}

		anchors := findAll(cells[3], byTag("a"))
		if len(anchors) == 0 {
			return nil, fmt.Errorf("row %d: MP link not found", i)
		}
		mpAnchor := anchors[len(anchors)-1]

		path := getAttr(mpAnchor, "href")
		if path == "" {
			return nil, fmt.Errorf("row %d: MP link has no href", i)
		}

		name := strings.TrimSpace(extractText(mpAnchor))
		if name == "" {
			return nil, fmt.Errorf("row %d: MP link has no text", i)
		}

		partyAnchor := findFirst(cells[5], byTag("a"))
		if partyAnchor == nil {
			return nil, fmt.Errorf("row %d: party link not found", i)
		}
		rawParty := getAttr(partyAnchor, "title")
		if rawParty == "" {
			return nil, fmt.Errorf("row %d: party link has no title", i)
		}

		ref, err := url.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad MP link %q: %w", i, path, err)
		}

		mps = append(mps, model.MP{
			ID:       i,
			Name:     name,
			URL:      base.ResolveReference(ref).String(),
			RawParty: rawParty,
		})
	}

	if len(mps) == 0 {
		return nil, fmt.Errorf("roster table produced no rows")
	}

	return mps, nil
}
