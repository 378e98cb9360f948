// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"regexp"
	"strings"

	"github.com/pdiddy/prjmeta/pkg/types"
)

// parserState tracks which multi-line field continuation lines belong to.
type parserState int

const (
	stateNone parserState = iota
	stateTitle
	stateAbstract
)

// doiPattern matches an article-identifier line carrying a DOI, e.g.
// "AID - 10.1038/s41586-024-07123-7 [doi]".
var doiPattern = regexp.MustCompile(`^AID\s*-\s*(\S+)\s+\[doi\]`)

// ParseMedline parses one record in MEDLINE flat key-value format. Each
// logical field starts with a fixed tag ("TI  - ", "AB  - ", ...);
// continuation lines are indented and untagged and extend the current
// field. Title and abstract may continue; journal and date are single
// line. Missing fields stay absent.
func ParseMedline(pmid, text string) *types.LiteratureRecord {
	rec := &types.LiteratureRecord{PMID: types.Field(pmid)}

	var titleParts, abstractParts []string
	var journal, pubDate, doi string

	state := stateNone
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		switch {
		case tagged(line, "TI"):
			titleParts = append(titleParts, tagContent(line, "TI"))
			state = stateTitle
		case tagged(line, "AB"):
			abstractParts = append(abstractParts, tagContent(line, "AB"))
			state = stateAbstract
		case tagged(line, "JT"):
			journal = tagContent(line, "JT")
			state = stateNone
		case tagged(line, "DP"):
			pubDate = tagContent(line, "DP")
			state = stateNone
		case doiPattern.MatchString(line):
			doi = doiPattern.FindStringSubmatch(line)[1]
			state = stateNone
		case isContinuation(line):
			switch state {
			case stateTitle:
				titleParts = append(titleParts, strings.TrimSpace(line))
			case stateAbstract:
				abstractParts = append(abstractParts, strings.TrimSpace(line))
			}
		default:
			// Any other tagged line ends the current multi-line field.
			if len(line) > 0 && line[0] != ' ' {
				state = stateNone
			}
		}
	}

	rec.Title = joinField(titleParts)
	rec.Abstract = joinField(abstractParts)
	rec.Journal = types.Field(strings.TrimSpace(journal))
	rec.PubDate = types.Field(strings.TrimSpace(pubDate))
	rec.DOI = types.Field(strings.TrimSpace(doi))
	return rec
}

// tagged reports whether the line begins the named MEDLINE field. Tags
// occupy four columns followed by "- ".
func tagged(line, tag string) bool {
	return strings.HasPrefix(line, paddedTag(tag))
}

// tagContent returns the text after the tag marker.
func tagContent(line, tag string) string {
	return strings.TrimSpace(line[len(paddedTag(tag)):])
}

func paddedTag(tag string) string {
	for len(tag) < 4 {
		tag += " "
	}
	return tag + "- "
}

// isContinuation reports whether the line extends the previous field:
// indented, untagged, non-blank.
func isContinuation(line string) bool {
	return strings.HasPrefix(line, " ") && strings.TrimSpace(line) != ""
}

// joinField space-joins the collected parts, trimmed. No parts at all
// means the field is absent rather than an empty string with separators.
func joinField(parts []string) types.Field {
	return types.Field(strings.TrimSpace(strings.Join(parts, " ")))
}
