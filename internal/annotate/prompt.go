// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/prjmeta/internal/sra"
	"github.com/pdiddy/prjmeta/pkg/types"
)

const promptHeader = `Goal:
From BioProject / GEO / PubMed / SRA metadata, extract key study information and output JSON (no explanation).

Output JSON format:
{
  "disease_major": "ICD-11 chapter name (English)",
  "disease_minor": "specific disease name (English, e.g., COVID-19)",
  "icd11_code": "ICD-11 code if available, else NA",
  "sample_source": "sample origin in English (e.g., PBMC, serum, lung tissue)",
  "grouping_columns": [
    {
      "column_name": "metadata column name",
      "grouping_logic": {"value or regex:pattern": "GroupName"},
      "confidence": "High/Medium/Low",
      "reason": "short reasoning"
    }
  ]
}

Constraints:
- All output must be in English.
- disease_major should correspond to an ICD-11 chapter name.
- Do NOT include 'group' in group names.
- Timepoints should use dayN format (e.g., day7, day14).
`

// BuildPrompt assembles the user prompt from the project record, the
// fetched literature, and the sample-column preview.
func BuildPrompt(project types.ProjectRecord, lit *types.LiteratureCollection, preview []sra.ColumnPreview) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	b.WriteString("\nBioProject:\n")
	writeJSON(&b, project)

	b.WriteString("\nPubMed:\n")
	writeJSON(&b, lit)

	b.WriteString("\nSRA columns preview (deduplicated):\n")
	for _, p := range preview {
		fmt.Fprintf(&b, "- %s (%d distinct): %s\n", p.Name, p.Distinct, strings.Join(p.Examples, ", "))
	}

	return b.String()
}

func writeJSON(b *strings.Builder, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		b.WriteString("(unavailable)\n")
		return
	}
	b.Write(data)
	b.WriteByte('\n')
}
