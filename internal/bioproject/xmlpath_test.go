// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bioproject

import "testing"

const sampleXML = `<?xml version="1.0"?>
<RecordSet>
  <DocumentSummary uid="979185">
    <Project>
      <ProjectID>
        <ArchiveID accession="PRJNA979185" archive="NCBI" id="979185"/>
      </ProjectID>
      <ProjectDescr>
        <Title>Single-cell profiling of airway epithelium</Title>
        <Description>We profiled the airway epithelium across disease states.</Description>
        <ExternalLink label="GEO Series GSE234567">
          <dbXREF db="GEO">
            <ID>GSE234567</ID>
          </dbXREF>
        </ExternalLink>
        <Publication id="39160575" status="ePublish"/>
      </ProjectDescr>
      <ProjectType>
        <ProjectTypeSubmission>
          <Target capture="eWhole" material="eTranscriptome" sample_scope="eMultiisolate">
            <Organism species="9606" taxID="9606">
              <OrganismName>Homo sapiens</OrganismName>
            </Organism>
          </Target>
        </ProjectTypeSubmission>
      </ProjectType>
    </Project>
    <Submission last_update="2024-08-20" submission_id="SUB1" submitted="2023-05-30"/>
  </DocumentSummary>
</RecordSet>`

func TestLookup(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	tests := []struct {
		name   string
		expr   string
		want   string
		wantOK bool
	}{
		{"attribute", "ProjectID/ArchiveID/@accession", "PRJNA979185", true},
		{"element text", "ProjectDescr/Title", "Single-cell profiling of airway epithelium", true},
		{"nested element text", "Organism/OrganismName", "Homo sapiens", true},
		{"predicate match", "ExternalLink/dbXREF[@db='GEO']/ID", "GSE234567", true},
		{"predicate mismatch", "ExternalLink/dbXREF[@db='SRA']/ID", "", false},
		{"attribute on later sibling", "Submission/@submitted", "2023-05-30", true},
		{"missing element", "ProjectDescr/Grant", "", false},
		{"missing attribute", "ProjectID/ArchiveID/@nonexistent", "", false},
		{"missing chain root", "LocusTagPrefix/@biosample_id", "", false},
		{"empty expression", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(doc, tt.expr)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.expr, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	const doc = `<R><A><B x="1">first</B></A><A><B x="2">second</B></A></R>`
	root, err := ParseDocument([]byte(doc))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	got, ok := Lookup(root, "A/B")
	if !ok || got != "first" {
		t.Errorf("Lookup(A/B) = %q, %v; want %q, true", got, ok, "first")
	}
	attr, ok := Lookup(root, "A/B/@x")
	if !ok || attr != "1" {
		t.Errorf("Lookup(A/B/@x) = %q, %v; want %q, true", attr, ok, "1")
	}
}

func TestParseDocumentRejectsEmpty(t *testing.T) {
	if _, err := ParseDocument([]byte("   ")); err == nil {
		t.Error("ParseDocument() expected error for element-free input")
	}
}

func TestParseDocumentRejectsMalformed(t *testing.T) {
	// A syntax error after valid leading elements must fail the whole
	// parse, not yield a partial tree.
	docs := []string{
		`<RecordSet><ProjectDescr><Title>Partial</Title><<<garbage`,
		`<RecordSet><ProjectDescr><Tit`,
	}
	for _, doc := range docs {
		if _, err := ParseDocument([]byte(doc)); err == nil {
			t.Errorf("ParseDocument(%q) expected error for malformed input", doc)
		}
	}
}

func TestInnerTextConcatenatesSubtree(t *testing.T) {
	root, err := ParseDocument([]byte(`<R><A>one <B>two</B> three</A></R>`))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	got, ok := Lookup(root, "A")
	if !ok || got != "one two three" {
		t.Errorf("Lookup(A) = %q, want %q", got, "one two three")
	}
}
