package chat

import (
	"regexp"
	"strings"

	"github.com/atmohq/atmo-backend/internal/modules/docgen"
)

// Intent is the document-generation decision for one user message.
type Intent struct {
	ForceSave             bool `json:"forceSave"`
	IsExplicitRequest     bool `json:"isExplicitRequest"`
	IsNonDocumentCreation bool `json:"isNonDocumentCreation"`
	ShouldGenerate        bool `json:"shouldGenerate"`
}

var (
	forceSaveRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(save|export|download)\b[^.?!]*\b(to|as|into|in)\s+(my\s+|the\s+|a\s+)?(outputs?|pdf|documents?|files?)\b`),
		regexp.MustCompile(`(?i)\badd\s+(this|it|that)\s+to\s+(my\s+)?outputs?\b`),
	}

	explicitRequestRule = regexp.MustCompile(`(?i)\b(create|make|generate|write|draft|build|prepare|produce|compose|put together)\b(\s+[\w'&-]+){0,5}?\s+(document|doc|plan|strategy|guide|framework|report|analysis|roadmap|pdf|proposal|playbook|brief|whitepaper)s?\b`)

	nonDocumentRule = regexp.MustCompile(`(?i)\b(create|add|start|build|set\s?up|make|new|schedule)\s+(a\s+|an\s+|the\s+|new\s+|another\s+|one\s+more\s+)*(project|task|goal|event|milestone|meeting|reminder|todo|to-do|insight|note|habit)s?\b`)
)

// ClassifyIntent decides from the raw message alone whether a document should be generated.
func ClassifyIntent(msg string) Intent {
	msg = strings.TrimSpace(msg)
	in := Intent{}
	for _, re := range forceSaveRules {
		if re.MatchString(msg) {
			in.ForceSave = true
			break
		}
	}
	in.IsExplicitRequest = explicitRequestRule.MatchString(msg)
	in.IsNonDocumentCreation = nonDocumentRule.MatchString(msg)
	in.ShouldGenerate = in.ForceSave || (in.IsExplicitRequest && !in.IsNonDocumentCreation)
	return in
}

var documentTypeRules = []struct {
	re  *regexp.Regexp
	typ docgen.DocumentType
}{
	{regexp.MustCompile(`(?i)\bbusiness\s+plan\b`), docgen.TypeBusinessPlan},
	{regexp.MustCompile(`(?i)\b(marketing|go[\s-]to[\s-]market|gtm|brand|growth)\b`), docgen.TypeMarketingStrategy},
	{regexp.MustCompile(`(?i)\bproject\s+plan\b`), docgen.TypeProjectPlan},
	{regexp.MustCompile(`(?i)\broadmap\b`), docgen.TypeRoadmap},
	{regexp.MustCompile(`(?i)\b(research|report|whitepaper)\b`), docgen.TypeResearchReport},
	{regexp.MustCompile(`(?i)\b(guide|playbook|how[\s-]to)\b`), docgen.TypeGuide},
	{regexp.MustCompile(`(?i)\bframework\b`), docgen.TypeFramework},
	{regexp.MustCompile(`(?i)\b(analysis|swot|assessment|audit)\b`), docgen.TypeAnalysis},
}

// DetectDocumentType picks the document domain; first matching rule wins.
func DetectDocumentType(msg string) docgen.DocumentType {
	for _, r := range documentTypeRules {
		if r.re.MatchString(msg) {
			return r.typ
		}
	}
	return docgen.TypeStrategy
}
