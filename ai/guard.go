package ai

import (
	"regexp"
	"strings"
)

// FindingKind classifies suspicious content found in a client document
type FindingKind string

const (
	FindingInstructionOverride FindingKind = "instruction_override"
	FindingRoleManipulation    FindingKind = "role_manipulation"
	FindingDelimiterMarkers    FindingKind = "delimiter_markers"
	FindingEncodedPayload      FindingKind = "encoded_payload"
)

// Finding is one suspicious fragment in scanned content
type Finding struct {
	Kind     FindingKind
	Fragment string
}

// overridePatterns match attempts to cancel or replace the generation
// instructions from inside a document.
var overridePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(previous|all|above|prior)\s+(instructions?|prompts?|commands?)`),
	regexp.MustCompile(`(?i)disregard\s+(all|previous|above|any)\s+(instructions?|rules|commands?)`),
	regexp.MustCompile(`(?i)forget\s+(everything|all\s+previous|what\s+you\s+learned)`),
	regexp.MustCompile(`(?i)new\s+instructions?\s*:`),
}

var rolePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)`),
	regexp.MustCompile(`(?i)pretend\s+(to\s+)?be\s+(a|an)`),
	regexp.MustCompile(`(?i)act\s+as\s+(if\s+)?you\s+are`),
	regexp.MustCompile(`(?i)from\s+now\s+on[,]?\s+you\s+(are|will)`),
}

// delimiterPatterns match conversation-role markers that have no business
// appearing in a company document.
var delimiterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[/?(SYSTEM|USER|ASSISTANT)\]`),
	regexp.MustCompile(`<\|(system|user|assistant|end)\|>`),
	regexp.MustCompile(`###\s*(SYSTEM|USER|ASSISTANT|INSTRUCTION)`),
}

var encodedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)base64\s*[:\s=]\s*[A-Za-z0-9+/]{20,}={0,2}`),
	regexp.MustCompile(`(?:\\x[0-9a-fA-F]{2}){10,}`),
}

// ScanDocument scans client-supplied document content before it is embedded
// in a generation prompt. Strategy and calendar prompts quote the company-OS
// document verbatim, so a document that smuggles instructions would otherwise
// steer the whole generation.
func ScanDocument(content string) []Finding {
	var findings []Finding

	scan := func(kind FindingKind, patterns []*regexp.Regexp) {
		for _, p := range patterns {
			for _, loc := range p.FindAllStringIndex(content, -1) {
				findings = append(findings, Finding{
					Kind:     kind,
					Fragment: clipFragment(content[loc[0]:loc[1]]),
				})
			}
		}
	}

	scan(FindingInstructionOverride, overridePatterns)
	scan(FindingRoleManipulation, rolePatterns)
	scan(FindingDelimiterMarkers, delimiterPatterns)
	scan(FindingEncodedPayload, encodedPatterns)

	return findings
}

// DescribeFindings summarizes findings as a comma-separated list of the
// distinct kinds, for error responses and logs
func DescribeFindings(findings []Finding) string {
	var kinds []string
	seen := make(map[FindingKind]bool)
	for _, f := range findings {
		if !seen[f.Kind] {
			kinds = append(kinds, string(f.Kind))
			seen[f.Kind] = true
		}
	}
	return strings.Join(kinds, ", ")
}

func clipFragment(s string) string {
	const max = 80
	if len(s) > max {
		return s[:max]
	}
	return s
}
