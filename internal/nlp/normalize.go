package nlp

import (
	"regexp"
	"strings"
)

// substitution rewrites spelling variants of one dialect concept into a single
// canonical token. Rules run in declaration order; later rules may re-match the
// output of earlier ones, so the sequence below is fixed and must not be
// reordered.
type substitution struct {
	re   *regexp.Regexp
	repl string
}

var dialectRules = []substitution{
	{regexp.MustCompile(`\b3andi\b`), "3andi"},
	{regexp.MustCompile(`\bma3andich\b`), "ma3andich"},
	{regexp.MustCompile(`\bma3andi\b`), "ma3andich"},
	{regexp.MustCompile(`\b3andek\b`), "3andek"},
	{regexp.MustCompile(`\bma3andek\b`), "ma3andek"},
	{regexp.MustCompile(`\b3andi bac\b`), "bac"},
	{regexp.MustCompile(`\bkhdhitou\b`), "bac"},
	{regexp.MustCompile(`\bfinich\b`), "bac"},
	{regexp.MustCompile(`\bboursa\b`), "bourse"},
	{regexp.MustCompile(`\bboursat\b`), "bourse"},
	{regexp.MustCompile(`\bmastere\b`), "master"},
	{regexp.MustCompile(`\bmaster\b`), "master"},
	{regexp.MustCompile(`\binformatique\b`), "info"},
	{regexp.MustCompile(`\bcomputer science\b`), "info"},
	{regexp.MustCompile(`\b9dim\b`), "9dim"},
	{regexp.MustCompile(`\ble 9dim\b`), "9dim"},
	{regexp.MustCompile(`\ble 3andi\b`), "3andi"},
	{regexp.MustCompile(`\ble ma3andich\b`), "ma3andich"},
	{regexp.MustCompile(`\bey\b`), "oui"},
	{regexp.MustCompile(`\beyy\b`), "oui"},
	{regexp.MustCompile(`\bna3am\b`), "oui"},
	{regexp.MustCompile(`\bla\b`), "non"},
	{regexp.MustCompile(`\blem\b`), "non"},
	{regexp.MustCompile(`\bma\b`), "non"},
	{regexp.MustCompile(`\bbch\b`), "bch"},
	{regexp.MustCompile(`\bnheb\b`), "nheb"},
	{regexp.MustCompile(`\bn7eb\b`), "nheb"},
	{regexp.MustCompile(`\b3ala9a\b`), "3ala9a"},
	{regexp.MustCompile(`\bw9fou\b`), "3ala9a"},
	{regexp.MustCompile(`\benglish\b`), "anglais"},
	{regexp.MustCompile(`\bielts\b`), "anglais"},
	{regexp.MustCompile(`\btoefl\b`), "anglais"},
	{regexp.MustCompile(`\bvisa\b`), "visa"},
	{regexp.MustCompile(`\bflywire\b`), "flywire"},
}

var (
	punctRe      = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes dialectal free text: lower-case, dialect
// substitutions in fixed order, punctuation stripped, whitespace collapsed.
// Normalize is idempotent.
func Normalize(text string) string {
	text = strings.ToLower(text)
	for _, rule := range dialectRules {
		text = rule.re.ReplaceAllString(text, rule.repl)
	}
	text = punctRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
