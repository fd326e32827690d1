package cleaner

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/disaster-etl/internal/ir"
)

// Separators of the packed category encoding: "related-1;request-0".
const (
	TokenSeparator = ";"
	ValueSeparator = "-"
)

// SplitTokens splits a packed category string into its label-value tokens.
func SplitTokens(packed string) []string {
	return strings.Split(packed, TokenSeparator)
}

// splitToken splits one token at its last "-" into label and raw value.
func splitToken(token string) (label, value string, err error) {
	i := strings.LastIndex(token, ValueSeparator)
	if i < 0 {
		return "", "", fmt.Errorf("%w: %q has no %q", ErrMalformedToken, token, ValueSeparator)
	}
	return norm.NFC.String(token[:i]), token[i+1:], nil
}

// DeriveLabels fixes the label set from the first category record.
// Labels keep token order. Empty labels are rejected, and so are labels
// repeated in any letter case.
func DeriveLabels(first ir.Category) (ir.LabelSet, error) {
	tokens := SplitTokens(first.Packed)
	labels := make(ir.LabelSet, 0, len(tokens))
	for _, tok := range tokens {
		label, _, err := splitToken(tok)
		if err != nil {
			return nil, fmt.Errorf("id %s: %w", ir.Format(first.ID), err)
		}
		if label == "" {
			return nil, fmt.Errorf("%w: id %s: empty label in %q", ErrMalformedToken, ir.Format(first.ID), tok)
		}
		if foldIndex(labels, label) >= 0 {
			return nil, fmt.Errorf("%w: id %s: label %q repeated", ErrMalformedToken, ir.Format(first.ID), label)
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// Decode decodes one category record against a fixed label set.
//
// Every token must carry the label at the same position in labels, and its
// value must be a base-10 integer. Any integer is accepted.
func Decode(c ir.Category, labels ir.LabelSet) (ir.Decoded, error) {
	tokens := SplitTokens(c.Packed)
	if len(tokens) != len(labels) {
		return nil, fmt.Errorf("%w: id %s: %d tokens, want %d", ErrRaggedCategories, ir.Format(c.ID), len(tokens), len(labels))
	}

	out := make(ir.Decoded, len(labels))
	for i, tok := range tokens {
		label, raw, err := splitToken(tok)
		if err != nil {
			return nil, fmt.Errorf("id %s: %w", ir.Format(c.ID), err)
		}
		if label != labels[i] {
			return nil, fmt.Errorf("%w: id %s: token %d is %q, want %q", ErrRaggedCategories, ir.Format(c.ID), i, label, labels[i])
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: id %s: %q value is not an integer", ErrMalformedToken, ir.Format(c.ID), tok)
		}
		out[label] = n
	}
	return out, nil
}
