package llm

import "strings"

var specialTokens = strings.NewReplacer(
	"<pad>", " ",
	"</s>", " ",
	"<s>", " ",
	"<unk>", " ",
)

var tokenizationSpaces = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" ?", "?",
	" !", "!",
	" ;", ";",
	" :", ":",
	" 's", "'s",
	" n't", "n't",
	" 'm", "'m",
	" 've", "'ve",
	" 're", "'re",
)

// TruncateInput bounds the prompt to maxWords whitespace separated words.
func TruncateInput(text string, maxWords int) string {
	fields := strings.Fields(text)
	if maxWords <= 0 || len(fields) <= maxWords {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:maxWords], " ")
}

// CleanOutput strips seq2seq special tokens and the spaces tokenizers leave before punctuation.
func CleanOutput(text string) string {
	text = specialTokens.Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	return tokenizationSpaces.Replace(text)
}

// BlockRepeatedNgrams drops every word that would complete an n-gram already present
// earlier in the text. Words are compared case-insensitively.
func BlockRepeatedNgrams(text string, n int) string {
	words := strings.Fields(text)
	if n <= 0 || len(words) < n {
		return text
	}

	seen := make(map[string]struct{}, len(words))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if len(kept) < n-1 {
			kept = append(kept, w)
			continue
		}
		gram := make([]string, 0, n)
		for _, prev := range kept[len(kept)-(n-1):] {
			gram = append(gram, strings.ToLower(prev))
		}
		key := strings.Join(append(gram, strings.ToLower(w)), "\x00")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
