package telegram

import "strings"

// Characters reserved by the MarkdownV2 dialect.
const markdownV2Reserved = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 prefixes every reserved character with a backslash so the
// text is safe to send with parse_mode=MarkdownV2. The backslash itself is not
// in the reserved set, so applying the function twice doubles escapes.
func EscapeMarkdownV2(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownV2Reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
