package domain

import (
	"fmt"
	"strings"
)

type Purpose string

const (
	PurposeGaming        Purpose = "Gaming"
	PurposeDesign        Purpose = "Design"
	PurposeProgrammingAI Purpose = "Programming and AI"
	PurposeStudying      Purpose = "Studying"
)

type Locale string

const (
	LocaleArabic  Locale = "ar"
	LocaleEnglish Locale = "en"
)

func ParseLocale(raw string) (Locale, error) {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case "", LocaleArabic:
		return LocaleArabic, nil
	case LocaleEnglish:
		return LocaleEnglish, nil
	default:
		return "", fmt.Errorf("unsupported locale %q", raw)
	}
}

const purposeCallbackPrefix = "purpose:"

type purposeAliases struct {
	purpose Purpose
	key     string
	labels  map[Locale]string
	aliases []string
}

// purposeTable is ordered the way the purpose keyboard is laid out.
var purposeTable = []purposeAliases{
	{
		purpose: PurposeGaming,
		key:     "gaming",
		labels:  map[Locale]string{LocaleArabic: "🎮 الألعاب", LocaleEnglish: "🎮 Gaming"},
		aliases: []string{"gaming", "games", "/gaming", "الألعاب", "العاب", "ألعاب"},
	},
	{
		purpose: PurposeDesign,
		key:     "design",
		labels:  map[Locale]string{LocaleArabic: "🎨 التصميم", LocaleEnglish: "🎨 Design"},
		aliases: []string{"design", "/design", "التصميم", "تصميم"},
	},
	{
		purpose: PurposeProgrammingAI,
		key:     "programming",
		labels:  map[Locale]string{LocaleArabic: "💻 البرمجة والذكاء الاصطناعي", LocaleEnglish: "💻 Programming & AI"},
		aliases: []string{"programming", "programming and ai", "programming & ai", "ai", "/programming", "البرمجة", "برمجة", "البرمجة والذكاء الاصطناعي"},
	},
	{
		purpose: PurposeStudying,
		key:     "studying",
		labels:  map[Locale]string{LocaleArabic: "📚 الدراسة", LocaleEnglish: "📚 Studying"},
		aliases: []string{"studying", "study", "/studying", "الدراسة", "دراسة"},
	},
}

var purposeIndex = buildPurposeIndex()

func buildPurposeIndex() map[string]Purpose {
	index := make(map[string]Purpose)
	for _, row := range purposeTable {
		index[normalizeAlias(string(row.purpose))] = row.purpose
		index[normalizeAlias(purposeCallbackPrefix+row.key)] = row.purpose
		for _, label := range row.labels {
			index[normalizeAlias(label)] = row.purpose
		}
		for _, alias := range row.aliases {
			index[normalizeAlias(alias)] = row.purpose
		}
	}
	return index
}

func normalizeAlias(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// LookupPurpose resolves a button label, callback token, command alias or
// canonical tag. Matching is exact after trimming and case folding.
func LookupPurpose(input string) (Purpose, bool) {
	purpose, ok := purposeIndex[normalizeAlias(input)]
	return purpose, ok
}

func Purposes() []Purpose {
	purposes := make([]Purpose, 0, len(purposeTable))
	for _, row := range purposeTable {
		purposes = append(purposes, row.purpose)
	}
	return purposes
}

func (p Purpose) Valid() bool {
	_, ok := p.row()
	return ok
}

// Tag is the text matched against a catalog entry's purpose column.
func (p Purpose) Tag() string {
	return string(p)
}

func (p Purpose) Label(locale Locale) string {
	row, ok := p.row()
	if !ok {
		return string(p)
	}
	if label, ok := row.labels[locale]; ok {
		return label
	}
	return row.labels[LocaleArabic]
}

func (p Purpose) CallbackData() string {
	row, ok := p.row()
	if !ok {
		return ""
	}
	return purposeCallbackPrefix + row.key
}

func (p Purpose) row() (purposeAliases, bool) {
	for _, row := range purposeTable {
		if row.purpose == p {
			return row, true
		}
	}
	return purposeAliases{}, false
}
