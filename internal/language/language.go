package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 bibliographic alternate
	display string   // English name
	words   []string // Full word forms, including native script
}

var languages = []entry{
	{"te", "tel", "", "Telugu", []string{"telugu", "తెలుగు"}},
	{"en", "eng", "", "English", []string{"english"}},
	{"hi", "hin", "", "Hindi", []string{"hindi", "हिन्दी"}},
	{"ta", "tam", "", "Tamil", []string{"tamil", "தமிழ்"}},
	{"kn", "kan", "", "Kannada", []string{"kannada"}},
	{"ml", "mal", "", "Malayalam", []string{"malayalam"}},
	{"mr", "mar", "", "Marathi", []string{"marathi"}},
	{"bn", "ben", "", "Bengali", []string{"bengali", "bangla"}},
	{"gu", "guj", "", "Gujarati", []string{"gujarati"}},
	{"pa", "pan", "", "Punjabi", []string{"punjabi"}},
	{"ur", "urd", "", "Urdu", []string{"urdu"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func clean(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func lookup(code string) *entry {
	code = clean(code)
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// parseBase resolves codes outside the table, including region-qualified
// BCP 47 tags such as "te-IN".
func parseBase(code string) (xlanguage.Base, bool) {
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return xlanguage.Base{}, false
	}
	base, conf := tag.Base()
	if conf == xlanguage.No || base.String() == "und" {
		return xlanguage.Base{}, false
	}
	return base, true
}

// ToISO2 converts any recognized language code or word to ISO 639-1.
// Returns "" for unrecognized input, except that unknown 2-letter codes
// pass through.
func ToISO2(code string) string {
	code = clean(code)
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if base, ok := parseBase(code); ok {
		if s := base.String(); len(s) == 2 {
			return s
		}
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ToISO3 converts any recognized language code to ISO 639-2.
// Returns "und" for unrecognized input; unknown 3-letter codes pass through.
func ToISO3(code string) string {
	code = clean(code)
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if base, ok := parseBase(code); ok {
		return base.ISO3()
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// DisplayName returns the English name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code otherwise.
func DisplayName(code string) string {
	if clean(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	if base, ok := parseBase(clean(code)); ok {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Tag returns the BCP 47 tag for code, for APIs that take language.Tag.
func Tag(code string) (xlanguage.Tag, error) {
	iso2 := ToISO2(code)
	if iso2 == "" {
		iso2 = clean(code)
	}
	tag, err := xlanguage.Parse(iso2)
	if err != nil {
		return xlanguage.Und, fmt.Errorf("language %q: %w", code, err)
	}
	return tag, nil
}

// Known reports whether code resolves to a real language.
func Known(code string) bool {
	if lookup(code) != nil {
		return true
	}
	_, ok := parseBase(clean(code))
	return ok
}
